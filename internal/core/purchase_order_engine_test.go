package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/progami/ecom-os-sub001/internal/core"
)

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func dateEqual(t *testing.T, name string, got, want time.Time) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func widgetProduct() core.Product {
	return core.Product{
		ID:                "p1",
		Name:              "Widget",
		SKU:               "W-1",
		SellingPrice:      dec("10"),
		ManufacturingCost: dec("3"),
		FreightCost:       dec("1"),
		TariffRate:        dec("0.1"),
	}
}

func deriveWidgetOrder(t *testing.T, po core.PurchaseOrder, params core.Parameters, asOf time.Time) core.PurchaseOrderDerived {
	t.Helper()
	products := map[string]core.Product{"p1": widgetProduct()}
	costs := core.BuildCostIndex([]core.Product{widgetProduct()}, core.TariffOnSellingPrice)
	engine := core.NewEngine(core.DefaultEngineConfig())
	derived, ok := engine.DeriveOrder(po, products, costs, params, asOf)
	if !ok {
		t.Fatalf("DeriveOrder dropped order %s", po.ID)
	}
	return derived
}

func TestDeriveOrder_BaselinePlanAndSchedule(t *testing.T) {
	po := core.PurchaseOrder{
		ID:        "po1",
		OrderCode: "PO-001",
		ProductID: "p1",
		Quantity:  dec("1000"),
		CreatedAt: date(2025, 1, 6),
	}
	d := deriveWidgetOrder(t, po, core.DefaultParameters(), date(2025, 1, 6))

	dateEqual(t, "production start", d.Schedule.ProductionStart, date(2025, 1, 6))
	dateEqual(t, "production complete", d.Schedule.ProductionComplete, date(2025, 2, 3))
	dateEqual(t, "source departure", d.Schedule.SourceDeparture, date(2025, 2, 10))
	dateEqual(t, "port eta", d.Schedule.PortEta, date(2025, 3, 10))
	dateEqual(t, "inbound eta", d.Schedule.InboundEta, date(2025, 3, 17))
	dateEqual(t, "available date", d.Schedule.AvailableDate, date(2025, 3, 17))
	if d.TotalLeadDays != 70 {
		t.Errorf("total lead days = %d, want 70", d.TotalLeadDays)
	}
	if d.WeeksUntilArrival == nil || *d.WeeksUntilArrival != 10 {
		t.Errorf("weeks until arrival = %v, want 10", d.WeeksUntilArrival)
	}

	decEqual(t, "manufacturing total", d.ManufacturingTotal, dec("3000"))
	decEqual(t, "freight total", d.FreightTotal, dec("1000"))
	decEqual(t, "tariff total", d.TariffTotal, dec("300"))
	decEqual(t, "supplier cost total", d.SupplierCostTotal, dec("4300"))
	decEqual(t, "planned po value", d.PlannedPOValue, dec("5000"))
	decEqual(t, "landed unit cost", d.LandedUnitCost, dec("4.3"))

	if len(d.PaymentPlan) != 5 {
		t.Fatalf("payment plan has %d lines, want 5", len(d.PaymentPlan))
	}
	wantAmounts := []string{"750", "750", "1500", "1000", "300"}
	wantDue := []time.Time{
		date(2025, 1, 6), date(2025, 2, 3), date(2025, 3, 10), date(2025, 3, 10), date(2025, 3, 17),
	}
	planSum := decimal.Zero
	for i, item := range d.PaymentPlan {
		decEqual(t, item.Label+" amount", item.PlannedAmount, dec(wantAmounts[i]))
		dateEqual(t, item.Label+" due date", item.DueDate, wantDue[i])
		if item.DueDateSource != core.DueDateSourceSystem {
			t.Errorf("%s due date source = %s, want SYSTEM", item.Label, item.DueDateSource)
		}
		planSum = planSum.Add(item.PlannedAmount)
	}
	decEqual(t, "plan sum", planSum, d.SupplierCostTotal)

	decEqual(t, "paid amount", d.PaidAmount, decimal.Zero)
	decEqual(t, "total planned", d.TotalPlannedAmount, dec("4300"))
	decEqual(t, "remaining amount", d.RemainingAmount, dec("4300"))
	decEqual(t, "total planned percent", d.TotalPlannedPercent, dec("1"))
}

func TestDeriveOrder_RecordedStageDatesWin(t *testing.T) {
	po := core.PurchaseOrder{
		ID:        "po1",
		ProductID: "p1",
		Quantity:  dec("100"),
		CreatedAt: date(2025, 1, 6),
		PODate:    datePtr(2025, 1, 13),
		PortEta:   datePtr(2025, 3, 3),
	}
	d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

	dateEqual(t, "production start", d.Schedule.ProductionStart, date(2025, 1, 13))
	dateEqual(t, "port eta", d.Schedule.PortEta, date(2025, 3, 3))
	// Later stages chain from the recorded date, not the computed one.
	dateEqual(t, "inbound eta", d.Schedule.InboundEta, date(2025, 3, 10))
	dateEqual(t, "available date", d.Schedule.AvailableDate, date(2025, 3, 10))
	if d.WeeksUntilArrival != nil {
		t.Errorf("weeks until arrival = %v, want nil without as-of date", d.WeeksUntilArrival)
	}
}

func TestDeriveOrder_WeekCountOverrideChain(t *testing.T) {
	product := widgetProduct()
	product.ProductionWeeks = decPtr("2")
	product.OceanWeeks = decPtr("6")
	products := map[string]core.Product{"p1": product}
	costs := core.BuildCostIndex([]core.Product{product}, core.TariffOnSellingPrice)
	engine := core.NewEngine(core.DefaultEngineConfig())

	po := core.PurchaseOrder{
		ID:                      "po1",
		ProductID:               "p1",
		Quantity:                dec("100"),
		CreatedAt:               date(2025, 1, 6),
		ProductionWeeksOverride: decPtr("3"),
	}
	d, ok := engine.DeriveOrder(po, products, costs, core.DefaultParameters(), time.Time{})
	if !ok {
		t.Fatal("DeriveOrder dropped order")
	}

	// Production: order override 3w beats product profile 2w.
	dateEqual(t, "production complete", d.Schedule.ProductionComplete, date(2025, 1, 27))
	// Source prep: engine default 1w.
	dateEqual(t, "source departure", d.Schedule.SourceDeparture, date(2025, 2, 3))
	// Ocean: product profile 6w beats engine default 4w.
	dateEqual(t, "port eta", d.Schedule.PortEta, date(2025, 3, 17))
	if d.TotalLeadDays != 77 {
		t.Errorf("total lead days = %d, want 77", d.TotalLeadDays)
	}
}

func TestDeriveOrder_BatchBlending(t *testing.T) {
	po := core.PurchaseOrder{
		ID:        "po1",
		ProductID: "p1",
		Quantity:  dec("999"), // ignored while batches contribute
		CreatedAt: date(2025, 1, 6),
		Batches: []core.PurchaseOrderBatch{
			{ID: "b1", ProductID: "p1", Quantity: dec("600")},
			{ID: "b2", ProductID: "p1", Quantity: dec("400"), ManufacturingCostOverride: decPtr("4")},
		},
	}
	d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

	decEqual(t, "quantity", d.Quantity, dec("1000"))
	// 600×3 + 400×4
	decEqual(t, "manufacturing total", d.ManufacturingTotal, dec("3400"))
	decEqual(t, "manufacturing unit", d.ManufacturingUnitCost, dec("3.4"))
	// tariff follows each batch's manufacturing unit: 600×0.3 + 400×0.4
	decEqual(t, "tariff total", d.TariffTotal, dec("340"))
	decEqual(t, "freight total", d.FreightTotal, dec("1000"))
}

func TestDeriveOrder_OverridePrecedence(t *testing.T) {
	po := core.PurchaseOrder{
		ID:                        "po1",
		ProductID:                 "p1",
		Quantity:                  dec("100"),
		CreatedAt:                 date(2025, 1, 6),
		ManufacturingCostOverride: decPtr("5"),
		Batches: []core.PurchaseOrderBatch{
			{ID: "b1", ProductID: "p1", Quantity: dec("50")},
			{ID: "b2", ProductID: "p1", Quantity: dec("50"), ManufacturingCostOverride: decPtr("4")},
			{ID: "b3", ProductID: "p1", Quantity: dec("100"), TariffUnitCostOverride: decPtr("0.25")},
		},
	}
	d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

	// b1 uses the order override 5, b2 its own 4, b3 the order override 5.
	decEqual(t, "manufacturing total", d.ManufacturingTotal, dec("950"))
	// b1: 50×0.5, b2: 50×0.4, b3 explicit unit 0.25×100.
	decEqual(t, "tariff total", d.TariffTotal, dec("70"))
}

func TestDeriveOrder_UnknownProducts(t *testing.T) {
	products := map[string]core.Product{"p1": widgetProduct()}
	costs := core.BuildCostIndex([]core.Product{widgetProduct()}, core.TariffOnSellingPrice)
	engine := core.NewEngine(core.DefaultEngineConfig())

	t.Run("order with unknown product is dropped", func(t *testing.T) {
		orders := []core.PurchaseOrder{
			{ID: "po1", ProductID: "p1", Quantity: dec("10"), CreatedAt: date(2025, 1, 6)},
			{ID: "po2", ProductID: "ghost", Quantity: dec("10"), CreatedAt: date(2025, 1, 6)},
		}
		derived := engine.DeriveOrders(orders, products, costs, core.DefaultParameters(), time.Time{})
		if len(derived) != 1 || derived[0].OrderID != "po1" {
			t.Fatalf("derived orders = %+v, want only po1", derived)
		}
	})

	t.Run("batch with unknown product is skipped", func(t *testing.T) {
		po := core.PurchaseOrder{
			ID:        "po1",
			ProductID: "p1",
			Quantity:  dec("500"),
			CreatedAt: date(2025, 1, 6),
			Batches: []core.PurchaseOrderBatch{
				{ID: "b1", ProductID: "p1", Quantity: dec("300")},
				{ID: "b2", ProductID: "ghost", Quantity: dec("200")},
			},
		}
		d, ok := engine.DeriveOrder(po, products, costs, core.DefaultParameters(), time.Time{})
		if !ok {
			t.Fatal("DeriveOrder dropped order")
		}
		decEqual(t, "quantity", d.Quantity, dec("300"))
		decEqual(t, "manufacturing total", d.ManufacturingTotal, dec("900"))
	})
}

func TestDeriveOrder_FallbackDenominator(t *testing.T) {
	// Every batch is unusable, so supplier totals are zero and the catalog
	// PO value becomes the payment denominator.
	po := core.PurchaseOrder{
		ID:        "po1",
		ProductID: "p1",
		Quantity:  dec("1000"),
		CreatedAt: date(2025, 1, 6),
		Batches: []core.PurchaseOrderBatch{
			{ID: "b1", ProductID: "p1", Quantity: dec("0")},
		},
		Payments: []core.PaymentRecord{
			{Index: 1, Percentage: decPtr("50"), AmountPaid: decPtr("1000")},
		},
	}
	d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

	decEqual(t, "quantity", d.Quantity, dec("1000"))
	decEqual(t, "supplier cost total", d.SupplierCostTotal, decimal.Zero)
	decEqual(t, "planned po value", d.PlannedPOValue, dec("5000"))

	if len(d.PaymentPlan) != 1 {
		t.Fatalf("payment plan has %d lines, want 1", len(d.PaymentPlan))
	}
	decEqual(t, "deposit planned", d.PaymentPlan[0].PlannedAmount, dec("2500"))
	decEqual(t, "paid amount", d.PaidAmount, dec("1000"))
	decEqual(t, "remaining amount", d.RemainingAmount, dec("1500"))
	decEqual(t, "paid percent", d.PaidPercent, dec("0.2"))
}

func TestDeriveOrder_PaymentResolution(t *testing.T) {
	base := core.PurchaseOrder{
		ID:        "po1",
		ProductID: "p1",
		Quantity:  dec("1000"),
		CreatedAt: date(2025, 1, 6),
	}

	t.Run("amount override beats expected beats percentage", func(t *testing.T) {
		po := base
		po.Payments = []core.PaymentRecord{
			{Index: 1, AmountOverride: decPtr("800"), AmountExpected: decPtr("700"), Percentage: decPtr("10")},
			{Index: 2, AmountExpected: decPtr("600"), Percentage: decPtr("10")},
			{Index: 3, Percentage: decPtr("10")},
		}
		d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

		decEqual(t, "deposit", d.PaymentPlan[0].PlannedAmount, dec("800"))
		decEqual(t, "mid payment", d.PaymentPlan[1].PlannedAmount, dec("600"))
		// 10% of the 4300 denominator.
		decEqual(t, "final payment", d.PaymentPlan[2].PlannedAmount, dec("430"))
	})

	t.Run("user due date kept, system due date refreshed", func(t *testing.T) {
		po := base
		po.Payments = []core.PaymentRecord{
			{Index: 1, DueDate: datePtr(2025, 1, 20), DueDateSource: core.DueDateSourceUser},
			{Index: 2, DueDate: datePtr(2020, 1, 1), DueDateSource: core.DueDateSourceSystem},
		}
		d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

		dateEqual(t, "deposit due", d.PaymentPlan[0].DueDate, date(2025, 1, 20))
		if d.PaymentPlan[0].DueDateSource != core.DueDateSourceUser {
			t.Errorf("deposit source = %s, want USER", d.PaymentPlan[0].DueDateSource)
		}
		dateEqual(t, "mid payment due", d.PaymentPlan[1].DueDate, date(2025, 2, 3))
		if d.PaymentPlan[1].DueDateSource != core.DueDateSourceSystem {
			t.Errorf("mid payment source = %s, want SYSTEM", d.PaymentPlan[1].DueDateSource)
		}
	})

	t.Run("zero planned line kept when a payment was recorded", func(t *testing.T) {
		po := base
		po.Payments = []core.PaymentRecord{
			{Index: 2, AmountOverride: decPtr("0"), AmountPaid: decPtr("500")},
			{Index: 3, AmountOverride: decPtr("0")},
		}
		d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

		labels := make([]string, 0, len(d.PaymentPlan))
		for _, item := range d.PaymentPlan {
			labels = append(labels, item.Label)
		}
		want := []string{"Deposit", "Mid payment", "Freight", "Tariff"}
		if len(labels) != len(want) {
			t.Fatalf("plan labels = %v, want %v", labels, want)
		}
		for i := range want {
			if labels[i] != want[i] {
				t.Fatalf("plan labels = %v, want %v", labels, want)
			}
		}
	})

	t.Run("supplier terms shift only the final installment", func(t *testing.T) {
		params := core.DefaultParameters()
		params.SupplierPaymentTermsWeeks = dec("2")
		d := deriveWidgetOrder(t, base, params, time.Time{})

		// Port ETA is 2025-03-10; the final installment slides two weeks.
		dateEqual(t, "final payment due", d.PaymentPlan[2].DueDate, date(2025, 3, 24))
		dateEqual(t, "freight due", d.PaymentPlan[3].DueDate, date(2025, 3, 10))
	})
}

func TestDeriveOrder_ReconciliationProperty(t *testing.T) {
	po := core.PurchaseOrder{
		ID:        "po1",
		ProductID: "p1",
		Quantity:  dec("1000"),
		CreatedAt: date(2025, 1, 6),
		Payments: []core.PaymentRecord{
			{Index: 1, AmountPaid: decPtr("750")},
			{Index: 2, AmountPaid: decPtr("250")},
		},
	}
	d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

	decEqual(t, "paid amount", d.PaidAmount, dec("1000"))
	decEqual(t, "remaining amount", d.RemainingAmount, dec("3300"))

	sum := d.PaidPercent.Add(d.RemainingPercent)
	if sum.Sub(d.TotalPlannedPercent).Abs().GreaterThan(dec("0.0000000001")) {
		t.Errorf("paid%% + remaining%% = %s, want %s", sum, d.TotalPlannedPercent)
	}
}

func TestDeriveOrder_PaidNeverNegativeRemaining(t *testing.T) {
	po := core.PurchaseOrder{
		ID:        "po1",
		ProductID: "p1",
		Quantity:  dec("1000"),
		CreatedAt: date(2025, 1, 6),
		Payments: []core.PaymentRecord{
			{Index: 1, AmountPaid: decPtr("9000")},
		},
	}
	d := deriveWidgetOrder(t, po, core.DefaultParameters(), time.Time{})

	decEqual(t, "paid amount", d.PaidAmount, dec("9000"))
	decEqual(t, "remaining amount", d.RemainingAmount, decimal.Zero)
	decEqual(t, "remaining percent", d.RemainingPercent, decimal.Zero)
}
