package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeriveOrders computes the derived view of every order whose product exists
// in the cost index. Orders referencing unknown products are skipped, which
// also keeps them out of arrivals, P&L, and cash flow downstream.
func (e *Engine) DeriveOrders(orders []PurchaseOrder, products map[string]Product, costs map[string]ProductCostSummary, params Parameters, asOf time.Time) []PurchaseOrderDerived {
	derived := make([]PurchaseOrderDerived, 0, len(orders))
	for _, po := range orders {
		d, ok := e.DeriveOrder(po, products, costs, params, asOf)
		if !ok {
			continue
		}
		derived = append(derived, d)
	}
	return derived
}

// DeriveOrder computes the stage schedule, blended costs, payment plan, and
// paid/remaining reconciliation for a single order. ok is false when the
// order's product is absent from the cost index.
func (e *Engine) DeriveOrder(po PurchaseOrder, products map[string]Product, costs map[string]ProductCostSummary, params Parameters, asOf time.Time) (PurchaseOrderDerived, bool) {
	cost, known := costs[po.ProductID]
	if !known {
		return PurchaseOrderDerived{}, false
	}

	schedule, leadDays := e.scheduleStages(po, products[po.ProductID])
	costing := e.blendBatches(po, products)

	landedUnit := costing.manufacturingUnit.
		Add(costing.freightUnit).
		Add(costing.tariffUnit).
		Add(cost.FBAFee).
		Add(cost.StoragePerMonth)
	supplierCostTotal := costing.manufacturingTotal.Add(costing.freightTotal).Add(costing.tariffTotal)
	plannedPOValue := cost.LandedUnitCost.Mul(costing.quantity)

	// The payment-plan denominator: supplier costs when they exist, else the
	// order's catalog value.
	denominator := supplierCostTotal
	if !denominator.IsPositive() {
		denominator = plannedPOValue
	}

	plan := buildPaymentPlan(po, schedule, costing, denominator, params)

	paid := decimal.Zero
	for _, rec := range po.Payments {
		if rec.AmountPaid != nil {
			paid = paid.Add(*rec.AmountPaid)
		}
	}
	totalPlanned := decimal.Zero
	for _, item := range plan {
		totalPlanned = totalPlanned.Add(item.PlannedAmount)
	}
	remaining := totalPlanned.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	d := PurchaseOrderDerived{
		OrderID:   po.ID,
		OrderCode: po.OrderCode,
		ProductID: po.ProductID,
		Quantity:  costing.quantity,

		Schedule:      schedule,
		TotalLeadDays: leadDays,

		ManufacturingUnitCost: costing.manufacturingUnit,
		FreightUnitCost:       costing.freightUnit,
		TariffUnitCost:        costing.tariffUnit,
		LandedUnitCost:        landedUnit,

		ManufacturingTotal: costing.manufacturingTotal,
		FreightTotal:       costing.freightTotal,
		TariffTotal:        costing.tariffTotal,
		SupplierCostTotal:  supplierCostTotal,
		PlannedPOValue:     plannedPOValue,

		PaymentPlan: plan,

		PaidAmount:          paid,
		PaidPercent:         safeDiv(paid, denominator),
		RemainingAmount:     remaining,
		RemainingPercent:    safeDiv(remaining, denominator),
		TotalPlannedAmount:  totalPlanned,
		TotalPlannedPercent: safeDiv(totalPlanned, denominator),
	}
	if !asOf.IsZero() {
		weeks := weeksUntil(asOf, schedule.AvailableDate)
		d.WeeksUntilArrival = &weeks
	}
	return d, true
}

// scheduleStages resolves the order's six-stage timeline. Production start is
// the PO date, else the recorded production start, else the order-creation
// timestamp; every later stage advances by its resolved week count unless an
// explicitly recorded date wins.
func (e *Engine) scheduleStages(po PurchaseOrder, product Product) (StageSchedule, int) {
	defaults := e.cfg.LeadTimes
	production := resolveDecimal(defaults.ProductionWeeks, po.ProductionWeeksOverride, product.ProductionWeeks)
	sourcePrep := resolveDecimal(defaults.SourcePrepWeeks, po.SourcePrepWeeksOverride, product.SourcePrepWeeks)
	ocean := resolveDecimal(defaults.OceanWeeks, po.OceanWeeksOverride, product.OceanWeeks)
	finalMile := resolveDecimal(defaults.FinalMileWeeks, po.FinalMileWeeksOverride, product.FinalMileWeeks)

	start := po.CreatedAt
	if po.PODate != nil {
		start = *po.PODate
	} else if po.ProductionStart != nil {
		start = *po.ProductionStart
	}

	var s StageSchedule
	s.ProductionStart = dayUTC(start)
	s.ProductionComplete = nextStageDate(s.ProductionStart, po.ProductionComplete, production)
	s.SourceDeparture = nextStageDate(s.ProductionComplete, po.SourceDeparture, sourcePrep)
	s.PortEta = nextStageDate(s.SourceDeparture, po.PortEta, ocean)
	s.InboundEta = nextStageDate(s.PortEta, po.InboundEta, finalMile)
	s.AvailableDate = nextStageDate(s.InboundEta, po.AvailableDate, defaults.ReceivingWeeks)

	leadDays := weeksToDays(production) + weeksToDays(sourcePrep) + weeksToDays(ocean) + weeksToDays(finalMile)
	return s, leadDays
}

// nextStageDate advances the schedule by a stage's week count unless an
// explicitly recorded date wins.
func nextStageDate(prev time.Time, recorded *time.Time, weeks decimal.Decimal) time.Time {
	if recorded != nil {
		return dayUTC(*recorded)
	}
	return prev.AddDate(0, 0, weeksToDays(weeks))
}

// orderCosting carries the quantity-weighted cost blend across an order's batches.
type orderCosting struct {
	quantity           decimal.Decimal
	manufacturingUnit  decimal.Decimal
	freightUnit        decimal.Decimal
	tariffUnit         decimal.Decimal
	manufacturingTotal decimal.Decimal
	freightTotal       decimal.Decimal
	tariffTotal        decimal.Decimal
}

// blendBatches accumulates quantity-weighted costs across the order's batches.
// A batchless order derives through one implicit batch carrying the order's
// own product and quantity. Batches with non-positive quantities or unknown
// products are skipped. Each cost field resolves batch override, then order
// override, then the product catalog value; the tariff unit cost is an
// explicit batch override, else manufacturing unit × resolved tariff rate.
func (e *Engine) blendBatches(po PurchaseOrder, products map[string]Product) orderCosting {
	batches := po.Batches
	if len(batches) == 0 {
		batches = []PurchaseOrderBatch{{ProductID: po.ProductID, Quantity: po.Quantity}}
	}

	var c orderCosting
	for _, b := range batches {
		if !b.Quantity.IsPositive() {
			continue
		}
		product, ok := products[b.ProductID]
		if !ok {
			continue
		}
		mfgUnit := resolveDecimal(product.ManufacturingCost, b.ManufacturingCostOverride, po.ManufacturingCostOverride)
		freightUnit := resolveDecimal(product.FreightCost, b.FreightCostOverride, po.FreightCostOverride)
		tariffRate := resolveDecimal(product.TariffRate, b.TariffRateOverride, po.TariffRateOverride)
		tariffUnit := mfgUnit.Mul(tariffRate)
		if b.TariffUnitCostOverride != nil {
			tariffUnit = *b.TariffUnitCostOverride
		}

		c.quantity = c.quantity.Add(b.Quantity)
		c.manufacturingTotal = c.manufacturingTotal.Add(mfgUnit.Mul(b.Quantity))
		c.freightTotal = c.freightTotal.Add(freightUnit.Mul(b.Quantity))
		c.tariffTotal = c.tariffTotal.Add(tariffUnit.Mul(b.Quantity))
	}

	if !c.quantity.IsPositive() {
		// No batch contributed; fall back to the flat order quantity.
		c.quantity = po.Quantity
	}
	c.manufacturingUnit = safeDiv(c.manufacturingTotal, c.quantity)
	c.freightUnit = safeDiv(c.freightTotal, c.quantity)
	c.tariffUnit = safeDiv(c.tariffTotal, c.quantity)
	return c
}

// paymentLineSpec declares one canonical payment-plan line: its baseline
// amount and default due date as functions of the order's costing and schedule.
type paymentLineSpec struct {
	index    int
	category PaymentCategory
	label    string
	baseline func(c orderCosting, split [3]decimal.Decimal) decimal.Decimal
	dueDate  func(s StageSchedule, termsDays int) time.Time
}

// paymentPlanLines is the canonical five-line supplier payment plan: three
// manufacturing installments, one freight line, one tariff line. Supplier
// credit terms shift only the final installment.
var paymentPlanLines = []paymentLineSpec{
	{1, PaymentCategoryManufacturing, "Deposit",
		func(c orderCosting, split [3]decimal.Decimal) decimal.Decimal { return c.manufacturingTotal.Mul(split[0]) },
		func(s StageSchedule, termsDays int) time.Time { return s.ProductionStart }},
	{2, PaymentCategoryManufacturing, "Mid payment",
		func(c orderCosting, split [3]decimal.Decimal) decimal.Decimal { return c.manufacturingTotal.Mul(split[1]) },
		func(s StageSchedule, termsDays int) time.Time { return s.ProductionComplete }},
	{3, PaymentCategoryManufacturing, "Final payment",
		func(c orderCosting, split [3]decimal.Decimal) decimal.Decimal { return c.manufacturingTotal.Mul(split[2]) },
		func(s StageSchedule, termsDays int) time.Time { return s.PortEta.AddDate(0, 0, termsDays) }},
	{4, PaymentCategoryFreight, "Freight",
		func(c orderCosting, split [3]decimal.Decimal) decimal.Decimal { return c.freightTotal },
		func(s StageSchedule, termsDays int) time.Time { return s.PortEta }},
	{5, PaymentCategoryTariff, "Tariff",
		func(c orderCosting, split [3]decimal.Decimal) decimal.Decimal { return c.tariffTotal },
		func(s StageSchedule, termsDays int) time.Time { return s.InboundEta }},
}

// buildPaymentPlan generates the canonical lines and resolves each against
// any recorded payment sharing its index. Planned amount priority: explicit
// amount override, recorded expected amount, explicit percentage of the
// denominator, baseline. User-entered due dates are never recomputed; system
// dates are always refreshed. Lines with no planned amount and no recorded
// positive payment are dropped.
func buildPaymentPlan(po PurchaseOrder, schedule StageSchedule, costing orderCosting, denominator decimal.Decimal, params Parameters) []PaymentPlanItem {
	recordsByIndex := make(map[int]PaymentRecord, len(po.Payments))
	for _, rec := range po.Payments {
		recordsByIndex[rec.Index] = rec
	}
	termsDays := weeksToDays(params.SupplierPaymentTermsWeeks)

	items := make([]PaymentPlanItem, 0, len(paymentPlanLines))
	for _, spec := range paymentPlanLines {
		item := PaymentPlanItem{
			Index:         spec.index,
			Category:      spec.category,
			Label:         spec.label,
			DueDate:       spec.dueDate(schedule, termsDays),
			DueDateSource: DueDateSourceSystem,
		}
		planned := spec.baseline(costing, params.SupplierPaymentSplit)

		if rec, ok := recordsByIndex[spec.index]; ok {
			switch {
			case rec.AmountOverride != nil:
				planned = *rec.AmountOverride
			case rec.AmountExpected != nil:
				planned = *rec.AmountExpected
			case rec.Percentage != nil:
				planned = normalizeFraction(*rec.Percentage).Mul(denominator)
			}
			item.AmountPaid = rec.AmountPaid
			if rec.DueDateSource == DueDateSourceUser && rec.DueDate != nil {
				item.DueDate = dayUTC(*rec.DueDate)
				item.DueDateSource = DueDateSourceUser
			}
		}

		item.PlannedAmount = planned
		item.PlannedPercent = safeDiv(planned, denominator)

		hasPaid := item.AmountPaid != nil && item.AmountPaid.IsPositive()
		if !planned.IsPositive() && !hasPaid {
			continue
		}
		items = append(items, item)
	}
	return items
}

// weeksUntil returns the whole weeks from asOf until arrival, rounded up and
// clamped at zero for dates already past.
func weeksUntil(asOf, arrival time.Time) int {
	days := int(dayUTC(arrival).Sub(dayUTC(asOf)).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return (days + 6) / 7
}
