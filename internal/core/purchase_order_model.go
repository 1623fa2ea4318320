package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueDateSource records who owns a payment line's due date. User-entered
// dates are never overwritten by recomputation; system dates always are.
type DueDateSource string

const (
	DueDateSourceUser   DueDateSource = "USER"
	DueDateSourceSystem DueDateSource = "SYSTEM"
)

// PaymentCategory classifies a payment-plan line.
type PaymentCategory string

const (
	PaymentCategoryManufacturing PaymentCategory = "manufacturing"
	PaymentCategoryFreight       PaymentCategory = "freight"
	PaymentCategoryTariff        PaymentCategory = "tariff"
)

// PurchaseOrderBatch is a sub-shipment of a purchase order, possibly with its
// own product and cost overrides.
type PurchaseOrderBatch struct {
	ID                        string           `json:"id"`
	ProductID                 string           `json:"product_id"`
	Quantity                  decimal.Decimal  `json:"quantity"`
	ManufacturingCostOverride *decimal.Decimal `json:"manufacturing_cost_override,omitempty"`
	FreightCostOverride       *decimal.Decimal `json:"freight_cost_override,omitempty"`
	TariffRateOverride        *decimal.Decimal `json:"tariff_rate_override,omitempty"`
	TariffUnitCostOverride    *decimal.Decimal `json:"tariff_unit_cost_override,omitempty"`
}

// PaymentRecord is one stored installment row on a purchase order. Index is
// 1-based and matches the canonical payment-plan line positions.
type PaymentRecord struct {
	Index          int              `json:"index"`
	Percentage     *decimal.Decimal `json:"percentage,omitempty"`
	AmountOverride *decimal.Decimal `json:"amount_override,omitempty"`
	AmountExpected *decimal.Decimal `json:"amount_expected,omitempty"`
	AmountPaid     *decimal.Decimal `json:"amount_paid,omitempty"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	DueDateSource  DueDateSource    `json:"due_date_source,omitempty"`
}

// PurchaseOrder is the raw order record supplied by the persistence
// collaborator. Recorded stage dates and cost overrides are nullable; the
// derivation engine fills every gap.
type PurchaseOrder struct {
	ID        string          `json:"id"`
	OrderCode string          `json:"order_code"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	PODate    *time.Time      `json:"po_date,omitempty"`

	// Recorded stage dates. Any explicit date beats the computed schedule.
	ProductionStart    *time.Time `json:"production_start,omitempty"`
	ProductionComplete *time.Time `json:"production_complete,omitempty"`
	SourceDeparture    *time.Time `json:"source_departure,omitempty"`
	PortEta            *time.Time `json:"port_eta,omitempty"`
	InboundEta         *time.Time `json:"inbound_eta,omitempty"`
	AvailableDate      *time.Time `json:"available_date,omitempty"`

	// Per-order stage week counts; beaten only by nothing, beats the
	// product profile and the engine defaults.
	ProductionWeeksOverride *decimal.Decimal `json:"production_weeks_override,omitempty"`
	SourcePrepWeeksOverride *decimal.Decimal `json:"source_prep_weeks_override,omitempty"`
	OceanWeeksOverride      *decimal.Decimal `json:"ocean_weeks_override,omitempty"`
	FinalMileWeeksOverride  *decimal.Decimal `json:"final_mile_weeks_override,omitempty"`

	// Per-order cost overrides, middle link of the batch > order > catalog chain.
	ManufacturingCostOverride *decimal.Decimal `json:"manufacturing_cost_override,omitempty"`
	FreightCostOverride       *decimal.Decimal `json:"freight_cost_override,omitempty"`
	TariffRateOverride        *decimal.Decimal `json:"tariff_rate_override,omitempty"`

	Batches  []PurchaseOrderBatch `json:"batches,omitempty"`
	Payments []PaymentRecord      `json:"payments,omitempty"`
}

// StageSchedule holds the fully resolved supply-chain timeline of an order.
// Every date is non-zero: the fallback chain always produces one.
type StageSchedule struct {
	ProductionStart    time.Time `json:"production_start"`
	ProductionComplete time.Time `json:"production_complete"`
	SourceDeparture    time.Time `json:"source_departure"`
	PortEta            time.Time `json:"port_eta"`
	InboundEta         time.Time `json:"inbound_eta"`
	AvailableDate      time.Time `json:"available_date"`
}

// PaymentPlanItem is one generated payment-plan line after override
// resolution and reconciliation against recorded payments.
type PaymentPlanItem struct {
	Index          int              `json:"index"`
	Category       PaymentCategory  `json:"category"`
	Label          string           `json:"label"`
	PlannedAmount  decimal.Decimal  `json:"planned_amount"`
	PlannedPercent decimal.Decimal  `json:"planned_percent"`
	AmountPaid     *decimal.Decimal `json:"amount_paid,omitempty"`
	DueDate        time.Time        `json:"due_date"`
	DueDateSource  DueDateSource    `json:"due_date_source"`
}

// PurchaseOrderDerived is the fully computed view of one order: schedule,
// blended costs, payment plan, and paid/remaining reconciliation.
type PurchaseOrderDerived struct {
	OrderID   string          `json:"order_id"`
	OrderCode string          `json:"order_code"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`

	Schedule          StageSchedule `json:"schedule"`
	TotalLeadDays     int           `json:"total_lead_days"`
	WeeksUntilArrival *int          `json:"weeks_until_arrival,omitempty"`

	ManufacturingUnitCost decimal.Decimal `json:"manufacturing_unit_cost"`
	FreightUnitCost       decimal.Decimal `json:"freight_unit_cost"`
	TariffUnitCost        decimal.Decimal `json:"tariff_unit_cost"`
	LandedUnitCost        decimal.Decimal `json:"landed_unit_cost"`

	ManufacturingTotal decimal.Decimal `json:"manufacturing_total"`
	FreightTotal       decimal.Decimal `json:"freight_total"`
	TariffTotal        decimal.Decimal `json:"tariff_total"`
	SupplierCostTotal  decimal.Decimal `json:"supplier_cost_total"`
	PlannedPOValue     decimal.Decimal `json:"planned_po_value"`

	PaymentPlan []PaymentPlanItem `json:"payment_plan"`

	PaidAmount          decimal.Decimal `json:"paid_amount"`
	PaidPercent         decimal.Decimal `json:"paid_percent"`
	RemainingAmount     decimal.Decimal `json:"remaining_amount"`
	RemainingPercent    decimal.Decimal `json:"remaining_percent"`
	TotalPlannedAmount  decimal.Decimal `json:"total_planned_amount"`
	TotalPlannedPercent decimal.Decimal `json:"total_planned_percent"`
}

// ArrivalDate is the date the order's stock becomes sellable: the available
// date when resolved, else the inbound ETA.
func (d PurchaseOrderDerived) ArrivalDate() time.Time {
	if !d.Schedule.AvailableDate.IsZero() {
		return d.Schedule.AvailableDate
	}
	return d.Schedule.InboundEta
}
