package core

import (
	"fmt"
	"time"
)

// Snapshot is the complete engine input: one consistent view of the planning
// data assembled by the persistence collaborator. AsOf anchors "today" for
// arrival countdowns; a zero AsOf leaves them unset.
type Snapshot struct {
	AsOf            time.Time            `json:"as_of,omitempty"`
	Products        []Product            `json:"products"`
	Parameters      []BusinessParameter  `json:"parameters,omitempty"`
	PurchaseOrders  []PurchaseOrder      `json:"purchase_orders,omitempty"`
	SalesWeeks      []SalesWeek          `json:"sales_weeks,omitempty"`
	CogsAllocations []CogsAllocation     `json:"cogs_allocations,omitempty"`
	PLOverrides     []ProfitLossOverride `json:"pl_overrides,omitempty"`
	CashOverrides   []CashFlowOverride   `json:"cash_overrides,omitempty"`
}

// Validate rejects structurally broken input: records without identifiers or
// sales rows without a usable week number. These indicate an upstream mapping
// bug; everything softer degrades silently during derivation instead.
func (s *Snapshot) Validate() error {
	for i, p := range s.Products {
		if p.ID == "" {
			return fmt.Errorf("product %d: missing id", i)
		}
	}
	for i, po := range s.PurchaseOrders {
		if po.ID == "" {
			return fmt.Errorf("purchase order %d: missing id", i)
		}
		if po.ProductID == "" {
			return fmt.Errorf("purchase order %s: missing product id", po.ID)
		}
	}
	for i, sw := range s.SalesWeeks {
		if sw.ProductID == "" {
			return fmt.Errorf("sales week %d: missing product id", i)
		}
		if sw.WeekNumber <= 0 {
			return fmt.Errorf("sales week %d: week number %d is not positive", i, sw.WeekNumber)
		}
	}
	return nil
}

// ProfitLossStatement bundles the weekly P&L with its period rollups.
type ProfitLossStatement struct {
	Weeks    []ProfitLossWeek    `json:"weeks"`
	Months   []ProfitLossSummary `json:"months"`
	Quarters []ProfitLossSummary `json:"quarters"`
}

// CashFlowStatement bundles the weekly cash flow with its period rollups.
type CashFlowStatement struct {
	Weeks    []CashFlowWeek    `json:"weeks"`
	Months   []CashFlowSummary `json:"months"`
	Quarters []CashFlowSummary `json:"quarters"`
}

// Plan is the complete derived output of one engine run over one snapshot.
type Plan struct {
	Parameters    Parameters             `json:"parameters"`
	YearSegments  []YearSegment          `json:"year_segments,omitempty"`
	CostSummaries []ProductCostSummary   `json:"cost_summaries"`
	Orders        []PurchaseOrderDerived `json:"orders"`
	SalesWeeks    []SalesWeekDerived     `json:"sales_weeks"`
	ProfitLoss    ProfitLossStatement    `json:"profit_loss"`
	CashFlow      CashFlowStatement      `json:"cash_flow"`
}

// BuildPlan runs the full derivation pipeline: calendar, cost index,
// parameter normalization, order derivation, sales projection, P&L, and cash
// flow, in dependency order. The snapshot is not mutated; every derived
// record is computed fresh.
func (e *Engine) BuildPlan(snapshot *Snapshot) (*Plan, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("build plan: nil snapshot")
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	params := NormalizeParameters(snapshot.Parameters)
	costs := BuildCostIndex(snapshot.Products, e.cfg.TariffBasis)
	products := make(map[string]Product, len(snapshot.Products))
	for _, p := range snapshot.Products {
		products[p.ID] = p
	}
	cal := BuildWeekCalendar(weekObservations(snapshot.SalesWeeks))

	orders := e.DeriveOrders(snapshot.PurchaseOrders, products, costs, params, snapshot.AsOf)
	salesWeeks := e.ProjectSales(snapshot.SalesWeeks, orders, cal, params)
	pl := e.BuildProfitLoss(salesWeeks, costs, snapshot.CogsAllocations, snapshot.PLOverrides, cal, params)
	cash := e.BuildCashFlow(pl, orders, snapshot.CashOverrides, cal, params)

	summaries := make([]ProductCostSummary, 0, len(snapshot.Products))
	for _, p := range snapshot.Products {
		summaries = append(summaries, costs[p.ID])
	}

	return &Plan{
		Parameters:    params,
		YearSegments:  cal.YearSegments(),
		CostSummaries: summaries,
		Orders:        orders,
		SalesWeeks:    salesWeeks,
		ProfitLoss: ProfitLossStatement{
			Weeks:    pl,
			Months:   SummarizeProfitLossMonthly(pl),
			Quarters: SummarizeProfitLossQuarterly(pl),
		},
		CashFlow: CashFlowStatement{
			Weeks:    cash,
			Months:   SummarizeCashFlowMonthly(cash),
			Quarters: SummarizeCashFlowQuarterly(cash),
		},
	}, nil
}

// weekObservations lifts the (week number, date) pairs out of the sales rows.
// The calendar handles duplicates and missing dates itself.
func weekObservations(rows []SalesWeek) []WeekObservation {
	obs := make([]WeekObservation, 0, len(rows))
	for _, row := range rows {
		obs = append(obs, WeekObservation{WeekNumber: row.WeekNumber, Date: row.WeekDate})
	}
	return obs
}
