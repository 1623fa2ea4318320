package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CogsAllocation attributes sold units in a week to a source order at that
// order's landed cost. When any allocations exist for a (product, week), the
// P&L costs that week from them instead of the blended catalog rate, which
// gives FIFO-style costing across orders with different unit costs.
type CogsAllocation struct {
	ProductID  string          `json:"product_id"`
	WeekNumber int             `json:"week_number"`
	OrderRef   string          `json:"order_ref,omitempty"`
	Units      decimal.Decimal `json:"units"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// ProfitLossOverride carries per-week manual values. A nil field keeps the
// computed value; grossProfit is never overridable, it always re-derives from
// the resolved revenue and cogs.
type ProfitLossOverride struct {
	WeekNumber  int              `json:"week_number"`
	Units       *decimal.Decimal `json:"units,omitempty"`
	Revenue     *decimal.Decimal `json:"revenue,omitempty"`
	Cogs        *decimal.Decimal `json:"cogs,omitempty"`
	AmazonFees  *decimal.Decimal `json:"amazon_fees,omitempty"`
	PPCSpend    *decimal.Decimal `json:"ppc_spend,omitempty"`
	FixedCosts  *decimal.Decimal `json:"fixed_costs,omitempty"`
	TotalOpex   *decimal.Decimal `json:"total_opex,omitempty"`
	NetProfit   *decimal.Decimal `json:"net_profit,omitempty"`
	GrossMargin *decimal.Decimal `json:"gross_margin,omitempty"`
}

// CashFlowOverride carries per-week manual cash values; nil keeps computed.
type CashFlowOverride struct {
	WeekNumber     int              `json:"week_number"`
	AmazonPayout   *decimal.Decimal `json:"amazon_payout,omitempty"`
	InventorySpend *decimal.Decimal `json:"inventory_spend,omitempty"`
	FixedCosts     *decimal.Decimal `json:"fixed_costs,omitempty"`
	NetCash        *decimal.Decimal `json:"net_cash,omitempty"`
	CashBalance    *decimal.Decimal `json:"cash_balance,omitempty"`
}

// ProfitLossWeek is one fully resolved weekly P&L row.
type ProfitLossWeek struct {
	WeekNumber  int             `json:"week_number"`
	WeekDate    *time.Time      `json:"week_date,omitempty"`
	Units       decimal.Decimal `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cogs        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	AmazonFees  decimal.Decimal `json:"amazon_fees"`
	PPCSpend    decimal.Decimal `json:"ppc_spend"`
	FixedCosts  decimal.Decimal `json:"fixed_costs"`
	TotalOpex   decimal.Decimal `json:"total_opex"`
	NetProfit   decimal.Decimal `json:"net_profit"`
	GrossMargin decimal.Decimal `json:"gross_margin"`
}

// CashFlowWeek is one fully resolved weekly cash row.
type CashFlowWeek struct {
	WeekNumber     int             `json:"week_number"`
	WeekDate       *time.Time      `json:"week_date,omitempty"`
	AmazonPayout   decimal.Decimal `json:"amazon_payout"`
	InventorySpend decimal.Decimal `json:"inventory_spend"`
	FixedCosts     decimal.Decimal `json:"fixed_costs"`
	NetCash        decimal.Decimal `json:"net_cash"`
	CashBalance    decimal.Decimal `json:"cash_balance"`
}

// ProfitLossSummary is one monthly or quarterly P&L rollup. PeriodKey sorts
// chronologically: yyyyMM for months, year×10+quarter for quarters.
// GrossMargin is recomputed for the period, not summed.
type ProfitLossSummary struct {
	PeriodKey   int             `json:"period_key"`
	Label       string          `json:"label"`
	Units       decimal.Decimal `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cogs        decimal.Decimal `json:"cogs"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	AmazonFees  decimal.Decimal `json:"amazon_fees"`
	PPCSpend    decimal.Decimal `json:"ppc_spend"`
	FixedCosts  decimal.Decimal `json:"fixed_costs"`
	TotalOpex   decimal.Decimal `json:"total_opex"`
	NetProfit   decimal.Decimal `json:"net_profit"`
	GrossMargin decimal.Decimal `json:"gross_margin"`
}

// CashFlowSummary is one monthly or quarterly cash rollup. Flow fields are
// sums; ClosingBalance is the period's last weekly balance.
type CashFlowSummary struct {
	PeriodKey      int             `json:"period_key"`
	Label          string          `json:"label"`
	AmazonPayout   decimal.Decimal `json:"amazon_payout"`
	InventorySpend decimal.Decimal `json:"inventory_spend"`
	FixedCosts     decimal.Decimal `json:"fixed_costs"`
	NetCash        decimal.Decimal `json:"net_cash"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}
