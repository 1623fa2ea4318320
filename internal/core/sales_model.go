package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesWeek is one raw per-product weekly observation. Nil fields mean "not
// entered"; a non-nil StockStart or FinalSales is a manual override of the
// projected value.
type SalesWeek struct {
	ProductID     string           `json:"product_id"`
	WeekNumber    int              `json:"week_number"`
	WeekDate      *time.Time       `json:"week_date,omitempty"`
	StockStart    *decimal.Decimal `json:"stock_start,omitempty"`
	ActualSales   *decimal.Decimal `json:"actual_sales,omitempty"`
	ForecastSales *decimal.Decimal `json:"forecast_sales,omitempty"`
	FinalSales    *decimal.Decimal `json:"final_sales,omitempty"`
}

// SalesWeekDerived is the projected weekly stock position for one product.
type SalesWeekDerived struct {
	ProductID     string          `json:"product_id"`
	WeekNumber    int             `json:"week_number"`
	WeekDate      *time.Time      `json:"week_date,omitempty"`
	StockStart    decimal.Decimal `json:"stock_start"`
	Arrivals      decimal.Decimal `json:"arrivals"`
	ActualSales   decimal.Decimal `json:"actual_sales"`
	ForecastSales decimal.Decimal `json:"forecast_sales"`
	FinalSales    decimal.Decimal `json:"final_sales"`
	StockEnd      decimal.Decimal `json:"stock_end"`

	// StockWeeks is the inclusive count of weeks until projected stock
	// reaches zero; nil means the product never depletes in the horizon.
	StockWeeks *int `json:"stock_weeks,omitempty"`
	// LowStock is set when StockWeeks is finite and at or under the
	// configured warning threshold.
	LowStock bool `json:"low_stock"`
}
