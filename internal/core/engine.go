package core

import (
	"github.com/shopspring/decimal"
)

// LeadTimeDefaults are the per-stage week counts used when neither the order
// nor the product's lead-time profile supplies one.
type LeadTimeDefaults struct {
	ProductionWeeks decimal.Decimal `json:"production_weeks"`
	SourcePrepWeeks decimal.Decimal `json:"source_prep_weeks"`
	OceanWeeks      decimal.Decimal `json:"ocean_weeks"`
	FinalMileWeeks  decimal.Decimal `json:"final_mile_weeks"`
	// ReceivingWeeks pads inbound ETA out to the warehouse-available date.
	ReceivingWeeks decimal.Decimal `json:"receiving_weeks"`
}

// DefaultLeadTimes returns stage defaults for a typical ocean-freight
// replenishment cycle: four weeks production, one week to port, four on the
// water, one week inland, available on arrival.
func DefaultLeadTimes() LeadTimeDefaults {
	return LeadTimeDefaults{
		ProductionWeeks: decimal.NewFromInt(4),
		SourcePrepWeeks: decimal.NewFromInt(1),
		OceanWeeks:      decimal.NewFromInt(4),
		FinalMileWeeks:  decimal.NewFromInt(1),
		ReceivingWeeks:  decimal.NewFromInt(0),
	}
}

// EngineConfig carries the calculation choices that vary across deployments.
type EngineConfig struct {
	TariffBasis TariffBasis      `json:"tariff_basis"`
	LeadTimes   LeadTimeDefaults `json:"lead_times"`
}

// DefaultEngineConfig uses the selling-price tariff basis and the standard
// lead-time defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TariffBasis: TariffOnSellingPrice,
		LeadTimes:   DefaultLeadTimes(),
	}
}

// Engine derives planning artifacts from an input snapshot. It holds
// configuration only, performs no I/O, and is safe for concurrent use.
type Engine struct {
	cfg EngineConfig
}

// NewEngine builds an engine, filling unset config fields with defaults.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TariffBasis == "" {
		cfg.TariffBasis = TariffOnSellingPrice
	}
	if cfg.LeadTimes == (LeadTimeDefaults{}) {
		cfg.LeadTimes = DefaultLeadTimes()
	}
	return &Engine{cfg: cfg}
}

// resolveDecimal walks override candidates in priority order and returns the
// first non-nil value, falling back to the catalog default.
func resolveDecimal(def decimal.Decimal, overrides ...*decimal.Decimal) decimal.Decimal {
	for _, o := range overrides {
		if o != nil {
			return *o
		}
	}
	return def
}

// weeksToDays converts a fractional week count to whole days.
func weeksToDays(weeks decimal.Decimal) int {
	return int(weeks.Mul(decimal.NewFromInt(7)).Round(0).IntPart())
}

// safeDiv returns numerator ÷ denominator, or zero when the denominator is
// zero. Ratio fields degrade to 0 rather than erroring.
func safeDiv(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}
