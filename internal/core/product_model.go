package core

import "github.com/shopspring/decimal"

// Product is the per-product cost assumption record supplied by the
// persistence collaborator. Rates (tariff, TACoS, referral) are fractions:
// 0.10 means 10%.
type Product struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	SKU                string          `json:"sku"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	ManufacturingCost  decimal.Decimal `json:"manufacturing_cost"`
	FreightCost        decimal.Decimal `json:"freight_cost"`
	TariffRate         decimal.Decimal `json:"tariff_rate"`
	TacosPercent       decimal.Decimal `json:"tacos_percent"`
	FBAFee             decimal.Decimal `json:"fba_fee"`
	AmazonReferralRate decimal.Decimal `json:"amazon_referral_rate"`
	StoragePerMonth    decimal.Decimal `json:"storage_per_month"`

	// Optional lead-time profile in weeks, one entry per supply stage.
	// Nil fields fall through to the engine's configured defaults.
	ProductionWeeks *decimal.Decimal `json:"production_weeks,omitempty"`
	SourcePrepWeeks *decimal.Decimal `json:"source_prep_weeks,omitempty"`
	OceanWeeks      *decimal.Decimal `json:"ocean_weeks,omitempty"`
	FinalMileWeeks  *decimal.Decimal `json:"final_mile_weeks,omitempty"`
}

// TariffBasis selects the amount a product's tariff rate applies to. The two
// historical conventions disagree, so the choice is an explicit engine option
// rather than a silent default.
type TariffBasis string

const (
	// TariffOnSellingPrice computes tariff cost as sellingPrice × tariffRate.
	TariffOnSellingPrice TariffBasis = "selling_price"
	// TariffOnManufacturingCost computes tariff cost as manufacturingCost × tariffRate.
	TariffOnManufacturingCost TariffBasis = "manufacturing_cost"
)

// ProductCostSummary is the derived per-unit economics for one product.
// It is a pure function of the Product record, recomputed on every plan run.
type ProductCostSummary struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	SellingPrice decimal.Decimal `json:"selling_price"`

	ManufacturingCost decimal.Decimal `json:"manufacturing_cost"`
	FreightCost       decimal.Decimal `json:"freight_cost"`
	TariffCost        decimal.Decimal `json:"tariff_cost"`
	FBAFee            decimal.Decimal `json:"fba_fee"`
	StoragePerMonth   decimal.Decimal `json:"storage_per_month"`

	// AdvertisingCost is sellingPrice × tacosPercent; it sits outside landed cost.
	AdvertisingCost decimal.Decimal `json:"advertising_cost"`
	// AmazonReferralFee is sellingPrice × amazonReferralRate, consumed by the
	// P&L as the Amazon fees line.
	AmazonReferralFee decimal.Decimal `json:"amazon_referral_fee"`

	LandedUnitCost     decimal.Decimal `json:"landed_unit_cost"`
	GrossContribution  decimal.Decimal `json:"gross_contribution"`
	GrossMarginPercent decimal.Decimal `json:"gross_margin_percent"`
}
