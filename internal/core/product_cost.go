package core

import "github.com/shopspring/decimal"

// BuildProductCostSummary computes the per-unit economics for one product.
//
//	tariffCost        = basis amount × tariffRate
//	landedUnitCost    = manufacturing + freight + tariff + fbaFee + storagePerMonth
//	grossContribution = sellingPrice − landedUnitCost − advertisingCost
//	grossMargin%      = grossContribution / sellingPrice (0 when sellingPrice is 0)
func BuildProductCostSummary(p Product, basis TariffBasis) ProductCostSummary {
	tariffBase := p.SellingPrice
	if basis == TariffOnManufacturingCost {
		tariffBase = p.ManufacturingCost
	}
	tariffCost := tariffBase.Mul(p.TariffRate)
	advertising := p.SellingPrice.Mul(p.TacosPercent)
	referral := p.SellingPrice.Mul(p.AmazonReferralRate)

	landed := p.ManufacturingCost.
		Add(p.FreightCost).
		Add(tariffCost).
		Add(p.FBAFee).
		Add(p.StoragePerMonth)
	contribution := p.SellingPrice.Sub(landed).Sub(advertising)

	margin := decimal.Zero
	if !p.SellingPrice.IsZero() {
		margin = contribution.Div(p.SellingPrice)
	}

	return ProductCostSummary{
		ProductID:          p.ID,
		Name:               p.Name,
		SKU:                p.SKU,
		SellingPrice:       p.SellingPrice,
		ManufacturingCost:  p.ManufacturingCost,
		FreightCost:        p.FreightCost,
		TariffCost:         tariffCost,
		FBAFee:             p.FBAFee,
		StoragePerMonth:    p.StoragePerMonth,
		AdvertisingCost:    advertising,
		AmazonReferralFee:  referral,
		LandedUnitCost:     landed,
		GrossContribution:  contribution,
		GrossMarginPercent: margin,
	}
}

// BuildCostIndex computes summaries for every product, keyed by product id.
// Orders referencing ids absent from this index are skipped by the plan builder.
func BuildCostIndex(products []Product, basis TariffBasis) map[string]ProductCostSummary {
	index := make(map[string]ProductCostSummary, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		index[p.ID] = BuildProductCostSummary(p, basis)
	}
	return index
}
