package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/progami/ecom-os-sub001/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decEqual(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestBuildProductCostSummary_SellingPriceBasis(t *testing.T) {
	p := core.Product{
		ID:                 "prod-1",
		SellingPrice:       dec("10"),
		ManufacturingCost:  dec("3"),
		FreightCost:        dec("1"),
		TariffRate:         dec("0.1"),
		TacosPercent:       dec("0.05"),
		FBAFee:             dec("0.5"),
		AmazonReferralRate: dec("0.15"),
		StoragePerMonth:    dec("0.2"),
	}

	s := core.BuildProductCostSummary(p, core.TariffOnSellingPrice)

	decEqual(t, "TariffCost", s.TariffCost, dec("1"))
	decEqual(t, "AdvertisingCost", s.AdvertisingCost, dec("0.5"))
	decEqual(t, "AmazonReferralFee", s.AmazonReferralFee, dec("1.5"))
	decEqual(t, "LandedUnitCost", s.LandedUnitCost, dec("5.7"))
	decEqual(t, "GrossContribution", s.GrossContribution, dec("3.8"))
	decEqual(t, "GrossMarginPercent", s.GrossMarginPercent, dec("0.38"))
}

func TestBuildProductCostSummary_ManufacturingBasis(t *testing.T) {
	p := core.Product{
		ID:                "prod-1",
		SellingPrice:      dec("10"),
		ManufacturingCost: dec("3"),
		FreightCost:       dec("1"),
		TariffRate:        dec("0.1"),
		FBAFee:            dec("0.5"),
		StoragePerMonth:   dec("0.2"),
	}

	s := core.BuildProductCostSummary(p, core.TariffOnManufacturingCost)

	decEqual(t, "TariffCost", s.TariffCost, dec("0.3"))
	decEqual(t, "LandedUnitCost", s.LandedUnitCost, dec("5"))
	decEqual(t, "GrossContribution", s.GrossContribution, dec("5"))
	decEqual(t, "GrossMarginPercent", s.GrossMarginPercent, dec("0.5"))
}

func TestBuildProductCostSummary_ZeroSellingPrice(t *testing.T) {
	p := core.Product{ID: "prod-1", ManufacturingCost: dec("3")}
	s := core.BuildProductCostSummary(p, core.TariffOnSellingPrice)

	if !s.GrossMarginPercent.IsZero() {
		t.Errorf("GrossMarginPercent = %s, want 0 for zero selling price", s.GrossMarginPercent)
	}
	decEqual(t, "GrossContribution", s.GrossContribution, dec("-3"))
}

func TestBuildCostIndex_SkipsEmptyIDs(t *testing.T) {
	index := core.BuildCostIndex([]core.Product{
		{ID: "a", SellingPrice: dec("10")},
		{ID: ""},
		{ID: "b", SellingPrice: dec("20")},
	}, core.TariffOnSellingPrice)

	if len(index) != 2 {
		t.Fatalf("len(index) = %d, want 2", len(index))
	}
	if _, ok := index["a"]; !ok {
		t.Error("index missing product a")
	}
	if _, ok := index["b"]; !ok {
		t.Error("index missing product b")
	}
}
