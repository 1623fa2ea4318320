package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BusinessParameter is one loose label-keyed configuration row from the
// persistence collaborator. Exactly one of ValueNumeric/ValueText is
// normally set; rows with neither are ignored.
type BusinessParameter struct {
	Label        string           `json:"label"`
	ValueNumeric *decimal.Decimal `json:"value_numeric,omitempty"`
	ValueText    *string          `json:"value_text,omitempty"`
}

// Parameters is the typed, fully defaulted business parameter set consumed by
// the derivation engine and the financial aggregator.
type Parameters struct {
	StartingCash              decimal.Decimal    `json:"starting_cash"`
	AmazonPayoutDelayWeeks    int                `json:"amazon_payout_delay_weeks"`
	WeeklyFixedCosts          decimal.Decimal    `json:"weekly_fixed_costs"`
	SupplierPaymentTermsWeeks decimal.Decimal    `json:"supplier_payment_terms_weeks"`
	SupplierPaymentSplit      [3]decimal.Decimal `json:"supplier_payment_split"`
	StockWarningWeeks         int                `json:"stock_warning_weeks"`
}

// DefaultParameters returns the hard defaults applied before any input row.
func DefaultParameters() Parameters {
	return Parameters{
		StartingCash:              decimal.Zero,
		AmazonPayoutDelayWeeks:    2,
		WeeklyFixedCosts:          decimal.Zero,
		SupplierPaymentTermsWeeks: decimal.Zero,
		SupplierPaymentSplit: [3]decimal.Decimal{
			decimal.NewFromFloat(0.25),
			decimal.NewFromFloat(0.25),
			decimal.NewFromFloat(0.50),
		},
		StockWarningWeeks: 6,
	}
}

type paramKey int

const (
	paramStartingCash paramKey = iota
	paramPayoutDelay
	paramWeeklyFixedCosts
	paramPaymentTerms
	paramSplit1
	paramSplit2
	paramSplit3
	paramStockWarning
)

// paramVocabulary maps normalized input labels to typed fields. Sheets name
// these rows inconsistently, so each field accepts a few spellings.
var paramVocabulary = map[string]paramKey{
	"starting cash":         paramStartingCash,
	"starting cash balance": paramStartingCash,
	"opening cash":          paramStartingCash,

	"amazon payout delay weeks": paramPayoutDelay,
	"amazon payout delay":       paramPayoutDelay,
	"payout delay weeks":        paramPayoutDelay,

	"weekly fixed costs":    paramWeeklyFixedCosts,
	"weekly fixed cost":     paramWeeklyFixedCosts,
	"fixed costs per week":  paramWeeklyFixedCosts,
	"fixed cost per week":   paramWeeklyFixedCosts,
	"weekly operating cost": paramWeeklyFixedCosts,

	"supplier payment terms weeks": paramPaymentTerms,
	"supplier payment terms":       paramPaymentTerms,
	"payment terms weeks":          paramPaymentTerms,

	"payment split 1":       paramSplit1,
	"deposit percent":       paramSplit1,
	"deposit %":             paramSplit1,
	"payment split 2":       paramSplit2,
	"mid payment percent":   paramSplit2,
	"mid payment %":         paramSplit2,
	"payment split 3":       paramSplit3,
	"final payment percent": paramSplit3,
	"final payment %":       paramSplit3,

	"stock warning weeks":     paramStockWarning,
	"low stock warning weeks": paramStockWarning,
}

// NormalizeParameters converts loose configuration rows into a typed parameter
// set. Unrecognized labels and unparsable values are ignored; the three
// payment-split fractions are applied as a group only when at least one is
// present and the group sum is positive.
func NormalizeParameters(rows []BusinessParameter) Parameters {
	params := DefaultParameters()

	var splits [3]*decimal.Decimal
	for _, row := range rows {
		key, ok := paramVocabulary[normalizeLabel(row.Label)]
		if !ok {
			continue
		}
		value, ok := coerceParameterValue(row)
		if !ok {
			continue
		}
		switch key {
		case paramStartingCash:
			params.StartingCash = value
		case paramPayoutDelay:
			params.AmazonPayoutDelayWeeks = nonNegativeWeeks(value)
		case paramWeeklyFixedCosts:
			params.WeeklyFixedCosts = value
		case paramPaymentTerms:
			params.SupplierPaymentTermsWeeks = value
		case paramSplit1:
			v := normalizeFraction(value)
			splits[0] = &v
		case paramSplit2:
			v := normalizeFraction(value)
			splits[1] = &v
		case paramSplit3:
			v := normalizeFraction(value)
			splits[2] = &v
		case paramStockWarning:
			params.StockWarningWeeks = nonNegativeWeeks(value)
		}
	}

	if splits[0] != nil || splits[1] != nil || splits[2] != nil {
		var group [3]decimal.Decimal
		sum := decimal.Zero
		for i, s := range splits {
			if s != nil {
				group[i] = *s
			}
			sum = sum.Add(group[i])
		}
		if sum.IsPositive() {
			params.SupplierPaymentSplit = group
		}
	}

	return params
}

func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(label))), " ")
}

// coerceParameterValue extracts a number from a parameter row: the numeric
// column when present, otherwise the text column with currency and percent
// punctuation stripped.
func coerceParameterValue(row BusinessParameter) (decimal.Decimal, bool) {
	if row.ValueNumeric != nil {
		return *row.ValueNumeric, true
	}
	if row.ValueText == nil {
		return decimal.Zero, false
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '£', '€', ',', '%', '_', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(*row.ValueText))
	if cleaned == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// normalizeFraction treats values above 1 as whole percents: 25 becomes 0.25.
func normalizeFraction(v decimal.Decimal) decimal.Decimal {
	if v.GreaterThan(decimal.NewFromInt(1)) {
		return v.Div(decimal.NewFromInt(100))
	}
	return v
}

func nonNegativeWeeks(v decimal.Decimal) int {
	weeks := int(v.Round(0).IntPart())
	if weeks < 0 {
		return 0
	}
	return weeks
}
