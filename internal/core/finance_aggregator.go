package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BuildProfitLoss produces one resolved P&L row for every calendar week in
// the dense [min,max] range. Product contributions come from allocation
// detail when any exists for that product and week, otherwise from the
// blended cost index × finalSales. Sales rows for products missing from the
// cost index contribute nothing.
func (e *Engine) BuildProfitLoss(sales []SalesWeekDerived, costs map[string]ProductCostSummary, allocations []CogsAllocation, overrides []ProfitLossOverride, cal *WeekCalendar, params Parameters) []ProfitLossWeek {
	minWeek, maxWeek, ok := cal.Bounds()
	if !ok {
		return nil
	}

	type weekTotals struct {
		units, revenue, cogs, fees, ppc decimal.Decimal
	}
	totals := make(map[int]*weekTotals)
	totalFor := func(w int) *weekTotals {
		t := totals[w]
		if t == nil {
			t = &weekTotals{}
			totals[w] = t
		}
		return t
	}

	type productWeek struct {
		productID string
		week      int
	}
	allocated := make(map[productWeek][]CogsAllocation)
	for _, a := range allocations {
		if a.ProductID == "" {
			continue
		}
		k := productWeek{a.ProductID, a.WeekNumber}
		allocated[k] = append(allocated[k], a)
	}

	for _, row := range sales {
		cost, known := costs[row.ProductID]
		if !known {
			continue
		}
		t := totalFor(row.WeekNumber)
		if allocs := allocated[productWeek{row.ProductID, row.WeekNumber}]; len(allocs) > 0 {
			units := decimal.Zero
			for _, a := range allocs {
				units = units.Add(a.Units)
				t.cogs = t.cogs.Add(a.Units.Mul(a.UnitCost))
			}
			t.units = t.units.Add(units)
			t.revenue = t.revenue.Add(units.Mul(cost.SellingPrice))
			t.fees = t.fees.Add(units.Mul(cost.AmazonReferralFee))
			t.ppc = t.ppc.Add(units.Mul(cost.AdvertisingCost))
		} else {
			t.units = t.units.Add(row.FinalSales)
			t.revenue = t.revenue.Add(row.FinalSales.Mul(cost.SellingPrice))
			t.cogs = t.cogs.Add(row.FinalSales.Mul(cost.LandedUnitCost))
			t.fees = t.fees.Add(row.FinalSales.Mul(cost.AmazonReferralFee))
			t.ppc = t.ppc.Add(row.FinalSales.Mul(cost.AdvertisingCost))
		}
	}

	ovByWeek := make(map[int]ProfitLossOverride, len(overrides))
	for _, ov := range overrides {
		ovByWeek[ov.WeekNumber] = ov
	}

	rows := make([]ProfitLossWeek, 0, maxWeek-minWeek+1)
	for w := minWeek; w <= maxWeek; w++ {
		var t weekTotals
		if computed := totals[w]; computed != nil {
			t = *computed
		}
		ov := ovByWeek[w]

		row := ProfitLossWeek{WeekNumber: w}
		if date, dated := cal.DateForWeek(w); dated {
			row.WeekDate = &date
		}
		row.Units = resolveDecimal(t.units, ov.Units)
		row.Revenue = resolveDecimal(t.revenue, ov.Revenue)
		row.Cogs = resolveDecimal(t.cogs, ov.Cogs)
		row.GrossProfit = row.Revenue.Sub(row.Cogs)
		row.AmazonFees = resolveDecimal(t.fees, ov.AmazonFees)
		row.PPCSpend = resolveDecimal(t.ppc, ov.PPCSpend)
		row.FixedCosts = resolveDecimal(params.WeeklyFixedCosts, ov.FixedCosts)
		row.TotalOpex = resolveDecimal(row.AmazonFees.Add(row.PPCSpend).Add(row.FixedCosts), ov.TotalOpex)
		row.NetProfit = resolveDecimal(row.GrossProfit.Sub(row.TotalOpex), ov.NetProfit)
		row.GrossMargin = resolveDecimal(safeDiv(row.GrossProfit, row.Revenue), ov.GrossMargin)
		rows = append(rows, row)
	}
	return rows
}

// BuildCashFlow produces one resolved cash row per weekly P&L row. The
// running balance is the one strictly sequential computation in the engine:
// weeks resolve in ascending order, each balance building on the previous
// resolved one, seeded from startingCash.
func (e *Engine) BuildCashFlow(pl []ProfitLossWeek, orders []PurchaseOrderDerived, overrides []CashFlowOverride, cal *WeekCalendar, params Parameters) []CashFlowWeek {
	if len(pl) == 0 {
		return nil
	}

	revenueByWeek := make(map[int]decimal.Decimal, len(pl))
	for _, row := range pl {
		revenueByWeek[row.WeekNumber] = row.Revenue
	}

	// Payment-plan lines land in the week of their resolved due date; a
	// recorded paid amount replaces the planned one.
	spendByWeek := make(map[int]decimal.Decimal)
	for _, o := range orders {
		for _, item := range o.PaymentPlan {
			week, ok := cal.WeekForDate(item.DueDate)
			if !ok {
				continue
			}
			amount := item.PlannedAmount
			if item.AmountPaid != nil {
				amount = *item.AmountPaid
			}
			spendByWeek[week] = spendByWeek[week].Add(amount)
		}
	}

	ovByWeek := make(map[int]CashFlowOverride, len(overrides))
	for _, ov := range overrides {
		ovByWeek[ov.WeekNumber] = ov
	}

	balance := params.StartingCash
	rows := make([]CashFlowWeek, 0, len(pl))
	for _, plRow := range pl {
		w := plRow.WeekNumber
		ov := ovByWeek[w]

		row := CashFlowWeek{WeekNumber: w, WeekDate: plRow.WeekDate}
		row.AmazonPayout = resolveDecimal(revenueByWeek[w-params.AmazonPayoutDelayWeeks], ov.AmazonPayout)
		row.InventorySpend = resolveDecimal(spendByWeek[w], ov.InventorySpend)
		row.FixedCosts = resolveDecimal(params.WeeklyFixedCosts, ov.FixedCosts)
		row.NetCash = resolveDecimal(row.AmazonPayout.Sub(row.InventorySpend).Sub(row.FixedCosts), ov.NetCash)
		row.CashBalance = resolveDecimal(balance.Add(row.NetCash), ov.CashBalance)
		balance = row.CashBalance
		rows = append(rows, row)
	}
	return rows
}

// ── Period rollups ──────────────────────────────────────────────────────────

// SummarizeProfitLossMonthly groups weekly rows by the calendar month of
// their resolved date. Undated rows are excluded.
func SummarizeProfitLossMonthly(weeks []ProfitLossWeek) []ProfitLossSummary {
	return summarizeProfitLoss(weeks, monthPeriod)
}

// SummarizeProfitLossQuarterly groups weekly rows by calendar quarter.
func SummarizeProfitLossQuarterly(weeks []ProfitLossWeek) []ProfitLossSummary {
	return summarizeProfitLoss(weeks, quarterPeriod)
}

// SummarizeCashFlowMonthly groups weekly cash rows by calendar month. Flow
// fields sum; the closing balance is the month's last weekly balance.
func SummarizeCashFlowMonthly(weeks []CashFlowWeek) []CashFlowSummary {
	return summarizeCashFlow(weeks, monthPeriod)
}

// SummarizeCashFlowQuarterly groups weekly cash rows by calendar quarter.
func SummarizeCashFlowQuarterly(weeks []CashFlowWeek) []CashFlowSummary {
	return summarizeCashFlow(weeks, quarterPeriod)
}

func monthPeriod(d time.Time) (int, string) {
	return d.Year()*100 + int(d.Month()), d.Format("2006-01")
}

func quarterPeriod(d time.Time) (int, string) {
	quarter := (int(d.Month())-1)/3 + 1
	return d.Year()*10 + quarter, fmt.Sprintf("%d Q%d", d.Year(), quarter)
}

func summarizeProfitLoss(weeks []ProfitLossWeek, period func(time.Time) (int, string)) []ProfitLossSummary {
	byPeriod := make(map[int]*ProfitLossSummary)
	for _, w := range weeks {
		if w.WeekDate == nil {
			continue
		}
		key, label := period(*w.WeekDate)
		s := byPeriod[key]
		if s == nil {
			s = &ProfitLossSummary{PeriodKey: key, Label: label}
			byPeriod[key] = s
		}
		s.Units = s.Units.Add(w.Units)
		s.Revenue = s.Revenue.Add(w.Revenue)
		s.Cogs = s.Cogs.Add(w.Cogs)
		s.GrossProfit = s.GrossProfit.Add(w.GrossProfit)
		s.AmazonFees = s.AmazonFees.Add(w.AmazonFees)
		s.PPCSpend = s.PPCSpend.Add(w.PPCSpend)
		s.FixedCosts = s.FixedCosts.Add(w.FixedCosts)
		s.TotalOpex = s.TotalOpex.Add(w.TotalOpex)
		s.NetProfit = s.NetProfit.Add(w.NetProfit)
	}

	out := make([]ProfitLossSummary, 0, len(byPeriod))
	for _, s := range byPeriod {
		s.GrossMargin = safeDiv(s.GrossProfit, s.Revenue)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodKey < out[j].PeriodKey })
	return out
}

func summarizeCashFlow(weeks []CashFlowWeek, period func(time.Time) (int, string)) []CashFlowSummary {
	byPeriod := make(map[int]*CashFlowSummary)
	for _, w := range weeks {
		if w.WeekDate == nil {
			continue
		}
		key, label := period(*w.WeekDate)
		s := byPeriod[key]
		if s == nil {
			s = &CashFlowSummary{PeriodKey: key, Label: label}
			byPeriod[key] = s
		}
		s.AmazonPayout = s.AmazonPayout.Add(w.AmazonPayout)
		s.InventorySpend = s.InventorySpend.Add(w.InventorySpend)
		s.FixedCosts = s.FixedCosts.Add(w.FixedCosts)
		s.NetCash = s.NetCash.Add(w.NetCash)
		// Weeks arrive in ascending order, so the last one in the period
		// leaves its balance behind.
		s.ClosingBalance = w.CashBalance
	}

	out := make([]CashFlowSummary, 0, len(byPeriod))
	for _, s := range byPeriod {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodKey < out[j].PeriodKey })
	return out
}
