// Package cli renders derived planning output as plain text for the cmd
// tools. No business logic lives here.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/progami/ecom-os-sub001/internal/app"
	"github.com/progami/ecom-os-sub001/internal/core"
)

// RenderPlan prints every derived statement of one plan run in reading order.
func RenderPlan(result *app.PlanResult) {
	fmt.Printf("\nPLAN RUN %s\nGenerated %s\n", result.RunID, result.GeneratedAt.Format(time.RFC3339))
	RenderCostSummaries(result.Plan.CostSummaries)
	RenderOrders(result.Plan.Orders)
	RenderSalesWeeks(result.Plan.SalesWeeks)
	RenderProfitLoss(result.Plan.ProfitLoss)
	RenderCashFlow(result.Plan.CashFlow)
}

// RenderCostSummaries prints the per-unit economics table.
func RenderCostSummaries(costs []core.ProductCostSummary) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 86))
	fmt.Println("  PRODUCT COST SUMMARY")
	fmt.Println(strings.Repeat("=", 86))
	if len(costs) == 0 {
		fmt.Println("  No products found.")
		fmt.Println(strings.Repeat("=", 86))
		return
	}
	fmt.Printf("  %-22s %-10s %10s %10s %12s %8s\n", "PRODUCT", "SKU", "PRICE", "LANDED", "CONTRIBUTION", "MARGIN")
	fmt.Println(strings.Repeat("-", 86))
	for _, c := range costs {
		fmt.Printf("  %-22s %-10s %10s %10s %12s %8s\n",
			clip(c.Name, 22), c.SKU,
			c.SellingPrice.StringFixed(2),
			c.LandedUnitCost.StringFixed(2),
			c.GrossContribution.StringFixed(2),
			fmtPercent(c.GrossMarginPercent),
		)
	}
	fmt.Println(strings.Repeat("=", 86))
}

// RenderOrders prints the derived order timeline table followed by each
// order's payment plan.
func RenderOrders(orders []core.PurchaseOrderDerived) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 96))
	fmt.Println("  PURCHASE ORDERS")
	fmt.Println(strings.Repeat("=", 96))
	if len(orders) == 0 {
		fmt.Println("  No purchase orders found.")
		fmt.Println(strings.Repeat("=", 96))
		return
	}
	fmt.Printf("  %-14s %-10s %8s %-11s %5s %5s %12s %12s %12s\n",
		"ORDER", "PRODUCT", "QTY", "ARRIVAL", "LEAD", "WKS", "PO VALUE", "PAID", "REMAINING")
	fmt.Println(strings.Repeat("-", 96))
	for _, o := range orders {
		weeks := "-"
		if o.WeeksUntilArrival != nil {
			weeks = strconv.Itoa(*o.WeeksUntilArrival)
		}
		fmt.Printf("  %-14s %-10s %8s %-11s %5d %5s %12s %12s %12s\n",
			clip(o.OrderCode, 14), clip(o.ProductID, 10),
			o.Quantity.StringFixed(0),
			o.ArrivalDate().Format("2006-01-02"),
			o.TotalLeadDays, weeks,
			o.SupplierCostTotal.StringFixed(2),
			o.PaidAmount.StringFixed(2),
			o.RemainingAmount.StringFixed(2),
		)
	}
	fmt.Println(strings.Repeat("=", 96))
	for i := range orders {
		renderPaymentPlan(&orders[i])
	}
}

func renderPaymentPlan(o *core.PurchaseOrderDerived) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 86))
	fmt.Printf("  PAYMENT PLAN — %s  (paid %s of %s)\n",
		o.OrderCode, fmtPercent(o.PaidPercent), o.TotalPlannedAmount.StringFixed(2))
	fmt.Println(strings.Repeat("-", 86))
	fmt.Printf("  %-3s %-15s %-14s %-11s %-6s %12s %8s %12s\n",
		"#", "LABEL", "CATEGORY", "DUE", "SRC", "PLANNED", "PCT", "PAID")
	fmt.Println(strings.Repeat("-", 86))
	for _, item := range o.PaymentPlan {
		paid := "-"
		if item.AmountPaid != nil {
			paid = item.AmountPaid.StringFixed(2)
		}
		fmt.Printf("  %-3d %-15s %-14s %-11s %-6s %12s %8s %12s\n",
			item.Index, clip(item.Label, 15), item.Category,
			item.DueDate.Format("2006-01-02"), item.DueDateSource,
			item.PlannedAmount.StringFixed(2),
			fmtPercent(item.PlannedPercent),
			paid,
		)
	}
	fmt.Println(strings.Repeat("-", 86))
}

// RenderSalesWeeks prints the weekly stock projection grouped by product.
func RenderSalesWeeks(weeks []core.SalesWeekDerived) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 88))
	fmt.Println("  STOCK PROJECTION")
	fmt.Println(strings.Repeat("=", 88))
	if len(weeks) == 0 {
		fmt.Println("  No sales weeks found.")
		fmt.Println(strings.Repeat("=", 88))
		return
	}
	product := ""
	for _, w := range weeks {
		if w.ProductID != product {
			product = w.ProductID
			fmt.Printf("\n  PRODUCT %s\n", product)
			fmt.Printf("  %-4s %-11s %10s %10s %10s %10s %10s %6s %4s\n",
				"WK", "DATE", "START", "ARRIVALS", "SALES", "FORECAST", "END", "COVER", "")
			fmt.Println(strings.Repeat("-", 88))
		}
		cover := "-"
		if w.StockWeeks != nil {
			cover = strconv.Itoa(*w.StockWeeks)
		}
		flag := ""
		if w.LowStock {
			flag = "LOW"
		}
		fmt.Printf("  %-4d %-11s %10s %10s %10s %10s %10s %6s %4s\n",
			w.WeekNumber, fmtDate(w.WeekDate),
			w.StockStart.StringFixed(0), w.Arrivals.StringFixed(0),
			w.FinalSales.StringFixed(0), w.ForecastSales.StringFixed(0),
			w.StockEnd.StringFixed(0), cover, flag,
		)
	}
	fmt.Println(strings.Repeat("=", 88))
}

// RenderProfitLoss prints the weekly P&L and its period rollups.
func RenderProfitLoss(statement core.ProfitLossStatement) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 112))
	fmt.Println("  PROFIT & LOSS — WEEKLY")
	fmt.Println(strings.Repeat("=", 112))
	if len(statement.Weeks) == 0 {
		fmt.Println("  No statement weeks found.")
		fmt.Println(strings.Repeat("=", 112))
		return
	}
	fmt.Printf("  %-4s %-11s %7s %10s %10s %10s %10s %10s %10s %10s %8s\n",
		"WK", "DATE", "UNITS", "REVENUE", "COGS", "GROSS", "FEES", "PPC", "OPEX", "NET", "MARGIN")
	fmt.Println(strings.Repeat("-", 112))
	for _, w := range statement.Weeks {
		fmt.Printf("  %-4d %-11s %7s %10s %10s %10s %10s %10s %10s %10s %8s\n",
			w.WeekNumber, fmtDate(w.WeekDate),
			w.Units.StringFixed(0), w.Revenue.StringFixed(2), w.Cogs.StringFixed(2),
			w.GrossProfit.StringFixed(2), w.AmazonFees.StringFixed(2), w.PPCSpend.StringFixed(2),
			w.TotalOpex.StringFixed(2), w.NetProfit.StringFixed(2), fmtPercent(w.GrossMargin),
		)
	}
	fmt.Println(strings.Repeat("=", 112))
	renderProfitLossPeriods("MONTHLY", statement.Months)
	renderProfitLossPeriods("QUARTERLY", statement.Quarters)
}

func renderProfitLossPeriods(title string, periods []core.ProfitLossSummary) {
	if len(periods) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  PROFIT & LOSS — %s\n", title)
	fmt.Printf("  %-10s %7s %10s %10s %10s %10s %10s %10s %10s %8s\n",
		"PERIOD", "UNITS", "REVENUE", "COGS", "GROSS", "FEES", "PPC", "OPEX", "NET", "MARGIN")
	fmt.Println(strings.Repeat("-", 104))
	for _, p := range periods {
		fmt.Printf("  %-10s %7s %10s %10s %10s %10s %10s %10s %10s %8s\n",
			p.Label,
			p.Units.StringFixed(0), p.Revenue.StringFixed(2), p.Cogs.StringFixed(2),
			p.GrossProfit.StringFixed(2), p.AmazonFees.StringFixed(2), p.PPCSpend.StringFixed(2),
			p.TotalOpex.StringFixed(2), p.NetProfit.StringFixed(2), fmtPercent(p.GrossMargin),
		)
	}
}

// RenderCashFlow prints the weekly cash flow and its period rollups.
func RenderCashFlow(statement core.CashFlowStatement) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 84))
	fmt.Println("  CASH FLOW — WEEKLY")
	fmt.Println(strings.Repeat("=", 84))
	if len(statement.Weeks) == 0 {
		fmt.Println("  No statement weeks found.")
		fmt.Println(strings.Repeat("=", 84))
		return
	}
	fmt.Printf("  %-4s %-11s %12s %12s %12s %12s %12s\n",
		"WK", "DATE", "PAYOUT", "INVENTORY", "FIXED", "NET", "BALANCE")
	fmt.Println(strings.Repeat("-", 84))
	for _, w := range statement.Weeks {
		fmt.Printf("  %-4d %-11s %12s %12s %12s %12s %12s\n",
			w.WeekNumber, fmtDate(w.WeekDate),
			w.AmazonPayout.StringFixed(2), w.InventorySpend.StringFixed(2),
			w.FixedCosts.StringFixed(2), w.NetCash.StringFixed(2), w.CashBalance.StringFixed(2),
		)
	}
	fmt.Println(strings.Repeat("=", 84))
	renderCashFlowPeriods("MONTHLY", statement.Months)
	renderCashFlowPeriods("QUARTERLY", statement.Quarters)
}

func renderCashFlowPeriods(title string, periods []core.CashFlowSummary) {
	if len(periods) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  CASH FLOW — %s\n", title)
	fmt.Printf("  %-10s %12s %12s %12s %12s %12s\n",
		"PERIOD", "PAYOUT", "INVENTORY", "FIXED", "NET", "CLOSING")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range periods {
		fmt.Printf("  %-10s %12s %12s %12s %12s %12s\n",
			p.Label,
			p.AmazonPayout.StringFixed(2), p.InventorySpend.StringFixed(2),
			p.FixedCosts.StringFixed(2), p.NetCash.StringFixed(2), p.ClosingBalance.StringFixed(2),
		)
	}
}

func fmtDate(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("2006-01-02")
}

func fmtPercent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
