package repl

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/progami/ecom-os-sub001/internal/core"
)

func printParameters(p core.Parameters) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 58))
	fmt.Println("  BUSINESS PARAMETERS (normalized)")
	fmt.Println(strings.Repeat("=", 58))
	fmt.Printf("  %-34s %12s\n", "Starting cash", p.StartingCash.StringFixed(2))
	fmt.Printf("  %-34s %12d\n", "Amazon payout delay (weeks)", p.AmazonPayoutDelayWeeks)
	fmt.Printf("  %-34s %12s\n", "Weekly fixed costs", p.WeeklyFixedCosts.StringFixed(2))
	fmt.Printf("  %-34s %12s\n", "Supplier payment terms (weeks)", p.SupplierPaymentTermsWeeks.String())
	fmt.Printf("  %-34s %s / %s / %s\n", "Supplier payment split",
		pct(p.SupplierPaymentSplit[0]), pct(p.SupplierPaymentSplit[1]), pct(p.SupplierPaymentSplit[2]))
	fmt.Printf("  %-34s %12d\n", "Stock warning threshold (weeks)", p.StockWarningWeeks)
	fmt.Println(strings.Repeat("=", 58))
}

func printWhatIfOrder(o *core.PurchaseOrderDerived) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("  WHAT-IF ORDER — %s × %s\n", o.ProductID, o.Quantity.StringFixed(0))
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("  Production start:    %s\n", o.Schedule.ProductionStart.Format("2006-01-02"))
	fmt.Printf("  Available:           %s  (%d lead days)\n",
		o.Schedule.AvailableDate.Format("2006-01-02"), o.TotalLeadDays)
	fmt.Printf("  Supplier cost total: %s\n", o.SupplierCostTotal.StringFixed(2))
	fmt.Println("  Payments due:")
	for _, item := range o.PaymentPlan {
		fmt.Printf("    %-11s %-15s %12s\n",
			item.DueDate.Format("2006-01-02"), item.Label, item.PlannedAmount.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 60))
}

func printCashComparison(current, trial *core.Plan) {
	cw, tw := current.CashFlow.Weeks, trial.CashFlow.Weeks
	if len(cw) == 0 || len(tw) == 0 {
		fmt.Println("No cash flow weeks to compare.")
		return
	}
	curClose := cw[len(cw)-1].CashBalance
	triClose := tw[len(tw)-1].CashBalance
	curLow, curLowWeek := lowestBalance(cw)
	triLow, triLowWeek := lowestBalance(tw)

	fmt.Println()
	fmt.Println(strings.Repeat("-", 64))
	fmt.Println("  CASH IMPACT")
	fmt.Println(strings.Repeat("-", 64))
	fmt.Printf("  %-20s %18s %18s\n", "", "CURRENT", "WHAT-IF")
	fmt.Printf("  %-20s %18s %18s\n", "Closing balance", curClose.StringFixed(2), triClose.StringFixed(2))
	fmt.Printf("  %-20s %18s %18s\n", "Lowest balance",
		fmt.Sprintf("%s (w%d)", curLow.StringFixed(2), curLowWeek),
		fmt.Sprintf("%s (w%d)", triLow.StringFixed(2), triLowWeek))
	fmt.Printf("  %-20s %18s\n", "Closing delta", triClose.Sub(curClose).StringFixed(2))
	if triLow.IsNegative() && !curLow.IsNegative() {
		fmt.Println("  WARNING: the what-if order drives the cash balance negative.")
	}
	fmt.Println(strings.Repeat("-", 64))
}

func lowestBalance(weeks []core.CashFlowWeek) (decimal.Decimal, int) {
	low, week := weeks[0].CashBalance, weeks[0].WeekNumber
	for _, w := range weeks[1:] {
		if w.CashBalance.LessThan(low) {
			low, week = w.CashBalance, w.WeekNumber
		}
	}
	return low, week
}

func pct(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
}

func printHelp() {
	fmt.Println()
	fmt.Println("PLANNING CONSOLE — COMMANDS")
	fmt.Println(strings.Repeat("=", 62))
	fmt.Println()
	fmt.Println("  STATEMENTS")
	fmt.Println("  /plan                 Everything: costs, orders, stock, P&L, cash")
	fmt.Println("  /costs                Product cost summary")
	fmt.Println("  /orders               Purchase order timelines and payment plans")
	fmt.Println("  /stock                Weekly stock projection")
	fmt.Println("  /pl                   Profit & loss (weekly, monthly, quarterly)")
	fmt.Println("  /cash                 Cash flow (weekly, monthly, quarterly)")
	fmt.Println("  /params               Normalized business parameters")
	fmt.Println()
	fmt.Println("  PLANNING")
	fmt.Println("  /what-if              Add a hypothetical order and compare cash impact")
	fmt.Println("  /reload               Re-read the snapshot and recompute")
	fmt.Println("  /save                 Replace the derived rows in the database")
	fmt.Println()
	fmt.Println("  CONTRACTS")
	fmt.Println("  /schema snapshot      JSON Schema of the engine input")
	fmt.Println("  /schema plan          JSON Schema of the derived output")
	fmt.Println()
	fmt.Println("  SESSION")
	fmt.Println("  /help                 Show this help")
	fmt.Println("  /exit                 Exit")
	fmt.Println(strings.Repeat("=", 62))
}
