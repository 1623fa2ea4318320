package repl

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/progami/ecom-os-sub001/internal/core"
)

// handleWhatIf runs an interactive what-if session: append one hypothetical
// purchase order to the current snapshot, rebuild the plan in memory, and
// show what it does to the payment schedule and cash position. Nothing is
// persisted and the current session plan stays as it was.
func handleWhatIf(reader *bufio.Reader, s *session) {
	fmt.Println("What-if: add a hypothetical purchase order. Type 'cancel' at any prompt to abort.")

	var ids []string
	known := make(map[string]bool, len(s.snapshot.Products))
	for _, p := range s.snapshot.Products {
		known[p.ID] = true
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		fmt.Println("No products in the snapshot; nothing to order.")
		return
	}

	fmt.Printf("Product id (%s): ", strings.Join(ids, ", "))
	productID, ok := readLine(reader)
	if !ok {
		return
	}
	if !known[productID] {
		fmt.Printf("Unknown product: %s\n", productID)
		return
	}

	fmt.Print("Quantity: ")
	rawQty, ok := readLine(reader)
	if !ok {
		return
	}
	qty, err := decimal.NewFromString(rawQty)
	if err != nil || !qty.IsPositive() {
		fmt.Printf("Invalid quantity: %s\n", rawQty)
		return
	}

	defaultDate := s.snapshot.AsOf
	if defaultDate.IsZero() {
		defaultDate = time.Now().UTC()
	}
	fmt.Printf("PO date (YYYY-MM-DD, blank = %s): ", defaultDate.Format("2006-01-02"))
	rawDate, ok := readLine(reader)
	if !ok {
		return
	}
	poDate := defaultDate
	if rawDate != "" {
		poDate, err = time.Parse("2006-01-02", rawDate)
		if err != nil {
			fmt.Printf("Invalid date: %s\n", rawDate)
			return
		}
	}

	fmt.Print("Manufacturing cost per unit (blank = catalog): ")
	rawCost, ok := readLine(reader)
	if !ok {
		return
	}
	var costOverride *decimal.Decimal
	if rawCost != "" {
		cost, err := decimal.NewFromString(rawCost)
		if err != nil || cost.IsNegative() {
			fmt.Printf("Invalid cost: %s\n", rawCost)
			return
		}
		costOverride = &cost
	}

	po := core.PurchaseOrder{
		ID:                        "what-if",
		OrderCode:                 "WHAT-IF",
		ProductID:                 productID,
		Quantity:                  qty,
		CreatedAt:                 poDate,
		PODate:                    &poDate,
		ManufacturingCostOverride: costOverride,
	}

	// Copy the order slice so the trial append cannot touch the session
	// snapshot's backing array.
	trial := *s.snapshot
	trial.PurchaseOrders = append(append([]core.PurchaseOrder{}, s.snapshot.PurchaseOrders...), po)

	result, err := s.svc.BuildPlanFromSnapshot(&trial)
	if err != nil {
		fmt.Printf("What-if failed: %v\n", err)
		return
	}

	for i := range result.Plan.Orders {
		if result.Plan.Orders[i].OrderID == po.ID {
			printWhatIfOrder(&result.Plan.Orders[i])
			break
		}
	}
	printCashComparison(s.result.Plan, result.Plan)
}

func readLine(reader *bufio.Reader) (string, bool) {
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "cancel") {
		fmt.Println("What-if cancelled.")
		return "", false
	}
	return raw, true
}
