package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/progami/ecom-os-sub001/internal/core"
	"github.com/progami/ecom-os-sub001/internal/store"
)

func setupTestStore(t *testing.T) (*store.SnapshotStore, *pgxpool.Pool) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live planning tables.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	st := store.NewSnapshotStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE products, business_parameters,
			purchase_orders, purchase_order_batches, purchase_order_payments,
			sales_weeks, cogs_allocations, profit_loss_overrides, cash_flow_overrides,
			derived_product_costs, derived_purchase_orders, derived_payment_plan,
			derived_sales_weeks, derived_profit_loss, derived_profit_loss_periods,
			derived_cash_flow, derived_cash_flow_periods, derived_runs
		CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return st, pool
}

func seedPlanningData(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, sku, selling_price, manufacturing_cost, freight_cost,
			tariff_rate, tacos_percent, fba_fee, amazon_referral_rate, storage_per_month)
		VALUES ('p1', 'Widget', 'WID-01', 10, 3, 1, 0.10, 0.05, 0.5, 0.15, 0.1);

		INSERT INTO business_parameters (label, value_numeric, value_text) VALUES
			('Starting Cash', NULL, '$5,000'),
			('Amazon Payout Delay Weeks', 1, NULL);

		INSERT INTO purchase_orders (id, order_code, product_id, quantity, created_at, po_date)
		VALUES ('po-1', 'PO-2025-001', 'p1', 1000, '2025-01-02T00:00:00Z', '2025-01-06');

		INSERT INTO purchase_order_batches (id, order_id, product_id, quantity)
		VALUES ('b-1', 'po-1', 'p1', 1000);

		INSERT INTO purchase_order_payments (order_id, payment_index, amount_paid, due_date_source)
		VALUES ('po-1', 1, 750, 'SYSTEM');

		INSERT INTO sales_weeks (product_id, week_number, week_date, stock_start, actual_sales, forecast_sales)
		VALUES
			('p1', 1, '2025-01-06', 500, 50, NULL),
			('p1', 2, NULL, NULL, NULL, 40);
	`)
	if err != nil {
		t.Fatalf("Failed to seed planning data: %v", err)
	}
}

func TestSnapshotStore_LoadSnapshot(t *testing.T) {
	st, pool := setupTestStore(t)
	defer pool.Close()
	seedPlanningData(t, pool)

	snapshot, err := st.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if snapshot.AsOf.IsZero() {
		t.Error("expected AsOf to be stamped")
	}
	if len(snapshot.Products) != 1 || snapshot.Products[0].ID != "p1" {
		t.Fatalf("expected one product p1, got %+v", snapshot.Products)
	}
	if !snapshot.Products[0].SellingPrice.Equal(decimal.NewFromInt(10)) {
		t.Errorf("selling price = %s, want 10", snapshot.Products[0].SellingPrice)
	}
	if snapshot.Products[0].ProductionWeeks != nil {
		t.Errorf("expected nil lead-time profile, got %s", snapshot.Products[0].ProductionWeeks)
	}
	if len(snapshot.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(snapshot.Parameters))
	}

	if len(snapshot.PurchaseOrders) != 1 {
		t.Fatalf("expected 1 purchase order, got %d", len(snapshot.PurchaseOrders))
	}
	po := snapshot.PurchaseOrders[0]
	if po.ID != "po-1" || po.OrderCode != "PO-2025-001" {
		t.Errorf("unexpected order identity: %s / %s", po.ID, po.OrderCode)
	}
	if po.PODate == nil || !po.PODate.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("po date = %v, want 2025-01-06", po.PODate)
	}
	if po.ManufacturingCostOverride != nil {
		t.Errorf("expected nil manufacturing override, got %s", po.ManufacturingCostOverride)
	}
	if len(po.Batches) != 1 || po.Batches[0].ID != "b-1" {
		t.Fatalf("expected batch b-1, got %+v", po.Batches)
	}
	if len(po.Payments) != 1 {
		t.Fatalf("expected 1 payment record, got %d", len(po.Payments))
	}
	pay := po.Payments[0]
	if pay.Index != 1 || pay.AmountPaid == nil || !pay.AmountPaid.Equal(decimal.NewFromInt(750)) {
		t.Errorf("unexpected payment record: %+v", pay)
	}
	if pay.Percentage != nil {
		t.Errorf("expected nil percentage, got %s", pay.Percentage)
	}
	if pay.DueDateSource != core.DueDateSourceSystem {
		t.Errorf("due date source = %s, want SYSTEM", pay.DueDateSource)
	}

	if len(snapshot.SalesWeeks) != 2 {
		t.Fatalf("expected 2 sales weeks, got %d", len(snapshot.SalesWeeks))
	}
	if snapshot.SalesWeeks[0].StockStart == nil || !snapshot.SalesWeeks[0].StockStart.Equal(decimal.NewFromInt(500)) {
		t.Errorf("week 1 stock start = %v, want 500", snapshot.SalesWeeks[0].StockStart)
	}
	if snapshot.SalesWeeks[1].WeekDate != nil {
		t.Errorf("week 2 date should be nil, got %v", snapshot.SalesWeeks[1].WeekDate)
	}
	if snapshot.SalesWeeks[1].ForecastSales == nil || !snapshot.SalesWeeks[1].ForecastSales.Equal(decimal.NewFromInt(40)) {
		t.Errorf("week 2 forecast = %v, want 40", snapshot.SalesWeeks[1].ForecastSales)
	}
}

func TestSnapshotStore_ReplaceDerivedRoundTrip(t *testing.T) {
	st, pool := setupTestStore(t)
	defer pool.Close()
	seedPlanningData(t, pool)

	ctx := context.Background()
	snapshot, err := st.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	engine := core.NewEngine(core.DefaultEngineConfig())
	plan, err := engine.BuildPlan(snapshot)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	if err := st.ReplaceDerived(ctx, plan); err != nil {
		t.Fatalf("ReplaceDerived: %v", err)
	}

	counts := map[string]int{
		"derived_product_costs":   1,
		"derived_purchase_orders": 1,
		"derived_payment_plan":    5,
		"derived_sales_weeks":     2,
		"derived_profit_loss":     2,
		"derived_cash_flow":       2,
	}
	for table, want := range counts {
		var got int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s row count = %d, want %d", table, got, want)
		}
	}

	var paid decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT paid_amount FROM derived_purchase_orders WHERE order_id = 'po-1'").Scan(&paid); err != nil {
		t.Fatalf("read paid amount: %v", err)
	}
	if !paid.Equal(decimal.NewFromInt(750)) {
		t.Errorf("paid amount = %s, want 750", paid)
	}

	var stockEnd decimal.Decimal
	if err := pool.QueryRow(ctx,
		"SELECT stock_end FROM derived_sales_weeks WHERE product_id = 'p1' AND week_number = 2",
	).Scan(&stockEnd); err != nil {
		t.Fatalf("read stock end: %v", err)
	}
	if !stockEnd.Equal(decimal.NewFromInt(410)) {
		t.Errorf("week 2 stock end = %s, want 410", stockEnd)
	}

	// A second replace must swap, not append.
	if err := st.ReplaceDerived(ctx, plan); err != nil {
		t.Fatalf("second ReplaceDerived: %v", err)
	}
	var orders, runs int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM derived_purchase_orders").Scan(&orders); err != nil {
		t.Fatalf("count derived orders: %v", err)
	}
	if orders != 1 {
		t.Errorf("derived order count after re-run = %d, want 1", orders)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM derived_runs").Scan(&runs); err != nil {
		t.Fatalf("count derived runs: %v", err)
	}
	if runs != 2 {
		t.Errorf("derived run count = %d, want 2", runs)
	}
}
