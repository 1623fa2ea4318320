// seed-demo creates the reference planning tables and loads a small demo
// dataset so cmd/plan has something to chew on. It wipes any existing
// planning rows first; never point it at a live database.
//
// Usage: go run ./cmd/seed-demo
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/progami/ecom-os-sub001/internal/db"
	"github.com/progami/ecom-os-sub001/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	st := store.NewSnapshotStore(pool)
	log.Println("[SCHEMA] Ensuring planning tables...")
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("[CLEAR] Wiping existing planning rows...")
	_, err = tx.Exec(ctx, `
		TRUNCATE TABLE products, business_parameters,
			purchase_orders, purchase_order_batches, purchase_order_payments,
			sales_weeks, cogs_allocations, profit_loss_overrides, cash_flow_overrides
		CASCADE;
	`)
	if err != nil {
		log.Fatalf("Failed to clear planning rows: %v", err)
	}

	log.Println("[SEED] Products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, name, sku, selling_price, manufacturing_cost, freight_cost,
			tariff_rate, tacos_percent, fba_fee, amazon_referral_rate, storage_per_month, ocean_weeks)
		VALUES
			('alpha', 'Alpha Desk Organizer', 'ALP-100', 24.99, 6.50, 1.20, 0.08, 0.07, 3.45, 0.15, 0.22, NULL),
			('bravo', 'Bravo Monitor Stand',  'BRV-200', 39.99, 11.00, 2.10, 0.12, 0.05, 4.75, 0.15, 0.35, 5);
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("[SEED] Business parameters...")
	_, err = tx.Exec(ctx, `
		INSERT INTO business_parameters (label, value_numeric, value_text) VALUES
			('Starting Cash',              NULL, '$85,000'),
			('Amazon Payout Delay Weeks',  2,    NULL),
			('Weekly Fixed Costs',         1850, NULL),
			('Supplier Payment Terms Weeks', 2,  NULL),
			('Stock Warning Weeks',        6,    NULL),
			('Payment Split 1',            30,   NULL),
			('Payment Split 2',            30,   NULL),
			('Payment Split 3',            40,   NULL);
	`)
	if err != nil {
		log.Fatalf("Failed to seed parameters: %v", err)
	}

	log.Println("[SEED] Purchase orders...")
	po1, po2 := uuid.NewString(), uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO purchase_orders (id, order_code, product_id, quantity, created_at, po_date, production_complete)
		VALUES ($1, 'PO-2025-001', 'alpha', 2000, '2024-12-15T00:00:00Z', '2025-01-02', '2025-02-06')`,
		po1,
	)
	if err != nil {
		log.Fatalf("Failed to seed order PO-2025-001: %v", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO purchase_order_payments (order_id, payment_index, amount_paid, due_date_source)
		VALUES ($1, 1, 3900, 'SYSTEM')`,
		po1,
	)
	if err != nil {
		log.Fatalf("Failed to seed payments for PO-2025-001: %v", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO purchase_order_payments (order_id, payment_index, percentage, due_date, due_date_source)
		VALUES ($1, 2, 30, '2025-02-10', 'USER')`,
		po1,
	)
	if err != nil {
		log.Fatalf("Failed to seed payments for PO-2025-001: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO purchase_orders (id, order_code, product_id, quantity, created_at, po_date)
		VALUES ($1, 'PO-2025-002', 'bravo', 800, '2025-01-20T00:00:00Z', '2025-02-03')`,
		po2,
	)
	if err != nil {
		log.Fatalf("Failed to seed order PO-2025-002: %v", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO purchase_order_batches (id, order_id, product_id, quantity, manufacturing_cost)
		VALUES ($1, $3, 'bravo', 500, NULL),
		       ($2, $3, 'bravo', 300, 10.40)`,
		uuid.NewString(), uuid.NewString(), po2,
	)
	if err != nil {
		log.Fatalf("Failed to seed batches for PO-2025-002: %v", err)
	}

	log.Println("[SEED] Sales weeks...")
	anchor := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	demand := []struct {
		product  string
		stock    int
		actuals  []int
		forecast int
		weeks    int
	}{
		{product: "alpha", stock: 1200, actuals: []int{95, 88, 102, 91, 97, 105}, forecast: 100, weeks: 16},
		{product: "bravo", stock: 400, actuals: []int{22, 25, 19, 28, 24, 26}, forecast: 25, weeks: 16},
	}
	for _, d := range demand {
		for week := 1; week <= d.weeks; week++ {
			var weekDate, stockStart, actual, forecast any
			if week <= len(d.actuals) {
				weekDate = anchor.AddDate(0, 0, 7*(week-1))
				actual = d.actuals[week-1]
			} else {
				forecast = d.forecast
			}
			if week == 1 {
				stockStart = d.stock
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO sales_weeks (product_id, week_number, week_date, stock_start, actual_sales, forecast_sales)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				d.product, week, weekDate, stockStart, actual, forecast,
			)
			if err != nil {
				log.Fatalf("Failed to seed sales week %s/%d: %v", d.product, week, err)
			}
		}
	}

	log.Println("[SEED] Cogs allocations and overrides...")
	_, err = tx.Exec(ctx, `
		INSERT INTO cogs_allocations (product_id, week_number, order_ref, units, unit_cost) VALUES
			('alpha', 1, 'PO-2024-118', 60, 8.95),
			('alpha', 1, 'PO-2024-121', 35, 9.40);

		INSERT INTO profit_loss_overrides (week_number, ppc_spend) VALUES (3, 150);

		INSERT INTO cash_flow_overrides (week_number, fixed_costs) VALUES (4, 2500);
	`)
	if err != nil {
		log.Fatalf("Failed to seed allocations and overrides: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("[DONE] Demo dataset ready. Run: go run ./cmd/plan")
}
