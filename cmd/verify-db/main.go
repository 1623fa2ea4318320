// verify-db sanity-checks the reference planning store: connectivity, table
// presence, and row counts. Exit code 0 means the store is usable.
//
// Usage: go run ./cmd/verify-db
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var planningTables = []string{
	"products",
	"business_parameters",
	"purchase_orders",
	"purchase_order_batches",
	"purchase_order_payments",
	"sales_weeks",
	"cogs_allocations",
	"profit_loss_overrides",
	"cash_flow_overrides",
	"derived_product_costs",
	"derived_purchase_orders",
	"derived_payment_plan",
	"derived_sales_weeks",
	"derived_profit_loss",
	"derived_profit_loss_periods",
	"derived_cash_flow",
	"derived_cash_flow_periods",
	"derived_runs",
}

func main() {
	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("[CONNECT] DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool := connectDB(ctx, url)
	defer pool.Close()

	missing := 0
	for _, table := range planningTables {
		var regclass *string
		if err := pool.QueryRow(ctx, "SELECT to_regclass($1)::text", table).Scan(&regclass); err != nil {
			log.Fatalf("[CHECK] failed to look up table %s: %v", table, err)
		}
		if regclass == nil {
			log.Printf("[MISSING] %s", table)
			missing++
			continue
		}

		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			log.Fatalf("[CHECK] failed to count %s: %v", table, err)
		}
		log.Printf("[OK] %-28s %6d rows", table, count)
	}
	if missing > 0 {
		log.Fatalf("[DONE] %d table(s) missing — run ./cmd/seed-demo to create them", missing)
	}

	var lastRun *time.Time
	if err := pool.QueryRow(ctx, "SELECT MAX(generated_at) FROM derived_runs").Scan(&lastRun); err != nil {
		log.Fatalf("[CHECK] failed to read derived_runs: %v", err)
	}
	if lastRun == nil {
		log.Println("[DONE] Store is usable; no plan has been persisted yet.")
		return
	}
	log.Printf("[DONE] Store is usable; last derived run at %s.", lastRun.Format(time.RFC3339))
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatalf("[CONNECT] failed to create pool: %v", err)
	}

	if err := pool.Ping(connCtx); err != nil {
		log.Fatalf("[CONNECT] failed to ping database: %v", err)
	}

	log.Println("[CONNECT] success")
	return pool
}
