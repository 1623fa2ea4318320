// console starts the interactive planning console against the database
// snapshot. All commands work on an in-memory plan; only /save writes back.
//
// Usage: go run ./cmd/console
package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/progami/ecom-os-sub001/internal/adapters/repl"
	"github.com/progami/ecom-os-sub001/internal/app"
	"github.com/progami/ecom-os-sub001/internal/core"
	"github.com/progami/ecom-os-sub001/internal/db"
	"github.com/progami/ecom-os-sub001/internal/store"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	st := store.NewSnapshotStore(pool)
	svc := app.NewPlanningService(st, core.NewEngine(core.DefaultEngineConfig()))

	repl.Run(ctx, st, svc, bufio.NewReader(os.Stdin))
}
