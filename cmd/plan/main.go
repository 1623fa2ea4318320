// plan runs the planning engine once: load a snapshot (PostgreSQL by
// default, or a JSON file), derive every statement, and print them. With
// -save the derived rows replace the previous run's rows in the database.
//
// Usage: go run ./cmd/plan [-file snapshot.json] [-as-of 2025-01-15] [-json] [-save]
//        go run ./cmd/plan -schema snapshot|plan
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/progami/ecom-os-sub001/internal/adapters/cli"
	"github.com/progami/ecom-os-sub001/internal/app"
	"github.com/progami/ecom-os-sub001/internal/core"
	"github.com/progami/ecom-os-sub001/internal/db"
	"github.com/progami/ecom-os-sub001/internal/store"
)

func main() {
	_ = godotenv.Load()

	var (
		fromFile   = flag.String("file", "", "load the snapshot from a JSON file instead of the database")
		asOf       = flag.String("as-of", "", "override the as-of date (YYYY-MM-DD); only with -file")
		save       = flag.Bool("save", false, "replace the derived rows in the database after the run")
		asJSON     = flag.Bool("json", false, "print the full plan as JSON instead of tables")
		schemaName = flag.String("schema", "", "print a JSON Schema contract and exit: snapshot or plan")
	)
	flag.Parse()

	engine := core.NewEngine(core.DefaultEngineConfig())

	if *schemaName != "" {
		printSchema(engine, *schemaName)
		return
	}

	if *fromFile != "" {
		if *save {
			log.Fatal("-save needs a database snapshot; it cannot be combined with -file")
		}
		runFromFile(engine, *fromFile, *asOf, *asJSON)
		return
	}
	if *asOf != "" {
		log.Fatal("-as-of requires -file; database snapshots are stamped at load time")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	svc := app.NewPlanningService(store.NewSnapshotStore(pool), engine)
	result, err := svc.BuildPlan(ctx)
	if err != nil {
		log.Fatalf("Plan run failed: %v", err)
	}
	output(result, *asJSON)

	if *save {
		if err := svc.SavePlan(ctx, result.Plan); err != nil {
			log.Fatalf("Failed to save derived plan: %v", err)
		}
		log.Printf("[SAVE] derived rows replaced (run %s)", result.RunID)
	}
}

func printSchema(engine *core.Engine, name string) {
	svc := app.NewPlanningService(nil, engine)

	var schema string
	var err error
	switch name {
	case "snapshot":
		schema, err = svc.SnapshotSchema()
	case "plan":
		schema, err = svc.PlanSchema()
	default:
		log.Fatalf("Unknown schema %q (want snapshot or plan)", name)
	}
	if err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}
	fmt.Println(schema)
}

func runFromFile(engine *core.Engine, path, asOf string, asJSON bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read snapshot file: %v", err)
	}
	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		log.Fatalf("Invalid snapshot JSON: %v", err)
	}
	if asOf != "" {
		day, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			log.Fatalf("Invalid -as-of date %q: %v", asOf, err)
		}
		snapshot.AsOf = day.UTC()
	}

	svc := app.NewPlanningService(nil, engine)
	result, err := svc.BuildPlanFromSnapshot(&snapshot)
	if err != nil {
		log.Fatalf("Plan run failed: %v", err)
	}
	output(result, asJSON)
}

func output(result *app.PlanResult, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
		return
	}
	cli.RenderPlan(result)
}
