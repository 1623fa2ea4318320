// Package repl is the interactive planning console: slash commands over one
// in-memory plan, recomputed on demand from the store snapshot.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/progami/ecom-os-sub001/internal/adapters/cli"
	"github.com/progami/ecom-os-sub001/internal/app"
	"github.com/progami/ecom-os-sub001/internal/core"
)

// session holds the console state: the last loaded snapshot and the plan
// derived from it. Commands render from here; /reload swaps both.
type session struct {
	store    app.SnapshotStore
	svc      app.PlanningService
	snapshot *core.Snapshot
	result   *app.PlanResult
}

func (s *session) reload(ctx context.Context) error {
	snapshot, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	result, err := s.svc.BuildPlanFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	s.snapshot = snapshot
	s.result = result
	return nil
}

// Run starts the interactive console loop. It computes the plan once up
// front and keeps it in memory; every command is deterministic.
func Run(ctx context.Context, store app.SnapshotStore, svc app.PlanningService, reader *bufio.Reader) {
	s := &session{store: store, svc: svc}
	if err := s.reload(ctx); err != nil {
		log.Fatalf("Failed to build initial plan: %v", err)
	}

	fmt.Println("Planning Console")
	fmt.Printf("Run: %s — %d products, %d orders, %d statement weeks\n",
		s.result.RunID, len(s.result.Plan.CostSummaries), len(s.result.Plan.Orders),
		len(s.result.Plan.ProfitLoss.Weeks))
	fmt.Println("Type /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "plan":
			cli.RenderPlan(s.result)

		case "costs":
			cli.RenderCostSummaries(s.result.Plan.CostSummaries)

		case "orders":
			cli.RenderOrders(s.result.Plan.Orders)

		case "stock":
			cli.RenderSalesWeeks(s.result.Plan.SalesWeeks)

		case "pl":
			cli.RenderProfitLoss(s.result.Plan.ProfitLoss)

		case "cash":
			cli.RenderCashFlow(s.result.Plan.CashFlow)

		case "params":
			printParameters(s.result.Plan.Parameters)

		case "what-if", "whatif":
			handleWhatIf(reader, s)

		case "reload":
			if err := s.reload(ctx); err != nil {
				return err
			}
			fmt.Printf("Snapshot reloaded. Run: %s\n", s.result.RunID)

		case "save":
			if err := s.svc.SavePlan(ctx, s.result.Plan); err != nil {
				return err
			}
			fmt.Printf("Derived rows replaced (run %s).\n", s.result.RunID)

		case "schema":
			if len(args) < 1 {
				fmt.Println("Usage: /schema <snapshot|plan>")
				return nil
			}
			var schema string
			var err error
			switch strings.ToLower(args[0]) {
			case "snapshot":
				schema, err = s.svc.SnapshotSchema()
			case "plan":
				schema, err = s.svc.PlanSchema()
			default:
				fmt.Println("Usage: /schema <snapshot|plan>")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(schema)

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Println("Commands start with / — type /help for the list.")
			continue
		}

		if err := dispatchSlash(input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye!")
				break
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}
