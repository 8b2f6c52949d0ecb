// Command splitledger is a CLI client for the ledger-store server: it
// records expenses and payments and shows who owes whom.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"splitledger/internal/config"
	"splitledger/internal/ledger/rest"
	"splitledger/internal/presentation"
	"splitledger/internal/settlement"
	"splitledger/internal/worker"
	"splitledger/pkg/logging"
)

const usage = `usage: splitledger <command> [args]

commands:
  friends list                                list members with balances
  friends add <name>                          add a member
  friends rm <id>                             remove a settled member
  friends purge                               remove every settled member
  expenses list                               list expenses
  expenses add <desc> <amount> <payer> <participant>...
                                              record an expense
  expenses rm <id>                            delete an expense
  expenses purge                              delete every expense
  pay <person-id> <amount>                    pay down a member's debt
  balances                                    show net balances
`

func main() {
	log := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	engine := settlement.NewEngine(rest.New(cfg.BaseURL, cfg.Timeout), log)
	if cfg.OverpaymentPolicy == "reject" {
		engine.SetOverpaymentPolicy(settlement.RejectOverpayment)
	}

	app := &app{
		engine: engine,
		format: presentation.NewFormatter(cfg.Locale),
	}
	os.Exit(app.run(os.Args[1:]))
}

type app struct {
	engine *settlement.Engine
	format *presentation.Formatter
}

// run executes one command through a worker runner, the same serialization
// a long-lived frontend would use around the engine.
func (a *app) run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	task, err := a.command(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "splitledger: %v\n%s", err, usage)
		return 2
	}

	code := 0
	runner := worker.NewRunner(1)
	runner.Submit(task, nil, func(err error) {
		fmt.Fprintf(os.Stderr, "splitledger: %v\n", err)
		code = 1
	})
	runner.Close()
	return code
}

func (a *app) command(args []string) (worker.Task, error) {
	ctx := context.Background()
	cmd, tail := args[0], args[1:]

	switch cmd {
	case "friends":
		return a.friendsCommand(ctx, tail)
	case "expenses":
		return a.expensesCommand(ctx, tail)
	case "pay":
		if len(tail) != 2 {
			return nil, fmt.Errorf("pay needs a person id and an amount")
		}
		amount, err := settlement.ParseAmount(tail[1])
		if err != nil {
			return nil, err
		}
		return func() error {
			if err := a.engine.PayBalance(ctx, tail[0], amount); err != nil {
				return err
			}
			a.printBalances()
			return nil
		}, nil
	case "balances":
		return func() error {
			if err := a.engine.Refresh(ctx); err != nil {
				return err
			}
			a.printBalances()
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) friendsCommand(ctx context.Context, args []string) (worker.Task, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("friends needs a subcommand")
	}
	switch sub, tail := args[0], args[1:]; sub {
	case "list":
		return func() error {
			if err := a.engine.Refresh(ctx); err != nil {
				return err
			}
			a.printBalances()
			return nil
		}, nil
	case "add":
		if len(tail) != 1 {
			return nil, fmt.Errorf("friends add needs a name")
		}
		return func() error {
			p, err := a.engine.AddPerson(ctx, tail[0])
			if err != nil {
				return err
			}
			fmt.Printf("added %s (%s)\n", p.Name, p.ID)
			return nil
		}, nil
	case "rm":
		if len(tail) != 1 {
			return nil, fmt.Errorf("friends rm needs an id")
		}
		return func() error {
			return a.engine.DeletePerson(ctx, tail[0])
		}, nil
	case "purge":
		return func() error {
			if err := a.engine.Refresh(ctx); err != nil {
				return err
			}
			report, err := a.engine.DeleteAllPeople(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d of %d members\n", report.Deleted, report.Total)
			for _, f := range report.Failures {
				fmt.Printf("  kept %s: %v\n", f.Name, f.Err)
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown friends subcommand %q", sub)
	}
}

func (a *app) expensesCommand(ctx context.Context, args []string) (worker.Task, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expenses needs a subcommand")
	}
	switch sub, tail := args[0], args[1:]; sub {
	case "list":
		return func() error {
			if err := a.engine.Refresh(ctx); err != nil {
				return err
			}
			for _, e := range a.engine.Snapshot().Expenses {
				fmt.Printf("%s  %-20s %10s  %s  split %s\n",
					e.ID, e.Description, a.format.Amount(e.Amount),
					a.format.Date(e.Date), a.format.Amount(e.Split()))
			}
			return nil
		}, nil
	case "add":
		if len(tail) < 4 {
			return nil, fmt.Errorf("expenses add needs a description, amount, payer and participants")
		}
		amount, err := settlement.ParseAmount(tail[1])
		if err != nil {
			return nil, err
		}
		return func() error {
			e, err := a.engine.AddExpense(ctx, tail[0], amount, tail[2], tail[3:])
			if err != nil {
				return err
			}
			fmt.Printf("added %s (%s), split %s\n",
				e.Description, e.ID, a.format.Amount(e.Split()))
			return nil
		}, nil
	case "rm":
		if len(tail) != 1 {
			return nil, fmt.Errorf("expenses rm needs an id")
		}
		return func() error {
			if err := a.engine.Refresh(ctx); err != nil {
				return err
			}
			return a.engine.DeleteExpense(ctx, tail[0])
		}, nil
	case "purge":
		return func() error {
			if err := a.engine.Refresh(ctx); err != nil {
				return err
			}
			n, err := a.engine.DeleteAllExpenses(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d expenses\n", n)
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown expenses subcommand %q", sub)
	}
}

func (a *app) printBalances() {
	for _, p := range a.engine.Snapshot().People {
		fmt.Printf("%s  %-15s %10s\n", p.ID, p.Name, a.format.Amount(p.Balance()))
	}
}
