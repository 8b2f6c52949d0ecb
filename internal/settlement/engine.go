// Package settlement implements the balance engine: it turns expenses and
// payments into per-person credit/debit shares through a ledger.Store and
// keeps an in-memory group in sync for balance queries.
//
// The engine performs no internal locking. It assumes at most one operation
// is in flight against its group at a time; callers that need background
// execution serialize invocations themselves (see the worker package).
package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
	"splitledger/internal/presentation"
)

// OverpaymentPolicy decides what happens when a payment exceeds the
// person's total outstanding debt.
type OverpaymentPolicy int

const (
	// DiscardOverpayment silently absorbs the excess. Default.
	DiscardOverpayment OverpaymentPolicy = iota

	// RejectOverpayment fails the whole payment with ErrOverpayment before
	// any share is credited.
	RejectOverpayment
)

// Engine orchestrates settlement operations against a ledger store and
// maintains the in-memory group the caller queries for balances.
type Engine struct {
	store       ledger.Store
	group       *models.Group
	overpayment OverpaymentPolicy
	log         *slog.Logger
}

// NewEngine creates an engine over the given store with an empty group.
func NewEngine(store ledger.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store: store,
		group: models.NewGroup(),
		log:   log,
	}
}

// SetOverpaymentPolicy selects how PayBalance treats excess payment.
func (e *Engine) SetOverpaymentPolicy(p OverpaymentPolicy) {
	e.overpayment = p
}

// Group returns the engine's in-memory group. Callers must not mutate it.
func (e *Engine) Group() *models.Group {
	return e.group
}

// Snapshot returns a read-only copy of the in-memory group for display.
func (e *Engine) Snapshot() *presentation.Snapshot {
	return presentation.NewSnapshot(e.group)
}

// Refresh reloads people and expenses from the store into the in-memory
// group. Each expense is enriched with its participant list and an inferred
// payer; enrichment failures are logged and the bare expense kept, so one
// bad record does not sink the whole load.
func (e *Engine) Refresh(ctx context.Context) error {
	if err := e.refreshPeople(ctx); err != nil {
		return err
	}
	return e.refreshExpenses(ctx)
}

func (e *Engine) refreshPeople(ctx context.Context) error {
	people, err := e.store.ListPeople(ctx)
	if err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}
	e.group.People = people
	return nil
}

func (e *Engine) refreshExpenses(ctx context.Context) error {
	expenses, err := e.store.ListExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	for _, exp := range expenses {
		if err := e.enrichExpense(ctx, exp); err != nil {
			e.log.Warn("failed to enrich expense, keeping bare record",
				"expense_id", exp.ID, "error", err)
		}
	}
	e.group.Expenses = expenses
	return nil
}

// enrichExpense fills in the participant list and infers the payer as the
// first participant whose share holds positive credit. The inference is a
// heuristic: if several participants carry credit, the first one wins.
func (e *Engine) enrichExpense(ctx context.Context, exp *models.Expense) error {
	participants, err := e.store.ListParticipants(ctx, exp.ID)
	if err != nil {
		return err
	}
	exp.SetParticipants(participants)

	for _, pid := range participants {
		share, err := e.store.GetShare(ctx, exp.ID, pid)
		if err != nil {
			return err
		}
		if share.CreditBalance > 0 {
			exp.PayerID = pid
			break
		}
	}
	return nil
}

// AddPerson creates a member in the store and appends them to the group.
func (e *Engine) AddPerson(ctx context.Context, name string) (*models.Person, error) {
	p, err := e.store.CreatePerson(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	e.group.People = append(e.group.People, p)
	return p, nil
}

// DeletePerson removes a member, but only when their authoritative balance
// from the store is settled. An unsettled balance fails with
// PendingBalanceError and nothing is deleted.
func (e *Engine) DeletePerson(ctx context.Context, id string) error {
	p, err := e.store.GetPerson(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch person: %w", err)
	}
	if math.Abs(p.Balance()) >= models.SettledTolerance {
		return &PendingBalanceError{Name: p.Name, Amount: p.Balance()}
	}
	if err := e.store.DeletePerson(ctx, id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	e.group.RemovePerson(id)
	return nil
}
