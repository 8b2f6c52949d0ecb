// Package ledger defines the ledger-store contract consumed by the
// settlement engine, together with the error taxonomy every implementation
// classifies its failures into.
package ledger

import (
	"context"

	"splitledger/internal/models"
)

// Store is the interface to durable ledger storage. This abstraction allows
// swapping backends (the remote REST store, SQLite, in-memory for tests)
// without changing the engine.
//
// All calls are synchronous request/response with a fixed per-request
// timeout. Implementations classify failures into ErrConnectionFailure,
// ErrTimeout, or RemoteError; see errors.go. None of the calls is
// transactional across each other: multi-step flows in the engine handle
// partial failure themselves.
type Store interface {
	// ListPeople returns every member of the group with balances derived
	// from their shares across all expenses.
	ListPeople(ctx context.Context) ([]*models.Person, error)

	// CreatePerson adds a member and returns it with the assigned id.
	// Fails with a conflict RemoteError when the name is already taken.
	CreatePerson(ctx context.Context, name string) (*models.Person, error)

	// GetPerson returns the authoritative state for one member.
	GetPerson(ctx context.Context, id string) (*models.Person, error)

	// DeletePerson removes a member. Fails with a conflict RemoteError
	// when the member's balance is nonzero store-side.
	DeletePerson(ctx context.Context, id string) error

	// ListExpenses returns every expense. Participant lists are not
	// populated; use ListParticipants per expense.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// CreateExpense persists the base expense record and returns it with
	// the assigned id.
	CreateExpense(ctx context.Context, description string, amount float64, date string) (*models.Expense, error)

	// UpdateExpense replaces the base fields of an existing expense.
	UpdateExpense(ctx context.Context, id, description string, amount float64, date string) error

	// DeleteExpense removes an expense and all its participant shares.
	DeleteExpense(ctx context.Context, id string) error

	// AddParticipant links a person to an expense with a zeroed share.
	AddParticipant(ctx context.Context, expenseID, personID string) error

	// RemoveParticipant unlinks a person from an expense.
	RemoveParticipant(ctx context.Context, expenseID, personID string) error

	// ListParticipants returns the person ids linked to an expense.
	ListParticipants(ctx context.Context, expenseID string) ([]string, error)

	// SetShare assigns a participant's share from a signed amount:
	// amount >= 0 sets {credit: amount, debit: 0}, amount < 0 sets
	// {credit: 0, debit: -amount}. Used when settling an expense's
	// create/edit arithmetic.
	SetShare(ctx context.Context, expenseID, personID string, amount float64) error

	// AddShareCredit increments a participant's share credit, leaving the
	// debit untouched. Used by payment allocation only.
	AddShareCredit(ctx context.Context, expenseID, personID string, amount float64) error

	// GetShare returns one participant's share on one expense.
	GetShare(ctx context.Context, expenseID, personID string) (*models.Share, error)

	// ListPersonShares returns all of one person's shares. The order is
	// store-defined, oldest expense first; payment allocation consumes it
	// as-is without re-sorting.
	ListPersonShares(ctx context.Context, personID string) ([]*models.PersonShare, error)
}
