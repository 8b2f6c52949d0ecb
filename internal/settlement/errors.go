package settlement

import (
	"errors"
	"fmt"
)

// Validation and business-rule errors surfaced by the engine. Transport
// failures from the store pass through as the ledger package's errors.
var (
	// ErrInvalidAmount means an amount was empty, unparseable, or not
	// strictly positive. Raised before any store call.
	ErrInvalidAmount = errors.New("settlement: invalid amount")

	// ErrNoParticipants means an expense was submitted with an empty
	// participant set.
	ErrNoParticipants = errors.New("settlement: expense needs at least one participant")

	// ErrExpenseNotFound means the target expense is not in the in-memory
	// group.
	ErrExpenseNotFound = errors.New("settlement: expense not found")

	// ErrNothingToDelete means a bulk delete was requested on an empty set.
	ErrNothingToDelete = errors.New("settlement: nothing to delete")

	// ErrOverpayment means a payment exceeded the person's total debt and
	// the engine is configured to reject rather than discard the excess.
	ErrOverpayment = errors.New("settlement: payment exceeds outstanding debt")
)

// PendingBalanceError means a person cannot be deleted because their
// balance is not settled.
type PendingBalanceError struct {
	// Name of the person, for reporting.
	Name string

	// Amount is the outstanding net balance.
	Amount float64
}

func (e *PendingBalanceError) Error() string {
	return fmt.Sprintf("settlement: %s has a pending balance of %.2f", e.Name, e.Amount)
}
