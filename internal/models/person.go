package models

import "math"

// SettledTolerance is the absolute balance below which a person is treated
// as settled. Deleting a person is only permitted in that state.
const SettledTolerance = 0.01

// Person represents a member of the expense-sharing group.
type Person struct {
	// ID is the opaque identifier assigned by the ledger store.
	ID string

	// Name is the person's display name, unique within the group.
	Name string

	// CreditBalance is the total amount owed *to* this person, summed
	// over their shares across all expenses. Never negative.
	CreditBalance float64

	// DebitBalance is the total amount this person owes. Never negative.
	DebitBalance float64
}

// Balance returns the person's net balance: CreditBalance - DebitBalance.
// Positive means the group owes them, negative means they owe the group.
// No tolerance is applied here; callers decide what counts as zero.
func (p *Person) Balance() float64 {
	return p.CreditBalance - p.DebitBalance
}

// Settled reports whether the person's balance is within SettledTolerance
// of zero.
func (p *Person) Settled() bool {
	return math.Abs(p.Balance()) < SettledTolerance
}
