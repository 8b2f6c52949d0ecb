package models

// DateLayout is the wire format for expense dates (ISO calendar date).
const DateLayout = "2006-01-02"

// Expense represents a shared expense paid by one person and split evenly
// among its participants.
type Expense struct {
	// ID is the opaque identifier assigned by the ledger store.
	ID string

	// Description is a human-readable label for the expense. Non-empty.
	Description string

	// Amount is the total amount paid. Always > 0 for a valid expense.
	Amount float64

	// Date is the expense date in DateLayout format.
	Date string

	// PayerID identifies who fronted the money. Empty when unknown, e.g.
	// when the store could not be queried for share details during a load.
	PayerID string

	// ParticipantIDs lists who consumed the expense. The payer may or may
	// not be among them.
	ParticipantIDs []string

	// ParticipantCount is the number of participants the split is based
	// on. Kept separately from len(ParticipantIDs) because a freshly
	// decoded expense may know its count before the participant list has
	// been fetched.
	ParticipantCount int
}

// Split returns the even per-person share: Amount / ParticipantCount.
// Returns 0 when there are no participants rather than dividing by zero;
// participant-set validation happens at creation time, not here.
func (e *Expense) Split() float64 {
	if e.ParticipantCount > 0 {
		return e.Amount / float64(e.ParticipantCount)
	}
	return 0.0
}

// SetParticipants replaces the participant list and keeps the count in sync.
func (e *Expense) SetParticipants(ids []string) {
	e.ParticipantIDs = ids
	e.ParticipantCount = len(ids)
}

// Share is one participant's credit/debit record scoped to a single expense.
// It mirrors Person's balance shape at expense scope.
type Share struct {
	CreditBalance float64
	DebitBalance  float64
}

// Debt returns the outstanding amount still owed on this share:
// DebitBalance - CreditBalance. Zero or negative means nothing is owed.
func (s *Share) Debt() float64 {
	return s.DebitBalance - s.CreditBalance
}

// PersonShare is a share annotated with the expense it belongs to, as
// returned when listing all of one person's shares for payment allocation.
type PersonShare struct {
	ExpenseID string
	Share
}
