// Package memory provides an in-memory implementation of the ledger.Store
// interface. It keeps expenses in insertion order, derives person balances
// from share sums the same way the SQLite store does, and can be told to
// fail specific operations, which makes it the backend of choice for engine
// tests.
package memory

import (
	"context"
	"math"
	"strconv"
	"sync"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// Ensure Store implements ledger.Store.
var _ ledger.Store = (*Store)(nil)

type share struct {
	personID string
	credit   float64
	debit    float64
}

type expense struct {
	id          string
	description string
	amount      float64
	date        string
	shares      []*share // participant insertion order
}

type person struct {
	id   string
	name string
}

// Store is an in-memory ledger store.
type Store struct {
	mu       sync.Mutex
	nextID   int
	people   []*person
	expenses []*expense // insertion order = oldest first
	failures map[string]error
	calls    []string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{failures: make(map[string]error)}
}

// FailOn makes every subsequent call of the named operation (the method
// name, e.g. "SetShare") return err, until cleared with ClearFailures.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures removes all injected failures.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]error)
}

// Calls returns the operation names invoked so far, in order.
func (s *Store) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// HasExpense reports whether an expense with the given id exists.
func (s *Store) HasExpense(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findExpense(id) != nil
}

// begin records the call and returns the injected failure, if any.
// Callers must hold s.mu.
func (s *Store) begin(op string) error {
	s.calls = append(s.calls, op)
	return s.failures[op]
}

func (s *Store) assignID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Store) findExpense(id string) *expense {
	for _, e := range s.expenses {
		if e.id == id {
			return e
		}
	}
	return nil
}

func (s *Store) findPerson(id string) *person {
	for _, p := range s.people {
		if p.id == id {
			return p
		}
	}
	return nil
}

// balances sums a person's shares across all expenses.
func (s *Store) balances(personID string) (credit, debit float64) {
	for _, e := range s.expenses {
		for _, sh := range e.shares {
			if sh.personID == personID {
				credit += sh.credit
				debit += sh.debit
			}
		}
	}
	return credit, debit
}

func (s *Store) ListPeople(ctx context.Context) ([]*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ListPeople"); err != nil {
		return nil, err
	}
	out := make([]*models.Person, 0, len(s.people))
	for _, p := range s.people {
		credit, debit := s.balances(p.id)
		out = append(out, &models.Person{ID: p.id, Name: p.name, CreditBalance: credit, DebitBalance: debit})
	}
	return out, nil
}

func (s *Store) CreatePerson(ctx context.Context, name string) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CreatePerson"); err != nil {
		return nil, err
	}
	for _, p := range s.people {
		if p.name == name {
			return nil, ledger.Reject(409)
		}
	}
	p := &person{id: s.assignID(), name: name}
	s.people = append(s.people, p)
	return &models.Person{ID: p.id, Name: p.name}, nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("GetPerson"); err != nil {
		return nil, err
	}
	p := s.findPerson(id)
	if p == nil {
		return nil, ledger.Reject(404)
	}
	credit, debit := s.balances(p.id)
	return &models.Person{ID: p.id, Name: p.name, CreditBalance: credit, DebitBalance: debit}, nil
}

func (s *Store) DeletePerson(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DeletePerson"); err != nil {
		return err
	}
	p := s.findPerson(id)
	if p == nil {
		return ledger.Reject(404)
	}
	credit, debit := s.balances(id)
	if math.Abs(credit-debit) >= models.SettledTolerance {
		return ledger.Reject(409)
	}
	kept := s.people[:0]
	for _, q := range s.people {
		if q.id != id {
			kept = append(kept, q)
		}
	}
	s.people = kept
	return nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ListExpenses"); err != nil {
		return nil, err
	}
	out := make([]*models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, &models.Expense{
			ID:               e.id,
			Description:      e.description,
			Amount:           e.amount,
			Date:             e.date,
			ParticipantCount: len(e.shares),
		})
	}
	return out, nil
}

func (s *Store) CreateExpense(ctx context.Context, description string, amount float64, date string) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("CreateExpense"); err != nil {
		return nil, err
	}
	e := &expense{id: s.assignID(), description: description, amount: amount, date: date}
	s.expenses = append(s.expenses, e)
	return &models.Expense{ID: e.id, Description: description, Amount: amount, Date: date}, nil
}

func (s *Store) UpdateExpense(ctx context.Context, id, description string, amount float64, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("UpdateExpense"); err != nil {
		return err
	}
	e := s.findExpense(id)
	if e == nil {
		return ledger.Reject(404)
	}
	e.description = description
	e.amount = amount
	e.date = date
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("DeleteExpense"); err != nil {
		return err
	}
	if s.findExpense(id) == nil {
		return ledger.Reject(404)
	}
	kept := s.expenses[:0]
	for _, e := range s.expenses {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	s.expenses = kept
	return nil
}

func (s *Store) AddParticipant(ctx context.Context, expenseID, personID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("AddParticipant"); err != nil {
		return err
	}
	e := s.findExpense(expenseID)
	if e == nil || s.findPerson(personID) == nil {
		return ledger.Reject(404)
	}
	for _, sh := range e.shares {
		if sh.personID == personID {
			return ledger.Reject(409)
		}
	}
	e.shares = append(e.shares, &share{personID: personID})
	return nil
}

func (s *Store) RemoveParticipant(ctx context.Context, expenseID, personID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("RemoveParticipant"); err != nil {
		return err
	}
	e := s.findExpense(expenseID)
	if e == nil {
		return ledger.Reject(404)
	}
	for i, sh := range e.shares {
		if sh.personID == personID {
			e.shares = append(e.shares[:i], e.shares[i+1:]...)
			return nil
		}
	}
	return ledger.Reject(404)
}

func (s *Store) ListParticipants(ctx context.Context, expenseID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ListParticipants"); err != nil {
		return nil, err
	}
	e := s.findExpense(expenseID)
	if e == nil {
		return nil, ledger.Reject(404)
	}
	ids := make([]string, 0, len(e.shares))
	for _, sh := range e.shares {
		ids = append(ids, sh.personID)
	}
	return ids, nil
}

func (s *Store) SetShare(ctx context.Context, expenseID, personID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("SetShare"); err != nil {
		return err
	}
	sh, err := s.share(expenseID, personID)
	if err != nil {
		return err
	}
	if amount >= 0 {
		sh.credit = amount
		sh.debit = 0
	} else {
		sh.credit = 0
		sh.debit = -amount
	}
	return nil
}

func (s *Store) AddShareCredit(ctx context.Context, expenseID, personID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("AddShareCredit"); err != nil {
		return err
	}
	sh, err := s.share(expenseID, personID)
	if err != nil {
		return err
	}
	sh.credit += amount
	return nil
}

func (s *Store) GetShare(ctx context.Context, expenseID, personID string) (*models.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("GetShare"); err != nil {
		return nil, err
	}
	sh, err := s.share(expenseID, personID)
	if err != nil {
		return nil, err
	}
	return &models.Share{CreditBalance: sh.credit, DebitBalance: sh.debit}, nil
}

func (s *Store) ListPersonShares(ctx context.Context, personID string) ([]*models.PersonShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("ListPersonShares"); err != nil {
		return nil, err
	}
	if s.findPerson(personID) == nil {
		return nil, ledger.Reject(404)
	}
	var out []*models.PersonShare
	for _, e := range s.expenses { // oldest first
		for _, sh := range e.shares {
			if sh.personID == personID {
				out = append(out, &models.PersonShare{
					ExpenseID: e.id,
					Share:     models.Share{CreditBalance: sh.credit, DebitBalance: sh.debit},
				})
			}
		}
	}
	return out, nil
}

// share looks up a participant's share. Callers must hold s.mu.
func (s *Store) share(expenseID, personID string) (*share, error) {
	e := s.findExpense(expenseID)
	if e == nil {
		return nil, ledger.Reject(404)
	}
	for _, sh := range e.shares {
		if sh.personID == personID {
			return sh, nil
		}
	}
	return nil, ledger.Reject(404)
}
