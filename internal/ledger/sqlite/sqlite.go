// Package sqlite provides a SQLite-backed implementation of the
// ledger.Store interface. It is the storage behind the ledger-store server;
// clients normally reach it through the rest package rather than directly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// Ensure Store implements ledger.Store.
var _ ledger.Store = (*Store)(nil)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Share deletes ride on ON DELETE CASCADE
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const personQuery = `
SELECT p.id, p.name,
       COALESCE(SUM(s.credit_balance), 0),
       COALESCE(SUM(s.debit_balance), 0)
FROM people p
LEFT JOIN expense_shares s ON s.person_id = p.id
`

// ListPeople returns all members ordered by name, balances derived from
// their expense shares.
func (s *Store) ListPeople(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, personQuery+" GROUP BY p.id ORDER BY p.name")
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		p := &models.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.CreditBalance, &p.DebitBalance); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

// CreatePerson inserts a new member. A duplicate name is rejected with a
// conflict.
func (s *Store) CreatePerson(ctx context.Context, name string) (*models.Person, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, "INSERT INTO people (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ledger.Reject(http.StatusConflict)
		}
		return nil, fmt.Errorf("failed to insert person: %w", err)
	}
	return &models.Person{ID: id, Name: name}, nil
}

// GetPerson returns one member with derived balances.
func (s *Store) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	p := &models.Person{}
	err := s.db.QueryRowContext(ctx, personQuery+" WHERE p.id = ? GROUP BY p.id", id).
		Scan(&p.ID, &p.Name, &p.CreditBalance, &p.DebitBalance)
	if err == sql.ErrNoRows {
		return nil, ledger.Reject(http.StatusNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// DeletePerson removes a member, refusing with a conflict if their derived
// balance is nonzero. This is the store-side guard behind the engine's own
// precondition check.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	p, err := s.GetPerson(ctx, id)
	if err != nil {
		return err
	}
	if math.Abs(p.Balance()) >= models.SettledTolerance {
		return ledger.Reject(http.StatusConflict)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

// ListExpenses returns all expenses oldest first, each with its current
// participant count.
func (s *Store) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT e.id, e.description, e.amount, e.date,
       (SELECT COUNT(*) FROM expense_shares s WHERE s.expense_id = e.id)
FROM expenses e
ORDER BY e.created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.ParticipantCount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// CreateExpense persists the base expense record and returns it with the
// assigned id.
func (s *Store) CreateExpense(ctx context.Context, description string, amount float64, date string) (*models.Expense, error) {
	e := &models.Expense{
		ID:          uuid.New().String(),
		Description: description,
		Amount:      amount,
		Date:        date,
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses (id, description, amount, date, created_at) VALUES (?, ?, ?, ?, ?)",
		e.ID, e.Description, e.Amount, e.Date, time.Now().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}
	return e, nil
}

// UpdateExpense replaces the base fields of an existing expense.
func (s *Store) UpdateExpense(ctx context.Context, id, description string, amount float64, date string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount = ?, date = ? WHERE id = ?",
		description, amount, date, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireRow(res)
}

// DeleteExpense removes an expense; its shares go with it via the cascade.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRow(res)
}

// AddParticipant links a person to an expense with a zeroed share.
func (s *Store) AddParticipant(ctx context.Context, expenseID, personID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_shares (expense_id, person_id) VALUES (?, ?)",
		expenseID, personID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ledger.Reject(http.StatusConflict)
		}
		if isForeignKeyViolation(err) {
			return ledger.Reject(http.StatusNotFound)
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant unlinks a person from an expense.
func (s *Store) RemoveParticipant(ctx context.Context, expenseID, personID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expense_shares WHERE expense_id = ? AND person_id = ?",
		expenseID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return requireRow(res)
}

// ListParticipants returns the person ids linked to an expense, in the
// order they were added.
func (s *Store) ListParticipants(ctx context.Context, expenseID string) ([]string, error) {
	if err := s.requireExpense(ctx, expenseID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT person_id FROM expense_shares WHERE expense_id = ? ORDER BY rowid",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return ids, nil
}

// SetShare assigns a participant's share from a signed amount: positive
// sets credit, negative sets debit, the other side is zeroed.
func (s *Store) SetShare(ctx context.Context, expenseID, personID string, amount float64) error {
	credit, debit := amount, 0.0
	if amount < 0 {
		credit, debit = 0.0, -amount
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_shares SET credit_balance = ?, debit_balance = ? WHERE expense_id = ? AND person_id = ?",
		credit, debit, expenseID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to set share: %w", err)
	}
	return requireRow(res)
}

// AddShareCredit increments a participant's share credit.
func (s *Store) AddShareCredit(ctx context.Context, expenseID, personID string, amount float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_shares SET credit_balance = credit_balance + ? WHERE expense_id = ? AND person_id = ?",
		amount, expenseID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to credit share: %w", err)
	}
	return requireRow(res)
}

// GetShare returns one participant's share on one expense.
func (s *Store) GetShare(ctx context.Context, expenseID, personID string) (*models.Share, error) {
	sh := &models.Share{}
	err := s.db.QueryRowContext(ctx,
		"SELECT credit_balance, debit_balance FROM expense_shares WHERE expense_id = ? AND person_id = ?",
		expenseID, personID,
	).Scan(&sh.CreditBalance, &sh.DebitBalance)
	if err == sql.ErrNoRows {
		return nil, ledger.Reject(http.StatusNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return sh, nil
}

// ListPersonShares returns all of one person's shares, oldest expense
// first. This ordering is what payment allocation walks.
func (s *Store) ListPersonShares(ctx context.Context, personID string) ([]*models.PersonShare, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT s.expense_id, s.credit_balance, s.debit_balance
FROM expense_shares s
JOIN expenses e ON e.id = s.expense_id
WHERE s.person_id = ?
ORDER BY e.created_at, e.rowid`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list person shares: %w", err)
	}
	defer rows.Close()

	var shares []*models.PersonShare
	for rows.Next() {
		sh := &models.PersonShare{}
		if err := rows.Scan(&sh.ExpenseID, &sh.CreditBalance, &sh.DebitBalance); err != nil {
			return nil, fmt.Errorf("failed to scan person share: %w", err)
		}
		shares = append(shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate person shares: %w", err)
	}
	return shares, nil
}

func (s *Store) requireExpense(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM expenses WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return ledger.Reject(http.StatusNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense: %w", err)
	}
	return nil
}

func (s *Store) requirePerson(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM people WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return ledger.Reject(http.StatusNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check person: %w", err)
	}
	return nil
}

// requireRow converts a zero-row update/delete into a not-found rejection.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ledger.Reject(http.StatusNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
