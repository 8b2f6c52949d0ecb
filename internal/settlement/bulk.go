package settlement

import (
	"context"
	"errors"
	"fmt"

	"splitledger/internal/models"
)

// PurgeFailure records one person that could not be deleted during a bulk
// delete, typically because of a pending balance.
type PurgeFailure struct {
	Name string
	Err  error
}

// PurgeReport summarizes a bulk person delete: how many went through, how
// many were attempted, and who failed with what.
type PurgeReport struct {
	Deleted  int
	Total    int
	Failures []PurgeFailure
}

// DeleteAllExpenses removes every expense unconditionally and returns the
// number deleted. An empty expense list fails fast with ErrNothingToDelete.
// There is no rollback: a mid-way failure leaves earlier deletions in place.
func (e *Engine) DeleteAllExpenses(ctx context.Context) (int, error) {
	if len(e.group.Expenses) == 0 {
		return 0, ErrNothingToDelete
	}

	ids := make([]string, 0, len(e.group.Expenses))
	for _, exp := range e.group.Expenses {
		ids = append(ids, exp.ID)
	}

	deleted := 0
	for _, id := range ids {
		if err := e.store.DeleteExpense(ctx, id); err != nil {
			return deleted, fmt.Errorf("failed to delete expense %s: %w", id, err)
		}
		e.group.RemoveExpense(id)
		deleted++
	}
	return deleted, nil
}

// DeleteAllPeople attempts to delete every member independently, applying
// the settled-balance rule per person. Failures are collected into the
// report instead of aborting the run; partial success is the expected
// outcome. An empty member list fails fast with ErrNothingToDelete.
func (e *Engine) DeleteAllPeople(ctx context.Context) (*PurgeReport, error) {
	if len(e.group.People) == 0 {
		return nil, ErrNothingToDelete
	}

	// DeletePerson mutates the list, so walk a copy.
	people := append([]*models.Person(nil), e.group.People...)

	report := &PurgeReport{Total: len(people)}
	for _, p := range people {
		if err := e.DeletePerson(ctx, p.ID); err != nil {
			var pending *PendingBalanceError
			if !errors.As(err, &pending) {
				e.log.Warn("failed to delete person during purge",
					"person_id", p.ID, "error", err)
			}
			report.Failures = append(report.Failures, PurgeFailure{Name: p.Name, Err: err})
			continue
		}
		report.Deleted++
	}
	return report, nil
}
