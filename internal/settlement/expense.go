package settlement

import (
	"context"
	"fmt"
	"time"

	"splitledger/internal/models"
)

// ExpenseUpdate is a partial update for an expense. Nil fields are left
// unchanged.
type ExpenseUpdate struct {
	Description    *string
	Amount         *float64
	Date           *string
	PayerID        *string
	ParticipantIDs *[]string
}

// AddExpense records a new expense: the payer is credited for what the
// others consumed and every other participant is debited the even split.
// Creation spans several store calls; if any call after the base record
// fails, the engine deletes the just-created expense as compensation and
// leaves the in-memory group untouched. The compensating delete is best
// effort, its own failure is logged and swallowed.
func (e *Engine) AddExpense(ctx context.Context, description string, amount float64, payerID string, participantIDs []string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	date := time.Now().Format(models.DateLayout)
	exp, err := e.store.CreateExpense(ctx, description, amount, date)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	// Anything failing past this point unwinds the base record.
	fail := func(err error) (*models.Expense, error) {
		if delErr := e.store.DeleteExpense(ctx, exp.ID); delErr != nil {
			e.log.Warn("compensating delete failed, expense may be orphaned",
				"expense_id", exp.ID, "error", delErr)
		}
		return nil, err
	}

	for _, pid := range participantIDs {
		if err := e.store.AddParticipant(ctx, exp.ID, pid); err != nil {
			return fail(fmt.Errorf("failed to add participant: %w", err))
		}
	}

	if err := e.applyShares(ctx, exp.ID, amount, payerID, participantIDs); err != nil {
		return fail(err)
	}

	exp.PayerID = payerID
	exp.SetParticipants(participantIDs)
	e.group.Expenses = append(e.group.Expenses, exp)
	return exp, nil
}

// applyShares writes the credit/debit assignment for one expense: the payer
// gets credit for the others' portions (the full amount if they did not
// consume), every other participant gets the even split as debit. The payer
// is linked as a participant first when outside the set.
func (e *Engine) applyShares(ctx context.Context, expenseID string, amount float64, payerID string, participantIDs []string) error {
	split := amount / float64(len(participantIDs))

	credit := amount
	if contains(participantIDs, payerID) {
		credit = amount - split
	} else {
		if err := e.store.AddParticipant(ctx, expenseID, payerID); err != nil {
			return fmt.Errorf("failed to link payer: %w", err)
		}
	}
	if err := e.store.SetShare(ctx, expenseID, payerID, credit); err != nil {
		return fmt.Errorf("failed to set payer share: %w", err)
	}

	for _, pid := range participantIDs {
		if pid == payerID {
			continue
		}
		if err := e.store.SetShare(ctx, expenseID, pid, -split); err != nil {
			return fmt.Errorf("failed to set participant share: %w", err)
		}
	}
	return nil
}

// ExpenseForEdit retrieves an expense together with its current participant
// ids from the store, for display in an edit flow. No mutation.
func (e *Engine) ExpenseForEdit(ctx context.Context, id string) (*models.Expense, []string, error) {
	exp := e.group.ExpenseByID(id)
	if exp == nil {
		return nil, nil, ErrExpenseNotFound
	}
	participants, err := e.store.ListParticipants(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return exp, participants, nil
}

// UpdateExpense applies a partial update. The participant set is diffed
// against the store's current set; removals and additions that fail are
// logged and skipped rather than rolled back. When the amount or the set
// changed, all shares are recomputed with the create-time formula, using
// the payload's payer or, absent that, the participant currently holding
// positive credit.
func (e *Engine) UpdateExpense(ctx context.Context, id string, update ExpenseUpdate) error {
	exp := e.group.ExpenseByID(id)
	if exp == nil {
		return ErrExpenseNotFound
	}

	description := exp.Description
	if update.Description != nil {
		description = *update.Description
	}
	amount := exp.Amount
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return ErrInvalidAmount
		}
		amount = *update.Amount
	}
	date := exp.Date
	if update.Date != nil {
		date = *update.Date
	}

	current, err := e.store.ListParticipants(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list participants: %w", err)
	}
	participants := current
	if update.ParticipantIDs != nil {
		requested := *update.ParticipantIDs
		if len(requested) == 0 {
			return ErrNoParticipants
		}
		e.diffParticipants(ctx, id, current, requested)
		// Recompute against what actually stuck, not what was asked for:
		// skipped diff items must not leave shares pointing at absent links.
		applied, err := e.store.ListParticipants(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		participants = applied
	}

	if err := e.store.UpdateExpense(ctx, id, description, amount, date); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	setChanged := !sameSet(current, participants)
	if amount != exp.Amount || setChanged {
		payerID := exp.PayerID
		if update.PayerID != nil {
			payerID = *update.PayerID
		}
		if payerID == "" {
			payerID = e.inferPayer(ctx, id, current)
		}
		if payerID != "" {
			if err := e.reapplyShares(ctx, id, amount, payerID, participants); err != nil {
				return err
			}
			exp.PayerID = payerID
		}
	}

	exp.Description = description
	exp.Amount = amount
	exp.Date = date
	exp.SetParticipants(participants)
	return nil
}

// diffParticipants reconciles the stored participant set with the
// requested one. Each individual store failure is logged and skipped;
// partial application is accepted here, unlike creation.
func (e *Engine) diffParticipants(ctx context.Context, expenseID string, current, requested []string) {
	for _, pid := range current {
		if !contains(requested, pid) {
			if err := e.store.RemoveParticipant(ctx, expenseID, pid); err != nil {
				e.log.Warn("failed to remove participant, skipping",
					"expense_id", expenseID, "person_id", pid, "error", err)
			}
		}
	}
	for _, pid := range requested {
		if !contains(current, pid) {
			if err := e.store.AddParticipant(ctx, expenseID, pid); err != nil {
				e.log.Warn("failed to add participant, skipping",
					"expense_id", expenseID, "person_id", pid, "error", err)
			}
		}
	}
}

// reapplyShares rewrites every share after an edit. Unlike creation, the
// payer may already be linked, so a link is only created when missing.
func (e *Engine) reapplyShares(ctx context.Context, expenseID string, amount float64, payerID string, participantIDs []string) error {
	split := amount / float64(len(participantIDs))

	credit := amount
	if contains(participantIDs, payerID) {
		credit = amount - split
	} else if _, err := e.store.GetShare(ctx, expenseID, payerID); err != nil {
		if err := e.store.AddParticipant(ctx, expenseID, payerID); err != nil {
			return fmt.Errorf("failed to link payer: %w", err)
		}
	}
	if err := e.store.SetShare(ctx, expenseID, payerID, credit); err != nil {
		return fmt.Errorf("failed to set payer share: %w", err)
	}

	for _, pid := range participantIDs {
		if pid == payerID {
			continue
		}
		if err := e.store.SetShare(ctx, expenseID, pid, -split); err != nil {
			return fmt.Errorf("failed to set participant share: %w", err)
		}
	}
	return nil
}

// inferPayer returns the first participant whose current share holds
// positive credit. First match wins, even when several qualify.
func (e *Engine) inferPayer(ctx context.Context, expenseID string, participants []string) string {
	for _, pid := range participants {
		share, err := e.store.GetShare(ctx, expenseID, pid)
		if err != nil {
			e.log.Warn("failed to read share while inferring payer",
				"expense_id", expenseID, "person_id", pid, "error", err)
			continue
		}
		if share.CreditBalance > 0 {
			return pid
		}
	}
	return ""
}

// DeleteExpense removes an expense from the store and the group.
func (e *Engine) DeleteExpense(ctx context.Context, id string) error {
	if e.group.ExpenseByID(id) == nil {
		return ErrExpenseNotFound
	}
	if err := e.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	e.group.RemoveExpense(id)
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !contains(b, v) {
			return false
		}
	}
	return true
}
