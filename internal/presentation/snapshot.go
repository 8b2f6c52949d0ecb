// Package presentation holds the read-only view types handed to callers
// after engine operations, plus locale-aware formatting of amounts and
// dates. Formatting state is an explicit value, never a global.
package presentation

import "splitledger/internal/models"

// Snapshot is a read-only copy of the in-memory group, safe to hand to a
// renderer while the engine keeps mutating its own state.
type Snapshot struct {
	People   []*models.Person
	Expenses []*models.Expense
}

// NewSnapshot deep-copies the group's people and expenses.
func NewSnapshot(g *models.Group) *Snapshot {
	snap := &Snapshot{
		People:   make([]*models.Person, 0, len(g.People)),
		Expenses: make([]*models.Expense, 0, len(g.Expenses)),
	}
	for _, p := range g.People {
		cp := *p
		snap.People = append(snap.People, &cp)
	}
	for _, e := range g.Expenses {
		cp := *e
		cp.ParticipantIDs = append([]string(nil), e.ParticipantIDs...)
		snap.Expenses = append(snap.Expenses, &cp)
	}
	return snap
}
