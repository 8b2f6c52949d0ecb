package models

// Group holds the full in-memory collections of people and expenses for one
// ledger. The engine operates on a single group at a time; there is no
// multi-group support.
type Group struct {
	// Name is the display name of the group.
	Name string

	// People is the current member list, as last loaded from the store.
	People []*Person

	// Expenses is the current expense list, as last loaded from the store.
	Expenses []*Expense
}

// NewGroup returns an empty group with a default name.
func NewGroup() *Group {
	return &Group{Name: "main"}
}

// PersonByID returns the person with the given id, or nil.
func (g *Group) PersonByID(id string) *Person {
	for _, p := range g.People {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ExpenseByID returns the expense with the given id, or nil.
func (g *Group) ExpenseByID(id string) *Expense {
	for _, e := range g.Expenses {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// RemovePerson drops the person with the given id from the in-memory list.
func (g *Group) RemovePerson(id string) {
	kept := g.People[:0]
	for _, p := range g.People {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	g.People = kept
}

// RemoveExpense drops the expense with the given id from the in-memory list.
func (g *Group) RemoveExpense(id string) {
	kept := g.Expenses[:0]
	for _, e := range g.Expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	g.Expenses = kept
}

// Balances returns every member's net balance keyed by person id.
func (g *Group) Balances() map[string]float64 {
	balances := make(map[string]float64, len(g.People))
	for _, p := range g.People {
		balances[p.ID] = p.Balance()
	}
	return balances
}
