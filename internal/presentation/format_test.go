package presentation

import (
	"testing"

	"splitledger/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		amount float64
		want   string
	}{
		{"english dollar", "en", 12.34, "$12.34"},
		{"english rounds half up", "en", 12.345, "$12.35"},
		{"english pads decimals", "en", 12.3, "$12.30"},
		{"spanish euro comma", "es", 12.34, "12,34 €"},
		{"portuguese euro comma", "pt", 0.5, "0,50 €"},
		{"unknown locale falls back", "de", 7.0, "$7.00"},
		{"negative amount", "en", -3.5, "$-3.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(tt.locale)
			if got := f.Amount(tt.amount); got != tt.want {
				t.Errorf("Amount(%v) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		date   string
		want   string
	}{
		{"english month first", "en", "2024-01-15", "01/15/2024"},
		{"spanish day first", "es", "2024-01-15", "15/01/2024"},
		{"portuguese day first", "pt", "2024-12-01", "01/12/2024"},
		{"unparseable returned as-is", "en", "not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(tt.locale)
			if got := f.Date(tt.date); got != tt.want {
				t.Errorf("Date(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	group := models.NewGroup()
	group.People = []*models.Person{{ID: "1", Name: "Alice", CreditBalance: 10}}
	group.Expenses = []*models.Expense{{ID: "e1", Description: "Dinner", Amount: 20, ParticipantIDs: []string{"1"}}}

	snap := NewSnapshot(group)

	group.People[0].Name = "changed"
	group.Expenses[0].ParticipantIDs[0] = "changed"

	if snap.People[0].Name != "Alice" {
		t.Errorf("snapshot person mutated: %q", snap.People[0].Name)
	}
	if snap.Expenses[0].ParticipantIDs[0] != "1" {
		t.Errorf("snapshot participants mutated: %q", snap.Expenses[0].ParticipantIDs[0])
	}
}
