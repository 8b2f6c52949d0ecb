package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"splitledger/internal/ledger"
	"splitledger/internal/ledger/memory"
	"splitledger/internal/server"
)

// newTestStore wires the client against a real server over the in-memory
// backend, so the whole wire contract is exercised end to end.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(server.New(memory.New(), log).Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second)
}

func TestPersonRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, err := store.CreatePerson(ctx, "Alice")
	if err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	if alice.ID == "" || alice.Name != "Alice" {
		t.Errorf("unexpected person: %+v", alice)
	}

	if _, err := store.CreatePerson(ctx, "Alice"); !ledger.IsConflict(err) {
		t.Errorf("duplicate name: got %v, want conflict", err)
	}

	people, err := store.ListPeople(ctx)
	if err != nil {
		t.Fatalf("ListPeople failed: %v", err)
	}
	if len(people) != 1 || people[0].ID != alice.ID {
		t.Errorf("unexpected people: %+v", people)
	}

	got, err := store.GetPerson(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetPerson failed: %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("unexpected person: %+v", got)
	}

	if _, err := store.GetPerson(ctx, "nope"); !ledger.IsNotFound(err) {
		t.Errorf("missing person: got %v, want not found", err)
	}

	if err := store.DeletePerson(ctx, alice.ID); err != nil {
		t.Fatalf("DeletePerson failed: %v", err)
	}
}

func TestExpenseAndShareRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice, _ := store.CreatePerson(ctx, "Alice")
	bob, _ := store.CreatePerson(ctx, "Bob")

	exp, err := store.CreateExpense(ctx, "Dinner", 50.0, "2024-01-15")
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	for _, id := range []string{alice.ID, bob.ID} {
		if err := store.AddParticipant(ctx, exp.ID, id); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
	}
	participants, err := store.ListParticipants(ctx, exp.ID)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(participants) != 2 {
		t.Errorf("participants = %v, want 2", participants)
	}

	if err := store.SetShare(ctx, exp.ID, alice.ID, 25.0); err != nil {
		t.Fatalf("SetShare failed: %v", err)
	}
	if err := store.SetShare(ctx, exp.ID, bob.ID, -25.0); err != nil {
		t.Fatalf("SetShare failed: %v", err)
	}
	if err := store.AddShareCredit(ctx, exp.ID, bob.ID, 10.0); err != nil {
		t.Fatalf("AddShareCredit failed: %v", err)
	}

	sh, err := store.GetShare(ctx, exp.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetShare failed: %v", err)
	}
	if math.Abs(sh.Debt()-15.0) > 0.001 {
		t.Errorf("debt = %v, want 15", sh.Debt())
	}

	shares, err := store.ListPersonShares(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListPersonShares failed: %v", err)
	}
	if len(shares) != 1 || shares[0].ExpenseID != exp.ID {
		t.Errorf("unexpected shares: %+v", shares)
	}

	if err := store.UpdateExpense(ctx, exp.ID, "Dinner out", 60.0, "2024-01-16"); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	expenses, _ := store.ListExpenses(ctx)
	if len(expenses) != 1 || expenses[0].Amount != 60.0 {
		t.Errorf("unexpected expenses: %+v", expenses)
	}
	if expenses[0].ParticipantCount != 2 {
		t.Errorf("participant count = %d, want 2", expenses[0].ParticipantCount)
	}

	if err := store.RemoveParticipant(ctx, exp.ID, bob.ID); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	if err := store.DeleteExpense(ctx, exp.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if _, err := store.GetShare(ctx, exp.ID, alice.ID); !ledger.IsNotFound(err) {
		t.Errorf("share after delete: got %v, want not found", err)
	}
}

func TestClassifiesRemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := New(srv.URL, time.Second)
	_, err := store.ListPeople(context.Background())
	var re *ledger.RemoteError
	if !errors.As(err, &re) || re.Status != http.StatusInternalServerError {
		t.Errorf("got %v, want RemoteError with status 500", err)
	}
}

func TestClassifiesConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	store := New(srv.URL, time.Second)
	_, err := store.ListPeople(context.Background())
	if !errors.Is(err, ledger.ErrConnectionFailure) {
		t.Errorf("got %v, want ErrConnectionFailure", err)
	}
}

func TestClassifiesTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	store := New(srv.URL, 50*time.Millisecond)
	_, err := store.ListPeople(context.Background())
	if !errors.Is(err, ledger.ErrTimeout) {
		t.Errorf("got %v, want ErrTimeout", err)
	}
}
