// Package rest provides the HTTP client implementation of ledger.Store.
// Every request carries a fixed timeout; failures are classified into the
// ledger package's error taxonomy so the settlement engine never sees raw
// transport errors.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// DefaultTimeout is the per-request timeout applied when none is given.
const DefaultTimeout = 10 * time.Second

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "splitledger_store_requests_total",
	Help: "Ledger store requests by operation and outcome.",
}, []string{"op", "outcome"})

// Ensure Store implements ledger.Store.
var _ ledger.Store = (*Store)(nil)

// Store talks to a remote ledger-store server over JSON REST.
type Store struct {
	baseURL string
	client  *http.Client
}

// New creates a Store for the given base URL. A non-positive timeout falls
// back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// do performs one request and classifies the result. A nil out skips body
// decoding. The expected status is the only one treated as success.
func (s *Store) do(ctx context.Context, op, method, path string, body, out any, want int) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.classify(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		requestsTotal.WithLabelValues(op, "rejected").Inc()
		return ledger.Reject(resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			requestsTotal.WithLabelValues(op, "decode_error").Inc()
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	requestsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

// classify maps a transport error onto the store error taxonomy.
func (s *Store) classify(op string, err error) error {
	var uerr *url.Error
	timedOut := errors.Is(err, context.DeadlineExceeded)
	if errors.As(err, &uerr) && uerr.Timeout() {
		timedOut = true
	}
	if timedOut {
		requestsTotal.WithLabelValues(op, "timeout").Inc()
		return fmt.Errorf("%w: %v", ledger.ErrTimeout, err)
	}
	requestsTotal.WithLabelValues(op, "connection_error").Inc()
	return fmt.Errorf("%w: %v", ledger.ErrConnectionFailure, err)
}

func (s *Store) ListPeople(ctx context.Context) ([]*models.Person, error) {
	var dtos []models.PersonDTO
	if err := s.do(ctx, "ListPeople", http.MethodGet, "/friends/", nil, &dtos, http.StatusOK); err != nil {
		return nil, err
	}
	people := make([]*models.Person, 0, len(dtos))
	for _, d := range dtos {
		people = append(people, models.PersonFromDTO(d))
	}
	return people, nil
}

func (s *Store) CreatePerson(ctx context.Context, name string) (*models.Person, error) {
	var dto models.PersonDTO
	body := map[string]string{"name": name}
	if err := s.do(ctx, "CreatePerson", http.MethodPost, "/friends/", body, &dto, http.StatusCreated); err != nil {
		return nil, err
	}
	return models.PersonFromDTO(dto), nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	var dto models.PersonDTO
	if err := s.do(ctx, "GetPerson", http.MethodGet, "/friends/"+url.PathEscape(id), nil, &dto, http.StatusOK); err != nil {
		return nil, err
	}
	return models.PersonFromDTO(dto), nil
}

func (s *Store) DeletePerson(ctx context.Context, id string) error {
	return s.do(ctx, "DeletePerson", http.MethodDelete, "/friends/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

func (s *Store) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	var dtos []models.ExpenseDTO
	if err := s.do(ctx, "ListExpenses", http.MethodGet, "/expenses/", nil, &dtos, http.StatusOK); err != nil {
		return nil, err
	}
	expenses := make([]*models.Expense, 0, len(dtos))
	for _, d := range dtos {
		expenses = append(expenses, models.ExpenseFromDTO(d))
	}
	return expenses, nil
}

func (s *Store) CreateExpense(ctx context.Context, description string, amount float64, date string) (*models.Expense, error) {
	var dto models.ExpenseDTO
	body := map[string]any{"description": description, "amount": amount, "date": date}
	if err := s.do(ctx, "CreateExpense", http.MethodPost, "/expenses/", body, &dto, http.StatusCreated); err != nil {
		return nil, err
	}
	return models.ExpenseFromDTO(dto), nil
}

func (s *Store) UpdateExpense(ctx context.Context, id, description string, amount float64, date string) error {
	body := map[string]any{"description": description, "amount": amount, "date": date}
	return s.do(ctx, "UpdateExpense", http.MethodPut, "/expenses/"+url.PathEscape(id), body, nil, http.StatusNoContent)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.do(ctx, "DeleteExpense", http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

func (s *Store) AddParticipant(ctx context.Context, expenseID, personID string) error {
	path := "/expenses/" + url.PathEscape(expenseID) + "/friends?friend_id=" + url.QueryEscape(personID)
	return s.do(ctx, "AddParticipant", http.MethodPost, path, nil, nil, http.StatusCreated)
}

func (s *Store) RemoveParticipant(ctx context.Context, expenseID, personID string) error {
	path := "/expenses/" + url.PathEscape(expenseID) + "/friends/" + url.PathEscape(personID)
	return s.do(ctx, "RemoveParticipant", http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

func (s *Store) ListParticipants(ctx context.Context, expenseID string) ([]string, error) {
	var ids []string
	path := "/expenses/" + url.PathEscape(expenseID) + "/friends"
	if err := s.do(ctx, "ListParticipants", http.MethodGet, path, nil, &ids, http.StatusOK); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) SetShare(ctx context.Context, expenseID, personID string, amount float64) error {
	return s.putShare(ctx, "SetShare", expenseID, personID, amount, "set")
}

func (s *Store) AddShareCredit(ctx context.Context, expenseID, personID string, amount float64) error {
	return s.putShare(ctx, "AddShareCredit", expenseID, personID, amount, "credit")
}

func (s *Store) putShare(ctx context.Context, op, expenseID, personID string, amount float64, mode string) error {
	path := "/expenses/" + url.PathEscape(expenseID) + "/friends/" + url.PathEscape(personID) +
		"?amount=" + strconv.FormatFloat(amount, 'f', -1, 64) + "&mode=" + mode
	return s.do(ctx, op, http.MethodPut, path, nil, nil, http.StatusNoContent)
}

func (s *Store) GetShare(ctx context.Context, expenseID, personID string) (*models.Share, error) {
	var dto models.ShareDTO
	path := "/expenses/" + url.PathEscape(expenseID) + "/friends/" + url.PathEscape(personID)
	if err := s.do(ctx, "GetShare", http.MethodGet, path, nil, &dto, http.StatusOK); err != nil {
		return nil, err
	}
	return models.ShareFromDTO(dto), nil
}

func (s *Store) ListPersonShares(ctx context.Context, personID string) ([]*models.PersonShare, error) {
	var dtos []models.PersonShareDTO
	path := "/friends/" + url.PathEscape(personID) + "/expenses"
	if err := s.do(ctx, "ListPersonShares", http.MethodGet, path, nil, &dtos, http.StatusOK); err != nil {
		return nil, err
	}
	shares := make([]*models.PersonShare, 0, len(dtos))
	for _, d := range dtos {
		shares = append(shares, models.PersonShareFromDTO(d))
	}
	return shares, nil
}
