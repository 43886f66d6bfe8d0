package customers

import (
	"context"
	"strings"
)

// LedgerPort is the customer store used by the service.
type LedgerPort interface {
	Get(ctx context.Context, id string) (Record, error)
	Update(ctx context.Context, id string, fn func(*Record) error) (Record, error)
}

// Service exposes read operations over the customer ledger.
type Service struct {
	ledger LedgerPort
}

// NewService builds Service instance.
func NewService(ledger LedgerPort) *Service {
	return &Service{ledger: ledger}
}

// Verify returns the full account record.
func (s *Service) Verify(ctx context.Context, id string) (Record, error) {
	return s.ledger.Get(ctx, strings.TrimSpace(id))
}

// History returns the payment and waiver history for a customer.
func (s *Service) History(ctx context.Context, id string) (History, error) {
	r, err := s.ledger.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return History{}, err
	}
	return r.History(), nil
}

// Balance returns the current balance in USD.
func (s *Service) Balance(ctx context.Context, id string) (Balance, error) {
	r, err := s.ledger.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return Balance{}, err
	}
	return Balance{CustomerID: r.ID, Balance: r.Balance, Currency: "USD"}, nil
}
