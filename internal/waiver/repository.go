package waiver

import (
	"context"
	"fmt"
	"sync"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// Store is the in-memory waiver ledger. Records are append-only.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Add appends a record. IDs must be unique.
func (s *Store) Add(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("waiver: duplicate id %s", rec.ID)
	}
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return nil
}

// Get returns a record by ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, shared.NewNotFound("waiver", id)
	}
	return rec, nil
}

// ListByCustomer returns a customer's waivers in creation order.
func (s *Store) ListByCustomer(ctx context.Context, customerID string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, id := range s.order {
		if rec := s.records[id]; rec.CustomerID == customerID {
			out = append(out, rec)
		}
	}
	return out
}
