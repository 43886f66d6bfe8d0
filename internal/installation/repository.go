package installation

import (
	"context"
	"fmt"
	"sync"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// Store is the in-memory appointment ledger.
type Store struct {
	mu    sync.RWMutex
	items map[string]*Appointment
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{items: make(map[string]*Appointment)}
}

// Add inserts a new appointment.
func (s *Store) Add(ctx context.Context, appt Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[appt.ID]; exists {
		return fmt.Errorf("installation: duplicate appointment %s", appt.ID)
	}
	a := appt
	s.items[a.ID] = &a
	return nil
}

// Get returns a copy of the appointment.
func (s *Store) Get(ctx context.Context, id string) (Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.items[id]
	if !ok {
		return Appointment{}, shared.NewNotFound("appointment", id)
	}
	return *a, nil
}

// Update mutates an appointment under the write lock; a failing fn leaves it unchanged.
func (s *Store) Update(ctx context.Context, id string, fn func(*Appointment) error) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return Appointment{}, shared.NewNotFound("appointment", id)
	}
	draft := *a
	if err := fn(&draft); err != nil {
		return Appointment{}, err
	}
	*a = draft
	return draft, nil
}
