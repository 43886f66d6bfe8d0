package customers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/skillsdesk/skillsdesk/configs"
	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// Ledger is the in-memory authoritative customer store.
type Ledger struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewLedger builds an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[string]*Record)}
}

// Put inserts or replaces a record after validating its invariants.
func (l *Ledger) Put(record Record) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	r := record
	l.records[r.ID] = &r
	return nil
}

// Get returns a copy of the record.
func (l *Ledger) Get(ctx context.Context, id string) (Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[id]
	if !ok {
		return Record{}, shared.NewNotFound("customer", id)
	}
	return *r, nil
}

// List returns all records ordered by ID.
func (l *Ledger) List(ctx context.Context) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Update applies fn to the stored record under the write lock. The record is
// left untouched when fn fails.
func (l *Ledger) Update(ctx context.Context, id string, fn func(*Record) error) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.records[id]
	if !ok {
		return Record{}, shared.NewNotFound("customer", id)
	}
	draft := *r
	if err := fn(&draft); err != nil {
		return Record{}, err
	}
	if err := validateRecord(draft); err != nil {
		return Record{}, err
	}
	*r = draft
	return draft, nil
}

func validateRecord(r Record) error {
	if r.ID == "" {
		return shared.NewValidation("id", "is required")
	}
	switch r.AccountType {
	case AccountPrepaid:
		if !r.CreditLimit.IsZero() {
			return shared.NewValidation("credit_limit", "must be 0 for PREPAID accounts")
		}
	case AccountPostpaid:
		if r.CreditLimit.IsNegative() {
			return shared.NewValidation("credit_limit", "must not be negative")
		}
	default:
		return shared.NewValidation("account_type", fmt.Sprintf("unknown value %q", r.AccountType))
	}
	if r.TenureMonths < 0 || r.LatePayments12m < 0 || r.PreviousWaivers < 0 || r.DaysOverdue < 0 {
		return shared.NewValidation("history", "counters must not be negative")
	}
	return nil
}

type seedDocument struct {
	Customers []Record `yaml:"customers"`
}

// Seed loads the customers document into the ledger.
func (l *Ledger) Seed(raw []byte) error {
	var doc seedDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("customers: decode seed: %w", err)
	}
	var errs []error
	for _, r := range doc.Customers {
		if err := l.Put(r); err != nil {
			errs = append(errs, fmt.Errorf("customer %s: %w", r.ID, err))
		}
	}
	return errors.Join(errs...)
}

// LoadLedger builds a ledger seeded from dir or the embedded default document.
func LoadLedger(dir string) (*Ledger, error) {
	raw, err := configs.Read(dir, configs.CustomersFile)
	if err != nil {
		return nil, fmt.Errorf("customers: read seed: %w", err)
	}
	l := NewLedger()
	if err := l.Seed(raw); err != nil {
		return nil, err
	}
	return l, nil
}
