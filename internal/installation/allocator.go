package installation

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

// DateLayout is the calendar date format accepted and emitted.
const DateLayout = "2006-01-02"

const lenientSpanDays = 7

// DefaultMaxSpanDays bounds the calendar range a single query may expand.
const DefaultMaxSpanDays = 92

// SlotQuery selects open slots. Weekday and Window are optional filters.
type SlotQuery struct {
	From    string
	To      string
	Weekday string
	Window  string
	Offset  int
}

// Slot is one bookable window on a date.
type Slot struct {
	Date       string `json:"date"`
	Day        string `json:"day"`
	TimeWindow string `json:"time_window"`
}

// SlotPage is one bounded page of open slots.
type SlotPage struct {
	Slots      []Slot            `json:"available_slots"`
	Pagination shared.Pagination `json:"pagination"`
	Note       string            `json:"note"`
}

// Allocator expands the weekly template over a calendar range.
type Allocator struct {
	template    *Template
	lenient     bool
	maxSpanDays int
	now         func() time.Time
}

// NewAllocator builds an Allocator. With lenient set, unparsable dates fall
// back to the next seven days instead of failing.
func NewAllocator(template *Template, lenient bool, now func() time.Time) *Allocator {
	if now == nil {
		now = time.Now
	}
	return &Allocator{template: template, lenient: lenient, maxSpanDays: DefaultMaxSpanDays, now: now}
}

// LimitSpan sets the widest from/to range accepted, in days. Non-positive
// values keep the default.
func (a *Allocator) LimitSpan(days int) *Allocator {
	if days > 0 {
		a.maxSpanDays = days
	}
	return a
}

// ListOpenSlots returns slots ordered by date then template order.
func (a *Allocator) ListOpenSlots(q SlotQuery) (SlotPage, error) {
	from, to, err := a.resolveRange(q.From, q.To)
	if err != nil {
		return SlotPage{}, err
	}

	var all []Slot
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		name := day.Weekday().String()
		for _, label := range a.template.Windows(day.Weekday()) {
			if q.Window != "" && !strings.Contains(label, q.Window) {
				continue
			}
			all = append(all, Slot{Date: day.Format(DateLayout), Day: name, TimeWindow: label})
		}
	}
	if q.Weekday != "" {
		filtered := all[:0]
		for _, s := range all {
			if strings.EqualFold(s.Day, strings.TrimSpace(q.Weekday)) {
				filtered = append(filtered, s)
			}
		}
		all = filtered
	}

	page := shared.NewPagination(q.Offset, shared.MaxPageSize, len(all))
	start, end := page.Window()
	slots := make([]Slot, end-start)
	copy(slots, all[start:end])
	return SlotPage{Slots: slots, Pagination: page, Note: "Showing max 10 slots."}, nil
}

func (a *Allocator) resolveRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	from, errFrom := time.Parse(DateLayout, strings.TrimSpace(rawFrom))
	to, errTo := time.Parse(DateLayout, strings.TrimSpace(rawTo))
	if errFrom != nil || errTo != nil {
		if !a.lenient {
			field := "date_from"
			if errFrom == nil {
				field = "date_to"
			}
			return time.Time{}, time.Time{}, shared.NewValidation(field, "must be a YYYY-MM-DD date")
		}
		y, m, d := a.now().Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 0, lenientSpanDays), nil
	}
	if to.Before(from) && !a.lenient {
		return time.Time{}, time.Time{}, shared.NewValidation("date_to", "must not be before date_from")
	}
	if to.After(from.AddDate(0, 0, a.maxSpanDays)) {
		return time.Time{}, time.Time{}, shared.NewValidation("date_to", fmt.Sprintf("must be within %d days of date_from", a.maxSpanDays))
	}
	return from, to, nil
}
