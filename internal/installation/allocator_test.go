package installation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/skillsdesk/skillsdesk/internal/shared"
)

func fixedClock() time.Time {
	return time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC)
}

func newTestAllocator(t *testing.T, lenient bool) *Allocator {
	t.Helper()
	tmpl, _, err := LoadSchedule("")
	require.NoError(t, err)
	return NewAllocator(tmpl, lenient, fixedClock)
}

func TestListOpenSlotsPagesAcrossWeek(t *testing.T) {
	a := newTestAllocator(t, false)

	page, err := a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-07"})
	require.NoError(t, err)
	require.Len(t, page.Slots, 10)
	require.Equal(t, 14, page.Pagination.Total)
	require.True(t, page.Pagination.HasMore)
	require.Equal(t, 10, page.Pagination.NextOffset)
	require.Equal(t, Slot{Date: "2024-01-01", Day: "Monday", TimeWindow: "09:00-12:00"}, page.Slots[0])
	require.Equal(t, Slot{Date: "2024-01-04", Day: "Thursday", TimeWindow: "09:00-12:00"}, page.Slots[9])

	next, err := a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-07", Offset: page.Pagination.NextOffset})
	require.NoError(t, err)
	require.Len(t, next.Slots, 4)
	require.False(t, next.Pagination.HasMore)
	require.Equal(t, "Friday", next.Slots[3].Day)
	require.Equal(t, "12:00-15:00", next.Slots[3].TimeWindow)
}

func TestListOpenSlotsWindowFilter(t *testing.T) {
	a := newTestAllocator(t, false)
	page, err := a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-07", Window: "09:00"})
	require.NoError(t, err)
	require.Len(t, page.Slots, 5)
	for _, s := range page.Slots {
		require.Equal(t, "09:00-12:00", s.TimeWindow)
	}
}

func TestWindowFilterIsCaseSensitive(t *testing.T) {
	tmpl, err := NewTemplate(map[string][]string{"Monday": {"Morning", "Afternoon"}})
	require.NoError(t, err)
	a := NewAllocator(tmpl, false, fixedClock)

	page, err := a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-01", Window: "morning"})
	require.NoError(t, err)
	require.Empty(t, page.Slots)

	page, err = a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-01", Window: "Morning"})
	require.NoError(t, err)
	require.Len(t, page.Slots, 1)
}

func TestWeekdayFilterIgnoresCase(t *testing.T) {
	a := newTestAllocator(t, false)
	page, err := a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-14", Weekday: "FRIDAY"})
	require.NoError(t, err)
	require.Len(t, page.Slots, 4)
	require.Equal(t, "2024-01-05", page.Slots[0].Date)
	require.Equal(t, "2024-01-12", page.Slots[3].Date)
}

func TestWeekendHasNoSlots(t *testing.T) {
	a := newTestAllocator(t, false)
	page, err := a.ListOpenSlots(SlotQuery{From: "2024-01-06", To: "2024-01-07"})
	require.NoError(t, err)
	require.NotNil(t, page.Slots)
	require.Empty(t, page.Slots)
	require.False(t, page.Pagination.HasMore)
}

func TestStrictDatesRejectMalformedInput(t *testing.T) {
	a := newTestAllocator(t, false)

	_, err := a.ListOpenSlots(SlotQuery{From: "next monday", To: "2024-01-07"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = a.ListOpenSlots(SlotQuery{From: "2024-01-07", To: "2024-01-01"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestLenientDatesFallBackToNextWeek(t *testing.T) {
	a := newTestAllocator(t, true)
	page, err := a.ListOpenSlots(SlotQuery{From: "tomorrow", To: "whenever"})
	require.NoError(t, err)
	require.Equal(t, 17, page.Pagination.Total)
	require.Equal(t, "2024-01-01", page.Slots[0].Date)

	page, err = a.ListOpenSlots(SlotQuery{From: "2024-01-07", To: "2024-01-01"})
	require.NoError(t, err)
	require.Empty(t, page.Slots)
}

func TestCatalogResolution(t *testing.T) {
	_, catalog, err := LoadSchedule("")
	require.NoError(t, err)

	plan, err := catalog.Resolve("Fiber 1Gbps")
	require.NoError(t, err)
	require.True(t, plan.InstallFee.Equal(decimal.NewFromInt(149)))

	plan, err = catalog.Resolve("fiber")
	require.NoError(t, err)
	require.Equal(t, "Fiber 500Mbps", plan.Name)

	plan, err = catalog.Resolve("1GBPS")
	require.NoError(t, err)
	require.Equal(t, "Fiber 1Gbps", plan.Name)

	_, err = catalog.Resolve("Satellite")
	var missing *shared.PlanNotFoundError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "Satellite", missing.Plan)

	_, err = catalog.Resolve("  ")
	require.ErrorIs(t, err, shared.ErrPlanNotFound)
}

func TestParseScheduleRejectsBadDocuments(t *testing.T) {
	_, _, err := ParseSchedule([]byte("available_slots:\n  Funday: [\"09:00-12:00\"]\n"))
	require.Error(t, err)

	_, _, err = ParseSchedule([]byte("service_plans:\n  - name: Bad\n    install_fee: \"-1\"\n"))
	require.Error(t, err)
}

func TestCoverageCheck(t *testing.T) {
	coverage, err := LoadCoverage("")
	require.NoError(t, err)

	hit := coverage.Check("1 Main St", "10001")
	require.True(t, hit.Available)
	require.Equal(t, "urban", hit.AreaType)
	require.Contains(t, hit.Technologies, "Fiber")

	miss := coverage.Check("Nowhere", "00000")
	require.False(t, miss.Available)
	require.NotEmpty(t, miss.Message)
}

func TestWideRangeIsRejected(t *testing.T) {
	for _, lenient := range []bool{false, true} {
		a := newTestAllocator(t, lenient)
		_, err := a.ListOpenSlots(SlotQuery{From: "0001-01-01", To: "9999-12-31"})
		require.ErrorIs(t, err, shared.ErrValidation)
	}

	a := newTestAllocator(t, false)
	page, err := a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-04-02"})
	require.NoError(t, err)
	require.Len(t, page.Slots, shared.MaxPageSize)
	_, err = a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-04-03"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestLimitSpanOverridesDefault(t *testing.T) {
	a := newTestAllocator(t, false).LimitSpan(7)
	_, err := a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-08"})
	require.NoError(t, err)
	_, err = a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-01-09"})
	require.ErrorIs(t, err, shared.ErrValidation)

	a = newTestAllocator(t, false).LimitSpan(0)
	_, err = a.ListOpenSlots(SlotQuery{From: "2024-01-01", To: "2024-03-01"})
	require.NoError(t, err)
}
