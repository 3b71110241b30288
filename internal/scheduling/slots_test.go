package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denticore/clinic-api/internal/model"
)

func workday(t *testing.T) Interval {
	t.Helper()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return DefaultWorkingWindow().OnDay(day, time.UTC)
}

func TestAvailableSlotsEmptyCalendar(t *testing.T) {
	window := workday(t)

	slots := AvailableSlots(window, 30*time.Minute, nil)

	require.Len(t, slots, 20)
	assert.Equal(t, at(8, 0), slots[0].Start)
	assert.Equal(t, at(8, 30), slots[0].End)
	assert.Equal(t, at(17, 30), slots[19].Start)
	assert.Equal(t, at(18, 0), slots[19].End)

	for i, s := range slots {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
		assert.False(t, s.End.After(window.End), "slot %d extends past closing time", i)
		if i > 0 {
			assert.True(t, s.Start.After(slots[i-1].Start), "slots must be ordered")
		}
	}
}

func TestAvailableSlotsExcludesBookedGridSlot(t *testing.T) {
	window := workday(t)
	booked := []Interval{span(9, 0, 9, 30)}

	slots := AvailableSlots(window, 30*time.Minute, booked)

	require.Len(t, slots, 19)
	for _, s := range slots {
		assert.False(t, (Interval{Start: s.Start, End: s.End}).Overlaps(booked[0]))
	}
}

func TestAvailableSlotsNonAlignedAppointmentBlocksBothNeighbors(t *testing.T) {
	window := workday(t)
	// 09:15-09:45 straddles two grid slots; both must disappear.
	booked := []Interval{span(9, 15, 9, 45)}

	slots := AvailableSlots(window, 30*time.Minute, booked)

	require.Len(t, slots, 18)
	for _, s := range slots {
		assert.NotEqual(t, at(9, 0), s.Start)
		assert.NotEqual(t, at(9, 30), s.Start)
	}
}

func TestAvailableSlotsGridStaysAnchoredAfterBusyPeriod(t *testing.T) {
	window := workday(t)
	booked := []Interval{span(8, 0, 8, 45)}

	slots := AvailableSlots(window, 30*time.Minute, booked)

	// The grid does not pack a slot at 08:45; the next candidate is 09:00.
	require.NotEmpty(t, slots)
	assert.Equal(t, at(9, 0), slots[0].Start)
}

func TestAvailableSlotsDropsPartialTail(t *testing.T) {
	window := workday(t)

	// 600-minute window, 45-minute slots: 13 full slots, the 15-minute
	// remainder at the tail is dropped.
	slots := AvailableSlots(window, 45*time.Minute, nil)

	require.Len(t, slots, 13)
	last := slots[len(slots)-1]
	assert.False(t, last.End.After(window.End))
}

func TestAvailableSlotsFullyBookedDay(t *testing.T) {
	window := workday(t)
	booked := []Interval{{Start: window.Start, End: window.End}}

	slots := AvailableSlots(window, 30*time.Minute, booked)

	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestAvailableSlotsZeroDuration(t *testing.T) {
	assert.Empty(t, AvailableSlots(workday(t), 0, nil))
}

func TestWorkingWindowOnDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 13, 45, 0, 0, time.UTC)
	window := DefaultWorkingWindow().OnDay(day, loc)

	assert.Equal(t, 8, window.Start.Hour())
	assert.Equal(t, 18, window.End.Hour())
	assert.Equal(t, loc, window.Start.Location())
	assert.Equal(t, 10*time.Hour, window.Duration())
}

func TestBookedIntervalsSkipsInactive(t *testing.T) {
	appointments := []*model.Appointment{
		appointment(uuid.New(), span(9, 0, 9, 30), model.AppointmentStatusScheduled),
		appointment(uuid.New(), span(10, 0, 10, 30), model.AppointmentStatusCancelled),
		appointment(uuid.New(), span(11, 0, 11, 30), model.AppointmentStatusConfirmed),
	}

	intervals := BookedIntervals(appointments)

	require.Len(t, intervals, 2)
	assert.Equal(t, at(9, 0), intervals[0].Start)
	assert.Equal(t, at(11, 0), intervals[1].Start)
}
