package scheduling

import (
	"time"

	"github.com/denticore/clinic-api/internal/model"
)

// WorkingWindow is the clinic's daily open/close bounds, expressed as offsets
// from local midnight.
type WorkingWindow struct {
	Open  time.Duration
	Close time.Duration
}

// DefaultWorkingWindow returns the standard 08:00-18:00 clinic day.
func DefaultWorkingWindow() WorkingWindow {
	return WorkingWindow{
		Open:  8 * time.Hour,
		Close: 18 * time.Hour,
	}
}

// OnDay projects the window onto a calendar day in the given location.
func (w WorkingWindow) OnDay(day time.Time, loc *time.Location) Interval {
	if loc == nil {
		loc = time.Local
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return Interval{
		Start: midnight.Add(w.Open),
		End:   midnight.Add(w.Close),
	}
}

// AvailableSlots partitions the window into fixed-size candidate slots and
// keeps those that overlap none of the booked intervals. The grid is anchored
// at the window open time and advances by slotDuration regardless of whether
// the previous candidate was free; appointments with non-aligned durations
// therefore knock out every grid slot they touch rather than shifting the
// grid. A partial slot at the window tail is never emitted.
func AvailableSlots(window Interval, slotDuration time.Duration, booked []Interval) []model.TimeSlot {
	slots := []model.TimeSlot{}
	if slotDuration <= 0 || !window.Valid() {
		return slots
	}

	for t := window.Start; !t.Add(slotDuration).After(window.End); t = t.Add(slotDuration) {
		candidate := Interval{Start: t, End: t.Add(slotDuration)}
		free := true
		for _, b := range booked {
			if candidate.Overlaps(b) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, model.TimeSlot{Start: candidate.Start, End: candidate.End})
		}
	}
	return slots
}

// BookedIntervals extracts the occupied spans of the given appointments,
// skipping any that are no longer active.
func BookedIntervals(appointments []*model.Appointment) []Interval {
	intervals := make([]Interval, 0, len(appointments))
	for _, apt := range appointments {
		if !apt.Status.Active() {
			continue
		}
		intervals = append(intervals, Interval{Start: apt.StartTime, End: apt.EndTime})
	}
	return intervals
}
