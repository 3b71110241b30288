// Package scheduling holds the pure calendar logic of the clinic: interval
// overlap, conflict decisions over an in-memory candidate set, and slot grid
// generation. Nothing in this package touches a database or a clock.
package scheduling

import "time"

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval derives an interval from a start and a duration.
func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps reports whether the two intervals share any instant. Touching
// endpoints do not overlap: back-to-back appointments are permitted.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Valid reports whether the interval has positive length.
func (iv Interval) Valid() bool {
	return iv.End.After(iv.Start)
}
