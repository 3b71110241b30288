package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func span(startHour, startMin, endHour, endMin int) Interval {
	return Interval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", span(10, 0, 10, 30), span(10, 0, 10, 30), true},
		{"partial overlap", span(10, 0, 10, 30), span(10, 15, 10, 45), true},
		{"contained", span(10, 0, 11, 0), span(10, 15, 10, 30), true},
		{"touching end to start", span(10, 0, 10, 30), span(10, 30, 11, 0), false},
		{"touching start to end", span(10, 30, 11, 0), span(10, 0, 10, 30), false},
		{"disjoint", span(8, 0, 9, 0), span(10, 0, 11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	pairs := []struct{ a, b Interval }{
		{span(10, 0, 10, 30), span(10, 15, 10, 45)},
		{span(10, 0, 10, 30), span(10, 30, 11, 0)},
		{span(8, 0, 18, 0), span(9, 0, 9, 20)},
		{span(8, 0, 9, 0), span(14, 0, 15, 0)},
	}

	for _, p := range pairs {
		assert.Equal(t, p.a.Overlaps(p.b), p.b.Overlaps(p.a))
	}
}

func TestNewInterval(t *testing.T) {
	iv := NewInterval(at(9, 0), 45*time.Minute)
	assert.Equal(t, at(9, 45), iv.End)
	assert.Equal(t, 45*time.Minute, iv.Duration())
	assert.True(t, iv.Valid())
}

func TestValid(t *testing.T) {
	assert.False(t, Interval{Start: at(10, 0), End: at(10, 0)}.Valid())
	assert.False(t, Interval{Start: at(10, 0), End: at(9, 0)}.Valid())
}
