package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type status string

const (
	scheduled status = "scheduled"
	confirmed status = "confirmed"
	completed status = "completed"
	cancelled status = "cancelled"
	noShow    status = "no_show"
)

func appointmentMachine() *Machine[status] {
	return New(map[status][]status{
		scheduled: {confirmed, cancelled},
		confirmed: {completed, cancelled, noShow},
		completed: {},
		cancelled: {scheduled},
		noShow:    {scheduled},
	})
}

func TestCanTransitionAllowedEdges(t *testing.T) {
	m := appointmentMachine()

	allowed := [][2]status{
		{scheduled, confirmed},
		{scheduled, cancelled},
		{confirmed, completed},
		{confirmed, cancelled},
		{confirmed, noShow},
		{cancelled, scheduled},
		{noShow, scheduled},
	}

	for _, edge := range allowed {
		assert.True(t, m.CanTransition(edge[0], edge[1]), "%s -> %s should be allowed", edge[0], edge[1])
	}
}

func TestCanTransitionRejectsEverythingElse(t *testing.T) {
	m := appointmentMachine()
	all := []status{scheduled, confirmed, completed, cancelled, noShow}

	allowed := map[[2]status]bool{
		{scheduled, confirmed}: true,
		{scheduled, cancelled}: true,
		{confirmed, completed}: true,
		{confirmed, cancelled}: true,
		{confirmed, noShow}:    true,
		{cancelled, scheduled}: true,
		{noShow, scheduled}:    true,
	}

	// Exhaustive pair check: exactly the table above, nothing more.
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]status{from, to}]
			assert.Equal(t, want, m.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	m := appointmentMachine()
	for _, to := range []status{scheduled, confirmed, cancelled, noShow, completed} {
		assert.False(t, m.CanTransition(completed, to))
	}
}

func TestUnknownStateHasNoEdges(t *testing.T) {
	m := appointmentMachine()
	assert.False(t, m.CanTransition(status("archived"), scheduled))
	assert.False(t, m.CanTransition(scheduled, status("archived")))
}

func TestKnown(t *testing.T) {
	m := New(map[status][]status{
		scheduled: {confirmed},
	})

	assert.True(t, m.Known(scheduled))
	assert.True(t, m.Known(confirmed))
	assert.False(t, m.Known(status("archived")))
}
