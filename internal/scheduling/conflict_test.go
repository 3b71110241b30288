package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/denticore/clinic-api/internal/model"
)

func appointment(id uuid.UUID, iv Interval, status model.AppointmentStatus) *model.Appointment {
	apt := &model.Appointment{
		StartTime: iv.Start,
		EndTime:   iv.End,
		Status:    status,
	}
	apt.ID = id
	return apt
}

func TestCheckConflictRejectsOverlap(t *testing.T) {
	existingID := uuid.New()
	candidates := []*model.Appointment{
		appointment(existingID, span(10, 0, 10, 30), model.AppointmentStatusScheduled),
	}

	decision := CheckConflict(span(10, 15, 10, 45), candidates, uuid.Nil)

	assert.False(t, decision.OK)
	assert.Equal(t, existingID, decision.ConflictingID)
}

func TestCheckConflictAcceptsTouchingInterval(t *testing.T) {
	candidates := []*model.Appointment{
		appointment(uuid.New(), span(10, 0, 10, 30), model.AppointmentStatusConfirmed),
	}

	decision := CheckConflict(span(10, 30, 11, 0), candidates, uuid.Nil)

	assert.True(t, decision.OK)
}

func TestCheckConflictIgnoresInactiveAppointments(t *testing.T) {
	candidates := []*model.Appointment{
		appointment(uuid.New(), span(10, 0, 10, 30), model.AppointmentStatusCancelled),
		appointment(uuid.New(), span(10, 0, 10, 30), model.AppointmentStatusCompleted),
		appointment(uuid.New(), span(10, 0, 10, 30), model.AppointmentStatusNoShow),
	}

	decision := CheckConflict(span(10, 0, 10, 30), candidates, uuid.Nil)

	assert.True(t, decision.OK)
}

func TestCheckConflictExcludesOwnRecordOnReschedule(t *testing.T) {
	ownID := uuid.New()
	candidates := []*model.Appointment{
		appointment(ownID, span(10, 0, 10, 30), model.AppointmentStatusScheduled),
	}

	// Moving the appointment by 15 minutes only collides with itself.
	decision := CheckConflict(span(10, 15, 10, 45), candidates, ownID)

	assert.True(t, decision.OK)
}

func TestCheckConflictReportsFirstCollision(t *testing.T) {
	firstID := uuid.New()
	candidates := []*model.Appointment{
		appointment(firstID, span(9, 0, 9, 30), model.AppointmentStatusScheduled),
		appointment(uuid.New(), span(9, 30, 10, 0), model.AppointmentStatusScheduled),
	}

	decision := CheckConflict(span(9, 15, 9, 45), candidates, uuid.Nil)

	assert.False(t, decision.OK)
	assert.Equal(t, firstID, decision.ConflictingID)
}

func TestCheckConflictEmptyCandidates(t *testing.T) {
	decision := CheckConflict(span(10, 0, 10, 30), nil, uuid.Nil)
	assert.True(t, decision.OK)
}
