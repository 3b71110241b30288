package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denticore/clinic-api/internal/model"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
	"github.com/denticore/clinic-api/pkg/locker"
)

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Appointment, 0, len(r.items))
	for _, a := range r.items {
		cp := *a
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeAppointmentRepo) FindActiveByPractitionerAndWindow(_ context.Context, practitionerID uuid.UUID, windowStart, windowEnd time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, a := range r.items {
		if a.PractitionerID != practitionerID || !a.Status.Active() {
			continue
		}
		if a.StartTime.Before(windowEnd) && a.EndTime.After(windowStart) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeExistsRepo struct {
	known map[uuid.UUID]bool
}

func (r *fakeExistsRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.known[id], nil
}

type fakePractitionerRepo struct{ fakeExistsRepo }

func (r *fakePractitionerRepo) Create(context.Context, *model.Practitioner) error { return nil }
func (r *fakePractitionerRepo) Get(context.Context, uuid.UUID) (*model.Practitioner, error) {
	return nil, apperrors.NotFound("practitioner", nil)
}
func (r *fakePractitionerRepo) Update(context.Context, *model.Practitioner) error { return nil }
func (r *fakePractitionerRepo) Delete(context.Context, uuid.UUID) error           { return nil }
func (r *fakePractitionerRepo) List(context.Context, bool) ([]*model.Practitioner, error) {
	return nil, nil
}

type fakePatientRepo struct{ fakeExistsRepo }

func (r *fakePatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(context.Context, uuid.UUID) (*model.Patient, error) {
	return nil, apperrors.NotFound("patient", nil)
}
func (r *fakePatientRepo) Update(context.Context, *model.Patient) error { return nil }
func (r *fakePatientRepo) Delete(context.Context, uuid.UUID) error      { return nil }
func (r *fakePatientRepo) List(context.Context, *model.PatientFilters) ([]*model.Patient, int, error) {
	return nil, 0, nil
}

// passthroughLocker runs the critical section inline; contendedLocker
// simulates another request holding the practitioner lock.
type passthroughLocker struct{}

func (passthroughLocker) WithPractitionerLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type contendedLocker struct{}

func (contendedLocker) WithPractitionerLock(context.Context, uuid.UUID, func(ctx context.Context) error) error {
	return locker.ErrLockNotAcquired
}

type fixture struct {
	svc          Service
	repo         *fakeAppointmentRepo
	practitioner uuid.UUID
	patient      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	practitionerID := uuid.New()
	patientID := uuid.New()

	repo := newFakeAppointmentRepo()
	practitioners := &fakePractitionerRepo{fakeExistsRepo{known: map[uuid.UUID]bool{practitionerID: true}}}
	patients := &fakePatientRepo{fakeExistsRepo{known: map[uuid.UUID]bool{patientID: true}}}

	hours := DefaultClinicHours()
	hours.Location = time.UTC

	return &fixture{
		svc:          NewService(repo, practitioners, patients, passthroughLocker{}, hours, nil),
		repo:         repo,
		practitioner: practitionerID,
		patient:      patientID,
	}
}

func (f *fixture) proposeAt(t *testing.T, start time.Time, minutes int) *model.Appointment {
	t.Helper()
	apt, err := f.svc.Propose(context.Background(), &model.CreateAppointmentRequest{
		PractitionerID:  f.practitioner,
		PatientID:       f.patient,
		StartTime:       start,
		DurationMinutes: minutes,
		TreatmentType:   "checkup",
	}, uuid.New())
	require.NoError(t, err)
	return apt
}

func day(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestProposeDerivesEndFromDuration(t *testing.T) {
	f := newFixture(t)

	apt := f.proposeAt(t, day(9, 0), 45)

	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, day(9, 45), apt.EndTime)
	assert.Equal(t, 45, apt.DurationMinutes)
	assert.Equal(t, apt.StartTime.Add(time.Duration(apt.DurationMinutes)*time.Minute), apt.EndTime)
}

func TestProposeRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	existing := f.proposeAt(t, day(10, 0), 60)

	_, err := f.svc.Propose(context.Background(), &model.CreateAppointmentRequest{
		PractitionerID:  f.practitioner,
		PatientID:       f.patient,
		StartTime:       day(10, 30),
		DurationMinutes: 30,
		TreatmentType:   "checkup",
	}, uuid.New())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, existing.ID, appErr.Details["conflicting_appointment_id"])
}

func TestProposeAllowsTouchingAppointments(t *testing.T) {
	f := newFixture(t)
	f.proposeAt(t, day(10, 0), 60)

	// Back to back is fine: intervals are half-open.
	apt := f.proposeAt(t, day(11, 0), 30)
	assert.Equal(t, day(11, 30), apt.EndTime)
}

func TestProposeIgnoresCancelledAppointments(t *testing.T) {
	f := newFixture(t)
	existing := f.proposeAt(t, day(10, 0), 60)

	_, err := f.svc.TransitionStatus(context.Background(), existing.ID, model.AppointmentStatusCancelled, uuid.New())
	require.NoError(t, err)

	f.proposeAt(t, day(10, 0), 60)
}

func TestProposeValidatesDurationBounds(t *testing.T) {
	f := newFixture(t)

	for _, minutes := range []int{0, 10, 14, 481, 600} {
		_, err := f.svc.Propose(context.Background(), &model.CreateAppointmentRequest{
			PractitionerID:  f.practitioner,
			PatientID:       f.patient,
			StartTime:       day(9, 0),
			DurationMinutes: minutes,
			TreatmentType:   "checkup",
		}, uuid.New())
		assert.ErrorIs(t, err, apperrors.Validation(""), "duration %d should be rejected", minutes)
	}
}

func TestProposeRequiresTreatmentType(t *testing.T) {
	f := newFixture(t)

	for _, label := range []string{"", "   "} {
		_, err := f.svc.Propose(context.Background(), &model.CreateAppointmentRequest{
			PractitionerID:  f.practitioner,
			PatientID:       f.patient,
			StartTime:       day(9, 0),
			DurationMinutes: 30,
			TreatmentType:   label,
		}, uuid.New())
		assert.ErrorIs(t, err, apperrors.Validation(""), "treatment type %q should be rejected", label)
	}
	assert.Empty(t, f.repo.items)
}

func TestProposeUnknownPractitioner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Propose(context.Background(), &model.CreateAppointmentRequest{
		PractitionerID:  uuid.New(),
		PatientID:       f.patient,
		StartTime:       day(9, 0),
		DurationMinutes: 30,
		TreatmentType:   "checkup",
	}, uuid.New())

	assert.ErrorIs(t, err, apperrors.NotFound("", nil))
}

func TestProposeLockContention(t *testing.T) {
	f := newFixture(t)
	practitioners := &fakePractitionerRepo{fakeExistsRepo{known: map[uuid.UUID]bool{f.practitioner: true}}}
	patients := &fakePatientRepo{fakeExistsRepo{known: map[uuid.UUID]bool{f.patient: true}}}
	svc := NewService(f.repo, practitioners, patients, contendedLocker{}, DefaultClinicHours(), nil)

	_, err := svc.Propose(context.Background(), &model.CreateAppointmentRequest{
		PractitionerID:  f.practitioner,
		PatientID:       f.patient,
		StartTime:       day(9, 0),
		DurationMinutes: 30,
		TreatmentType:   "checkup",
	}, uuid.New())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Empty(t, f.repo.items)
}

func TestRescheduleExcludesSelf(t *testing.T) {
	f := newFixture(t)
	apt := f.proposeAt(t, day(10, 0), 60)

	// Shifting within its own old span must not conflict with itself.
	newStart := day(10, 30)
	moved, err := f.svc.Reschedule(context.Background(), apt.ID, &model.RescheduleAppointmentRequest{
		StartTime: &newStart,
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, day(10, 30), moved.StartTime)
	assert.Equal(t, day(11, 30), moved.EndTime)
	assert.Equal(t, 60, moved.DurationMinutes)
}

func TestRescheduleKeepsDurationWhenOmitted(t *testing.T) {
	f := newFixture(t)
	apt := f.proposeAt(t, day(10, 0), 45)

	newStart := day(14, 0)
	moved, err := f.svc.Reschedule(context.Background(), apt.ID, &model.RescheduleAppointmentRequest{
		StartTime: &newStart,
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 45, moved.DurationMinutes)
	assert.Equal(t, day(14, 45), moved.EndTime)
}

func TestRescheduleIntoOccupiedSlotFails(t *testing.T) {
	f := newFixture(t)
	blocker := f.proposeAt(t, day(10, 0), 60)
	apt := f.proposeAt(t, day(14, 0), 30)

	newStart := day(10, 15)
	_, err := f.svc.Reschedule(context.Background(), apt.ID, &model.RescheduleAppointmentRequest{
		StartTime: &newStart,
	}, uuid.New())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, blocker.ID, appErr.Details["conflicting_appointment_id"])

	// Original booking untouched on failure.
	stored, err := f.svc.Get(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, day(14, 0), stored.StartTime)
}

func TestRescheduleRequiresSomeChange(t *testing.T) {
	f := newFixture(t)
	apt := f.proposeAt(t, day(10, 0), 30)

	_, err := f.svc.Reschedule(context.Background(), apt.ID, &model.RescheduleAppointmentRequest{}, uuid.New())
	assert.ErrorIs(t, err, apperrors.Validation(""))
}

func TestRescheduleCompletedAppointmentFails(t *testing.T) {
	f := newFixture(t)
	apt := f.proposeAt(t, day(10, 0), 30)
	mustTransition(t, f.svc, apt.ID, model.AppointmentStatusConfirmed)
	mustTransition(t, f.svc, apt.ID, model.AppointmentStatusCompleted)

	newStart := day(15, 0)
	_, err := f.svc.Reschedule(context.Background(), apt.ID, &model.RescheduleAppointmentRequest{StartTime: &newStart}, uuid.New())
	assert.ErrorIs(t, err, apperrors.Validation(""))
}

func mustTransition(t *testing.T, svc Service, id uuid.UUID, to model.AppointmentStatus) {
	t.Helper()
	_, err := svc.TransitionStatus(context.Background(), id, to, uuid.New())
	require.NoError(t, err)
}

func TestTransitionLifecycle(t *testing.T) {
	tests := []struct {
		name    string
		path    []model.AppointmentStatus
		attempt model.AppointmentStatus
		ok      bool
	}{
		{"scheduled to confirmed", nil, model.AppointmentStatusConfirmed, true},
		{"scheduled to cancelled", nil, model.AppointmentStatusCancelled, true},
		{"scheduled to completed skips confirmation", nil, model.AppointmentStatusCompleted, false},
		{"scheduled to no_show", nil, model.AppointmentStatusNoShow, false},
		{"confirmed to completed", []model.AppointmentStatus{model.AppointmentStatusConfirmed}, model.AppointmentStatusCompleted, true},
		{"confirmed to no_show", []model.AppointmentStatus{model.AppointmentStatusConfirmed}, model.AppointmentStatusNoShow, true},
		{"completed is terminal", []model.AppointmentStatus{model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted}, model.AppointmentStatusCancelled, false},
		{"cancelled reopens to scheduled", []model.AppointmentStatus{model.AppointmentStatusCancelled}, model.AppointmentStatusScheduled, true},
		{"no_show reopens to scheduled", []model.AppointmentStatus{model.AppointmentStatusConfirmed, model.AppointmentStatusNoShow}, model.AppointmentStatusScheduled, true},
		{"cancelled cannot jump to completed", []model.AppointmentStatus{model.AppointmentStatusCancelled}, model.AppointmentStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			apt := f.proposeAt(t, day(10, 0), 30)
			for _, step := range tt.path {
				mustTransition(t, f.svc, apt.ID, step)
			}

			_, err := f.svc.TransitionStatus(context.Background(), apt.ID, tt.attempt, uuid.New())
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrInvalidTransition, appErr.Code)
		})
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newFixture(t)
	apt := f.proposeAt(t, day(10, 0), 30)

	_, err := f.svc.TransitionStatus(context.Background(), apt.ID, model.AppointmentStatus("teleported"), uuid.New())
	assert.ErrorIs(t, err, apperrors.Validation(""))
}

func TestReopenCancelledRequiresFreeSlot(t *testing.T) {
	f := newFixture(t)
	apt := f.proposeAt(t, day(10, 0), 60)
	mustTransition(t, f.svc, apt.ID, model.AppointmentStatusCancelled)

	// Someone else took the slot in the meantime.
	f.proposeAt(t, day(10, 0), 60)

	_, err := f.svc.TransitionStatus(context.Background(), apt.ID, model.AppointmentStatusScheduled, uuid.New())
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestDeleteOnlyScheduled(t *testing.T) {
	f := newFixture(t)
	apt := f.proposeAt(t, day(10, 0), 30)

	require.NoError(t, f.svc.Delete(context.Background(), apt.ID))
	_, err := f.svc.Get(context.Background(), apt.ID)
	assert.ErrorIs(t, err, apperrors.NotFound("", nil))

	confirmed := f.proposeAt(t, day(11, 0), 30)
	mustTransition(t, f.svc, confirmed.ID, model.AppointmentStatusConfirmed)
	err = f.svc.Delete(context.Background(), confirmed.ID)
	assert.ErrorIs(t, err, apperrors.Validation(""))
}

func TestListAvailableSlotsSkipsBookings(t *testing.T) {
	f := newFixture(t)
	f.proposeAt(t, day(9, 0), 60)

	slots, err := f.svc.ListAvailableSlots(context.Background(), f.practitioner, day(0, 0), 0)
	require.NoError(t, err)

	// 08:00-18:00 at 30 minutes is 20 slots, two of which are booked.
	assert.Len(t, slots, 18)
	for _, slot := range slots {
		assert.False(t, slot.Start.Before(day(8, 0)))
		assert.False(t, slot.End.After(day(18, 0)))
		assert.False(t, slot.Start.Equal(day(9, 0)))
		assert.False(t, slot.Start.Equal(day(9, 30)))
	}
}

func TestListAvailableSlotsValidatesDuration(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListAvailableSlots(context.Background(), f.practitioner, day(0, 0), 5*time.Minute)
	assert.ErrorIs(t, err, apperrors.Validation(""))

	_, err = f.svc.ListAvailableSlots(context.Background(), f.practitioner, day(0, 0), 3*time.Hour)
	assert.ErrorIs(t, err, apperrors.Validation(""))
}

func TestListAvailableSlotsUnknownPractitioner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListAvailableSlots(context.Background(), uuid.New(), day(0, 0), 0)
	assert.ErrorIs(t, err, apperrors.NotFound("", nil))
}

func TestConcurrentProposalsSerialized(t *testing.T) {
	f := newFixture(t)

	// The passthrough locker does not serialize, so emulate the worst case
	// sequentially: same slot proposed twice, second must fail.
	f.proposeAt(t, day(10, 0), 30)
	_, err := f.svc.Propose(context.Background(), &model.CreateAppointmentRequest{
		PractitionerID:  f.practitioner,
		PatientID:       f.patient,
		StartTime:       day(10, 0),
		DurationMinutes: 30,
		TreatmentType:   "checkup",
	}, uuid.New())

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.SchedulingConflict(uuid.Nil)))
}
