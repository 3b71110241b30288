package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/repository"
	"github.com/denticore/clinic-api/internal/scheduling"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
	"github.com/denticore/clinic-api/pkg/fsm"
	"github.com/denticore/clinic-api/pkg/locker"
	"github.com/denticore/clinic-api/pkg/metrics"
)

const (
	// MinAppointmentDuration and MaxAppointmentDuration bound what can be
	// booked. The max also sizes the conflict query window: no appointment can
	// be longer, so any appointment overlapping the proposal starts within
	// MaxAppointmentDuration of it.
	MinAppointmentDuration = 15 * time.Minute
	MaxAppointmentDuration = 8 * time.Hour

	MinSlotDuration = 15 * time.Minute
	MaxSlotDuration = 2 * time.Hour
)

// statusMachine encodes the appointment lifecycle. Completed is terminal;
// cancelled and no_show can be re-opened by booking the patient back in.
var statusMachine = fsm.New(map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusScheduled: {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled, model.AppointmentStatusNoShow},
	model.AppointmentStatusCompleted: {},
	model.AppointmentStatusCancelled: {model.AppointmentStatusScheduled},
	model.AppointmentStatusNoShow:    {model.AppointmentStatusScheduled},
})

// ClinicHours is the scheduling policy the service applies when generating
// slots: the daily working window, the slot size used when the caller does not
// ask for one, and the timezone days are interpreted in.
type ClinicHours struct {
	Window              scheduling.WorkingWindow
	DefaultSlotDuration time.Duration
	Location            *time.Location
}

// DefaultClinicHours returns the standard 08:00-18:00 day with 30-minute slots.
func DefaultClinicHours() ClinicHours {
	return ClinicHours{
		Window:              scheduling.DefaultWorkingWindow(),
		DefaultSlotDuration: 30 * time.Minute,
		Location:            time.Local,
	}
}

// Service books, moves, and transitions appointments. All calendar writes for
// a practitioner are serialized through the locker so the conflict check and
// the write happen atomically with respect to other proposals.
type Service interface {
	Propose(ctx context.Context, req *model.CreateAppointmentRequest, createdBy uuid.UUID) (*model.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest, updatedBy uuid.UUID) (*model.Appointment, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, updatedBy uuid.UUID) (*model.Appointment, error)
	ListAvailableSlots(ctx context.Context, practitionerID uuid.UUID, day time.Time, slotDuration time.Duration) ([]model.TimeSlot, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	appointments  repository.AppointmentRepository
	practitioners repository.PractitionerRepository
	patients      repository.PatientRepository
	locker        locker.Locker
	hours         ClinicHours
	metrics       *metrics.Metrics
}

func NewService(
	appointments repository.AppointmentRepository,
	practitioners repository.PractitionerRepository,
	patients repository.PatientRepository,
	lock locker.Locker,
	hours ClinicHours,
	m *metrics.Metrics,
) Service {
	if hours.DefaultSlotDuration <= 0 {
		hours.DefaultSlotDuration = 30 * time.Minute
	}
	if hours.Location == nil {
		hours.Location = time.Local
	}
	return &service{
		appointments:  appointments,
		practitioners: practitioners,
		patients:      patients,
		locker:        lock,
		hours:         hours,
		metrics:       m,
	}
}

func (s *service) Propose(ctx context.Context, req *model.CreateAppointmentRequest, createdBy uuid.UUID) (*model.Appointment, error) {
	duration := time.Duration(req.DurationMinutes) * time.Minute
	if err := validateDuration(duration); err != nil {
		return nil, err
	}
	if req.StartTime.IsZero() {
		return nil, apperrors.Validation("start_time is required")
	}
	if strings.TrimSpace(req.TreatmentType) == "" {
		return nil, apperrors.Validation("treatment_type is required")
	}

	if err := s.requirePractitioner(ctx, req.PractitionerID); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, req.PatientID); err != nil {
		return nil, err
	}

	proposed := scheduling.NewInterval(req.StartTime, duration)

	appointment := &model.Appointment{
		Base: model.Base{
			ID: uuid.New(),
		},
		PractitionerID:  req.PractitionerID,
		PatientID:       req.PatientID,
		StartTime:       proposed.Start,
		EndTime:         proposed.End,
		DurationMinutes: req.DurationMinutes,
		Status:          model.AppointmentStatusScheduled,
		TreatmentType:   req.TreatmentType,
		Notes:           req.Notes,
		CreatedBy:       createdBy,
	}

	err := s.withCalendarLock(ctx, req.PractitionerID, func(ctx context.Context) error {
		decision, err := s.checkCalendar(ctx, req.PractitionerID, proposed, uuid.Nil)
		if err != nil {
			return err
		}
		if !decision.OK {
			s.countConflict()
			return apperrors.SchedulingConflict(decision.ConflictingID)
		}
		return s.appointments.Create(ctx, appointment)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
	}
	return appointment, nil
}

func (s *service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest, updatedBy uuid.UUID) (*model.Appointment, error) {
	if req.StartTime == nil && req.DurationMinutes == nil {
		return nil, apperrors.Validation("nothing to reschedule: provide start_time or duration_minutes")
	}

	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.Status.Active() {
		return nil, apperrors.Validation("only scheduled or confirmed appointments can be rescheduled")
	}

	start := appointment.StartTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	durationMinutes := appointment.DurationMinutes
	if req.DurationMinutes != nil {
		durationMinutes = *req.DurationMinutes
	}
	duration := time.Duration(durationMinutes) * time.Minute
	if err := validateDuration(duration); err != nil {
		return nil, err
	}

	proposed := scheduling.NewInterval(start, duration)

	err = s.withCalendarLock(ctx, appointment.PractitionerID, func(ctx context.Context) error {
		decision, err := s.checkCalendar(ctx, appointment.PractitionerID, proposed, appointment.ID)
		if err != nil {
			return err
		}
		if !decision.OK {
			s.countConflict()
			return apperrors.SchedulingConflict(decision.ConflictingID)
		}

		appointment.StartTime = proposed.Start
		appointment.EndTime = proposed.End
		appointment.DurationMinutes = durationMinutes
		appointment.UpdatedBy = &updatedBy
		return s.appointments.Update(ctx, appointment)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentsRescheduled.Inc()
	}
	return appointment, nil
}

func (s *service) TransitionStatus(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, updatedBy uuid.UUID) (*model.Appointment, error) {
	if !statusMachine.Known(to) {
		return nil, apperrors.Validation("unknown appointment status: " + string(to))
	}

	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := appointment.Status
	if !statusMachine.CanTransition(from, to) {
		s.countTransition(from, to, "rejected")
		return nil, apperrors.InvalidTransition(string(from), string(to))
	}

	// Re-opening a cancelled or no_show appointment puts its interval back on
	// the calendar, so it has to pass the conflict check like a fresh booking.
	if !from.Active() && to == model.AppointmentStatusScheduled {
		proposed := scheduling.Interval{Start: appointment.StartTime, End: appointment.EndTime}
		err = s.withCalendarLock(ctx, appointment.PractitionerID, func(ctx context.Context) error {
			decision, err := s.checkCalendar(ctx, appointment.PractitionerID, proposed, appointment.ID)
			if err != nil {
				return err
			}
			if !decision.OK {
				s.countConflict()
				return apperrors.SchedulingConflict(decision.ConflictingID)
			}
			appointment.Status = to
			appointment.UpdatedBy = &updatedBy
			return s.appointments.Update(ctx, appointment)
		})
		if err != nil {
			s.countTransition(from, to, "rejected")
			return nil, err
		}
	} else {
		appointment.Status = to
		appointment.UpdatedBy = &updatedBy
		if err := s.appointments.Update(ctx, appointment); err != nil {
			return nil, err
		}
	}

	s.countTransition(from, to, "applied")
	return appointment, nil
}

func (s *service) ListAvailableSlots(ctx context.Context, practitionerID uuid.UUID, day time.Time, slotDuration time.Duration) ([]model.TimeSlot, error) {
	if err := s.requirePractitioner(ctx, practitionerID); err != nil {
		return nil, err
	}

	if slotDuration == 0 {
		slotDuration = s.hours.DefaultSlotDuration
	}
	if slotDuration < MinSlotDuration || slotDuration > MaxSlotDuration {
		return nil, apperrors.Validation("slot duration must be between 15 and 120 minutes")
	}

	window := s.hours.Window.OnDay(day, s.hours.Location)
	appointments, err := s.appointments.FindActiveByPractitionerAndWindow(ctx, practitionerID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SlotQueries.Inc()
	}
	return scheduling.AvailableSlots(window, slotDuration, scheduling.BookedIntervals(appointments)), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	filters.Normalize()
	return s.appointments.List(ctx, filters)
}

// Delete removes an appointment outright. Only appointments still in the
// scheduled state may be deleted; anything further along is cancelled via a
// status transition instead, preserving the record.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return err
	}
	if appointment.Status != model.AppointmentStatusScheduled {
		return apperrors.Validation("only scheduled appointments can be deleted; cancel instead")
	}
	return s.appointments.Delete(ctx, id)
}

// checkCalendar loads the practitioner's active appointments around the
// proposed interval and runs conflict detection. The query window is padded by
// MaxAppointmentDuration on both sides so no overlapping appointment can fall
// outside it.
func (s *service) checkCalendar(ctx context.Context, practitionerID uuid.UUID, proposed scheduling.Interval, excludeID uuid.UUID) (scheduling.Decision, error) {
	candidates, err := s.appointments.FindActiveByPractitionerAndWindow(
		ctx,
		practitionerID,
		proposed.Start.Add(-MaxAppointmentDuration),
		proposed.End.Add(MaxAppointmentDuration),
	)
	if err != nil {
		return scheduling.Decision{}, err
	}
	return scheduling.CheckConflict(proposed, candidates, excludeID), nil
}

func (s *service) withCalendarLock(ctx context.Context, practitionerID uuid.UUID, fn func(ctx context.Context) error) error {
	err := s.locker.WithPractitionerLock(ctx, practitionerID, fn)
	if errors.Is(err, locker.ErrLockNotAcquired) {
		if s.metrics != nil {
			s.metrics.LockAcquisitions.WithLabelValues("contended").Inc()
		}
		return apperrors.Conflict("practitioner calendar is busy, please retry")
	}
	if err == nil && s.metrics != nil {
		s.metrics.LockAcquisitions.WithLabelValues("acquired").Inc()
	}
	return err
}

func (s *service) requirePractitioner(ctx context.Context, id uuid.UUID) error {
	exists, err := s.practitioners.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("practitioner", nil)
	}
	return nil
}

func (s *service) requirePatient(ctx context.Context, id uuid.UUID) error {
	exists, err := s.patients.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}

func (s *service) countConflict() {
	if s.metrics != nil {
		s.metrics.SchedulingConflicts.Inc()
	}
}

func (s *service) countTransition(from, to model.AppointmentStatus, result string) {
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(from), string(to), result).Inc()
	}
}

func validateDuration(d time.Duration) error {
	if d < MinAppointmentDuration || d > MaxAppointmentDuration {
		return apperrors.Validation("duration must be between 15 and 480 minutes")
	}
	return nil
}
