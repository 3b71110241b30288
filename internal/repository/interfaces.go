package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// AppointmentRepository persists appointments. FindActiveByPractitionerAndWindow
	// is the narrow query the scheduling service reasons over: every appointment
	// of the practitioner with an active status whose interval intersects the
	// window, ordered by start time.
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error)
		FindActiveByPractitionerAndWindow(ctx context.Context, practitionerID uuid.UUID, windowStart, windowEnd time.Time) ([]*model.Appointment, error)
	}

	PractitionerRepository interface {
		Create(ctx context.Context, practitioner *model.Practitioner) error
		Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error)
		Update(ctx context.Context, practitioner *model.Practitioner) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Practitioner, error)
		Exists(ctx context.Context, id uuid.UUID) (bool, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error)
		Exists(ctx context.Context, id uuid.UUID) (bool, error)
	}

	TreatmentRepository interface {
		Create(ctx context.Context, treatment *model.Treatment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Treatment, error)
		Update(ctx context.Context, treatment *model.Treatment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.TreatmentFilters) ([]*model.Treatment, int, error)
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
		Update(ctx context.Context, invoice *model.Invoice) error
		List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, int, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	DashboardRepository interface {
		Stats(ctx context.Context, now time.Time) (*model.DashboardStats, error)
		UpcomingAppointments(ctx context.Context, from time.Time, limit int) ([]*model.Appointment, error)
	}
)
