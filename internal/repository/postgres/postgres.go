package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/denticore/clinic-api/internal/repository"
	"github.com/denticore/clinic-api/pkg/metrics"
)

type appointmentRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type practitionerRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type treatmentRepository struct {
	db *sqlx.DB
}

type invoiceRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type dashboardRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{db: db, metrics: m}
}

// observe records one operation against the database counters. Callers defer
// it with a named error return so the final outcome is captured.
func (r *appointmentRepository) observe(operation string, start time.Time, err *error) {
	if r.metrics == nil {
		return
	}
	status := "ok"
	if *err != nil {
		status = "error"
	}
	r.metrics.DatabaseOperations.WithLabelValues(operation, status).Inc()
	r.metrics.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func NewPractitionerRepository(db *sqlx.DB) repository.PractitionerRepository {
	return &practitionerRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewTreatmentRepository(db *sqlx.DB) repository.TreatmentRepository {
	return &treatmentRepository{db: db}
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewDashboardRepository(db *sqlx.DB) repository.DashboardRepository {
	return &dashboardRepository{db: db}
}
