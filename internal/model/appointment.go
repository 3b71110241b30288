package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Active reports whether the appointment still occupies the practitioner's
// calendar. Only active appointments count toward conflict detection.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
}

// Reminder records a reminder already dispatched for an appointment. Dispatch
// itself happens outside this service; the log is kept for display.
type Reminder struct {
	Type   string    `json:"type"`
	SentAt time.Time `json:"sent_at"`
}

// ReminderLog is stored as a jsonb column.
type ReminderLog []Reminder

func (l ReminderLog) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

func (l *ReminderLog) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported reminder log type %T", src)
	}
}

type Appointment struct {
	Base
	PractitionerID  uuid.UUID         `db:"practitioner_id" json:"practitioner_id"`
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	StartTime       time.Time         `db:"start_time" json:"start_time"`
	EndTime         time.Time         `db:"end_time" json:"end_time"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	Status          AppointmentStatus `db:"status" json:"status"`
	TreatmentType   string            `db:"treatment_type" json:"treatment_type"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
	RemindersSent   ReminderLog       `db:"reminders_sent" json:"reminders_sent,omitempty"`
	CreatedBy       uuid.UUID         `db:"created_by" json:"created_by"`
	UpdatedBy       *uuid.UUID        `db:"updated_by" json:"updated_by,omitempty"`
}

type CreateAppointmentRequest struct {
	PractitionerID  uuid.UUID `json:"practitioner_id" binding:"required"`
	PatientID       uuid.UUID `json:"patient_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required"`
	TreatmentType   string    `json:"treatment_type" binding:"required"`
	Notes           string    `json:"notes" binding:"max=1000"`
}

// RescheduleAppointmentRequest moves an existing appointment. Omitted fields
// fall back to the appointment's current values.
type RescheduleAppointmentRequest struct {
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
}

type TransitionStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,appointment_status"`
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AppointmentFilters struct {
	Pagination
	PractitionerID uuid.UUID         `form:"practitioner_id"`
	PatientID      uuid.UUID         `form:"patient_id"`
	Status         AppointmentStatus `form:"status"`
	StartDate      time.Time         `form:"start_date" time_format:"2006-01-02"`
	EndDate        time.Time         `form:"end_date" time_format:"2006-01-02"`
}
