package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/denticore/clinic-api/internal/model"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
)

const appointmentColumns = `
	id, practitioner_id, patient_id, start_time, end_time, duration_minutes,
	status, treatment_type, notes, reminders_sent, created_by, updated_by,
	created_at, updated_at
`

// The appointments table carries an EXCLUDE constraint over
// (practitioner_id, tstzrange(start_time, end_time)) for active statuses, so
// even two conflict checks that raced past each other cannot both commit an
// overlapping booking. A violation surfaces here as a conflict error.
func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23P01" || pqErr.Code == "23505"
	}
	return false
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (err error) {
	defer r.observe("create", time.Now(), &err)

	query := `
		INSERT INTO appointments (
			id, practitioner_id, patient_id, start_time, end_time,
			duration_minutes, status, treatment_type, notes, reminders_sent,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PractitionerID,
		appointment.PatientID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.DurationMinutes,
		appointment.Status,
		appointment.TreatmentType,
		appointment.Notes,
		appointment.RemindersSent,
		appointment.CreatedBy,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if isOverlapViolation(err) {
			return apperrors.SchedulingConflict(uuid.Nil)
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Appointment, err error) {
	defer r.observe("get", time.Now(), &err)

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err = r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) (err error) {
	defer r.observe("update", time.Now(), &err)

	query := `
		UPDATE appointments
		SET start_time = $1, end_time = $2, duration_minutes = $3, status = $4,
		    treatment_type = $5, notes = $6, reminders_sent = $7,
		    updated_by = $8, updated_at = $9
		WHERE id = $10
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.StartTime,
		appointment.EndTime,
		appointment.DurationMinutes,
		appointment.Status,
		appointment.TreatmentType,
		appointment.Notes,
		appointment.RemindersSent,
		appointment.UpdatedBy,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		if isOverlapViolation(err) {
			return apperrors.SchedulingConflict(uuid.Nil)
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer r.observe("delete", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) (_ []*model.Appointment, _ int, err error) {
	defer r.observe("list", time.Now(), &err)

	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.PractitionerID != uuid.Nil {
		where += fmt.Sprintf(" AND practitioner_id = $%d", argCount)
		args = append(args, filters.PractitionerID)
		argCount++
	}
	if filters.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		where += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		where += fmt.Sprintf(" AND start_time < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	var total int
	if err = r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM appointments"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := "SELECT " + appointmentColumns + " FROM appointments" + where +
		fmt.Sprintf(" ORDER BY start_time ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var appointments []*model.Appointment
	if err = r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *appointmentRepository) FindActiveByPractitionerAndWindow(ctx context.Context, practitionerID uuid.UUID, windowStart, windowEnd time.Time) (_ []*model.Appointment, err error) {
	defer r.observe("find_active", time.Now(), &err)

	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE practitioner_id = $1
		AND status IN ('scheduled', 'confirmed')
		AND start_time < $3
		AND end_time > $2
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	err = r.db.SelectContext(ctx, &appointments, query, practitionerID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to find active appointments: %w", err)
	}
	return appointments, nil
}
