package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/denticore/clinic-api/internal/model"
)

func (r *dashboardRepository) Stats(ctx context.Context, now time.Time) (*model.DashboardStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	query := `
		SELECT
			(SELECT COUNT(*) FROM appointments WHERE start_time >= $1 AND start_time < $2) AS appointments_today,
			(SELECT COUNT(*) FROM appointments WHERE start_time >= $1 AND start_time < $2 AND status = 'scheduled') AS appointments_scheduled,
			(SELECT COUNT(*) FROM appointments WHERE start_time >= $1 AND start_time < $2 AND status = 'confirmed') AS appointments_confirmed,
			(SELECT COUNT(*) FROM appointments WHERE start_time >= $1 AND start_time < $2 AND status = 'completed') AS appointments_completed,
			(SELECT COUNT(*) FROM appointments WHERE start_time >= $1 AND start_time < $2 AND status = 'cancelled') AS appointments_cancelled,
			(SELECT COUNT(*) FROM patients WHERE created_at >= $3) AS new_patients_this_month,
			(SELECT COUNT(*) FROM patients WHERE status = 'active') AS active_patients,
			(SELECT COALESCE(SUM(amount - amount_paid), 0) FROM invoices WHERE status IN ('sent', 'partial', 'overdue')) AS outstanding_amount,
			(SELECT COALESCE(SUM(amount_paid), 0) FROM invoices WHERE updated_at >= $3) AS revenue_this_month
	`

	var stats model.DashboardStats
	if err := r.db.GetContext(ctx, &stats, query, dayStart, dayEnd, monthStart); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}

func (r *dashboardRepository) UpcomingAppointments(ctx context.Context, from time.Time, limit int) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE start_time >= $1
		AND status IN ('scheduled', 'confirmed')
		ORDER BY start_time ASC
		LIMIT $2
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, from, limit); err != nil {
		return nil, fmt.Errorf("failed to load upcoming appointments: %w", err)
	}
	return appointments, nil
}
