package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
)

const invoiceColumns = `
	id, patient_id, appointment_id, amount, amount_paid, due_date, status,
	notes, created_by, created_at, updated_at
`

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, patient_id, appointment_id, amount, amount_paid, due_date,
			status, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		invoice.ID,
		invoice.PatientID,
		invoice.AppointmentID,
		invoice.Amount,
		invoice.AmountPaid,
		invoice.DueDate,
		invoice.Status,
		invoice.Notes,
		invoice.CreatedBy,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	var invoice model.Invoice
	err := r.db.GetContext(ctx, &invoice, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("invoice", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET amount = $1, amount_paid = $2, due_date = $3, status = $4,
		    notes = $5, updated_at = $6
		WHERE id = $7
	`
	invoice.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		invoice.Amount,
		invoice.AmountPaid,
		invoice.DueDate,
		invoice.Status,
		invoice.Notes,
		invoice.UpdatedAt,
		invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("invoice", nil)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

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

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := "SELECT " + invoiceColumns + " FROM invoices" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, total, nil
}
