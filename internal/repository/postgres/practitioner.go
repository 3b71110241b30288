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

const practitionerColumns = `
	id, first_name, last_name, email, specialty, license_number, active,
	created_at, updated_at
`

func (r *practitionerRepository) Create(ctx context.Context, practitioner *model.Practitioner) error {
	query := `
		INSERT INTO practitioners (
			id, first_name, last_name, email, specialty, license_number,
			active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()
	practitioner.CreatedAt = now
	practitioner.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		practitioner.ID,
		practitioner.FirstName,
		practitioner.LastName,
		practitioner.Email,
		practitioner.Specialty,
		practitioner.LicenseNumber,
		practitioner.Active,
		practitioner.CreatedAt,
		practitioner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create practitioner: %w", err)
	}
	return nil
}

func (r *practitionerRepository) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	query := `SELECT ` + practitionerColumns + ` FROM practitioners WHERE id = $1`

	var practitioner model.Practitioner
	err := r.db.GetContext(ctx, &practitioner, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("practitioner", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practitioner: %w", err)
	}
	return &practitioner, nil
}

func (r *practitionerRepository) Update(ctx context.Context, practitioner *model.Practitioner) error {
	query := `
		UPDATE practitioners
		SET first_name = $1, last_name = $2, email = $3, specialty = $4,
		    license_number = $5, active = $6, updated_at = $7
		WHERE id = $8
	`
	practitioner.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		practitioner.FirstName,
		practitioner.LastName,
		practitioner.Email,
		practitioner.Specialty,
		practitioner.LicenseNumber,
		practitioner.Active,
		practitioner.UpdatedAt,
		practitioner.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update practitioner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("practitioner", nil)
	}
	return nil
}

func (r *practitionerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM practitioners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete practitioner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("practitioner", nil)
	}
	return nil
}

func (r *practitionerRepository) List(ctx context.Context, activeOnly bool) ([]*model.Practitioner, error) {
	query := `SELECT ` + practitionerColumns + ` FROM practitioners`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY last_name, first_name`

	var practitioners []*model.Practitioner
	if err := r.db.SelectContext(ctx, &practitioners, query); err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	return practitioners, nil
}

func (r *practitionerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM practitioners WHERE id = $1 AND active = true)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check practitioner: %w", err)
	}
	return exists, nil
}
