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

const treatmentColumns = `
	id, name, description, category, duration_minutes, price, active,
	created_at, updated_at
`

func (r *treatmentRepository) Create(ctx context.Context, treatment *model.Treatment) error {
	query := `
		INSERT INTO treatments (
			id, name, description, category, duration_minutes, price, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()
	treatment.CreatedAt = now
	treatment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		treatment.ID,
		treatment.Name,
		treatment.Description,
		treatment.Category,
		treatment.DurationMinutes,
		treatment.Price,
		treatment.Active,
		treatment.CreatedAt,
		treatment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create treatment: %w", err)
	}
	return nil
}

func (r *treatmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE id = $1`

	var treatment model.Treatment
	err := r.db.GetContext(ctx, &treatment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("treatment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treatment: %w", err)
	}
	return &treatment, nil
}

func (r *treatmentRepository) Update(ctx context.Context, treatment *model.Treatment) error {
	query := `
		UPDATE treatments
		SET name = $1, description = $2, category = $3, duration_minutes = $4,
		    price = $5, active = $6, updated_at = $7
		WHERE id = $8
	`
	treatment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		treatment.Name,
		treatment.Description,
		treatment.Category,
		treatment.DurationMinutes,
		treatment.Price,
		treatment.Active,
		treatment.UpdatedAt,
		treatment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update treatment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("treatment", nil)
	}
	return nil
}

func (r *treatmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete treatment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("treatment", nil)
	}
	return nil
}

func (r *treatmentRepository) List(ctx context.Context, filters *model.TreatmentFilters) ([]*model.Treatment, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, filters.Category)
		argCount++
	}
	if filters.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argCount)
		args = append(args, *filters.Active)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM treatments"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count treatments: %w", err)
	}

	query := "SELECT " + treatmentColumns + " FROM treatments" + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.PageSize, filters.Offset())

	var treatments []*model.Treatment
	if err := r.db.SelectContext(ctx, &treatments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list treatments: %w", err)
	}
	return treatments, total, nil
}
