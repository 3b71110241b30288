package treatment

import (
	"context"

	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/repository"
)

type Service interface {
	Create(ctx context.Context, req *model.CreateTreatmentRequest) (*model.Treatment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Treatment, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateTreatmentRequest) (*model.Treatment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.TreatmentFilters) ([]*model.Treatment, int, error)
}

type service struct {
	treatments repository.TreatmentRepository
}

func NewService(treatments repository.TreatmentRepository) Service {
	return &service{treatments: treatments}
}

func (s *service) Create(ctx context.Context, req *model.CreateTreatmentRequest) (*model.Treatment, error) {
	treatment := &model.Treatment{
		Base: model.Base{
			ID: uuid.New(),
		},
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}

	if err := s.treatments.Create(ctx, treatment); err != nil {
		return nil, err
	}
	return treatment, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Treatment, error) {
	return s.treatments.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTreatmentRequest) (*model.Treatment, error) {
	treatment, err := s.treatments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		treatment.Name = *req.Name
	}
	if req.Description != nil {
		treatment.Description = *req.Description
	}
	if req.Category != nil {
		treatment.Category = *req.Category
	}
	if req.DurationMinutes != nil {
		treatment.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		treatment.Price = *req.Price
	}
	if req.Active != nil {
		treatment.Active = *req.Active
	}

	if err := s.treatments.Update(ctx, treatment); err != nil {
		return nil, err
	}
	return treatment, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.treatments.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, filters *model.TreatmentFilters) ([]*model.Treatment, int, error) {
	filters.Normalize()
	return s.treatments.List(ctx, filters)
}
