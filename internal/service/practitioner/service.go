package practitioner

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/repository"
)

// Roster reads are far more frequent than writes (every booking form loads
// the practitioner list), so list results are cached for a short TTL and the
// cache is flushed on any write.
const (
	cacheTTL       = 5 * time.Minute
	cacheKeyAll    = "practitioners:all"
	cacheKeyActive = "practitioners:active"
)

type Service interface {
	Create(ctx context.Context, req *model.CreatePractitionerRequest) (*model.Practitioner, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePractitionerRequest) (*model.Practitioner, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool) ([]*model.Practitioner, error)
}

type service struct {
	practitioners repository.PractitionerRepository
	cache         *gocache.Cache
}

func NewService(practitioners repository.PractitionerRepository) Service {
	return &service{
		practitioners: practitioners,
		cache:         gocache.New(cacheTTL, 10*time.Minute),
	}
}

func (s *service) Create(ctx context.Context, req *model.CreatePractitionerRequest) (*model.Practitioner, error) {
	practitioner := &model.Practitioner{
		Base: model.Base{
			ID: uuid.New(),
		},
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Specialty:     req.Specialty,
		LicenseNumber: req.LicenseNumber,
		Active:        true,
	}

	if err := s.practitioners.Create(ctx, practitioner); err != nil {
		return nil, err
	}
	s.cache.Flush()
	return practitioner, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Practitioner, error) {
	return s.practitioners.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePractitionerRequest) (*model.Practitioner, error) {
	practitioner, err := s.practitioners.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		practitioner.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		practitioner.LastName = *req.LastName
	}
	if req.Email != nil {
		practitioner.Email = *req.Email
	}
	if req.Specialty != nil {
		practitioner.Specialty = *req.Specialty
	}
	if req.LicenseNumber != nil {
		practitioner.LicenseNumber = *req.LicenseNumber
	}
	if req.Active != nil {
		practitioner.Active = *req.Active
	}

	if err := s.practitioners.Update(ctx, practitioner); err != nil {
		return nil, err
	}
	s.cache.Flush()
	return practitioner, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.practitioners.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]*model.Practitioner, error) {
	key := cacheKeyAll
	if activeOnly {
		key = cacheKeyActive
	}
	if cached, found := s.cache.Get(key); found {
		return cached.([]*model.Practitioner), nil
	}

	practitioners, err := s.practitioners.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, practitioners, gocache.DefaultExpiration)
	return practitioners, nil
}
