package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/repository"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
)

type Service interface {
	Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error)
}

type service struct {
	patients repository.PatientRepository
}

func NewService(patients repository.PatientRepository) Service {
	return &service{patients: patients}
}

func (s *service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Base: model.Base{
			ID: uuid.New(),
		},
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    req.DateOfBirth,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
		Status:         model.PatientStatusActive,
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.patients.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}
	if req.Status != nil {
		if *req.Status != model.PatientStatusActive && *req.Status != model.PatientStatusInactive {
			return nil, apperrors.Validation("invalid patient status: " + string(*req.Status))
		}
		patient.Status = *req.Status
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error) {
	filters.Normalize()
	return s.patients.List(ctx, filters)
}
