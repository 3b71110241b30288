package invoice

import (
	"context"

	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/repository"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
	"github.com/denticore/clinic-api/pkg/fsm"
)

// statusMachine encodes the billing lifecycle. Overdue is entered by the
// overdue sweep rather than by an explicit client transition, but once there
// an invoice can still be paid or cancelled.
var statusMachine = fsm.New(map[model.InvoiceStatus][]model.InvoiceStatus{
	model.InvoiceStatusDraft:     {model.InvoiceStatusSent, model.InvoiceStatusCancelled},
	model.InvoiceStatusSent:      {model.InvoiceStatusPaid, model.InvoiceStatusPartial, model.InvoiceStatusCancelled},
	model.InvoiceStatusPartial:   {model.InvoiceStatusPaid, model.InvoiceStatusCancelled},
	model.InvoiceStatusOverdue:   {model.InvoiceStatusPaid, model.InvoiceStatusPartial, model.InvoiceStatusCancelled},
	model.InvoiceStatusPaid:      {},
	model.InvoiceStatusCancelled: {},
})

type Service interface {
	Create(ctx context.Context, req *model.CreateInvoiceRequest, createdBy uuid.UUID) (*model.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, int, error)
	Transition(ctx context.Context, id uuid.UUID, req *model.TransitionInvoiceRequest) (*model.Invoice, error)
	RecordPayment(ctx context.Context, id uuid.UUID, req *model.RecordPaymentRequest) (*model.Invoice, error)
}

type service struct {
	invoices repository.InvoiceRepository
	patients repository.PatientRepository
}

func NewService(invoices repository.InvoiceRepository, patients repository.PatientRepository) Service {
	return &service{
		invoices: invoices,
		patients: patients,
	}
}

func (s *service) Create(ctx context.Context, req *model.CreateInvoiceRequest, createdBy uuid.UUID) (*model.Invoice, error) {
	exists, err := s.patients.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("patient", nil)
	}

	invoice := &model.Invoice{
		Base: model.Base{
			ID: uuid.New(),
		},
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		Status:        model.InvoiceStatusDraft,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return s.invoices.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, int, error) {
	filters.Normalize()
	return s.invoices.List(ctx, filters)
}

func (s *service) Transition(ctx context.Context, id uuid.UUID, req *model.TransitionInvoiceRequest) (*model.Invoice, error) {
	if !statusMachine.Known(req.Status) {
		return nil, apperrors.Validation("unknown invoice status: " + string(req.Status))
	}

	invoice, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !statusMachine.CanTransition(invoice.Status, req.Status) {
		return nil, apperrors.InvalidTransition(string(invoice.Status), string(req.Status))
	}

	invoice.Status = req.Status
	if req.Notes != "" {
		invoice.Notes = req.Notes
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RecordPayment applies a payment and derives the resulting status: paid when
// the balance reaches zero, partial otherwise. Overpayment is rejected.
func (s *service) RecordPayment(ctx context.Context, id uuid.UUID, req *model.RecordPaymentRequest) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	target := model.InvoiceStatusPartial
	if invoice.AmountPaid+req.Amount >= invoice.Amount {
		target = model.InvoiceStatusPaid
	}
	if invoice.AmountPaid+req.Amount > invoice.Amount {
		return nil, apperrors.Validation("payment exceeds invoice balance")
	}
	if !statusMachine.CanTransition(invoice.Status, target) {
		return nil, apperrors.InvalidTransition(string(invoice.Status), string(target))
	}

	invoice.AmountPaid += req.Amount
	invoice.Status = target
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}
