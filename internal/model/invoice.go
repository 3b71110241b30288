package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	Base
	PatientID     uuid.UUID     `db:"patient_id" json:"patient_id"`
	AppointmentID *uuid.UUID    `db:"appointment_id" json:"appointment_id,omitempty"`
	Amount        float64       `db:"amount" json:"amount"`
	AmountPaid    float64       `db:"amount_paid" json:"amount_paid"`
	DueDate       *time.Time    `db:"due_date" json:"due_date,omitempty"`
	Status        InvoiceStatus `db:"status" json:"status"`
	Notes         string        `db:"notes" json:"notes,omitempty"`
	CreatedBy     uuid.UUID     `db:"created_by" json:"created_by"`
}

type CreateInvoiceRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	DueDate       *time.Time `json:"due_date"`
	Notes         string     `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type TransitionInvoiceRequest struct {
	Status InvoiceStatus `json:"status" binding:"required,invoice_status"`
	Notes  string        `json:"notes"`
}

type InvoiceFilters struct {
	Pagination
	PatientID uuid.UUID     `form:"patient_id"`
	Status    InvoiceStatus `form:"status"`
}
