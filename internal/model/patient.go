package model

import "time"

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Patient struct {
	Base
	FirstName      string        `db:"first_name" json:"first_name"`
	LastName       string        `db:"last_name" json:"last_name"`
	Email          string        `db:"email" json:"email,omitempty"`
	Phone          string        `db:"phone" json:"phone"`
	DateOfBirth    *time.Time    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address        string        `db:"address" json:"address,omitempty"`
	MedicalHistory string        `db:"medical_history" json:"medical_history,omitempty"`
	Status         PatientStatus `db:"status" json:"status"`
}

type CreatePatientRequest struct {
	FirstName      string     `json:"first_name" binding:"required"`
	LastName       string     `json:"last_name" binding:"required"`
	Email          string     `json:"email" binding:"omitempty,email"`
	Phone          string     `json:"phone" binding:"required"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Address        string     `json:"address"`
	MedicalHistory string     `json:"medical_history"`
}

type UpdatePatientRequest struct {
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	Email          *string        `json:"email" binding:"omitempty,email"`
	Phone          *string        `json:"phone"`
	DateOfBirth    *time.Time     `json:"date_of_birth"`
	Address        *string        `json:"address"`
	MedicalHistory *string        `json:"medical_history"`
	Status         *PatientStatus `json:"status"`
}

type PatientFilters struct {
	Pagination
	Search string        `form:"search"`
	Status PatientStatus `form:"status"`
}
