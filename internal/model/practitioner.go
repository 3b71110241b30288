package model

type Practitioner struct {
	Base
	FirstName     string `db:"first_name" json:"first_name"`
	LastName      string `db:"last_name" json:"last_name"`
	Email         string `db:"email" json:"email"`
	Specialty     string `db:"specialty" json:"specialty,omitempty"`
	LicenseNumber string `db:"license_number" json:"license_number,omitempty"`
	Active        bool   `db:"active" json:"active"`
}

type CreatePractitionerRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"license_number"`
}

type UpdatePractitionerRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Specialty     *string `json:"specialty"`
	LicenseNumber *string `json:"license_number"`
	Active        *bool   `json:"active"`
}
