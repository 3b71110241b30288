package model

type Treatment struct {
	Base
	Name            string  `db:"name" json:"name"`
	Description     string  `db:"description" json:"description,omitempty"`
	Category        string  `db:"category" json:"category,omitempty"`
	DurationMinutes int     `db:"duration_minutes" json:"duration_minutes"`
	Price           float64 `db:"price" json:"price"`
	Active          bool    `db:"active" json:"active"`
}

type CreateTreatmentRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=15,max=480"`
	Price           float64 `json:"price" binding:"min=0"`
}

type UpdateTreatmentRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=15,max=480"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
	Active          *bool    `json:"active"`
}

type TreatmentFilters struct {
	Pagination
	Category string `form:"category"`
	Active   *bool  `form:"active"`
}
