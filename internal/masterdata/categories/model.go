package categories

import "time"

// Category groups products for reporting.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput is the body of POST /categories.
type CreateInput struct {
	Name string `json:"name" validate:"required,max=120"`
}

// UpdateInput is the body of PUT /categories.
type UpdateInput struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required,max=120"`
}
