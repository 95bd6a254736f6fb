package models

import "time"

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	DateAdded   time.Time `json:"date_added"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductRef is the slice of the catalog the checkout flow is allowed to
// trust: existence, active flag, and the authoritative price.
type ProductRef struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"is_active"`
}
