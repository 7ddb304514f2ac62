package models

// Budget represents a monthly spending limit for one expense category.
type Budget struct {
	ID         string  `json:"id"`
	Month      string  `json:"month"` // YYYY-MM
	CategoryID string  `json:"categoryId"`
	Amount     float64 `json:"amount"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}
