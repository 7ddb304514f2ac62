package models

// Account represents a money account inside the document.
type Account struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Icon           string  `json:"icon"`
	Color          string  `json:"color"`
	InitialBalance float64 `json:"initialBalance"`
	IsDefault      bool    `json:"isDefault"`
}
