package models

// TransactionType represents the direction of a transaction. The stored
// amount is always positive; direction is carried by the type.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// NoteMaxLen is the maximum length of a transaction note, in runes.
const NoteMaxLen = 60

// Transaction represents one income or expense entry.
type Transaction struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"` // YYYY-MM-DD
	Type       TransactionType `json:"type"`
	Amount     float64         `json:"amount"`
	AccountID  string          `json:"accountId"`
	CategoryID string          `json:"categoryId"`
	Note       string          `json:"note"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}
