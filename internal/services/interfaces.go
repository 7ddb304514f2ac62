package services

import (
	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/session"
)

// DocumentServicer is the contract the HTTP layer programs against: every
// read and every named mutation of the per-user document.
type DocumentServicer interface {
	// Session
	SignUp(email, password string) (*session.Session, error)
	SignIn(email, password string) (*session.Session, error)
	SignOut()
	SessionState() (session.State, *session.Session)

	// Reads
	Snapshot() *models.Document
	Summary() Summary
	ListTransactions(page pagination.PageRequest) pagination.PageResponse[models.Transaction]

	// Transactions
	AddTransaction(date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error)
	UpdateTransaction(id, date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error)
	DeleteTransaction(id string) error

	// Accounts
	AddAccount(name, icon, color string, initialBalance float64) (*models.Account, error)
	UpdateAccount(id, name, icon, color string, initialBalance *float64) (*models.Account, error)
	DeleteAccount(id string) error

	// Categories
	AddCategory(name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	UpdateCategory(id, name, icon, color string) (*models.Category, error)
	DeleteCategory(id string) error

	// Budgets
	AddBudget(month, categoryID string, amount float64) (*models.Budget, error)
	UpdateBudget(id string, amount float64) (*models.Budget, error)
	DeleteBudget(id string) error

	// Settings
	UpdateSettings(currency string) (*models.Settings, error)

	// Whole-document operations
	Import(data []byte) (*models.Document, error)
	Export() ([]byte, error)
	ClearAll() error
}

// AccountBalance is one account's derived balance.
type AccountBalance struct {
	AccountID string  `json:"account_id"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
}

// Summary holds the derived totals shown on the dashboard.
type Summary struct {
	TotalIncome  float64          `json:"total_income"`
	TotalExpense float64          `json:"total_expense"`
	Net          float64          `json:"net"`
	Accounts     []AccountBalance `json:"accounts"`
}
