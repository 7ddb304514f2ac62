package models

import "time"

// Built-in defaults. A normalized document never has zero accounts or zero
// categories: when the input is empty or entirely invalid, these are
// substituted instead. Default entities cannot be deleted by the user.

// DefaultAccounts returns the built-in accounts.
func DefaultAccounts() []Account {
	return []Account{
		{ID: "acc_cash", Name: "Cash", Icon: "💵", Color: "#4CAF50", InitialBalance: 0, IsDefault: true},
		{ID: "acc_bank", Name: "Bank", Icon: "🏦", Color: "#2196F3", InitialBalance: 0, IsDefault: true},
	}
}

// DefaultCategories returns the built-in categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "income_salary", Name: "Salary", Type: CategoryTypeIncome, Icon: "💰", Color: "#8BC34A", IsDefault: true},
		{ID: "income_other", Name: "Other Income", Type: CategoryTypeIncome, Icon: "🪙", Color: "#CDDC39", IsDefault: true},
		{ID: "expense_food", Name: "Food", Type: CategoryTypeExpense, Icon: "🍚", Color: "#FF9800", IsDefault: true},
		{ID: "expense_transport", Name: "Transport", Type: CategoryTypeExpense, Icon: "🚌", Color: "#03A9F4", IsDefault: true},
		{ID: "expense_housing", Name: "Housing", Type: CategoryTypeExpense, Icon: "🏠", Color: "#795548", IsDefault: true},
		{ID: "expense_shopping", Name: "Shopping", Type: CategoryTypeExpense, Icon: "🛍️", Color: "#E91E63", IsDefault: true},
		{ID: "expense_other", Name: "Other", Type: CategoryTypeExpense, Icon: "📦", Color: "#9E9E9E", IsDefault: true},
	}
}

// Default fallbacks for coerced entities missing icon or color.
const (
	DefaultAccountIcon  = "💳"
	DefaultCategoryIcon = "🏷️"
	DefaultColor        = "#9E9E9E"
)

// DefaultDocument builds a fresh all-defaults document. Both meta timestamps
// are set to now; these are the only freshly-invented timestamps in the
// system, everything else inherits from input or from an existing document.
func DefaultDocument() *Document {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Document{
		Version:      SchemaVersion,
		Settings:     Settings{Currency: "USD"},
		Accounts:     DefaultAccounts(),
		Categories:   DefaultCategories(),
		Transactions: []Transaction{},
		Budgets:      []Budget{},
		Meta:         Meta{CreatedAt: now, UpdatedAt: now},
	}
}
