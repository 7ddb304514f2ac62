// Package models defines the persisted document shape and its entities.
//
// The whole per-user state is one Document serialized as JSON: it is written
// to the local cache synchronously on every save and mirrored to a single
// remote row per user. Entities are plain structs with camelCase JSON tags
// matching the import/export file format.
package models

// SchemaVersion is the current document schema version.
const SchemaVersion = 1

// Document is the full persisted state for one user.
type Document struct {
	Version      int           `json:"version"`
	Settings     Settings      `json:"settings"`
	Accounts     []Account     `json:"accounts"`
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`
	Budgets      []Budget      `json:"budgets"`
	Meta         Meta          `json:"meta"`
}

// Settings holds small display configuration.
type Settings struct {
	Currency string `json:"currency"`
}

// Meta carries document-level timestamps as ISO-8601 strings.
type Meta struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AccountByID returns the account with the given id, or nil.
func (d *Document) AccountByID(id string) *Account {
	for i := range d.Accounts {
		if d.Accounts[i].ID == id {
			return &d.Accounts[i]
		}
	}
	return nil
}

// CategoryByID returns the category with the given id, or nil.
func (d *Document) CategoryByID(id string) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}

// TransactionByID returns the transaction with the given id, or nil.
func (d *Document) TransactionByID(id string) *Transaction {
	for i := range d.Transactions {
		if d.Transactions[i].ID == id {
			return &d.Transactions[i]
		}
	}
	return nil
}

// BudgetByID returns the budget with the given id, or nil.
func (d *Document) BudgetByID(id string) *Budget {
	for i := range d.Budgets {
		if d.Budgets[i].ID == id {
			return &d.Budgets[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the document. Mutating operations work on a
// copy so a refused operation never leaves a partial change behind.
func (d *Document) Clone() *Document {
	out := *d
	out.Accounts = append([]Account(nil), d.Accounts...)
	out.Categories = append([]Category(nil), d.Categories...)
	out.Transactions = append([]Transaction(nil), d.Transactions...)
	out.Budgets = append([]Budget(nil), d.Budgets...)
	return &out
}
