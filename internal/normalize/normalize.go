// Package normalize converts arbitrary JSON into a valid Document.
//
// Cached, imported, and remotely-fetched payloads all pass through here
// before they are used. The normalizer never fails: malformed input degrades
// field by field, and the worst case is the all-defaults document. Field
// coercion happens exactly once at this boundary; business logic downstream
// can rely on every invariant holding.
package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"spendbook/internal/models"
	"spendbook/internal/money"
	"spendbook/internal/uuid"
)

// Parse decodes raw JSON and normalizes it into a Document. Undecodable
// input yields the defaults document.
func Parse(data []byte) *models.Document {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.DefaultDocument()
	}
	return Document(raw)
}

// Document normalizes a decoded JSON object into a valid Document.
//
// Order matters: accounts and categories are normalized first, and
// transaction/budget validity is then judged against the just-normalized
// sets, never against the raw input. The function is idempotent: running it
// on its own output changes nothing.
func Document(raw map[string]any) *models.Document {
	doc := models.DefaultDocument()
	if raw == nil {
		return doc
	}

	if v := asInt(raw["version"]); v > 0 {
		doc.Version = v
	}
	if settings, ok := asMap(raw["settings"]); ok {
		doc.Settings.Currency = asString(settings["currency"], doc.Settings.Currency)
	}
	if meta, ok := asMap(raw["meta"]); ok {
		doc.Meta.CreatedAt = asString(meta["createdAt"], doc.Meta.CreatedAt)
		doc.Meta.UpdatedAt = asString(meta["updatedAt"], doc.Meta.UpdatedAt)
	}

	if entries, ok := asSlice(raw["accounts"]); ok && len(entries) > 0 {
		doc.Accounts = normalizeAccounts(entries)
	}
	if entries, ok := asSlice(raw["categories"]); ok && len(entries) > 0 {
		doc.Categories = normalizeCategories(entries)
	}

	// Membership lookups built from the normalized sets above.
	accountIDs := make(map[string]bool, len(doc.Accounts))
	for _, a := range doc.Accounts {
		accountIDs[a.ID] = true
	}
	catByID := make(map[string]models.Category, len(doc.Categories))
	for _, c := range doc.Categories {
		catByID[c.ID] = c
	}

	if entries, ok := asSlice(raw["transactions"]); ok {
		doc.Transactions = normalizeTransactions(entries, accountIDs, catByID, doc.Meta)
	}
	if entries, ok := asSlice(raw["budgets"]); ok {
		doc.Budgets = normalizeBudgets(entries, catByID, doc.Meta)
	}

	return doc
}

func normalizeAccounts(entries []any) []models.Account {
	accounts := make([]models.Account, 0, len(entries))
	for i, e := range entries {
		m, _ := asMap(e)
		accounts = append(accounts, models.Account{
			ID:             asString(m["id"], fmt.Sprintf("acc_%d", i)),
			Name:           asString(m["name"], fmt.Sprintf("Account %d", i+1)),
			Icon:           asString(m["icon"], models.DefaultAccountIcon),
			Color:          asString(m["color"], models.DefaultColor),
			InitialBalance: money.Normalize(m["initialBalance"]),
			IsDefault:      asBool(m["isDefault"]),
		})
	}
	return accounts
}

func normalizeCategories(entries []any) []models.Category {
	categories := make([]models.Category, 0, len(entries))
	for i, e := range entries {
		m, _ := asMap(e)
		categories = append(categories, models.Category{
			ID:        asString(m["id"], fmt.Sprintf("cat_%d", i)),
			Name:      asString(m["name"], fmt.Sprintf("Category %d", i+1)),
			Type:      categoryType(m["type"]),
			Icon:      asString(m["icon"], models.DefaultCategoryIcon),
			Color:     asString(m["color"], models.DefaultColor),
			IsDefault: asBool(m["isDefault"]),
		})
	}
	return categories
}

func normalizeTransactions(entries []any, accountIDs map[string]bool, catByID map[string]models.Category, meta models.Meta) []models.Transaction {
	txs := make([]models.Transaction, 0, len(entries))
	for _, e := range entries {
		m, ok := asMap(e)
		if !ok {
			continue
		}
		tx := models.Transaction{
			ID:         asString(m["id"], uuid.New()),
			Date:       asString(m["date"], ""),
			Type:       transactionType(m["type"]),
			Amount:     money.Normalize(m["amount"]),
			AccountID:  asString(m["accountId"], ""),
			CategoryID: asString(m["categoryId"], ""),
			Note:       truncate(asString(m["note"], ""), models.NoteMaxLen),
			CreatedAt:  asString(m["createdAt"], meta.CreatedAt),
			UpdatedAt:  asString(m["updatedAt"], meta.UpdatedAt),
		}

		// Entries failing any invariant are dropped silently.
		if !ValidDate(tx.Date) {
			continue
		}
		if !accountIDs[tx.AccountID] {
			continue
		}
		cat, known := catByID[tx.CategoryID]
		if !known || string(cat.Type) != string(tx.Type) {
			continue
		}
		if tx.Amount <= 0 {
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

func normalizeBudgets(entries []any, catByID map[string]models.Category, meta models.Meta) []models.Budget {
	budgets := make([]models.Budget, 0, len(entries))
	for _, e := range entries {
		m, ok := asMap(e)
		if !ok {
			continue
		}
		b := models.Budget{
			ID:         asString(m["id"], uuid.New()),
			Month:      asString(m["month"], ""),
			CategoryID: asString(m["categoryId"], ""),
			Amount:     money.Normalize(m["amount"]),
			CreatedAt:  asString(m["createdAt"], meta.CreatedAt),
			UpdatedAt:  asString(m["updatedAt"], meta.UpdatedAt),
		}

		if !ValidMonth(b.Month) {
			continue
		}
		cat, known := catByID[b.CategoryID]
		if !known || cat.Type != models.CategoryTypeExpense {
			continue
		}
		if b.Amount <= 0 {
			continue
		}
		budgets = append(budgets, b)
	}
	return budgets
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
// "2024-13-40" shaped strings fail here, not just syntactically broken ones.
func ValidDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidMonth reports whether s is a real month in YYYY-MM form.
func ValidMonth(s string) bool {
	if len(s) != 7 {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// categoryType coerces a raw value to a category type. Anything that is not
// literally "income" becomes "expense".
func categoryType(v any) models.CategoryType {
	if s, _ := v.(string); s == string(models.CategoryTypeIncome) {
		return models.CategoryTypeIncome
	}
	return models.CategoryTypeExpense
}

// transactionType coerces the same way as categoryType.
func transactionType(v any) models.TransactionType {
	if s, _ := v.(string); s == string(models.TransactionTypeIncome) {
		return models.TransactionTypeIncome
	}
	return models.TransactionTypeExpense
}

func asString(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
