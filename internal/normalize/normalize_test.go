package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"spendbook/internal/models"
)

// validRaw builds a raw payload that survives normalization intact.
func validRaw() map[string]any {
	return map[string]any{
		"version":  float64(1),
		"settings": map[string]any{"currency": "EUR"},
		"accounts": []any{
			map[string]any{"id": "acc_cash", "name": "Cash", "icon": "💵", "color": "#4CAF50", "initialBalance": 25.5, "isDefault": true},
		},
		"categories": []any{
			map[string]any{"id": "expense_food", "name": "Food", "type": "expense", "icon": "🍚", "color": "#FF9800", "isDefault": true},
			map[string]any{"id": "income_salary", "name": "Salary", "type": "income", "icon": "💰", "color": "#8BC34A", "isDefault": true},
		},
		"transactions": []any{
			map[string]any{"id": "t1", "date": "2024-05-01", "type": "expense", "amount": 12.5, "accountId": "acc_cash", "categoryId": "expense_food", "note": "lunch", "createdAt": "2024-05-01T10:00:00Z", "updatedAt": "2024-05-01T10:00:00Z"},
		},
		"budgets": []any{
			map[string]any{"id": "b1", "month": "2024-05", "categoryId": "expense_food", "amount": 300, "createdAt": "2024-05-01T10:00:00Z", "updatedAt": "2024-05-01T10:00:00Z"},
		},
		"meta": map[string]any{"createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-05-01T10:00:00Z"},
	}
}

func TestDocumentIdempotent(t *testing.T) {
	first := Document(validRaw())

	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second := Parse(data)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalize(normalize(d)) != normalize(d)\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestDocumentDefaults(t *testing.T) {
	t.Run("nil_input", func(t *testing.T) {
		doc := Document(nil)
		if len(doc.Accounts) == 0 || len(doc.Categories) == 0 {
			t.Fatal("defaults document must have accounts and categories")
		}
	})

	t.Run("malformed_json", func(t *testing.T) {
		doc := Parse([]byte(`{not json`))
		if len(doc.Accounts) != len(models.DefaultAccounts()) {
			t.Errorf("expected default accounts, got %d", len(doc.Accounts))
		}
	})

	t.Run("empty_sequences_substituted", func(t *testing.T) {
		doc := Document(map[string]any{
			"accounts":   []any{},
			"categories": []any{},
		})
		if len(doc.Accounts) != len(models.DefaultAccounts()) {
			t.Errorf("expected %d default accounts, got %d", len(models.DefaultAccounts()), len(doc.Accounts))
		}
		if len(doc.Categories) != len(models.DefaultCategories()) {
			t.Errorf("expected %d default categories, got %d", len(models.DefaultCategories()), len(doc.Categories))
		}
	})

	t.Run("wrong_typed_sequences_substituted", func(t *testing.T) {
		doc := Document(map[string]any{
			"accounts":   "nope",
			"categories": float64(3),
		})
		if len(doc.Accounts) == 0 || len(doc.Categories) == 0 {
			t.Fatal("defaults must be substituted for non-sequence input")
		}
	})
}

func TestNormalizeAccounts(t *testing.T) {
	t.Run("synthesized_ids_and_defaults", func(t *testing.T) {
		doc := Document(map[string]any{
			"accounts": []any{
				map[string]any{"name": "Wallet"},
				map[string]any{"id": "acc_custom", "initialBalance": "12.345"},
			},
		})
		if doc.Accounts[0].ID != "acc_0" {
			t.Errorf("expected synthesized id acc_0, got %s", doc.Accounts[0].ID)
		}
		if doc.Accounts[0].Icon != models.DefaultAccountIcon || doc.Accounts[0].Color != models.DefaultColor {
			t.Errorf("expected default icon/color, got %q %q", doc.Accounts[0].Icon, doc.Accounts[0].Color)
		}
		if doc.Accounts[1].InitialBalance != 12.35 {
			t.Errorf("expected coerced balance 12.35, got %v", doc.Accounts[1].InitialBalance)
		}
	})

	t.Run("negative_initial_balance_kept", func(t *testing.T) {
		doc := Document(map[string]any{
			"accounts": []any{map[string]any{"id": "acc_loan", "name": "Loan", "initialBalance": -500.0}},
		})
		if doc.Accounts[0].InitialBalance != -500 {
			t.Errorf("expected -500, got %v", doc.Accounts[0].InitialBalance)
		}
	})
}

func TestNormalizeCategories(t *testing.T) {
	doc := Document(map[string]any{
		"categories": []any{
			map[string]any{"id": "c1", "name": "Salary", "type": "income"},
			map[string]any{"id": "c2", "name": "Weird", "type": "INVESTMENT"},
			map[string]any{"id": "c3", "name": "NoType"},
		},
	})

	if doc.Categories[0].Type != models.CategoryTypeIncome {
		t.Errorf("literal income must stay income, got %s", doc.Categories[0].Type)
	}
	for _, i := range []int{1, 2} {
		if doc.Categories[i].Type != models.CategoryTypeExpense {
			t.Errorf("category %d: expected coerced expense, got %s", i, doc.Categories[i].Type)
		}
	}
}

func TestNormalizeTransactionsFiltering(t *testing.T) {
	base := func() map[string]any {
		raw := validRaw()
		return raw
	}

	t.Run("valid_entry_kept", func(t *testing.T) {
		doc := Document(base())
		if len(doc.Transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(doc.Transactions))
		}
	})

	cases := []struct {
		name string
		tx   map[string]any
	}{
		{"impossible_calendar_date", map[string]any{"date": "2024-13-40", "type": "expense", "amount": 10.0, "accountId": "acc_cash", "categoryId": "expense_food"}},
		{"unknown_account", map[string]any{"date": "2024-05-01", "type": "expense", "amount": 10.0, "accountId": "missing", "categoryId": "expense_food"}},
		{"unknown_category", map[string]any{"date": "2024-05-01", "type": "expense", "amount": 10.0, "accountId": "acc_cash", "categoryId": "missing"}},
		{"category_type_mismatch", map[string]any{"date": "2024-05-01", "type": "expense", "amount": 10.0, "accountId": "acc_cash", "categoryId": "income_salary"}},
		{"zero_amount", map[string]any{"date": "2024-05-01", "type": "expense", "amount": 0.0, "accountId": "acc_cash", "categoryId": "expense_food"}},
		{"negative_amount", map[string]any{"date": "2024-05-01", "type": "expense", "amount": -5.0, "accountId": "acc_cash", "categoryId": "expense_food"}},
		{"nan_amount_string", map[string]any{"date": "2024-05-01", "type": "expense", "amount": "NaN", "accountId": "acc_cash", "categoryId": "expense_food"}},
	}
	for _, c := range cases {
		t.Run(c.name+"_dropped", func(t *testing.T) {
			raw := base()
			raw["transactions"] = []any{c.tx}
			doc := Document(raw)
			if len(doc.Transactions) != 0 {
				t.Errorf("expected transaction to be dropped, got %d", len(doc.Transactions))
			}
		})
	}

	t.Run("note_truncated_to_60_runes", func(t *testing.T) {
		long := ""
		for i := 0; i < 80; i++ {
			long += "ä"
		}
		raw := base()
		raw["transactions"] = []any{map[string]any{
			"date": "2024-05-01", "type": "expense", "amount": 10.0,
			"accountId": "acc_cash", "categoryId": "expense_food", "note": long,
		}}
		doc := Document(raw)
		if len(doc.Transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(doc.Transactions))
		}
		if n := len([]rune(doc.Transactions[0].Note)); n != 60 {
			t.Errorf("expected 60-rune note, got %d", n)
		}
	})

	t.Run("invariants_hold_for_all_survivors", func(t *testing.T) {
		raw := base()
		raw["transactions"] = []any{
			map[string]any{"date": "2024-05-01", "type": "expense", "amount": 10.0, "accountId": "acc_cash", "categoryId": "expense_food"},
			map[string]any{"date": "2024-05-02", "type": "income", "amount": 100.0, "accountId": "acc_cash", "categoryId": "income_salary"},
			map[string]any{"date": "bogus", "type": "income", "amount": 100.0, "accountId": "acc_cash", "categoryId": "income_salary"},
		}
		doc := Document(raw)
		for _, tx := range doc.Transactions {
			if doc.AccountByID(tx.AccountID) == nil {
				t.Errorf("transaction %s: unresolved account %s", tx.ID, tx.AccountID)
			}
			cat := doc.CategoryByID(tx.CategoryID)
			if cat == nil || string(cat.Type) != string(tx.Type) {
				t.Errorf("transaction %s: category %s missing or type mismatch", tx.ID, tx.CategoryID)
			}
			if tx.Amount <= 0 {
				t.Errorf("transaction %s: non-positive amount %v", tx.ID, tx.Amount)
			}
		}
	})
}

func TestNormalizeBudgetsFiltering(t *testing.T) {
	cases := []struct {
		name   string
		budget map[string]any
		kept   bool
	}{
		{"valid", map[string]any{"id": "b", "month": "2024-05", "categoryId": "expense_food", "amount": 100.0}, true},
		{"bad_month", map[string]any{"id": "b", "month": "2024-15", "categoryId": "expense_food", "amount": 100.0}, false},
		{"short_month", map[string]any{"id": "b", "month": "2024-5", "categoryId": "expense_food", "amount": 100.0}, false},
		{"income_category", map[string]any{"id": "b", "month": "2024-05", "categoryId": "income_salary", "amount": 100.0}, false},
		{"unknown_category", map[string]any{"id": "b", "month": "2024-05", "categoryId": "missing", "amount": 100.0}, false},
		{"zero_amount", map[string]any{"id": "b", "month": "2024-05", "categoryId": "expense_food", "amount": 0.0}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw := validRaw()
			raw["budgets"] = []any{c.budget}
			doc := Document(raw)
			if got := len(doc.Budgets) == 1; got != c.kept {
				t.Errorf("kept=%v, want %v", got, c.kept)
			}
		})
	}
}

func TestMetaInheritance(t *testing.T) {
	t.Run("input_meta_preserved", func(t *testing.T) {
		doc := Document(validRaw())
		if doc.Meta.CreatedAt != "2024-01-01T00:00:00Z" {
			t.Errorf("expected preserved createdAt, got %s", doc.Meta.CreatedAt)
		}
		if doc.Meta.UpdatedAt != "2024-05-01T10:00:00Z" {
			t.Errorf("expected preserved updatedAt, got %s", doc.Meta.UpdatedAt)
		}
	})

	t.Run("absent_meta_defaults_fresh", func(t *testing.T) {
		doc := Document(map[string]any{})
		if doc.Meta.CreatedAt == "" || doc.Meta.UpdatedAt == "" {
			t.Error("fresh document must carry meta timestamps")
		}
	})
}
