package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/models"
	"spendbook/internal/pagination"
)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/transactions", handler.CreateTransaction)
	r.GET("/transactions", handler.GetTransactions)
	r.PUT("/transactions/:id", handler.UpdateTransaction)
	r.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockDocumentService{
			addTransactionFn: func(date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error) {
				return &models.Transaction{
					ID:         "t1",
					Date:       date,
					Type:       txType,
					Amount:     amount,
					AccountID:  accountID,
					CategoryID: categoryID,
					Note:       note,
				}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-05-01","type":"expense","amount":12.5,"account_id":"acc_cash","category_id":"expense_food","note":"lunch"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["id"] != "t1" {
			t.Errorf("expected id t1, got %v", tx["id"])
		}
		if tx["amount"].(float64) != 12.5 {
			t.Errorf("expected amount 12.5, got %v", tx["amount"])
		}
	})

	t.Run("returns 400 on impossible calendar date", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockDocumentService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-13-40","type":"expense","amount":10,"account_id":"acc_cash","category_id":"expense_food"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid type", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockDocumentService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-05-01","type":"transfer","amount":10,"account_id":"acc_cash","category_id":"expense_food"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockDocumentService{}))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-05-01","type":"expense","amount":0,"account_id":"acc_cash","category_id":"expense_food"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on overlong note", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockDocumentService{}))

		note := strings.Repeat("x", 61)
		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-05-01","type":"expense","amount":10,"account_id":"acc_cash","category_id":"expense_food","note":"`+note+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 401 when signed out", func(t *testing.T) {
		svc := &mockDocumentService{
			addTransactionFn: func(_ string, _ models.TransactionType, _ float64, _, _, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrSignInRequired
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-05-01","type":"expense","amount":10,"account_id":"acc_cash","category_id":"expense_food"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SIGN_IN_REQUIRED")
	})

	t.Run("returns 400 on category type mismatch", func(t *testing.T) {
		svc := &mockDocumentService{
			addTransactionFn: func(_ string, _ models.TransactionType, _ float64, _, _, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrCategoryTypeMismatch
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-05-01","type":"expense","amount":10,"account_id":"acc_cash","category_id":"income_salary"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_TYPE_MISMATCH")
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("returns 200 with paginated transactions", func(t *testing.T) {
		svc := &mockDocumentService{
			listTransactionsFn: func(page pagination.PageRequest) pagination.PageResponse[models.Transaction] {
				return pagination.Slice([]models.Transaction{
					{ID: "t2", Date: "2024-05-02"},
					{ID: "t1", Date: "2024-05-01"},
				}, page)
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(data))
		}
		if result["total_items"].(float64) != 2 {
			t.Errorf("expected total_items=2, got %v", result["total_items"])
		}
	})

	t.Run("passes page params to service", func(t *testing.T) {
		var captured pagination.PageRequest
		svc := &mockDocumentService{
			listTransactionsFn: func(page pagination.PageRequest) pagination.PageResponse[models.Transaction] {
				captured = page
				return pagination.Slice([]models.Transaction{}, page)
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		doRequest(r, "GET", "/transactions?page=3&page_size=5", "")

		if captured.Page != 3 || captured.PageSize != 5 {
			t.Errorf("expected page=3 size=5, got %+v", captured)
		}
	})

	t.Run("returns 400 on oversized page_size", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockDocumentService{}))

		rec := doRequest(r, "GET", "/transactions?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockDocumentService{
			updateTransactionFn: func(id, date string, _ models.TransactionType, amount float64, _, _, _ string) (*models.Transaction, error) {
				return &models.Transaction{ID: id, Date: date, Amount: amount}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "PUT", "/transactions/t1",
			`{"date":"2024-05-03","type":"expense","amount":20,"account_id":"acc_cash","category_id":"expense_food"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["id"] != "t1" || tx["date"] != "2024-05-03" {
			t.Errorf("unexpected transaction: %v", tx)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockDocumentService{
			updateTransactionFn: func(_, _ string, _ models.TransactionType, _ float64, _, _, _ string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "PUT", "/transactions/missing",
			`{"date":"2024-05-03","type":"expense","amount":20,"account_id":"acc_cash","category_id":"expense_food"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockDocumentService{}))

		rec := doRequest(r, "DELETE", "/transactions/t1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockDocumentService{
			deleteTransactionFn: func(_ string) error { return apperrors.ErrTransactionNotFound },
		}
		r := setupTransactionRouter(NewTransactionHandler(svc))

		rec := doRequest(r, "DELETE", "/transactions/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
