package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"spendbook/internal/models"
	"spendbook/internal/pagination"
	"spendbook/internal/services"
	"spendbook/internal/session"
	"spendbook/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock document service ---

type mockDocumentService struct {
	signUpFn            func(email, password string) (*session.Session, error)
	signInFn            func(email, password string) (*session.Session, error)
	signOutCalled       bool
	sessionStateFn      func() (session.State, *session.Session)
	snapshotFn          func() *models.Document
	summaryFn           func() services.Summary
	listTransactionsFn  func(page pagination.PageRequest) pagination.PageResponse[models.Transaction]
	addTransactionFn    func(date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error)
	updateTransactionFn func(id, date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error)
	deleteTransactionFn func(id string) error
	addAccountFn        func(name, icon, color string, initialBalance float64) (*models.Account, error)
	updateAccountFn     func(id, name, icon, color string, initialBalance *float64) (*models.Account, error)
	deleteAccountFn     func(id string) error
	addCategoryFn       func(name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	updateCategoryFn    func(id, name, icon, color string) (*models.Category, error)
	deleteCategoryFn    func(id string) error
	addBudgetFn         func(month, categoryID string, amount float64) (*models.Budget, error)
	updateBudgetFn      func(id string, amount float64) (*models.Budget, error)
	deleteBudgetFn      func(id string) error
	updateSettingsFn    func(currency string) (*models.Settings, error)
	importFn            func(data []byte) (*models.Document, error)
	exportFn            func() ([]byte, error)
	clearAllFn          func() error
}

func (m *mockDocumentService) SignUp(email, password string) (*session.Session, error) {
	if m.signUpFn != nil {
		return m.signUpFn(email, password)
	}
	return &session.Session{}, nil
}

func (m *mockDocumentService) SignIn(email, password string) (*session.Session, error) {
	if m.signInFn != nil {
		return m.signInFn(email, password)
	}
	return &session.Session{}, nil
}

func (m *mockDocumentService) SignOut() { m.signOutCalled = true }

func (m *mockDocumentService) SessionState() (session.State, *session.Session) {
	if m.sessionStateFn != nil {
		return m.sessionStateFn()
	}
	return session.StateAnonymous, nil
}

func (m *mockDocumentService) Snapshot() *models.Document {
	if m.snapshotFn != nil {
		return m.snapshotFn()
	}
	return models.DefaultDocument()
}

func (m *mockDocumentService) Summary() services.Summary {
	if m.summaryFn != nil {
		return m.summaryFn()
	}
	return services.Summary{}
}

func (m *mockDocumentService) ListTransactions(page pagination.PageRequest) pagination.PageResponse[models.Transaction] {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(page)
	}
	return pagination.Slice([]models.Transaction{}, page)
}

func (m *mockDocumentService) AddTransaction(date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(date, txType, amount, accountID, categoryID, note)
	}
	return &models.Transaction{}, nil
}

func (m *mockDocumentService) UpdateTransaction(id, date string, txType models.TransactionType, amount float64, accountID, categoryID, note string) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(id, date, txType, amount, accountID, categoryID, note)
	}
	return &models.Transaction{}, nil
}

func (m *mockDocumentService) DeleteTransaction(id string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(id)
	}
	return nil
}

func (m *mockDocumentService) AddAccount(name, icon, color string, initialBalance float64) (*models.Account, error) {
	if m.addAccountFn != nil {
		return m.addAccountFn(name, icon, color, initialBalance)
	}
	return &models.Account{}, nil
}

func (m *mockDocumentService) UpdateAccount(id, name, icon, color string, initialBalance *float64) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(id, name, icon, color, initialBalance)
	}
	return &models.Account{}, nil
}

func (m *mockDocumentService) DeleteAccount(id string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(id)
	}
	return nil
}

func (m *mockDocumentService) AddCategory(name string, categoryType models.CategoryType, icon, color string) (*models.Category, error) {
	if m.addCategoryFn != nil {
		return m.addCategoryFn(name, categoryType, icon, color)
	}
	return &models.Category{}, nil
}

func (m *mockDocumentService) UpdateCategory(id, name, icon, color string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(id, name, icon, color)
	}
	return &models.Category{}, nil
}

func (m *mockDocumentService) DeleteCategory(id string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(id)
	}
	return nil
}

func (m *mockDocumentService) AddBudget(month, categoryID string, amount float64) (*models.Budget, error) {
	if m.addBudgetFn != nil {
		return m.addBudgetFn(month, categoryID, amount)
	}
	return &models.Budget{}, nil
}

func (m *mockDocumentService) UpdateBudget(id string, amount float64) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(id, amount)
	}
	return &models.Budget{}, nil
}

func (m *mockDocumentService) DeleteBudget(id string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(id)
	}
	return nil
}

func (m *mockDocumentService) UpdateSettings(currency string) (*models.Settings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(currency)
	}
	return &models.Settings{Currency: currency}, nil
}

func (m *mockDocumentService) Import(data []byte) (*models.Document, error) {
	if m.importFn != nil {
		return m.importFn(data)
	}
	return models.DefaultDocument(), nil
}

func (m *mockDocumentService) Export() ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn()
	}
	return []byte(`{}`), nil
}

func (m *mockDocumentService) ClearAll() error {
	if m.clearAllFn != nil {
		return m.clearAllFn()
	}
	return nil
}

var _ services.DocumentServicer = (*mockDocumentService)(nil)

// --- test helpers ---

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
