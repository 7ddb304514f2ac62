// Package errors provides the structured error types used across spendbook.
// Service-layer code returns AppError values so that handlers can render
// consistent responses without leaking internal details to clients.
package errors

import "net/http"

// AppError is an application error carrying a stable code, a human-readable
// message, the HTTP status it maps to, and an optional wrapped internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel that wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidEmail       = &AppError{Code: "INVALID_EMAIL", Message: "Email address is not valid", StatusCode: http.StatusBadRequest}
	ErrPasswordTooShort   = &AppError{Code: "PASSWORD_TOO_SHORT", Message: "Password must be at least 6 characters", StatusCode: http.StatusBadRequest}
	ErrDuplicateEmail     = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrSignInRequired     = &AppError{Code: "SIGN_IN_REQUIRED", Message: "Sign in to make changes", StatusCode: http.StatusUnauthorized}
	ErrSessionMismatch    = &AppError{Code: "SESSION_MISMATCH", Message: "Token does not match the active session", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Document entity errors.
var (
	ErrAccountNotFound     = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrAccountInUse        = &AppError{Code: "ACCOUNT_IN_USE", Message: "Account is referenced by existing transactions", StatusCode: http.StatusConflict}
	ErrDefaultAccount      = &AppError{Code: "DEFAULT_ACCOUNT", Message: "Default accounts cannot be deleted", StatusCode: http.StatusConflict}
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse       = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions or budgets", StatusCode: http.StatusConflict}
	ErrDefaultCategory     = &AppError{Code: "DEFAULT_CATEGORY", Message: "Default categories cannot be deleted", StatusCode: http.StatusConflict}
	ErrCategoryTypeMismatch = &AppError{Code: "CATEGORY_TYPE_MISMATCH", Message: "Category type does not match the transaction type", StatusCode: http.StatusBadRequest}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrBudgetNotFound      = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetCategory      = &AppError{Code: "BUDGET_CATEGORY", Message: "Budgets require an expense category", StatusCode: http.StatusBadRequest}
)

// Storage and import errors. Storage failures are surfaced as warnings, never
// as fatal responses; import failures abort before any document mutation.
var (
	ErrCacheWrite    = &AppError{Code: "CACHE_WRITE_FAILED", Message: "Could not write the local cache", StatusCode: http.StatusInternalServerError}
	ErrRemoteWrite   = &AppError{Code: "REMOTE_WRITE_FAILED", Message: "Could not sync to the cloud, changes are saved locally", StatusCode: http.StatusBadGateway}
	ErrRemoteRead    = &AppError{Code: "REMOTE_READ_FAILED", Message: "Could not load data from the cloud", StatusCode: http.StatusBadGateway}
	ErrImportInvalid = &AppError{Code: "IMPORT_INVALID", Message: "Import file is not a valid backup", StatusCode: http.StatusBadRequest}
)
