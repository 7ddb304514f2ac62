package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	documentService services.DocumentServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(documentService services.DocumentServicer) *AccountHandler {
	return &AccountHandler{documentService: documentService}
}

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Icon           string  `json:"icon" binding:"max=10"`
	Color          string  `json:"color" binding:"omitempty,hex_color"`
	InitialBalance float64 `json:"initial_balance"`
}

// UpdateAccountRequest represents the request payload for updating an account
type UpdateAccountRequest struct {
	Name           string   `json:"name" binding:"max=100"`
	Icon           string   `json:"icon" binding:"max=10"`
	Color          string   `json:"color" binding:"omitempty,hex_color"`
	InitialBalance *float64 `json:"initial_balance"`
}

// GetAccounts handles the account listing
// @Summary     List accounts
// @Description Get all accounts in the current document
// @Tags        accounts
// @Produce     json
// @Success     200 {array} models.Account "Accounts"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"accounts": h.documentService.Snapshot().Accounts})
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new account with an optional icon, color, and opening balance
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.documentService.AddAccount(req.Name, req.Icon, req.Color, req.InitialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// UpdateAccount handles updating an existing account
// @Summary     Update account
// @Description Update account display fields or opening balance. Omitted fields are left unchanged.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.documentService.UpdateAccount(c.Param("id"), req.Name, req.Icon, req.Color, req.InitialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles the deletion of an account
// @Summary     Delete account
// @Description Delete an account. Default accounts and accounts referenced by transactions are refused.
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     409 {object} ErrorResponse "Account is default or in use"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.documentService.DeleteAccount(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
