package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	documentService services.DocumentServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(documentService services.DocumentServicer) *AuthHandler {
	return &AuthHandler{documentService: documentService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse represents the session data in the response
type SessionResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with email and password, unlocking edits
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} SessionResponse "User registered and session started"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sess, err := h.documentService.SignUp(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": sess})
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user, load their document, and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} SessionResponse "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sess, err := h.documentService.SignIn(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sess})
}

// Logout ends the active session
// @Summary     Logout
// @Description End the active session and re-lock edits. Local caches are kept.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Signed out"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.documentService.SignOut()
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}

// GetSession returns the current auth state
// @Summary     Get session state
// @Description Get the current authentication state and session, if any
// @Tags        auth
// @Produce     json
// @Success     200 {object} SessionResponse "Current state and session"
// @Router      /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	state, sess := h.documentService.SessionState()
	c.JSON(http.StatusOK, gin.H{"state": state, "session": sess})
}
