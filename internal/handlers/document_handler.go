package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/notify"
	"spendbook/internal/services"
)

// DocumentHandler handles whole-document and settings requests.
type DocumentHandler struct {
	documentService services.DocumentServicer
	feed            *notify.Feed
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService services.DocumentServicer, feed *notify.Feed) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, feed: feed}
}

// GetDocument returns the full document
// @Summary     Get the document
// @Description Get the full normalized document for the active session
// @Tags        document
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Document "Current document"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /document [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"document": h.documentService.Snapshot()})
}

// GetSummary returns derived totals
// @Summary     Get summary
// @Description Get derived income, expense, and per-account balances
// @Tags        document
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Summary "Derived totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /document/summary [get]
func (h *DocumentHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"summary": h.documentService.Summary()})
}

// GetNotifications returns recent non-fatal notices
// @Summary     Get notifications
// @Description Get recent sync and storage notices, newest last
// @Tags        document
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]notify.Notice "Recent notices"
// @Router      /document/notifications [get]
func (h *DocumentHandler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.feed.Recent()})
}

// UpdateSettingsRequest represents the settings update payload
type UpdateSettingsRequest struct {
	Currency string `json:"currency" binding:"required,iso4217"`
}

// UpdateSettings handles settings changes
// @Summary     Update settings
// @Description Update document settings such as the display currency
// @Tags        document
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings to update"
// @Success     200 {object} models.Settings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /document/settings [put]
func (h *DocumentHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.documentService.UpdateSettings(req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ImportDocument replaces the document with an uploaded backup
// @Summary     Import a backup
// @Description Replace the whole document with a backup file. The backup is
// @Description normalized first; invalid entries are dropped, a malformed
// @Description file is rejected without touching the current document.
// @Tags        document
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body models.Document true "Backup payload"
// @Success     200 {object} models.Document "Imported document"
// @Failure     400 {object} ErrorResponse "Invalid backup"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /document/import [post]
func (h *DocumentHandler) ImportDocument(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrImportInvalid, err))
		return
	}

	doc, err := h.documentService.Import(data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// ExportDocument serves the document as a downloadable backup
// @Summary     Export a backup
// @Description Download the current document as a JSON backup with export metadata
// @Tags        document
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Document "Backup payload"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /document/export [get]
func (h *DocumentHandler) ExportDocument(c *gin.Context) {
	data, err := h.documentService.Export()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="spendbook-backup.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ClearDocument resets the document to defaults
// @Summary     Clear all data
// @Description Replace the document with the built-in defaults
// @Tags        document
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Document "Defaults document"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /document [delete]
func (h *DocumentHandler) ClearDocument(c *gin.Context) {
	if err := h.documentService.ClearAll(); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": h.documentService.Snapshot()})
}
