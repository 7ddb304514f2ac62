package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/models"
	"spendbook/internal/notify"
	"spendbook/internal/services"
)

func setupDocumentRouter(handler *DocumentHandler) *gin.Engine {
	r := gin.New()
	r.GET("/document", handler.GetDocument)
	r.DELETE("/document", handler.ClearDocument)
	r.GET("/document/summary", handler.GetSummary)
	r.GET("/document/notifications", handler.GetNotifications)
	r.PUT("/document/settings", handler.UpdateSettings)
	r.POST("/document/import", handler.ImportDocument)
	r.GET("/document/export", handler.ExportDocument)
	return r
}

func TestDocumentHandler_GetDocument(t *testing.T) {
	r := setupDocumentRouter(NewDocumentHandler(&mockDocumentService{}, notify.NewFeed()))

	rec := doRequest(r, "GET", "/document", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	doc := result["document"].(map[string]interface{})
	if doc["version"].(float64) != float64(models.SchemaVersion) {
		t.Errorf("expected version %d, got %v", models.SchemaVersion, doc["version"])
	}
	if _, ok := doc["accounts"].([]interface{}); !ok {
		t.Error("expected accounts sequence in document")
	}
}

func TestDocumentHandler_GetSummary(t *testing.T) {
	svc := &mockDocumentService{
		summaryFn: func() services.Summary {
			return services.Summary{TotalIncome: 100, TotalExpense: 40, Net: 60}
		},
	}
	r := setupDocumentRouter(NewDocumentHandler(svc, notify.NewFeed()))

	rec := doRequest(r, "GET", "/document/summary", "")

	result := parseJSON(t, rec)
	summary := result["summary"].(map[string]interface{})
	if summary["net"].(float64) != 60 {
		t.Errorf("expected net=60, got %v", summary["net"])
	}
}

func TestDocumentHandler_GetNotifications(t *testing.T) {
	feed := notify.NewFeed()
	feed.Warn("Could not sync to the cloud, changes are saved locally")
	r := setupDocumentRouter(NewDocumentHandler(&mockDocumentService{}, feed))

	rec := doRequest(r, "GET", "/document/notifications", "")

	result := parseJSON(t, rec)
	notices := result["notifications"].([]interface{})
	if len(notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notices))
	}
	notice := notices[0].(map[string]interface{})
	if notice["level"] != "warning" {
		t.Errorf("expected warning level, got %v", notice["level"])
	}
}

func TestDocumentHandler_UpdateSettings(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupDocumentRouter(NewDocumentHandler(&mockDocumentService{}, notify.NewFeed()))

		rec := doRequest(r, "PUT", "/document/settings", `{"currency":"EUR"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		settings := result["settings"].(map[string]interface{})
		if settings["currency"] != "EUR" {
			t.Errorf("expected EUR, got %v", settings["currency"])
		}
	})

	t.Run("returns 400 on unknown currency code", func(t *testing.T) {
		r := setupDocumentRouter(NewDocumentHandler(&mockDocumentService{}, notify.NewFeed()))

		rec := doRequest(r, "PUT", "/document/settings", `{"currency":"ZZZ"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestDocumentHandler_ImportDocument(t *testing.T) {
	t.Run("returns 200 and the imported document", func(t *testing.T) {
		var captured []byte
		svc := &mockDocumentService{
			importFn: func(data []byte) (*models.Document, error) {
				captured = data
				return models.DefaultDocument(), nil
			},
		}
		r := setupDocumentRouter(NewDocumentHandler(svc, notify.NewFeed()))

		body := `{"accounts":[],"categories":[],"transactions":[]}`
		rec := doRequest(r, "POST", "/document/import", body)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if string(captured) != body {
			t.Errorf("expected raw body passed to service, got %s", captured)
		}
	})

	t.Run("returns 400 on invalid backup", func(t *testing.T) {
		svc := &mockDocumentService{
			importFn: func(_ []byte) (*models.Document, error) {
				return nil, apperrors.ErrImportInvalid
			},
		}
		r := setupDocumentRouter(NewDocumentHandler(svc, notify.NewFeed()))

		rec := doRequest(r, "POST", "/document/import", `{broken`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "IMPORT_INVALID")
	})
}

func TestDocumentHandler_ExportDocument(t *testing.T) {
	t.Run("serves an attachment", func(t *testing.T) {
		svc := &mockDocumentService{
			exportFn: func() ([]byte, error) { return []byte(`{"version":1}`), nil },
		}
		r := setupDocumentRouter(NewDocumentHandler(svc, notify.NewFeed()))

		rec := doRequest(r, "GET", "/document/export", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd == "" {
			t.Error("expected a Content-Disposition header")
		}
		if rec.Body.String() != `{"version":1}` {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("returns 401 when signed out", func(t *testing.T) {
		svc := &mockDocumentService{
			exportFn: func() ([]byte, error) { return nil, apperrors.ErrSignInRequired },
		}
		r := setupDocumentRouter(NewDocumentHandler(svc, notify.NewFeed()))

		rec := doRequest(r, "GET", "/document/export", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestDocumentHandler_ClearDocument(t *testing.T) {
	called := false
	svc := &mockDocumentService{
		clearAllFn: func() error { called = true; return nil },
	}
	r := setupDocumentRouter(NewDocumentHandler(svc, notify.NewFeed()))

	rec := doRequest(r, "DELETE", "/document", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Error("expected ClearAll to be invoked")
	}
}
