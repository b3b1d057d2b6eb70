package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/service"
	"github.com/snnyvrz/libmanage/internal/testutil"
	"github.com/snnyvrz/libmanage/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var handlerNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type testServices struct {
	catalog     CatalogService
	circulation CirculationService
	accounts    AccountService
	reports     ReportService
}

func newTestServices(db *gorm.DB) testServices {
	return testServices{
		catalog:     service.NewCatalog(db),
		circulation: service.NewCirculation(db, service.DefaultLoanDays, service.WithClock(testutil.FixedClock(handlerNow))),
		accounts:    service.NewAccounts(db, service.WithBcryptCost(bcrypt.MinCost)),
	}
}

func setupRouterWithServices(s testServices) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	if s.accounts != nil {
		NewAuthHandler(s.accounts).RegisterRoutes(api)
	}
	if s.catalog != nil {
		NewBookHandler(s.catalog).RegisterRoutes(api)
	}
	if s.circulation != nil {
		NewCirculationHandler(s.circulation).RegisterRoutes(api)
	}
	if s.reports != nil {
		NewReportHandler(s.reports).RegisterRoutes(api)
	}
	NewFrontendHandler("").RegisterRoutes(r)

	return r
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	return setupRouterWithServices(newTestServices(db)), db
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) validation.ErrorResponse {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected status %d, got %d, body=%s", status, w.Code, w.Body.String())
	}

	resp := decodeBody[validation.ErrorResponse](t, w)
	if code != "" && resp.Code != code {
		t.Errorf("expected code %s, got %s", code, resp.Code)
	}
	if resp.Message == "" {
		t.Errorf("expected non-empty message")
	}
	return resp
}
