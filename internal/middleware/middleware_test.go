package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	logger := slog.New(slog.NewTextHandler(buf, nil))
	r.Use(RequestID(), Logger(logger))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	return r
}

func TestRequestID_Generated(t *testing.T) {
	var buf bytes.Buffer
	router := setupRouter(&buf)

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	id := w.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatalf("expected %s header to be set", RequestIDHeader)
	}
	if w.Body.String() != id {
		t.Errorf("expected handler to see id %q, got %q", id, w.Body.String())
	}
	if !strings.Contains(buf.String(), "request_id="+id) {
		t.Errorf("expected log line to carry request id, got %q", buf.String())
	}
}

func TestRequestID_Propagated(t *testing.T) {
	var buf bytes.Buffer
	router := setupRouter(&buf)

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected propagated id, got %q", got)
	}
}

func TestLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	router := setupRouter(&buf)

	req, _ := http.NewRequest(http.MethodGet, "/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected WARN line for 404, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "status=404") {
		t.Errorf("expected status in log line, got %q", buf.String())
	}
}
