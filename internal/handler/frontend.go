package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// FrontendHandler serves the single-page front-end for every path that no
// API route claims.
type FrontendHandler struct {
	webRoot string
}

func NewFrontendHandler(webRoot string) *FrontendHandler {
	return &FrontendHandler{webRoot: webRoot}
}

func (h *FrontendHandler) RegisterRoutes(e *gin.Engine) {
	e.NoRoute(h.Serve)
	e.NoMethod(func(c *gin.Context) {
		writeError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
}

func (h *FrontendHandler) Serve(c *gin.Context) {
	urlPath := c.Request.URL.Path
	method := c.Request.Method

	if h.webRoot == "" || strings.HasPrefix(urlPath, "/api/") ||
		(method != http.MethodGet && method != http.MethodHead) {

		writeError(c, http.StatusNotFound, "NOT_FOUND", "not found")
		return
	}

	// Clean against "/" so ".." cannot leave the web root.
	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if rel != "" {
		file := filepath.Join(h.webRoot, filepath.FromSlash(rel))
		if serveFile(c, file) {
			return
		}
	}

	if !serveFile(c, filepath.Join(h.webRoot, "index.html")) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "front-end entry document not found")
	}
}

// serveFile writes the regular file at name and reports whether it did. The
// request path is not consulted; name is already resolved inside the root.
func serveFile(c *gin.Context, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}
