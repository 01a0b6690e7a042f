package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func keyedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", RequireAPIKey(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "store-secret")
	r := keyedRouter()

	tests := []struct {
		name   string
		query  string
		header string
		want   int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"wrong query key", "?apiKey=nope", "", http.StatusUnauthorized},
		{"wrong header key", "", "nope", http.StatusUnauthorized},
		{"query key", "?apiKey=store-secret", "", http.StatusOK},
		{"header key", "", "store-secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireAPIKeyUnconfigured(t *testing.T) {
	t.Setenv("API_KEY", "")
	r := keyedRouter()

	req := httptest.NewRequest(http.MethodGet, "/guarded?apiKey=anything", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", w.Code)
	}
}
