package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

func newTestRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(NewLocalAuthProvider(token, internal.NopLogger())))
	r.GET("/whoami", func(c *gin.Context) {
		p := c.MustGet(PrincipalKey).(*Principal)
		c.String(http.StatusOK, p.Name)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"valid bearer", "MOCK-TOKEN", "Bearer MOCK-TOKEN", http.StatusOK},
		{"extra whitespace", "MOCK-TOKEN", "Bearer   MOCK-TOKEN ", http.StatusOK},
		{"wrong token", "MOCK-TOKEN", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "MOCK-TOKEN", "", http.StatusUnauthorized},
		{"basic scheme", "MOCK-TOKEN", "Basic MOCK-TOKEN", http.StatusUnauthorized},
		{"empty configured token", "", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newTestRouter(tt.token).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "owner", w.Body.String())
			}
		})
	}
}
