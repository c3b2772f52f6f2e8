package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"essenceflow/internal/core/apperror"
	appctx "essenceflow/internal/core/context"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Trace(), ErrorHandler(), Recovery())
	r.GET("/test", handlers...)
	return r
}

func serve(t *testing.T, r http.Handler, header map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestErrorHandler_AppError(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(apperror.NewInsufficientStock("Insufficient stock for Oud Oil. Needed: 120, Available: 100"))
	})

	code, body := serve(t, r, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])
	assert.Equal(t, "Insufficient stock for Oud Oil. Needed: 120, Available: 100", body["message"])
}

func TestErrorHandler_HidesUnknownErrors(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection reset"))
	})

	code, body := serve(t, r, map[string]string{HeaderRequestID: "req-1"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Equal(t, "req-1", body["details"].(map[string]any)["request_id"])
}

func TestRecovery(t *testing.T) {
	r := newEngine(func(c *gin.Context) {
		panic("boom")
	})

	code, body := serve(t, r, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.NotContains(t, body["message"], "boom")
}

type stubValidator struct {
	user *appctx.UserContext
}

func (s stubValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return s.user, nil
}

func TestAuthAndRequireRole(t *testing.T) {
	v := stubValidator{user: &appctx.UserContext{UserID: "u-1", Role: "staff"}}

	tests := []struct {
		name   string
		header string
		roles  []string
		want   int
	}{
		{"missing header", "", []string{"staff"}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", []string{"staff"}, http.StatusUnauthorized},
		{"bad token", "Bearer nope", []string{"staff"}, http.StatusUnauthorized},
		{"role granted", "Bearer good", []string{"admin", "staff"}, http.StatusOK},
		{"role denied", "Bearer good", []string{"admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(Auth(v), RequireRole(tt.roles...), func(c *gin.Context) {
				assert.Equal(t, "u-1", appctx.GetUserID(c.Request.Context()))
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			code, _ := serve(t, r, headers)
			assert.Equal(t, tt.want, code)
		})
	}
}
