package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/filmlog/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(cfg config.Auth) *gin.Engine {
	router := gin.New()
	router.Use(NewMiddleware(cfg).Handler())
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetUserID(c),
			"auth_type": GetAuthType(c),
		})
	}
	router.GET("/api/me", handler)
	router.GET("/health", handler)
	return router
}

func serve(router *gin.Engine, path string, headers map[string]string) (*httptest.ResponseRecorder, map[string]string) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	body := map[string]string{}
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	return rr, body
}

func TestMiddleware_NoAuthMode(t *testing.T) {
	router := setupRouter(config.Auth{Mode: config.AuthModeNone, DefaultUser: "owner"})

	rr, body := serve(router, "/api/me", map[string]string{"X-User-ID": "ignored"})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "owner", body["user_id"])
	assert.Equal(t, string(AuthTypeNone), body["auth_type"])
}

func TestMiddleware_NoAuthModeDefaultsUser(t *testing.T) {
	router := setupRouter(config.Auth{Mode: config.AuthModeNone})

	_, body := serve(router, "/api/me", nil)

	assert.Equal(t, "local", body["user_id"])
}

func TestMiddleware_HeaderMode(t *testing.T) {
	router := setupRouter(config.Auth{Mode: config.AuthModeHeader, UserHeader: "X-Forwarded-User"})

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
		wantUser string
	}{
		{"header present", map[string]string{"X-Forwarded-User": "u-123"}, http.StatusOK, "u-123"},
		{"header trimmed", map[string]string{"X-Forwarded-User": "  u-123 "}, http.StatusOK, "u-123"},
		{"header missing", nil, http.StatusUnauthorized, ""},
		{"header blank", map[string]string{"X-Forwarded-User": "   "}, http.StatusUnauthorized, ""},
		{"other header", map[string]string{"X-User-ID": "u-123"}, http.StatusUnauthorized, ""},
		{"oversized id", map[string]string{"X-Forwarded-User": strings.Repeat("a", 256)}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := serve(router, "/api/me", tt.headers)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantUser, body["user_id"])
				assert.Equal(t, string(AuthTypeHeader), body["auth_type"])
			} else {
				assert.Equal(t, "authentication required", body["error"])
			}
		})
	}
}

func TestMiddleware_HeaderModePublicPath(t *testing.T) {
	router := setupRouter(config.Auth{Mode: config.AuthModeHeader})

	rr, body := serve(router, "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, body["user_id"])
}

func TestGetUserID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetUserID(c))
	assert.Equal(t, AuthTypeNone, GetAuthType(c))
}
