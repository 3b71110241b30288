package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/pkg/auth"
)

func testRouter(t *testing.T, jwt auth.JWTService, permission string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(jwt)

	r := gin.New()
	group := r.Group("/", m.Authenticate())
	if permission != "" {
		group.Use(m.RequirePermission(permission))
	}
	group.GET("/secret", func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r
}

func issueToken(t *testing.T, jwt auth.JWTService, permissions ...string) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(&model.User{
		Base:        model.Base{ID: uuid.New()},
		Email:       "dentist@clinic.test",
		Role:        model.UserRoleDentist,
		Permissions: permissions,
	})
	require.NoError(t, err)
	return token
}

func newJWT() auth.JWTService {
	return auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh",
		Expiry:        time.Hour,
		RefreshExpiry: time.Hour,
	})
}

func TestAuthenticateAcceptsValidToken(t *testing.T) {
	jwt := newJWT()
	r := testRouter(t, jwt, "")

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwt))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	r := testRouter(t, newJWT(), "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secret", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	jwt := newJWT()
	r := testRouter(t, jwt, "")

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", issueToken(t, jwt))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsForeignToken(t *testing.T) {
	r := testRouter(t, newJWT(), "")

	other := auth.NewJWTService(auth.Config{Secret: "other", RefreshSecret: "other", Expiry: time.Hour, RefreshExpiry: time.Hour})
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, other))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	jwt := newJWT()
	r := testRouter(t, jwt, "appointments:write")

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwt, "appointments:read", "appointments:write"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwt, "appointments:read"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
