package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbenali/procflow/internal/domain/document"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseActor(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub":    "u-42",
		"role":   "MANAGER",
		"org_id": 7,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	actor, err := parseActor(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u-42", actor.ID)
	assert.Equal(t, document.RoleManager, actor.Role)
	assert.Equal(t, int64(7), actor.OrganizationID)
}

func TestParseActorRejections(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		secret string
	}{
		{"wrong secret", jwt.MapClaims{"sub": "u", "role": "MANAGER", "org_id": 1}, "other-secret"},
		{"missing sub", jwt.MapClaims{"role": "MANAGER", "org_id": 1}, testSecret},
		{"unknown role", jwt.MapClaims{"sub": "u", "role": "ADMIN", "org_id": 1}, testSecret},
		{"missing org", jwt.MapClaims{"sub": "u", "role": "MANAGER"}, testSecret},
		{"expired", jwt.MapClaims{"sub": "u", "role": "MANAGER", "org_id": 1, "exp": time.Now().Add(-time.Hour).Unix()}, testSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString := signToken(t, tt.secret, tt.claims)
			_, err := parseActor(tokenString, testSecret)
			assert.Error(t, err)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(testSecret))
	router.GET("/probe", func(c *gin.Context) {
		actor := actorFrom(c)
		c.JSON(http.StatusOK, gin.H{"actor_id": actor.ID, "org_id": actor.OrganizationID})
	})

	t.Run("valid token", func(t *testing.T) {
		tokenString := signToken(t, testSecret, jwt.MapClaims{
			"sub":    "u-1",
			"role":   "DIRECTOR",
			"org_id": 3,
			"exp":    time.Now().Add(time.Hour).Unix(),
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u-1")
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
