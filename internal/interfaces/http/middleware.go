package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hbenali/procflow/internal/domain/document"
)

const actorContextKey = "actor"

// AuthMiddleware verifies the bearer token and places the actor triple
// in the request context. The engine trusts the triple as-is; issuing
// tokens is the identity collaborator's job.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "missing bearer token"})
			return
		}

		actor, err := parseActor(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid token"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// parseActor extracts the {id, role, organizationId} triple from the
// token claims.
func parseActor(tokenString, secret string) (document.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return document.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return document.Actor{}, fmt.Errorf("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	orgFloat, _ := claims["org_id"].(float64)

	role := document.Role(roleStr)
	if sub == "" || !role.IsValid() || orgFloat <= 0 {
		return document.Actor{}, fmt.Errorf("incomplete actor claims")
	}

	return document.Actor{
		ID:             sub,
		Role:           role,
		OrganizationID: int64(orgFloat),
	}, nil
}

// actorFrom returns the actor placed in the context by AuthMiddleware
func actorFrom(c *gin.Context) document.Actor {
	actor, _ := c.Get(actorContextKey)
	a, _ := actor.(document.Actor)
	return a
}
