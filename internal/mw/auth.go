package mw

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"campus-services-backend/internal/model"
)

// Context keys populated by Auth.
const (
	CtxUserID = "auth_user_id"
	CtxRole   = "auth_role"
)

// Auth validates the bearer token and stores the caller's identity and role
// in the request context. Tokens are minted by the campus identity service;
// this middleware only verifies the HMAC signature.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing a role"})
			return
		}

		var userID int64
		switch sub := claims["sub"].(type) {
		case float64:
			userID = int64(sub)
		case string:
			userID, _ = strconv.ParseInt(sub, 10, 64)
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the caller carries the admin role.
// It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator role required"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's user ID.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(CtxUserID)
	id, _ := v.(int64)
	return id
}

// Role returns the authenticated caller's role.
func Role(c *gin.Context) string {
	return c.GetString(CtxRole)
}
