package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/certtrack/exam-center/internal/config"
	"github.com/certtrack/exam-center/internal/httperr"
	"github.com/certtrack/exam-center/internal/session"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextTokenID  = "tokenID"
	ContextTokenExp = "tokenExp"
)

func AuthMiddleware(cfg *config.Config, revoked *session.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Write(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Write(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			httperr.Write(c, http.StatusUnauthorized, "invalid_token", "Unauthorized")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Write(c, http.StatusUnauthorized, "invalid_token_claims", "Unauthorized")
			c.Abort()
			return
		}

		sub, ok1 := claims["sub"].(float64)
		role, ok2 := claims["role"].(string)
		jti, _ := claims["jti"].(string)
		if !ok1 || !ok2 {
			httperr.Write(c, http.StatusUnauthorized, "invalid_token_payload", "Unauthorized")
			c.Abort()
			return
		}

		if revoked.IsRevoked(c.Request.Context(), jti) {
			httperr.Write(c, http.StatusUnauthorized, "token_revoked", "Unauthorized")
			c.Abort()
			return
		}

		c.Set(ContextUserID, uint(sub))
		c.Set(ContextUserRole, role)
		c.Set(ContextTokenID, jti)
		if exp, ok := claims["exp"].(float64); ok {
			c.Set(ContextTokenExp, int64(exp))
		}

		c.Next()
	}
}

// RequireRoles gates a route on the token role. Scope checks against the
// target resource stay in the authorization layer; this is only the
// coarse per-route gate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "access_denied", "Access denied")
		c.Abort()
	}
}
