package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"labreserva-backend/internal/auth"
	"labreserva-backend/internal/model"
)

// Context keys set by the auth middleware.
const (
	CtxUserID   = "user_id"
	CtxUserTipo = "user_tipo"
)

// Authenticate validates the Authorization bearer token and stores the
// caller's id and role in the request context.
func Authenticate(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token não fornecido"})
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "formato de token inválido"})
			return
		}

		userID, claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido ou expirado"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserTipo, claims.Tipo)
		c.Next()
	}
}

// RequireAdmin gates a route to administrator accounts. It must run after
// Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserTipo) != model.TipoAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acesso restrito a administradores"})
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated user id set by Authenticate.
func CallerID(c *gin.Context) int64 {
	return c.GetInt64(CtxUserID)
}
