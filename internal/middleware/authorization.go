package middleware

import (
	"net/http"

	"waitlist_ledger/pkg/auth"
	"waitlist_ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authorization struct {
	token *auth.AdminToken
}

func NewAuthorization(token *auth.AdminToken) *Authorization {
	return &Authorization{
		token: token,
	}
}

// IsAdmin reports whether the request carries the admin bearer token.
func (a *Authorization) IsAdmin(c *gin.Context) bool {
	if err := a.token.Verify(c.GetHeader("Authorization")); err != nil {
		logger.Logger().Info("unauthorized access attempt to admin endpoint",
			zap.String("client_ip", c.ClientIP()),
			zap.Error(err))
		return false
	}
	return true
}

func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
