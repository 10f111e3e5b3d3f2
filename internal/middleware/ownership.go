package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/crossfun/backend/internal/models"
)

// RequireWalletOwnership lets a request through only when the wallet address
// named by field (a route param, falling back to a JSON body field) belongs
// to the authenticated user. Admins bypass the check. The body is read with
// ShouldBindBodyWith so downstream handlers can bind it again.
func RequireWalletOwnership(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			c.Abort()
			return
		}
		if user.Role.AtLeast(models.RoleAdmin) {
			c.Next()
			return
		}

		addr := c.Param(field)
		if addr == "" {
			var body map[string]interface{}
			if err := c.ShouldBindBodyWith(&body, binding.JSON); err == nil {
				addr, _ = body[field].(string)
			}
		}
		if addr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "wallet address required"})
			c.Abort()
			return
		}

		if !user.HasWallet(addr) {
			c.JSON(http.StatusForbidden, gin.H{"error": "wallet does not belong to user"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin restricts a route to the user named by the id route
// param, or to admins.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			c.Abort()
			return
		}
		if user.Role.AtLeast(models.RoleAdmin) || user.ID.String() == c.Param(param) {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		c.Abort()
	}
}
