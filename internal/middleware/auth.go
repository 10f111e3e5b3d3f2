package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/crossfun/backend/internal/models"
	"github.com/crossfun/backend/pkg/auth"
	"gorm.io/gorm"
)

const (
	// UserKey is the gin context key holding the authenticated *models.User.
	UserKey = "user"
	// UserIDKey holds the authenticated user's uuid.UUID.
	UserIDKey = "userID"
)

// UserStore loads accounts during authentication.
type UserStore interface {
	GetUser(id string) (*models.User, error)
}

// TokenBlacklist answers whether a token has been revoked (logout).
type TokenBlacklist interface {
	IsBlacklisted(c *gin.Context, token string) (bool, error)
}

// Authenticate verifies the bearer token, rejects revoked tokens, loads the
// account and requires it to be active and not banned. Token failures map to
// 401 with a stable error string; store failures map to 500.
func Authenticate(jwtManager *auth.JWTManager, blacklist TokenBlacklist, store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, code, msg := resolveUser(c, tokenFromRequest(c), jwtManager, blacklist, store)
		if user == nil {
			c.JSON(code, gin.H{"error": msg})
			c.Abort()
			return
		}
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and silently
// continues otherwise. It never aborts the request.
func OptionalAuth(jwtManager *auth.JWTManager, blacklist TokenBlacklist, store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _, _ := resolveUser(c, tokenFromRequest(c), jwtManager, blacklist, store); user != nil {
			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID)
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, token string, jwtManager *auth.JWTManager, blacklist TokenBlacklist, store UserStore) (*models.User, int, string) {
	if token == "" {
		return nil, http.StatusUnauthorized, "access token required"
	}
	if blacklist != nil {
		revoked, err := blacklist.IsBlacklisted(c, token)
		if err != nil {
			return nil, http.StatusInternalServerError, "authentication failed"
		}
		if revoked {
			return nil, http.StatusUnauthorized, "invalid token"
		}
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, http.StatusUnauthorized, "token expired"
		}
		return nil, http.StatusUnauthorized, "invalid token"
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, http.StatusUnauthorized, "invalid token"
	}

	user, err := store.GetUser(userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, "invalid or inactive user"
		}
		return nil, http.StatusInternalServerError, "authentication failed"
	}
	if !user.IsActive || user.IsBanned {
		return nil, http.StatusUnauthorized, "invalid or inactive user"
	}
	return user, 0, ""
}

// tokenFromRequest reads the bearer token from the Authorization header,
// falling back to the token query parameter for WebSocket upgrades.
func tokenFromRequest(c *gin.Context) string {
	if token, err := auth.ExtractTokenFromHeader(c.Request); err == nil {
		return token
	}
	return c.Query("token")
}

// CurrentUser returns the user set by Authenticate or OptionalAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// RequireRole guards a route group behind a minimum role. It assumes
// Authenticate already ran.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			c.Abort()
			return
		}
		if !user.Role.AtLeast(min) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

func RequireModerator() gin.HandlerFunc {
	return RequireRole(models.RoleModerator)
}
