package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/crossfun/backend/internal/handlers/dto"
	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/middleware"
	"github.com/crossfun/backend/internal/models"
	"github.com/crossfun/backend/pkg/auth"
)

// AuthStore is the slice of the database the auth handler needs. Tests
// substitute an in-memory fake.
type AuthStore interface {
	SaveUser(user *models.User) error
	UpdateUser(user *models.User) error
	UpdateUserFields(id string, fields map[string]interface{}) (*models.User, error)
	GetUser(id string) (*models.User, error)
	FindUserByIdentifier(identifier string) (*models.User, error)
	FindUserByWallet(addr models.Address) (*models.User, error)
}

// TokenRevoker invalidates a token until its natural expiry.
type TokenRevoker interface {
	Revoke(c *gin.Context, token string, expiry time.Time) error
}

type AuthHandler struct {
	store      AuthStore
	jwtManager *auth.JWTManager
	revoker    TokenRevoker
	log        *logger.Logger
}

func NewAuthHandler(store AuthStore, jwtMgr *auth.JWTManager, revoker TokenRevoker, log *logger.Logger) *AuthHandler {
	return &AuthHandler{store: store, jwtManager: jwtMgr, revoker: revoker, log: log}
}

// Register creates an account, optionally linking a first wallet, and
// returns a session token. Duplicate username, email or wallet answer 409.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		IsActive:     true,
		Role:         models.RoleUser,
	}

	if req.WalletAddress != "" {
		addr, err := models.ParseAddress(req.WalletAddress)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		chainID := req.ChainID
		if chainID == 0 {
			chainID = 1
		}
		if err := user.AddWallet(addr, chainID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.store.SaveUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "username, email or wallet already registered"})
			return
		}
		h.log.Error().Err(err).Msg("register: save user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered",
		"token":   token,
		"user":    user,
	})
}

// Login authenticates by username or email. Locked accounts answer 423
// before any password comparison; five straight failures start a lock.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.FindUserByIdentifier(req.Identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.log.Error().Err(err).Msg("login: lookup user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}

	now := time.Now()
	if user.IsLocked(now) {
		c.JSON(http.StatusLocked, gin.H{
			"error":     "account temporarily locked due to failed login attempts",
			"lockUntil": user.LockUntil,
		})
		return
	}

	if !user.IsActive || user.IsBanned {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or inactive user"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		user.RecordFailedLogin(now)
		if _, err := h.store.UpdateUserFields(user.ID.String(), map[string]interface{}{
			"login_attempts": user.LoginAttempts,
			"lock_until":     user.LockUntil,
		}); err != nil {
			h.log.Error().Err(err).Msg("login: persist failed attempt")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	user.RecordSuccessfulLogin(now)
	if _, err := h.store.UpdateUserFields(user.ID.String(), map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login_at":  now,
	}); err != nil {
		h.log.Error().Err(err).Msg("login: persist successful login")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

// WalletLogin authenticates by wallet address.
// TODO: verify the signature against the address once the frontend sends
// the signed nonce; for now presence is required but not checked.
func (h *AuthHandler) WalletLogin(c *gin.Context) {
	var req dto.WalletLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := models.ParseAddress(req.WalletAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.FindUserByWallet(addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.log.Error().Err(err).Msg("wallet login: lookup user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}

	now := time.Now()
	if user.IsLocked(now) {
		c.JSON(http.StatusLocked, gin.H{
			"error":     "account temporarily locked due to failed login attempts",
			"lockUntil": user.LockUntil,
		})
		return
	}
	if !user.IsActive || user.IsBanned {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or inactive user"})
		return
	}

	if _, err := h.store.UpdateUserFields(user.ID.String(), map[string]interface{}{
		"login_attempts": 0,
		"lock_until":     nil,
		"last_login_at":  now,
	}); err != nil {
		h.log.Error().Err(err).Msg("wallet login: persist login")
	}

	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

// VerifyWallet stamps the caller's wallet as verified.
func (h *AuthHandler) VerifyWallet(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req dto.VerifyWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := user.VerifyWallet(req.WalletAddress, time.Now()); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.UpdateUser(user); err != nil {
		h.log.Error().Err(err).Msg("verify wallet: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "wallet verified", "user": user})
}

// AddWallet links another wallet to the caller. An address already linked
// anywhere answers 409.
func (h *AuthHandler) AddWallet(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req dto.AddWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := models.ParseAddress(req.WalletAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chainID := req.ChainID
	if chainID == 0 {
		chainID = 1
	}

	if err := user.AddWallet(addr, chainID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.UpdateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "wallet already registered to another account"})
			return
		}
		h.log.Error().Err(err).Msg("add wallet: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "wallet added", "user": user})
}

// RemoveWallet unlinks a wallet, refusing to remove the last one.
func (h *AuthHandler) RemoveWallet(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req dto.RemoveWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := user.RemoveWallet(req.WalletAddress); err != nil {
		switch {
		case errors.Is(err, models.ErrLastWallet):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrWalletNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	if err := h.store.UpdateUser(user); err != nil {
		h.log.Error().Err(err).Msg("remove wallet: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "wallet removed", "user": user})
}

// Profile returns the authenticated account.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile changes the caller's own profile fields. Username and email
// stay unique; collisions answer 409.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(*req.Email)
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Website != nil {
		fields["website"] = *req.Website
	}
	if req.Twitter != nil {
		fields["twitter"] = *req.Twitter
	}
	if req.Telegram != nil {
		fields["telegram"] = *req.Telegram
	}
	if req.Discord != nil {
		fields["discord"] = *req.Discord
	}
	if req.Github != nil {
		fields["github"] = *req.Github
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	updated, err := h.store.UpdateUserFields(user.ID.String(), fields)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
			return
		}
		h.log.Error().Err(err).Msg("update profile: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": updated})
}

// ChangePassword rotates the caller's password after checking the current one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	if _, err := h.store.UpdateUserFields(user.ID.String(), map[string]interface{}{
		"password_hash": string(hash),
	}); err != nil {
		h.log.Error().Err(err).Msg("change password: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// Refresh issues a fresh token for the already-authenticated caller and
// revokes the presented one.
func (h *AuthHandler) Refresh(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	token, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	if old, err := auth.ExtractTokenFromHeader(c.Request); err == nil && h.revoker != nil {
		if exp, err := h.jwtManager.Expiry(old); err == nil {
			if err := h.revoker.Revoke(c, old, exp); err != nil {
				h.log.Error().Err(err).Msg("refresh: revoke old token")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout blacklists the presented token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if h.revoker != nil {
		if err := h.revoker.Revoke(c, rawToken, exp); err != nil {
			h.log.Error().Err(err).Msg("logout: revoke token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
