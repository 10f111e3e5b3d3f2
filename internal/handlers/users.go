package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/crossfun/backend/internal/database"
	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/middleware"
	"github.com/crossfun/backend/internal/models"
)

type UserHandler struct {
	db  *database.Database
	log *logger.Logger
}

func NewUserHandler(db *database.Database, log *logger.Logger) *UserHandler {
	return &UserHandler{db: db, log: log}
}

// List returns a filtered page of accounts. Admin only (routed).
func (h *UserHandler) List(c *gin.Context) {
	p := parsePageParams(c, "createdAt")

	filter := database.UserFilter{
		Role:     models.Role(c.Query("role")),
		Verified: boolQuery(c, "verified"),
		Active:   boolQuery(c, "active"),
		Search:   c.Query("search"),
	}

	users, total, err := h.db.ListUsers(filter, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": pagination(p, total)})
}

// TopCreators is a public leaderboard of the most prolific creators.
func (h *UserHandler) TopCreators(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > maxPageSize {
		limit = 10
	}
	users, err := h.db.TopCreators(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("top creators")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ByWallet resolves a public profile by any linked wallet address.
func (h *UserHandler) ByWallet(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByWallet(addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("user by wallet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Get returns an account by id; routed behind self-or-admin.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.db.GetUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("get user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Update patches an account. Role changes are honored for admins only;
// verification flags for moderators and up.
func (h *UserHandler) Update(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	var req struct {
		Username   *string `json:"username"`
		Bio        *string `json:"bio"`
		Avatar     *string `json:"avatar"`
		Role       *string `json:"role"`
		IsVerified *bool   `json:"isVerified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if req.IsVerified != nil && caller.Role.AtLeast(models.RoleModerator) {
		fields["is_verified"] = *req.IsVerified
	}
	if req.Role != nil {
		if !caller.Role.AtLeast(models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "only admins can change roles"})
			return
		}
		role := models.Role(*req.Role)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		fields["role"] = role
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	user, err := h.db.UpdateUserFields(c.Param("id"), fields)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, gorm.ErrDuplicatedKey):
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		default:
			h.log.Error().Err(err).Msg("update user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user updated", "user": user})
}

// Deactivate soft-disables an account. Admin only; admins cannot
// deactivate themselves.
func (h *UserHandler) Deactivate(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	id := c.Param("id")

	if caller.ID.String() == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot deactivate own account"})
		return
	}

	user, err := h.db.UpdateUserFields(id, map[string]interface{}{"is_active": false})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("deactivate user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deactivated", "user": user})
}

// Ban blocks an account. Moderators cannot ban admins; unban carries no
// such check, matching the ban endpoint's asymmetric rule.
func (h *UserHandler) Ban(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)
	id := c.Param("id")

	target, err := h.db.GetUser(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("ban: load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	if target.Role == models.RoleAdmin && !caller.Role.AtLeast(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "moderators cannot ban admins"})
		return
	}

	user, err := h.db.UpdateUserFields(id, map[string]interface{}{"is_banned": true})
	if err != nil {
		h.log.Error().Err(err).Msg("ban user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user banned", "user": user})
}

func (h *UserHandler) Unban(c *gin.Context) {
	user, err := h.db.UpdateUserFields(c.Param("id"), map[string]interface{}{"is_banned": false})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("unban user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user unbanned", "user": user})
}

// Tokens lists the tokens created from any of a user's wallets.
func (h *UserHandler) Tokens(c *gin.Context) {
	user, err := h.db.GetUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("user tokens: load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	addrs := make([]models.Address, 0, len(user.Wallets))
	for _, w := range user.Wallets {
		addrs = append(addrs, w.Address)
	}
	if len(addrs) == 0 {
		c.JSON(http.StatusOK, gin.H{"tokens": []models.Token{}, "pagination": pagination(parsePageParams(c, "createdAt"), 0)})
		return
	}

	p := parsePageParams(c, "createdAt")
	tokens, total, err := h.db.TokensByCreators(addrs, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("user tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "pagination": pagination(p, total)})
}

// Stats aggregates a user's trading footprint across their wallets.
func (h *UserHandler) Stats(c *gin.Context) {
	user, err := h.db.GetUser(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("user stats: load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	stats, err := h.db.AnalyticsForUser(user)
	if err != nil {
		h.log.Error().Err(err).Msg("user stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate user stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
