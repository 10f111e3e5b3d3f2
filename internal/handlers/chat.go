package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crossfun/backend/internal/database"
	"github.com/crossfun/backend/internal/handlers/dto"
	"github.com/crossfun/backend/internal/logger"
	"github.com/crossfun/backend/internal/middleware"
	"github.com/crossfun/backend/internal/models"
	ws "github.com/crossfun/backend/internal/websocket"
)

type ChatHandler struct {
	db  *database.Database
	hub *ws.Hub
	log *logger.Logger
}

func NewChatHandler(db *database.Database, hub *ws.Hub, log *logger.Logger) *ChatHandler {
	return &ChatHandler{db: db, hub: hub, log: log}
}

// Messages returns a page of a token's chat, sorted newest, oldest or
// popular. Deleted and moderated messages are hidden.
func (h *ChatHandler) Messages(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("tokenAddress"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := parsePageParams(c, "createdAt")
	sort := c.DefaultQuery("sort", database.ChatSortNewest)

	messages, total, err := h.db.ListTokenMessages(addr, sort, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("list chat messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "pagination": pagination(p, total)})
}

// Post creates a chat message in a token room and fans it out live.
func (h *ChatHandler) Post(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req dto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr, err := models.ParseAddress(req.TokenAddress)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msgType := models.ChatMessageType(req.Type)
	if req.Type == "" {
		msgType = models.ChatText
	}
	if !msgType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message type"})
		return
	}

	token, err := h.db.GetTokenByAddress(addr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "token not found"})
			return
		}
		h.log.Error().Err(err).Msg("post message: load token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
		return
	}

	msg := &models.ChatMessage{
		TokenID:      token.ID,
		TokenAddress: addr,
		UserID:       user.ID,
		Username:     user.Username,
		Message:      req.Content,
		MessageType:  msgType,
		ChainID:      token.ChainID,
	}
	if w := user.PrimaryWallet(); w != nil {
		msg.UserAddress = w.Address
	}

	if req.ReplyToID != nil {
		replyID, err := uuid.Parse(*req.ReplyToID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reply id"})
			return
		}
		parent, err := h.db.GetChatMessage(replyID.String())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "reply target not found"})
			return
		}
		if parent.TokenAddress != addr {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reply target belongs to another token"})
			return
		}
		msg.ReplyToID = &replyID
	}

	if err := h.db.SaveChatMessage(msg); err != nil {
		h.log.Error().Err(err).Msg("post message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
		return
	}

	h.hub.BroadcastToRoom(addr, ws.EventChatMessage, msg)
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// loadOwnedMessage fetches a message and checks the caller may touch it:
// the author, or a moderator when modOverride is set.
func (h *ChatHandler) loadOwnedMessage(c *gin.Context, modOverride bool) (*models.ChatMessage, *models.User, bool) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return nil, nil, false
	}

	msg, err := h.db.GetChatMessage(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return nil, nil, false
		}
		h.log.Error().Err(err).Msg("load message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load message"})
		return nil, nil, false
	}

	if msg.UserID != user.ID {
		if !(modOverride && user.Role.AtLeast(models.RoleModerator)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not the message author"})
			return nil, nil, false
		}
	}
	return msg, user, true
}

// Edit replaces the message text; only the author may edit.
func (h *ChatHandler) Edit(c *gin.Context) {
	msg, _, ok := h.loadOwnedMessage(c, false)
	if !ok {
		return
	}

	var req dto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg.Edit(req.Content)
	if err := h.db.UpdateChatMessage(msg); err != nil {
		h.log.Error().Err(err).Msg("edit message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		return
	}

	h.hub.BroadcastToRoom(msg.TokenAddress, ws.EventChatEdited, msg)
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Delete soft-deletes a message; author or moderator+.
func (h *ChatHandler) Delete(c *gin.Context) {
	msg, _, ok := h.loadOwnedMessage(c, true)
	if !ok {
		return
	}

	msg.IsDeleted = true
	if err := h.db.UpdateChatMessage(msg); err != nil {
		h.log.Error().Err(err).Msg("delete message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
		return
	}

	h.hub.BroadcastToRoom(msg.TokenAddress, ws.EventChatDeleted, gin.H{"id": msg.ID})
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

func (h *ChatHandler) react(c *gin.Context, kind models.ReactionKind) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	msg, err := h.db.GetChatMessage(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		h.log.Error().Err(err).Msg("react: load message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load message"})
		return
	}

	var addr models.Address
	if w := user.PrimaryWallet(); w != nil {
		addr = w.Address
	}

	if !msg.React(user.ID, addr, kind) {
		c.JSON(http.StatusConflict, gin.H{"error": "reaction already set"})
		return
	}
	if err := h.db.UpdateChatMessage(msg); err != nil {
		h.log.Error().Err(err).Msg("react: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		return
	}

	h.hub.BroadcastToRoom(msg.TokenAddress, ws.EventChatReaction, gin.H{
		"id":       msg.ID,
		"likes":    msg.LikeCount(),
		"dislikes": msg.DislikeCount(),
	})
	c.JSON(http.StatusOK, gin.H{
		"message":  "reaction recorded",
		"likes":    msg.LikeCount(),
		"dislikes": msg.DislikeCount(),
	})
}

func (h *ChatHandler) Like(c *gin.Context)    { h.react(c, models.ReactionLike) }
func (h *ChatHandler) Dislike(c *gin.Context) { h.react(c, models.ReactionDislike) }

// RemoveReaction clears the caller's reaction from a message.
func (h *ChatHandler) RemoveReaction(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	msg, err := h.db.GetChatMessage(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		h.log.Error().Err(err).Msg("remove reaction: load message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load message"})
		return
	}

	if !msg.RemoveReaction(user.ID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reaction to remove"})
		return
	}
	if err := h.db.UpdateChatMessage(msg); err != nil {
		h.log.Error().Err(err).Msg("remove reaction: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		return
	}

	h.hub.BroadcastToRoom(msg.TokenAddress, ws.EventChatReaction, gin.H{
		"id":       msg.ID,
		"likes":    msg.LikeCount(),
		"dislikes": msg.DislikeCount(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "reaction removed"})
}

// Moderate hides a message with an audit reason; moderator and up.
func (h *ChatHandler) Moderate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	var req dto.ModerateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.db.GetChatMessage(id.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		h.log.Error().Err(err).Msg("moderate: load message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load message"})
		return
	}

	msg.Moderate(req.Reason, user.ID, time.Now())
	if err := h.db.UpdateChatMessage(msg); err != nil {
		h.log.Error().Err(err).Msg("moderate: persist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update message"})
		return
	}

	h.hub.BroadcastToRoom(msg.TokenAddress, ws.EventChatModerated, gin.H{"id": msg.ID})
	c.JSON(http.StatusOK, gin.H{"message": "message moderated"})
}

// ByUser lists a wallet's chat history across all tokens.
func (h *ChatHandler) ByUser(c *gin.Context) {
	addr, err := models.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := parsePageParams(c, "createdAt")
	messages, total, err := h.db.ListUserMessages(addr, p.Offset(), p.PageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("messages by user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "pagination": pagination(p, total)})
}
