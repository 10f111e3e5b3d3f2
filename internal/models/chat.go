package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageType string

const (
	ChatText   ChatMessageType = "text"
	ChatImage  ChatMessageType = "image"
	ChatLink   ChatMessageType = "link"
	ChatSystem ChatMessageType = "system"
)

func (t ChatMessageType) Valid() bool {
	switch t {
	case ChatText, ChatImage, ChatLink, ChatSystem:
		return true
	}
	return false
}

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ChatMessage lives in a per-token chat room. Deletion and moderation are
// soft flags so moderators can audit removed content.
type ChatMessage struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TokenID      uuid.UUID `gorm:"type:uuid;index;not null" json:"tokenId"`
	TokenAddress Address   `gorm:"type:varchar(42);index;not null" json:"tokenAddress"`

	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	UserAddress Address   `gorm:"type:varchar(42);index" json:"userAddress"`
	Username    string    `gorm:"not null" json:"username"`

	Message     string          `gorm:"not null" json:"message"`
	MessageType ChatMessageType `gorm:"type:varchar(8);default:'text'" json:"messageType"`
	MediaURL    string          `json:"mediaUrl"`

	IsEdited  bool `json:"isEdited"`
	IsDeleted bool `gorm:"index" json:"isDeleted"`
	IsPinned  bool `json:"isPinned"`

	IsModerated      bool       `gorm:"index" json:"isModerated"`
	ModerationReason string     `json:"moderationReason,omitempty"`
	ModeratedBy      *uuid.UUID `gorm:"type:uuid" json:"moderatedBy,omitempty"`
	ModeratedAt      *time.Time `json:"moderatedAt,omitempty"`

	ReplyToID *uuid.UUID `gorm:"type:uuid;index" json:"replyTo,omitempty"`

	Reactions []ChatReaction `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"reactions"`

	ChainID int `gorm:"default:1" json:"chainId"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChatReaction is one user's like or dislike on a message. A user has at
// most one reaction per message.
type ChatReaction struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	MessageID   uuid.UUID    `gorm:"type:uuid;index:idx_reaction_msg_user,unique;not null" json:"-"`
	UserID      uuid.UUID    `gorm:"type:uuid;index:idx_reaction_msg_user,unique;not null" json:"userId"`
	UserAddress Address      `gorm:"type:varchar(42)" json:"userAddress"`
	Kind        ReactionKind `gorm:"type:varchar(8);not null" json:"kind"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (m *ChatMessage) countReactions(kind ReactionKind) int {
	n := 0
	for _, r := range m.Reactions {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

func (m *ChatMessage) LikeCount() int    { return m.countReactions(ReactionLike) }
func (m *ChatMessage) DislikeCount() int { return m.countReactions(ReactionDislike) }

// React sets the user's reaction, replacing an opposite one. Returns false
// when the same reaction already exists. The caller persists the message.
func (m *ChatMessage) React(userID uuid.UUID, addr Address, kind ReactionKind) bool {
	for i, r := range m.Reactions {
		if r.UserID != userID {
			continue
		}
		if r.Kind == kind {
			return false
		}
		m.Reactions[i].Kind = kind
		return true
	}
	m.Reactions = append(m.Reactions, ChatReaction{
		MessageID:   m.ID,
		UserID:      userID,
		UserAddress: addr,
		Kind:        kind,
	})
	return true
}

// RemoveReaction clears the user's reaction if any.
func (m *ChatMessage) RemoveReaction(userID uuid.UUID) bool {
	for i, r := range m.Reactions {
		if r.UserID == userID {
			m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
			return true
		}
	}
	return false
}

// Edit replaces the text and flags the message as edited.
func (m *ChatMessage) Edit(text string) {
	m.Message = text
	m.IsEdited = true
}

// Moderate hides the message with an audit trail.
func (m *ChatMessage) Moderate(reason string, moderatorID uuid.UUID, at time.Time) {
	m.IsModerated = true
	m.ModerationReason = reason
	m.ModeratedBy = &moderatorID
	m.ModeratedAt = &at
}
