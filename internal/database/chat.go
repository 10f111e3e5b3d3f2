package database

import (
	"github.com/crossfun/backend/internal/models"
	"gorm.io/gorm"
)

const (
	ChatSortNewest  = "newest"
	ChatSortOldest  = "oldest"
	ChatSortPopular = "popular"
)

func (d *Database) SaveChatMessage(msg *models.ChatMessage) error {
	return d.db.Create(msg).Error
}

func (d *Database) GetChatMessage(id string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := d.db.Preload("Reactions").First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateChatMessage saves the message and rewrites its reactions, so
// in-memory React/RemoveReaction changes land in the store.
func (d *Database) UpdateChatMessage(msg *models.ChatMessage) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", msg.ID).Delete(&models.ChatReaction{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(msg).Error
	})
}

// ListTokenMessages returns visible messages for a token chat room.
// Popular ranks by like count.
func (d *Database) ListTokenMessages(addr models.Address, sort string, offset, limit int) ([]models.ChatMessage, int64, error) {
	query := d.db.Model(&models.ChatMessage{}).
		Where("token_address = ? AND is_deleted = ? AND is_moderated = ?", addr, false, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	switch sort {
	case ChatSortOldest:
		order = "created_at ASC"
	case ChatSortPopular:
		order = `(SELECT COUNT(*) FROM chat_reactions
			WHERE chat_reactions.message_id = chat_messages.id AND chat_reactions.kind = 'like') DESC,
			created_at DESC`
	}

	var messages []models.ChatMessage
	err := query.Preload("Reactions").Order(order).Offset(offset).Limit(limit).Find(&messages).Error
	return messages, total, err
}

func (d *Database) ListUserMessages(addr models.Address, offset, limit int) ([]models.ChatMessage, int64, error) {
	query := d.db.Model(&models.ChatMessage{}).
		Where("user_address = ? AND is_deleted = ?", addr, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ChatMessage
	err := query.Preload("Reactions").Order("created_at DESC").Offset(offset).Limit(limit).Find(&messages).Error
	return messages, total, err
}
