package repository

import (
	"time"

	"github.com/localmart/localmart/app/models"
	"gorm.io/gorm"
)

// messageRepository implements the MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Inbox retrieves messages addressed to a user, newest first
func (r *messageRepository) Inbox(userID uint, offset, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("recipient_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&messages).Error
	return messages, err
}

// Thread retrieves the conversation between two users, oldest first
func (r *messageRepository) Thread(userA, userB uint, offset, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		userA, userB, userB, userA,
	).Order("created_at ASC").Offset(offset).Limit(limit).Find(&messages).Error
	return messages, err
}

// MarkRead stamps read_at on a message
func (r *messageRepository) MarkRead(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Message{}).Where("id = ? AND read_at IS NULL", id).
		Update("read_at", &now).Error
}

// CountUnread returns the number of unread messages in a user's inbox
func (r *messageRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
