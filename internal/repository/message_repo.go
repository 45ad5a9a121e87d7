package repository

import (
	"errors"

	"github.com/studyhub/studyhub-backend/internal/common"
	"github.com/studyhub/studyhub-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(msg *domain.Message) error
	FindByID(id string) (*domain.Message, error)
	FindThread(courseID, userA, userB string, limit int) ([]*domain.Message, error)
	FindAllByUser(userID string) ([]*domain.Message, error)
	UpdateStatus(id string, from, to domain.MessageStatus) error
	BulkMarkSeen(courseID, readerID, counterpartID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create persists a new message row
func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

// FindByID finds a message by ID
func (r *messageRepository) FindByID(id string) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// FindThread returns all messages between two users in one course, oldest
// first. A positive limit bounds the fetch to the newest N messages while
// preserving ascending order.
func (r *messageRepository) FindThread(courseID, userA, userB string, limit int) ([]*domain.Message, error) {
	var messages []*domain.Message

	q := r.db.Where(
		"course_id = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
		courseID, userA, userB, userB, userA,
	)

	if limit > 0 {
		// fetch the newest slice, then flip back to chronological order
		err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
		return messages, nil
	}

	err := q.Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}

// FindAllByUser returns every message the user sent or received, newest
// first. Feeds the conversation aggregator.
func (r *messageRepository) FindAllByUser(userID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	return messages, err
}

// UpdateStatus advances a message's status. The WHERE guard on the current
// status makes the write race-safe: a concurrent transition that already
// moved the row leaves zero affected rows.
func (r *messageRepository) UpdateStatus(id string, from, to domain.MessageStatus) error {
	result := r.db.Model(&domain.Message{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrInvalidTransition
	}
	return nil
}

// BulkMarkSeen transitions every unseen message from counterpart to reader
// in one course to seen. Idempotent: zero affected rows is not an error.
func (r *messageRepository) BulkMarkSeen(courseID, readerID, counterpartID string) (int64, error) {
	result := r.db.Model(&domain.Message{}).
		Where("course_id = ? AND receiver_id = ? AND sender_id = ? AND status <> ?",
			courseID, readerID, counterpartID, domain.StatusSeen).
		Update("status", domain.StatusSeen)
	return result.RowsAffected, result.Error
}
