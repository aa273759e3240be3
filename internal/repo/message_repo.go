// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ChatMessage
// model: the append/history/attachment surface of the chat store.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Error semantics:
//   - When a message is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Persistence is all-or-nothing per message: a row only becomes visible to
// history readers after its insert (including attachment bytes) committed,
// so concurrent downloads never observe a partial write.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carewire/go-hospital-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateMessage persists a new chat message, assigning a UUID and a UTC
// timestamp when absent. The passed message is returned with the generated
// fields filled in.
func CreateMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns the messages of a conversation ordered by insertion
// (CreatedAt ASC, ID ASC as a deterministic tiebreaker). A limit of 0 means
// the full history. Attachment bytes are excluded from the result; clients
// fetch them through GetAttachment.
func ListMessages(ctx context.Context, db *gorm.DB, key string, offset, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	q := db.WithContext(ctx).
		Omit("data").
		Where("conversation_key = ?", key).
		Order("created_at ASC, id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMessages returns the total number of messages in a conversation.
func CountMessages(ctx context.Context, db *gorm.DB, key string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("conversation_key = ?", key).
		Count(&total).Error
	return total, err
}

// GetMessage fetches a message by ID, including attachment bytes.
// Returns ErrNotFound when the row does not exist.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetAttachment fetches the attachment of a message. It returns ErrNotFound
// when the message does not exist or carries no attachment.
func GetAttachment(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMessage, error) {
	m, err := GetMessage(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if !m.HasAttachment {
		return nil, ErrNotFound
	}
	return m, nil
}
