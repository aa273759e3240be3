// Package services – ChatService
//
// This file implements the ChatService, the orchestrator of the send path:
// resolve the participant set, derive the canonical conversation key,
// authorize the requester, persist the message, and push a notification to
// every other participant. Reads (history, attachment download) run the same
// authorization before touching storage.
//
// Predictable failures are returned as sentinel errors so handlers can map
// them to HTTP results consistently: conversation.ErrInvalidParticipants,
// conversation.ErrNotMember, repo.ErrNotFound, ErrEmptyMessage,
// ErrNoAttachment.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/carewire/go-hospital-backend/internal/conversation"
	"github.com/carewire/go-hospital-backend/internal/domain"
)

// MessageRepo defines the persistence contract required by ChatService.
type MessageRepo interface {
	// CreateMessage persists a message, assigning id and timestamp.
	CreateMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) (*domain.ChatMessage, error)

	// ListMessages returns a conversation's messages oldest first.
	// limit 0 means the full history.
	ListMessages(ctx context.Context, db *gorm.DB, key string, offset, limit int) ([]domain.ChatMessage, error)

	// CountMessages returns the total message count of a conversation.
	CountMessages(ctx context.Context, db *gorm.DB, key string) (int64, error)

	// GetAttachment fetches a message including attachment bytes, failing
	// with repo.ErrNotFound when missing or attachment-less.
	GetAttachment(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMessage, error)
}

// UserDirectory answers username-existence lookups against the portal's user
// table. It is the identity collaborator's read-only boundary.
type UserDirectory interface {
	UserExists(ctx context.Context, db *gorm.DB, username string) (bool, error)
}

// Pusher is the hub entry point the chat path delivers through.
type Pusher interface {
	Push(ctx context.Context, userID, category, title, body string)
}

// ChatService orchestrates conversation identity, authorization, message
// persistence, and live notification for the chat surface.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the message repository used by this service.
	Repo MessageRepo
	// Users resolves recipient usernames.
	Users UserDirectory
	// Guard authorizes requesters against conversation keys.
	Guard conversation.Guard
	// Hub receives one push per non-sender participant on every send.
	Hub Pusher

	// PreviewMaxLen caps the notification body preview by rune length.
	PreviewMaxLen int
}

// NewChatService constructs a ChatService with default preview handling.
func NewChatService(db *gorm.DB, repo MessageRepo, users UserDirectory, hub Pusher) *ChatService {
	return &ChatService{
		DB:            db,
		Repo:          repo,
		Users:         users,
		Hub:           hub,
		PreviewMaxLen: 80,
	}
}

// StartConversation resolves a free-form recipient specification (comma or
// whitespace separated usernames) plus the requester into a participant set
// and returns its canonical key.
//
// Unknown usernames are dropped during resolution; when fewer than two
// distinct participants remain, conversation.ErrInvalidParticipants is
// returned.
func (s *ChatService) StartConversation(ctx context.Context, requesterID, recipientSpec string) (string, error) {
	participants := []string{requesterID}
	for _, name := range splitRecipients(recipientSpec) {
		if name == requesterID {
			continue
		}
		ok, err := s.Users.UserExists(ctx, s.DB, name)
		if err != nil {
			return "", err
		}
		if ok {
			participants = append(participants, name)
		}
	}
	return conversation.DeriveKey(participants)
}

// SendMessage authorizes the sender, persists a text message, and notifies
// every other participant with a chat-category push.
func (s *ChatService) SendMessage(ctx context.Context, senderID, senderRole, key, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.Guard.Authorize(senderID, key); err != nil {
		return nil, err
	}

	m, err := s.Repo.CreateMessage(ctx, s.DB, &domain.ChatMessage{
		ConversationKey: key,
		SenderID:        senderID,
		SenderRole:      senderRole,
		Text:            text,
	})
	if err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, m, s.preview(text))
	return m, nil
}

// UploadAttachment authorizes the sender, persists a message carrying binary
// content (and an optional caption), and notifies the other participants.
// The attachment is stored fully or not at all.
func (s *ChatService) UploadAttachment(ctx context.Context, senderID, senderRole, key, fileName, contentType string, data []byte, caption string) (*domain.ChatMessage, error) {
	if fileName == "" || contentType == "" || len(data) == 0 {
		return nil, ErrNoAttachment
	}
	if err := s.Guard.Authorize(senderID, key); err != nil {
		return nil, err
	}

	m, err := s.Repo.CreateMessage(ctx, s.DB, &domain.ChatMessage{
		ConversationKey: key,
		SenderID:        senderID,
		SenderRole:      senderRole,
		Text:            strings.TrimSpace(caption),
		HasAttachment:   true,
		FileName:        fileName,
		ContentType:     contentType,
		Data:            data,
		Size:            int64(len(data)),
	})
	if err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, m, "sent an attachment: "+fileName)
	return m, nil
}

// GetHistory returns a conversation's messages oldest first, after checking
// that the requester is a participant. limit 0 returns the full history.
func (s *ChatService) GetHistory(ctx context.Context, requesterID, key string, offset, limit int) ([]domain.ChatMessage, error) {
	if err := s.Guard.Authorize(requesterID, key); err != nil {
		return nil, err
	}
	return s.Repo.ListMessages(ctx, s.DB, key, offset, limit)
}

// History returns a conversation's messages with the total count, for
// paginated responses.
func (s *ChatService) History(ctx context.Context, requesterID, key string, offset, limit int) ([]domain.ChatMessage, int64, error) {
	if err := s.Guard.Authorize(requesterID, key); err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountMessages(ctx, s.DB, key)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Repo.ListMessages(ctx, s.DB, key, offset, limit)
	return items, total, err
}

// DownloadAttachment fetches a message's attachment by message id and checks
// that the requester belongs to the message's conversation. The lookup runs
// first because the conversation key is only known from the stored row; a
// non-member receives conversation.ErrNotMember, not the row.
func (s *ChatService) DownloadAttachment(ctx context.Context, requesterID, messageID string) (*domain.ChatMessage, error) {
	m, err := s.Repo.GetAttachment(ctx, s.DB, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.Guard.Authorize(requesterID, m.ConversationKey); err != nil {
		return nil, err
	}
	return m, nil
}

// notifyParticipants pushes a chat notification to every participant of the
// message's conversation except the sender.
func (s *ChatService) notifyParticipants(ctx context.Context, m *domain.ChatMessage, body string) {
	if s.Hub == nil {
		return
	}
	title := "New message from " + m.SenderID
	for _, p := range conversation.Participants(m.ConversationKey) {
		if p == m.SenderID {
			continue
		}
		s.Hub.Push(ctx, p, domain.CategoryChat, title, body)
	}
}

// preview truncates a notification body preview to the configured maximum
// rune length.
func (s *ChatService) preview(text string) string {
	if s.PreviewMaxLen > 0 && utf8.RuneCountInString(text) > s.PreviewMaxLen {
		return string([]rune(text)[:s.PreviewMaxLen]) + "…"
	}
	return text
}

// splitRecipients parses a free-form recipient specification on commas and
// whitespace, dropping empty tokens.
func splitRecipients(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
