// Package domain defines the persistence models for chat messages, durable
// notifications, and portal users. These types are mapped with GORM and form
// the data layer of the communication core.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Sender roles recorded on chat messages. The role arrives pre-verified from
// the identity collaborator; the core stores it as-is.
const (
	RolePatient = "PATIENT"
	RoleDoctor  = "DOCTOR"
	RoleAdmin   = "ADMIN"
)

// Notification categories used by the push entry point.
const (
	CategoryChat        = "chat"
	CategoryAppointment = "appointment"
)

// ChatMessage represents one unit of communication inside a conversation.
// A message carries a text body, a binary attachment, or both. Messages are
// immutable once persisted; only the id and timestamp are server-assigned.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - ConversationKey: canonical key derived from the participant set;
//     indexed together with CreatedAt for ordered history queries.
//   - SenderID / SenderRole: the authenticated sender as supplied by the
//     identity collaborator.
//   - Text: optional message body.
//   - HasAttachment: true iff FileName, ContentType, Data, and Size are set.
//   - FileName / ContentType / Data / Size: the attachment, fully present or
//     fully absent.
type ChatMessage struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	ConversationKey string    `json:"conversation_key" gorm:"type:varchar(512);not null;index:idx_conv_msgs,priority:1"`
	SenderID        string    `json:"sender_id"        gorm:"type:varchar(64);not null;index"`
	SenderRole      string    `json:"sender_role"      gorm:"type:varchar(16);not null"`
	Text            string    `json:"text,omitempty"   gorm:"type:text"`
	HasAttachment   bool      `json:"has_attachment"   gorm:"not null;default:false"`
	FileName        string    `json:"file_name,omitempty"    gorm:"type:varchar(255)"`
	ContentType     string    `json:"content_type,omitempty" gorm:"type:varchar(128)"`
	Data            []byte    `json:"-"                gorm:"type:blob"`
	Size            int64     `json:"size,omitempty"`
	CreatedAt       time.Time `json:"created_at"       gorm:"index:idx_conv_msgs,priority:2"`
}

// TableName returns the database table name for ChatMessage.
func (ChatMessage) TableName() string { return "chat_messages" }

// Notification is a durable record of a pushed event. It is written on every
// push regardless of whether the target had a live channel, so the inbox is a
// complete history. Only the read flag mutates after creation.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: the single target user; indexed for inbox queries.
//   - Category: event source, e.g. "chat" or "appointment".
//   - Title / Body: human-readable content composed by the event source.
//   - Read: read-state flag, flipped by the inbox API.
type Notification struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"  gorm:"type:varchar(64);not null;index:idx_user_notifs,priority:1"`
	Category  string         `json:"category" gorm:"type:varchar(32);not null"`
	Title     string         `json:"title"    gorm:"type:varchar(255);not null"`
	Body      string         `json:"body"     gorm:"type:text;not null"`
	Read      bool           `json:"read"     gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_user_notifs,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// User is the minimal slice of the portal's user table the communication core
// reads when resolving recipient specifications. The table is owned and
// written by the (external) identity collaborator; the core never mutates it.
type User struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Username  string    `json:"username"  gorm:"type:varchar(64);not null;uniqueIndex"`
	Role      string    `json:"role"      gorm:"type:varchar(16);not null"`
	FullName  string    `json:"full_name" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
