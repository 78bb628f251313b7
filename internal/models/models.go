// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a chat participant. Users are created lazily on their first
// successful message post; the display name is unique and the id never changes
// once assigned.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:20;not null" json:"username"`
	CreatedAt    time.Time `json:"joinDate"`
	LastActiveAt time.Time `json:"lastActive"`
}

// BeforeCreate assigns a UUID if the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Attachment describes an uploaded file linked to a message. The storage
// bucket owns the bytes; the message only carries the descriptor.
type Attachment struct {
	URL  string `gorm:"size:512" json:"url"`
	Name string `gorm:"size:255" json:"name"`
	Type string `gorm:"size:100" json:"type"`
	Size int64  `json:"size"`
}

// Message is a single chat message. The username is denormalized at write
// time so rendering never needs a join; rows are immutable after creation
// except for administrative deletion.
type Message struct {
	ID         string      `gorm:"primaryKey;size:36" json:"id"`
	UserID     string      `gorm:"index;size:36;not null" json:"userId"`
	Username   string      `gorm:"size:20;not null" json:"username"`
	Body       string      `gorm:"type:text;not null" json:"message"`
	IP         string      `gorm:"size:64" json:"ip,omitempty"`
	Attachment *Attachment `gorm:"embedded;embeddedPrefix:attachment_" json:"attachment,omitempty"`
	CreatedAt  time.Time   `gorm:"index" json:"timestamp"`
}

// BeforeCreate assigns a UUID if the caller did not set one.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
