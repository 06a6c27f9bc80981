package models

import "time"

// Moderator is an admin account that can review the moderation queue.
// Access to moderation actions is still gated by the configured email
// allow-list, so a stale row alone grants nothing.
type Moderator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ModerationAction is an audit row recording a moderator decision.
type ModerationAction struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ModeratorEmail string    `gorm:"not null;index" json:"moderator_email"`
	Action         string    `gorm:"not null" json:"action"`
	PostID         string    `gorm:"not null;index;size:36" json:"post_id"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	ActionApprove   = "approve"
	ActionUnapprove = "unapprove"
	ActionDelete    = "delete"
)
