// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the moderation state of a submission.
type PostStatus string

const (
	// StatusPending marks a submission waiting in the moderation queue.
	StatusPending PostStatus = "pending"
	// StatusApproved marks a submission cleared for the public feed.
	StatusApproved PostStatus = "approved"
)

// Post is an anonymous submission. It is never shown publicly until a
// moderator approves it, and it drops off the feed once the report counter
// reaches the auto-hide threshold.
type Post struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Nickname     string     `json:"nickname"`
	Age          int        `gorm:"not null" json:"age"`
	Contact      string     `gorm:"not null" json:"contact"`
	Intro        string     `gorm:"type:text;not null" json:"intro"`
	Status       PostStatus `gorm:"not null;default:pending;index" json:"status"`
	ReportsCount int        `gorm:"not null;default:0" json:"reports_count"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an opaque ID so submissions are not enumerable.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Visible reports whether the post belongs on the public feed under the
// given auto-hide threshold. Visibility is always computed, never stored.
func (p *Post) Visible(threshold int) bool {
	return p.Status == StatusApproved && p.ReportsCount < threshold
}
