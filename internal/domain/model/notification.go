//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Notification types.
const (
	NotificationSystem   = "system"
	NotificationApproval = "approval"
	NotificationListing  = "listing"
)

// Notification is a per-user inbox message.
type Notification struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Type      string    `json:"type"       db:"type"`
	Title     string    `json:"title"      db:"title"`
	Message   string    `json:"message"    db:"message"`
	IsRead    bool      `json:"is_read"    db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BroadcastRequest is an admin notification sent to every approved user.
type BroadcastRequest struct {
	Title   string
	Message string
}

// Validate checks the broadcast form.
func (r *BroadcastRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	if r.Title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(r.Title) > maxTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if r.Message == "" {
		return errors.New("message is required")
	}
	return nil
}

// Announcement is a public notice shown on the landing page and dashboard.
type Announcement struct {
	ID          string    `json:"id"           db:"id"`
	Title       string    `json:"title"        db:"title"`
	Content     string    `json:"content"      db:"content"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// AnnouncementInput is the admin announcement form.
type AnnouncementInput struct {
	Title       string
	Content     string
	IsPublished bool
}

// Validate checks the announcement form.
func (in *AnnouncementInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if strings.TrimSpace(in.Content) == "" {
		return errors.New("content is required")
	}
	return nil
}
