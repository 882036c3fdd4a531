// Package stubserver is a development stand-in for the remote post service.
// It serves the exact API surface the client consumes, backed by GORM, so
// integration tests and local development work without the real backend.
package stubserver

import "time"

// UserRow is a registered user.
type UserRow struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	ProfileImage string
	CreatedAt    time.Time
}

func (UserRow) TableName() string { return "users" }

// PostRow is an authored post. Shared-link previews are stored denormalized
// the way the real service delivers them.
type PostRow struct {
	ID                 string `gorm:"primaryKey"`
	UserID             string `gorm:"index;not null"`
	Message            string
	SharedURL          string
	PreviewTitle       string
	PreviewDescription string
	PreviewImage       string
	PreviewURL         string
	CreatedAt          time.Time
}

func (PostRow) TableName() string { return "posts" }

// LikeRow records one user liking one post.
type LikeRow struct {
	ID        string `gorm:"primaryKey"`
	PostID    string `gorm:"not null;uniqueIndex:idx_likes_post_user"`
	UserID    string `gorm:"not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time
}

func (LikeRow) TableName() string { return "likes" }

// CommentRow is a comment on a post. The API only exposes the counter.
type CommentRow struct {
	ID        string `gorm:"primaryKey"`
	PostID    string `gorm:"index;not null"`
	UserID    string `gorm:"not null"`
	Message   string
	CreatedAt time.Time
}

func (CommentRow) TableName() string { return "comments" }

// ShareRow is a repost. Its ID is the feed entry id of the repost wrapper.
type ShareRow struct {
	ID        string `gorm:"primaryKey"`
	PostID    string `gorm:"index;not null"`
	UserID    string `gorm:"not null"`
	CreatedAt time.Time
}

func (ShareRow) TableName() string { return "shares" }
