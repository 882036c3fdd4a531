// Package models contains data structures for the feed engine's domain.
package models

// Post is a feed entry as delivered by the remote post service.
//
// Identity fields are immutable for the entry's lifetime; counters and the
// message body are the seed values for the per-post view-state, which owns
// all further mutation.
type Post struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
	Message      string `json:"message"`
	LikesCount   int    `json:"likesCount"`
	RepostsCount int    `json:"repostsCount"`

	// RepostUserID and RepostUsername are set iff this entry is a repost
	// wrapper. Delete permission then attaches to the reposting user.
	RepostUserID   string `json:"repostUserId,omitempty"`
	RepostUsername string `json:"repostUsername,omitempty"`

	PreviewTitle       string `json:"previewTitle,omitempty"`
	PreviewDescription string `json:"previewDescription,omitempty"`
	PreviewImage       string `json:"previewImage,omitempty"`
	PreviewURL         string `json:"previewUrl,omitempty"`
	SharedURL          string `json:"sharedUrl,omitempty"`
}

// IsRepost reports whether the entry is a repost wrapper.
func (p *Post) IsRepost() bool {
	return p.RepostUserID != ""
}

// HasRichPreview reports whether the shared link resolved to a rich preview.
// When false only SharedURL is populated.
func (p *Post) HasRichPreview() bool {
	return p.PreviewTitle != ""
}

// CanEdit reports whether the given user may edit this entry. Repost
// wrappers are never editable.
func (p *Post) CanEdit(userID string) bool {
	return !p.IsRepost() && p.UserID == userID
}

// CanDelete reports whether the given user may delete this entry.
func (p *Post) CanDelete(userID string) bool {
	if p.IsRepost() {
		return p.RepostUserID == userID
	}
	return p.UserID == userID
}
