// Package store owns the per-post view-state the feed renders from. Views
// are created when the feed controller seeds a page of posts and destroyed
// on the next full reload; a destroyed view absorbs late mutations as
// no-ops so stale network callbacks are always safe.
package store

import (
	"sync"

	"linkr/internal/likes"
	"linkr/internal/models"
)

// Store holds the view-state for every post currently in the feed, in feed
// order.
type Store struct {
	mu    sync.RWMutex
	order []string
	views map[string]*View
}

// New returns an empty store.
func New() *Store {
	return &Store{views: make(map[string]*View)}
}

// Seed replaces the whole feed with a fresh page of posts. Previous views
// are closed so callbacks still in flight against them become no-ops.
func (s *Store) Seed(posts []models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.views {
		v.close()
	}

	s.order = make([]string, 0, len(posts))
	s.views = make(map[string]*View, len(posts))
	for _, p := range posts {
		s.order = append(s.order, p.ID)
		s.views[p.ID] = newView(p)
	}
}

// Clear closes and drops every view.
func (s *Store) Clear() {
	s.Seed(nil)
}

// Get returns the live view for a post id.
func (s *Store) Get(postID string) (*View, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[postID]
	return v, ok
}

// Len returns the number of posts in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Snapshots returns a render-ready copy of every view in feed order.
func (s *Store) Snapshots() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Snapshot, 0, len(s.order))
	for _, id := range s.order {
		if v, ok := s.views[id]; ok {
			out = append(out, v.Snapshot())
		}
	}
	return out
}

// View is one post's mutable view-state. Only the like coordinator and the
// workflows mutate it, always through these methods, never cross-post.
type View struct {
	mu     sync.Mutex
	post   models.Post
	closed bool

	message      string
	likeCount    int
	likedByYou   bool
	likedFetched bool
	likedBy      []string // nil until the liker sample fetch completes
	commentCount int
	repostCount  int
}

func newView(p models.Post) *View {
	return &View{
		post:        p,
		message:     p.Message,
		likeCount:   p.LikesCount,
		repostCount: p.RepostsCount,
	}
}

// Snapshot is an immutable copy of a view for rendering. LikeSummary is
// recomputed from the like state on every snapshot.
type Snapshot struct {
	Post         models.Post
	Message      string
	LikeCount    int
	LikedByYou   bool
	LikedBy      []string
	LikeSummary  string
	CommentCount int
	RepostCount  int
}

// PostEntry returns the immutable feed entry this view was seeded from.
func (v *View) PostEntry() models.Post {
	return v.post
}

// ID returns the post id.
func (v *View) ID() string {
	return v.post.ID
}

// Closed reports whether the view has been torn down.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	var sample []string
	if v.likedBy != nil {
		sample = make([]string, len(v.likedBy))
		copy(sample, v.likedBy)
	}

	return Snapshot{
		Post:         v.post,
		Message:      v.message,
		LikeCount:    v.likeCount,
		LikedByYou:   v.likedByYou,
		LikedBy:      sample,
		LikeSummary:  likes.Summary(v.likeCount, sample, v.likedByYou),
		CommentCount: v.commentCount,
		RepostCount:  v.repostCount,
	}
}

// LikedByYou reports whether the current user has the post liked locally.
func (v *View) LikedByYou() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.likedByYou
}

// ApplyLike applies the optimistic like delta. The sample is only touched
// once its fetch has completed.
func (v *View) ApplyLike() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.likeCount++
	v.likedByYou = true
	if v.likedBy != nil {
		v.likedBy = append([]string{"you"}, v.likedBy...)
	}
}

// RollbackLike undoes ApplyLike after a rejected like call.
func (v *View) RollbackLike() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.likeCount--
	v.likedByYou = false
	if len(v.likedBy) > 0 {
		v.likedBy = v.likedBy[1:]
	}
}

// ApplyUnlike applies the optimistic unlike delta.
func (v *View) ApplyUnlike() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.likeCount--
	v.likedByYou = false
	if len(v.likedBy) > 0 {
		v.likedBy = v.likedBy[1:]
	}
}

// RollbackUnlike undoes ApplyUnlike after a rejected unlike call.
func (v *View) RollbackUnlike() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.likeCount++
	v.likedByYou = true
	if v.likedBy != nil {
		v.likedBy = append([]string{"you"}, v.likedBy...)
	}
}

// SetLikeStatus records the server's answer to "did the current user like
// this", from the mount-time fetch.
func (v *View) SetLikeStatus(liked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.likedByYou = liked
	v.likedFetched = true
}

// SetLikedBy records the fetched liker sample.
func (v *View) SetLikedBy(sample []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if sample == nil {
		sample = []string{}
	}
	v.likedBy = sample
}

// SetCommentCount records a fetched comment count.
func (v *View) SetCommentCount(count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.commentCount = count
}

// SetMessage replaces the message body after a confirmed edit (only used by
// tests and local-patch experiments; the shipped policy is a full reload).
func (v *View) SetMessage(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.message = message
}
