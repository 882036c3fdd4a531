// Package engine implements the optimistic like/unlike coordinator: it
// mutates local view-state before the network answers and reconciles with
// the eventual success or failure of the remote call.
package engine

import (
	"context"
	"sync"

	"linkr/internal/auth"
	"linkr/internal/cache"
	"linkr/internal/observability"
	"linkr/internal/remote"
	"linkr/internal/store"
)

// Coordinator drives like state for the posts in a store. One coordinator
// serves the whole feed; per-post consistency comes from the view's own
// locking, and a view torn down by a reload absorbs late completions.
type Coordinator struct {
	svc         remote.Service
	store       *store.Store
	sampleLimit int
	onChange    func(postID string)

	wg sync.WaitGroup
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSampleLimit caps the liker sample fetch. Default is 3.
func WithSampleLimit(limit int) Option {
	return func(c *Coordinator) {
		if limit > 0 {
			c.sampleLimit = limit
		}
	}
}

// WithChangeListener registers a callback invoked after every like-related
// state change, so the UI can re-render the post.
func WithChangeListener(fn func(postID string)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

// NewCoordinator returns a coordinator over the given store and remote
// service.
func NewCoordinator(svc remote.Service, s *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		svc:         svc,
		store:       s,
		sampleLimit: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wait blocks until every in-flight completion has been applied. Used on
// shutdown and in tests; the interactive path never calls it.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) notify(postID string) {
	if c.onChange != nil {
		c.onChange(postID)
	}
}

// Prime runs the mount-time fetches for a post: whether the current user
// already liked it and a capped sample of liker names, with the current
// user's own name shown as "you" at the front. Both fetches fail silently;
// there is no optimistic state to roll back yet.
func (c *Coordinator) Prime(ctx context.Context, postID string) {
	view, ok := c.store.Get(postID)
	if !ok {
		return
	}

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		liked, err := c.svc.FetchLikeStatus(ctx, postID)
		if err != nil {
			observability.SilentFetchFailures.WithLabelValues("like_status").Inc()
			return
		}
		view.SetLikeStatus(liked)
		c.notify(postID)
		c.refreshCommentCount(ctx, postID)
	}()

	go func() {
		defer c.wg.Done()
		sample, err := c.svc.FetchLikeSample(ctx, postID, c.sampleLimit)
		if err != nil {
			observability.SilentFetchFailures.WithLabelValues("like_sample").Inc()
			return
		}
		if user := auth.UserFrom(ctx); user != nil && len(sample) > 0 && sample[0] == user.Username {
			sample[0] = "you"
		}
		view.SetLikedBy(sample)
		c.notify(postID)
	}()
}

// ToggleLike flips the post's like state: the local delta lands before the
// remote call is issued, and a rejected call rolls the exact inverse delta
// back. The caller gets feedback instantly and is never told about a
// rollback; the next full reload reconciles with the server. Rapid toggles
// deliberately race each other (last local state wins).
func (c *Coordinator) ToggleLike(ctx context.Context, postID string) {
	view, ok := c.store.Get(postID)
	if !ok {
		return
	}

	ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())

	if view.LikedByYou() {
		c.unlike(ctx, view)
	} else {
		c.like(ctx, view)
	}
}

func (c *Coordinator) like(ctx context.Context, view *store.View) {
	postID := view.ID()

	view.ApplyLike()
	observability.OptimisticApplies.WithLabelValues("like").Inc()
	c.notify(postID)
	c.refreshCommentCount(ctx, postID)

	observability.LogAsyncOperationStart(ctx, "like", map[string]interface{}{"post_id": postID})
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.svc.Like(ctx, postID); err != nil {
			observability.LogAsyncOperationError(ctx, "like", err, map[string]interface{}{"post_id": postID})
			view.RollbackLike()
			observability.OptimisticRollbacks.WithLabelValues("like").Inc()
			c.notify(postID)
			c.refreshCommentCount(ctx, postID)
			return
		}
		// Confirmed: the optimistic state already matches the server.
		observability.LogAsyncOperationEnd(ctx, "like", map[string]interface{}{"post_id": postID})
	}()
}

func (c *Coordinator) unlike(ctx context.Context, view *store.View) {
	postID := view.ID()

	view.ApplyUnlike()
	observability.OptimisticApplies.WithLabelValues("unlike").Inc()
	c.notify(postID)
	c.refreshCommentCount(ctx, postID)

	observability.LogAsyncOperationStart(ctx, "unlike", map[string]interface{}{"post_id": postID})
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.svc.Unlike(ctx, postID); err != nil {
			observability.LogAsyncOperationError(ctx, "unlike", err, map[string]interface{}{"post_id": postID})
			view.RollbackUnlike()
			observability.OptimisticRollbacks.WithLabelValues("unlike").Inc()
			c.notify(postID)
			c.refreshCommentCount(ctx, postID)
			return
		}
		observability.LogAsyncOperationEnd(ctx, "unlike", map[string]interface{}{"post_id": postID})
	}()
}

// refreshCommentCount re-fetches the comment counter. The trigger is any
// like-related state change rather than comment activity, a coarse but
// deliberate invalidation policy; the short cache TTL absorbs the bursts
// this produces. Failures leave the previous count displayed.
func (c *Coordinator) refreshCommentCount(ctx context.Context, postID string) {
	view, ok := c.store.Get(postID)
	if !ok {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		var count int
		err := cache.Aside(ctx, cache.CommentCountKey(postID), &count, cache.CommentCountTTL, func() error {
			fetched, fetchErr := c.svc.FetchCommentCount(ctx, postID)
			if fetchErr != nil {
				return fetchErr
			}
			count = fetched
			return nil
		})
		if err != nil {
			observability.SilentFetchFailures.WithLabelValues("comment_count").Inc()
			return
		}
		view.SetCommentCount(count)
		c.notify(postID)
	}()
}
