// Package feed owns the list of posts: loading it from the remote service,
// the load/failed/retry cycle, and publishing new posts. Only the controller
// ever replaces the list; per-post state lives in the store and is mutated
// by the coordinator and workflows.
package feed

import (
	"context"
	"sync"

	"linkr/internal/engine"
	"linkr/internal/models"
	"linkr/internal/observability"
	"linkr/internal/remote"
	"linkr/internal/store"
	"linkr/internal/workflows"
)

// EmptyFeedMessage is the text shown when a load succeeds with zero posts.
const EmptyFeedMessage = "There are no posts yet"

const (
	noticeTitle          = "Oops..."
	genericPublishNotice = "Publish error!"
)

// Phase is the controller's load state. An empty result is its own phase,
// not a failure.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseEmpty
	PhaseFailed
)

// Controller loads pages of posts and seeds the store with them. A reload
// replaces the whole list; views of posts that disappeared are closed by the
// store so their late callbacks become no-ops.
type Controller struct {
	svc      remote.Service
	store    *store.Store
	coord    *engine.Coordinator
	notifier workflows.Notifier

	mu      sync.Mutex
	phase   Phase
	loadErr error
	hashtag string
	limit   int

	wg sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageLimit overrides the timeline page size.
func WithPageLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithNotifier sets the dialog collaborator used for publish failures.
func WithNotifier(n workflows.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// NewController returns a controller over the given store and coordinator.
func NewController(svc remote.Service, s *store.Store, coord *engine.Coordinator, opts ...Option) *Controller {
	c := &Controller{
		svc:   svc,
		store: s,
		coord: coord,
		limit: 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase returns the current load phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Err returns the error from the last failed load, nil otherwise.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Posts returns snapshots of the current feed in server order.
func (c *Controller) Posts() []store.Snapshot {
	return c.store.Snapshots()
}

// SetHashtag switches the controller to the by-hashtag filter. It does not
// load; call Load after changing the filter.
func (c *Controller) SetHashtag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashtag = tag
}

// ClearHashtag returns the controller to the global timeline.
func (c *Controller) ClearHashtag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashtag = ""
}

// Load fetches a page under the current filter and replaces the feed with
// it. On failure the previous list is kept on screen and the controller
// moves to PhaseFailed; Retry clears that by loading again. Every post in a
// successful page is primed for its like status and liker sample.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	c.phase = PhaseLoading
	c.loadErr = nil
	filter := remote.Filter{Hashtag: c.hashtag, Limit: c.limit}
	c.mu.Unlock()

	posts, err := c.svc.FetchFeed(ctx, filter)
	if err != nil {
		observability.FeedLoads.WithLabelValues("failure").Inc()
		observability.LogAsyncOperationError(ctx, "feed_load", err, map[string]interface{}{"hashtag": filter.Hashtag})
		c.mu.Lock()
		c.phase = PhaseFailed
		c.loadErr = err
		c.mu.Unlock()
		return
	}

	c.store.Seed(posts)

	c.mu.Lock()
	if len(posts) == 0 {
		c.phase = PhaseEmpty
	} else {
		c.phase = PhaseLoaded
	}
	c.mu.Unlock()

	if len(posts) == 0 {
		observability.FeedLoads.WithLabelValues("empty").Inc()
		return
	}
	observability.FeedLoads.WithLabelValues("success").Inc()

	for _, p := range posts {
		c.coord.Prime(ctx, p.ID)
	}
}

// Retry re-invokes the fetch after a failed load.
func (c *Controller) Retry(ctx context.Context) {
	c.Load(ctx)
}

// Publish creates a new post from a shared URL and a message, then reloads
// the feed so the new entry appears. Failures surface a notice and leave
// the list untouched.
func (c *Controller) Publish(ctx context.Context, sharedURL, message string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		if err := c.svc.Publish(ctx, sharedURL, message); err != nil {
			observability.LogAsyncOperationError(ctx, "publish_post", err, nil)
			observability.WorkflowNotices.WithLabelValues("publish").Inc()
			c.notifyError(err, genericPublishNotice)
			return
		}
		c.Load(ctx)
	}()
}

// Wait blocks until in-flight publishes have completed. Used on shutdown
// and in tests.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) notifyError(err error, generic string) {
	if c.notifier != nil {
		c.notifier.Error(noticeTitle, models.NoticeText(err, generic))
	}
}
