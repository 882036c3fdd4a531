// Package workflows implements the confirm-then-call-then-refresh state
// machines for deleting, reposting, and editing posts. Unlike the like
// coordinator these apply no optimistic mutation: the feed is only changed
// after the server confirms, via a full reload.
package workflows

import (
	"context"
	"sync"

	"linkr/internal/models"
	"linkr/internal/remote"
	"linkr/internal/store"
)

// Notifier surfaces blocking error notices to the user. The surrounding
// application provides the actual dialog widget.
type Notifier interface {
	Error(title, text string)
}

// noticeTitle matches the original product's error dialog title.
const noticeTitle = "Oops..."

// DialogState is the confirmation dialog state for delete and repost.
type DialogState int

const (
	// DialogIdle means no dialog is open for the post.
	DialogIdle DialogState = iota
	// DialogConfirmPending means the dialog is open and waiting for the
	// user's explicit confirm or dismiss; it never times out.
	DialogConfirmPending
	// DialogBusy means the remote call is in flight.
	DialogBusy
)

// EditState is the edit workflow state for a post.
type EditState int

const (
	EditViewing EditState = iota
	EditEditing
	EditSubmitting
)

// Key identifies the keystrokes the edit buffer reacts to.
type Key string

const (
	KeyEscape Key = "Escape"
	KeyEnter  Key = "Enter"
)

// Workflows drives the delete, repost, and edit state machines for the
// posts in a store.
type Workflows struct {
	svc      remote.Service
	store    *store.Store
	notifier Notifier
	reload   func(ctx context.Context)

	mu      sync.Mutex
	deletes map[string]DialogState
	reposts map[string]DialogState
	editors map[string]*editor

	wg sync.WaitGroup
}

type editor struct {
	state  EditState
	buffer string
}

// New returns workflows over the given store and remote service. reload is
// invoked after any confirmed mutation; the feed controller passes its own
// reload method.
func New(svc remote.Service, s *store.Store, notifier Notifier, reload func(ctx context.Context)) *Workflows {
	return &Workflows{
		svc:      svc,
		store:    s,
		notifier: notifier,
		reload:   reload,
		deletes:  make(map[string]DialogState),
		reposts:  make(map[string]DialogState),
		editors:  make(map[string]*editor),
	}
}

// Wait blocks until every in-flight workflow call has completed. Used on
// shutdown and in tests.
func (w *Workflows) Wait() {
	w.wg.Wait()
}

func (w *Workflows) notifyError(err error, generic string) {
	if w.notifier != nil {
		w.notifier.Error(noticeTitle, models.NoticeText(err, generic))
	}
}

func (w *Workflows) triggerReload(ctx context.Context) {
	if w.reload != nil {
		w.reload(ctx)
	}
}
