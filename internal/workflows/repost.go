package workflows

import (
	"context"

	"linkr/internal/observability"
)

const genericRepostNotice = "Error to repost!"

// RepostState returns the repost dialog state for a post.
func (w *Workflows) RepostState(postID string) DialogState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reposts[postID]
}

// RequestRepost opens the repost confirmation dialog.
func (w *Workflows) RequestRepost(postID string) {
	if _, ok := w.store.Get(postID); !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.reposts[postID] == DialogIdle {
		w.reposts[postID] = DialogConfirmPending
	}
}

// CancelRepost dismisses the dialog without mutating anything.
func (w *Workflows) CancelRepost(postID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.reposts[postID] == DialogConfirmPending {
		delete(w.reposts, postID)
	}
}

// ConfirmRepost issues the repost call. There is no optimistic repost-count
// bump: the count is only correct after the reload the success path
// triggers.
func (w *Workflows) ConfirmRepost(ctx context.Context, postID string) {
	if _, ok := w.store.Get(postID); !ok {
		return
	}

	w.mu.Lock()
	if w.reposts[postID] != DialogConfirmPending {
		w.mu.Unlock()
		return
	}
	w.reposts[postID] = DialogBusy
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		err := w.svc.Repost(ctx, postID)

		w.mu.Lock()
		delete(w.reposts, postID)
		w.mu.Unlock()

		if err != nil {
			observability.LogAsyncOperationError(ctx, "repost", err, map[string]interface{}{"post_id": postID})
			observability.WorkflowNotices.WithLabelValues("repost").Inc()
			w.notifyError(err, genericRepostNotice)
			return
		}
		w.triggerReload(ctx)
	}()
}
