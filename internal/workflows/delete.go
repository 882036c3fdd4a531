package workflows

import (
	"context"

	"linkr/internal/cache"
	"linkr/internal/observability"
)

// genericDeleteNotice is shown when a delete fails without a classified
// server message.
const genericDeleteNotice = "Error to delete post!"

// DeleteState returns the delete dialog state for a post.
func (w *Workflows) DeleteState(postID string) DialogState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deletes[postID]
}

// RequestDelete opens the delete confirmation dialog for a post. The dialog
// binds to exactly this post id until dismissed or confirmed.
func (w *Workflows) RequestDelete(postID string) {
	if _, ok := w.store.Get(postID); !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.deletes[postID] == DialogIdle {
		w.deletes[postID] = DialogConfirmPending
	}
}

// CancelDelete dismisses the dialog without mutating anything.
func (w *Workflows) CancelDelete(postID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.deletes[postID] == DialogConfirmPending {
		delete(w.deletes, postID)
	}
}

// ConfirmDelete issues the delete call. Repost wrappers are deleted through
// the share endpoint, plain posts through the post endpoint. On success the
// dialog closes and the feed reloads; on failure the dialog closes, the
// list is untouched, and a notice is surfaced.
func (w *Workflows) ConfirmDelete(ctx context.Context, postID string) {
	view, ok := w.store.Get(postID)
	if !ok {
		return
	}

	w.mu.Lock()
	if w.deletes[postID] != DialogConfirmPending {
		w.mu.Unlock()
		return
	}
	w.deletes[postID] = DialogBusy
	w.mu.Unlock()

	entry := view.PostEntry()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		var err error
		if entry.IsRepost() {
			err = w.svc.DeleteRepost(ctx, entry.ID)
		} else {
			err = w.svc.DeletePost(ctx, entry.ID)
		}

		w.mu.Lock()
		delete(w.deletes, postID)
		w.mu.Unlock()

		if err != nil {
			observability.LogAsyncOperationError(ctx, "delete_post", err, map[string]interface{}{"post_id": postID})
			observability.WorkflowNotices.WithLabelValues("delete").Inc()
			w.notifyError(err, genericDeleteNotice)
			return
		}
		cache.InvalidateCommentCount(ctx, postID)
		w.triggerReload(ctx)
	}()
}
