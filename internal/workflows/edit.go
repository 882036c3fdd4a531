package workflows

import (
	"context"

	"linkr/internal/auth"
	"linkr/internal/models"
	"linkr/internal/observability"
)

// EditSnapshot is the edit workflow state the UI renders from.
type EditSnapshot struct {
	State  EditState
	Buffer string
}

// Edit returns the edit state and buffer for a post.
func (w *Workflows) Edit(postID string) EditSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.editors[postID]
	if !ok {
		return EditSnapshot{State: EditViewing}
	}
	return EditSnapshot{State: e.state, Buffer: e.buffer}
}

// BeginEdit opens the edit buffer, pre-filled with the current message.
// Only the author of a plain post may edit; repost wrappers are never
// editable.
func (w *Workflows) BeginEdit(ctx context.Context, postID string) error {
	view, ok := w.store.Get(postID)
	if !ok {
		return models.NewValidationError("Post is no longer in the feed")
	}

	user := auth.UserFrom(ctx)
	entry := view.PostEntry()
	if user == nil || !entry.CanEdit(user.ID) {
		return models.NewUnauthorizedError("You can only edit your own posts")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if e, exists := w.editors[postID]; exists && e.state != EditViewing {
		return nil
	}
	w.editors[postID] = &editor{
		state:  EditEditing,
		buffer: view.Snapshot().Message,
	}
	return nil
}

// SetBuffer replaces the edit buffer text while editing.
func (w *Workflows) SetBuffer(postID, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.editors[postID]; ok && e.state == EditEditing {
		e.buffer = text
	}
}

// CancelEdit discards the buffer and returns to viewing.
func (w *Workflows) CancelEdit(postID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.editors[postID]; ok && e.state == EditEditing {
		delete(w.editors, postID)
	}
}

// HandleKey routes a keystroke in the edit buffer: Escape cancels, Enter
// submits. Other keys are left to the input widget.
func (w *Workflows) HandleKey(ctx context.Context, postID string, key Key) {
	switch key {
	case KeyEscape:
		w.CancelEdit(postID)
	case KeyEnter:
		w.SubmitEdit(ctx, postID)
	}
}

// SubmitEdit sends the buffer to the server. While the call is in flight
// the input is disabled and further submits are ignored. Success reloads
// the whole feed rather than patching locally; failure returns to editing
// with the buffer preserved.
func (w *Workflows) SubmitEdit(ctx context.Context, postID string) {
	w.mu.Lock()
	e, ok := w.editors[postID]
	if !ok || e.state != EditEditing {
		w.mu.Unlock()
		return
	}
	e.state = EditSubmitting
	message := e.buffer
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		err := w.svc.EditPost(ctx, postID, message)

		w.mu.Lock()
		if current, still := w.editors[postID]; still && current == e {
			if err != nil {
				current.state = EditEditing
			} else {
				delete(w.editors, postID)
			}
		}
		w.mu.Unlock()

		if err != nil {
			observability.LogAsyncOperationError(ctx, "edit_post", err, map[string]interface{}{"post_id": postID})
			return
		}
		w.triggerReload(ctx)
	}()
}
