// Package auth holds the current user's credential and threads it through
// contexts into remote post service calls.
package auth

import (
	"context"
	"sync"

	"linkr/internal/models"
)

type contextKey string

const userKey contextKey = "current_user"

// Holder is the process-wide credential holder. The surrounding application
// owns it: it sets the user after login and refreshes the token as needed.
// The engine only reads it when building request contexts.
type Holder struct {
	mu   sync.RWMutex
	user *models.User
}

// NewHolder returns an empty credential holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set replaces the current user. A nil user clears the holder.
func (h *Holder) Set(user *models.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = user
}

// Current returns the current user, or nil when no one is signed in.
func (h *Holder) Current() *models.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.user
}

// NewContext returns a context carrying the holder's current user. Every
// remote call derives its credential from the context, never from ambient
// state.
func (h *Holder) NewContext(ctx context.Context) context.Context {
	return WithUser(ctx, h.Current())
}

// WithUser returns a context carrying the given user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom extracts the user from the context, or nil when absent.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
