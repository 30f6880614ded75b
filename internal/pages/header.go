// ABOUTME: Header view-model: the logged-in user's profile shown above every page.
package pages

import (
	"context"
	"sync"

	"github.com/2389-research/flasker/internal/models"
)

// Header shows who is logged in.
type Header struct {
	deps Deps

	mu   sync.Mutex
	user *models.User
}

// NewHeader creates the header.
func NewHeader(deps Deps) *Header {
	return &Header{deps: deps}
}

// Refresh re-reads the session and fetches the user's profile.
func (h *Header) Refresh(ctx context.Context) {
	id, ok := h.deps.Session.Get()
	if !ok {
		h.set(nil)
		return
	}

	user, err := h.deps.API.GetUser(ctx, id)
	if err != nil {
		h.deps.Log.Warnf("Error fetching user %d: %v", id, err)
		h.set(nil)
		return
	}
	// The session may have changed while the request was in flight.
	if cur, ok := h.deps.Session.Get(); !ok || cur != id {
		return
	}
	h.set(&user)
}

func (h *Header) set(u *models.User) {
	h.mu.Lock()
	h.user = u
	h.mu.Unlock()
	h.deps.changed()
}

// User returns the logged-in user's profile, if known.
func (h *Header) User() (models.User, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.user == nil {
		return models.User{}, false
	}
	return *h.user, true
}

// LoggedIn reports whether a session identity is present.
func (h *Header) LoggedIn() bool {
	_, ok := h.deps.Session.Get()
	return ok
}
