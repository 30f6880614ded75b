// ABOUTME: Home page view-model: the list of every post.
// ABOUTME: Fetches on mount and re-fetches on a slow poll until unmounted.
package pages

import (
	"context"
	"sync"

	"github.com/2389-research/flasker/internal/models"
)

// HomePage lists all posts.
type HomePage struct {
	lifecycle
	deps Deps

	mu      sync.Mutex
	posts   []models.Post
	loaded  bool
	lastErr error
}

// NewHome creates the Home page.
func NewHome(deps Deps) *HomePage {
	return &HomePage{deps: deps}
}

// Mount fetches the post list and starts polling it.
func (h *HomePage) Mount(ctx context.Context) {
	_, gen := h.begin(ctx)
	interval := intervalOr(h.deps.HomeInterval, DefaultHomeInterval)
	h.startPoller(gen, interval, func(pctx context.Context) {
		h.refresh(pctx, gen)
	})
}

// Unmount stops polling. Responses still in flight are discarded.
func (h *HomePage) Unmount() {
	h.end()
}

func (h *HomePage) refresh(ctx context.Context, gen uint64) {
	posts, err := h.deps.API.ListPosts(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		h.deps.Log.Errorf("Error fetching posts: %v", err)
	}

	h.mu.Lock()
	if !h.live(gen) {
		h.mu.Unlock()
		return
	}
	h.lastErr = err
	if err == nil {
		h.posts = posts
		h.loaded = true
	}
	h.mu.Unlock()
	h.deps.changed()
}

// Posts returns the most recently fetched posts.
func (h *HomePage) Posts() []models.Post {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.Post(nil), h.posts...)
}

// Loaded reports whether at least one fetch has succeeded.
func (h *HomePage) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// Err returns the error from the latest fetch, if it failed.
func (h *HomePage) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// Polls reports how many fetches the current mount has issued.
func (h *HomePage) Polls() int64 {
	return h.pollTicks()
}
