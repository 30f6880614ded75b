// ABOUTME: Logout page: clears the session identity and redirects to the login page.
// ABOUTME: Also tells the server, best effort, in the background.
package pages

import (
	"context"
	"sync"
	"time"
)

const logoutTimeout = 5 * time.Second

// LogoutPage is a redirect page with a side effect.
type LogoutPage struct {
	deps Deps

	mu sync.Mutex
	// done is closed when the server logout attempt finishes. Tests wait on it.
	done chan struct{}
}

// NewLogout creates the Logout page.
func NewLogout(deps Deps) *LogoutPage {
	return &LogoutPage{deps: deps}
}

// Mount forgets the session user and navigates to the login page. The server
// is told afterwards; its answer does not affect the local logout.
func (l *LogoutPage) Mount(ctx context.Context) {
	id, had := l.deps.Session.Get()
	l.deps.Session.Clear()
	l.deps.changed()
	l.deps.Nav.Navigate(Route{Name: RouteLogin})

	done := make(chan struct{})
	l.mu.Lock()
	l.done = done
	l.mu.Unlock()
	if !had {
		close(done)
		return
	}
	l.deps.Log.Infof("Logged out user %d", id)

	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer cancel()
		if err := l.deps.API.Logout(ctx); err != nil {
			l.deps.Log.Warnf("Server logout failed: %v", err)
		}
	}()
}

// Unmount is a no-op; the logout page holds no resources.
func (l *LogoutPage) Unmount() {}

// Wait blocks until the server logout attempt started by the last Mount finishes.
func (l *LogoutPage) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done != nil {
		<-done
	}
}
