// ABOUTME: Login page view-model.
// ABOUTME: Records the returned user id as the session identity and goes home on success.
package pages

import (
	"context"
	"sync"

	"github.com/2389-research/flasker/internal/api"
)

// LoginPage holds the login form.
type LoginPage struct {
	deps Deps

	mu       sync.Mutex
	name     string
	password string
}

// NewLogin creates the Login page.
func NewLogin(deps Deps) *LoginPage {
	return &LoginPage{deps: deps}
}

// SetName sets the user name field.
func (l *LoginPage) SetName(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.name = s
}

// SetPassword sets the password field.
func (l *LoginPage) SetPassword(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.password = s
}

// Fields returns the current name and password.
func (l *LoginPage) Fields() (name, password string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name, l.password
}

// Submit logs in. On failure the form is cleared and the user alerted.
func (l *LoginPage) Submit(ctx context.Context) error {
	name, password := l.Fields()

	resp, err := l.deps.API.Login(ctx, api.Credentials{Name: name, Password: password})
	if err != nil {
		l.deps.Log.Warnf("Login failed for %q: %v", name, err)
		l.reset()
		l.deps.Notify.Alert("Failed to login!")
		return err
	}

	l.deps.Session.Set(resp.User.ID)
	l.deps.Log.Infof("Logged in as user %d", resp.User.ID)
	l.reset()
	l.deps.Notify.Alert("Login success!")
	l.deps.Nav.Navigate(Route{Name: RouteHome})
	return nil
}

func (l *LoginPage) reset() {
	l.mu.Lock()
	l.name, l.password = "", ""
	l.mu.Unlock()
	l.deps.changed()
}
