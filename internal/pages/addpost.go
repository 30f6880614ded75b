// ABOUTME: AddPost page view-model: a title and content form for a new post.
// ABOUTME: Requires a session identity both to open and to submit.
package pages

import (
	"context"
	"sync"

	"github.com/2389-research/flasker/internal/api"
)

// AddPostPage holds the new-post form.
type AddPostPage struct {
	deps Deps

	mu      sync.Mutex
	title   string
	content string
}

// NewAddPost creates the AddPost page.
func NewAddPost(deps Deps) *AddPostPage {
	return &AddPostPage{deps: deps}
}

// Mount checks the session; without one the user is sent to the login page.
func (a *AddPostPage) Mount(ctx context.Context) {
	_, _ = a.deps.requireUser()
}

// SetTitle sets the title field.
func (a *AddPostPage) SetTitle(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.title = s
}

// SetContent sets the content field.
func (a *AddPostPage) SetContent(s string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.content = s
}

// Fields returns the current title and content.
func (a *AddPostPage) Fields() (title, content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title, a.content
}

// Submit creates the post as the session user and goes home. On failure the
// form is cleared and the user alerted.
func (a *AddPostPage) Submit(ctx context.Context) error {
	userID, err := a.deps.requireUser()
	if err != nil {
		return err
	}
	title, content := a.Fields()

	post, err := a.deps.API.CreatePost(ctx, api.NewPost{Title: title, Content: content, UserID: userID})
	if err != nil {
		a.deps.Log.Errorf("Error adding post: %v", err)
		a.reset()
		a.deps.Notify.Alert("Failed to add a post!")
		return err
	}

	a.deps.Log.Infof("Created post %d as user %d", post.ID, userID)
	a.reset()
	a.deps.Nav.Navigate(Route{Name: RouteHome})
	return nil
}

func (a *AddPostPage) reset() {
	a.mu.Lock()
	a.title, a.content = "", ""
	a.mu.Unlock()
	a.deps.changed()
}
