// ABOUTME: Comment form view-model shown under a post.
// ABOUTME: Gates on session identity and always clears the input after a submit attempt.
package pages

import (
	"context"
	"sync"

	"github.com/2389-research/flasker/internal/api"
)

// CommentForm submits a new comment on one post.
type CommentForm struct {
	deps Deps

	mu     sync.Mutex
	postID int
	input  string
}

// NewCommentForm creates a comment form for postID.
func NewCommentForm(deps Deps, postID int) *CommentForm {
	return &CommentForm{deps: deps, postID: postID}
}

// SetPostID points the form at another post.
func (f *CommentForm) SetPostID(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postID = id
}

// SetInput replaces the comment text.
func (f *CommentForm) SetInput(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = s
}

// Input returns the comment text.
func (f *CommentForm) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// Submit posts the comment as the session user. The input is cleared whether
// or not the request succeeds, and also when the gate rejects the attempt.
func (f *CommentForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	postID, content := f.postID, f.input
	f.mu.Unlock()
	defer f.clear()

	userID, err := f.deps.requireUser()
	if err != nil {
		return err
	}

	if _, err := f.deps.API.CreateComment(ctx, postID, api.NewComment{Content: content, UserID: userID}); err != nil {
		f.deps.Log.Errorf("Error adding comment to post %d: %v", postID, err)
		f.deps.Notify.Alert("Failed to add a comment!")
		return err
	}
	f.deps.Log.Infof("Added comment to post %d as user %d", postID, userID)
	return nil
}

func (f *CommentForm) clear() {
	f.mu.Lock()
	f.input = ""
	f.mu.Unlock()
	f.deps.changed()
}
