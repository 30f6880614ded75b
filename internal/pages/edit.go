// ABOUTME: Edit page view-model: the session user's own posts and comments with edit buffers.
// ABOUTME: Deletes remove an item locally only after the server confirms.
package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/2389-research/flasker/internal/models"
)

// EditPage lets the session user edit and delete their own posts and comments.
type EditPage struct {
	lifecycle
	deps Deps

	mu             sync.Mutex
	userID         int
	posts          []models.Post
	comments       []models.Comment
	postDrafts     map[int]models.PostDraft
	commentDrafts  map[int]models.CommentDraft
	postsLoaded    bool
	commentsLoaded bool
}

// NewEdit creates the Edit page.
func NewEdit(deps Deps) *EditPage {
	return &EditPage{deps: deps}
}

// Mount gates on the session and then loads the user's posts and comments.
// Both fetches run concurrently in the background.
func (e *EditPage) Mount(ctx context.Context) {
	userID, err := e.deps.requireUser()
	if err != nil {
		return
	}
	mctx, gen := e.begin(ctx)

	e.mu.Lock()
	e.userID = userID
	e.posts, e.comments = nil, nil
	e.postDrafts = map[int]models.PostDraft{}
	e.commentDrafts = map[int]models.CommentDraft{}
	e.postsLoaded, e.commentsLoaded = false, false
	e.mu.Unlock()

	go e.loadPosts(mctx, gen, userID)
	go e.loadComments(mctx, gen, userID)
}

// Unmount discards the edit buffers and any responses still in flight.
func (e *EditPage) Unmount() {
	e.end()
	e.mu.Lock()
	e.postDrafts, e.commentDrafts = nil, nil
	e.mu.Unlock()
}

func (e *EditPage) loadPosts(ctx context.Context, gen uint64, userID int) {
	posts, err := e.deps.API.ListPosts(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		e.deps.Log.Errorf("Error fetching posts: %v", err)
		e.deps.Notify.Alert("Failed to load your posts!")
		return
	}
	own := models.PostsByUser(posts, userID)
	e.apply(gen, func() {
		e.posts = own
		for _, p := range own {
			e.postDrafts[p.ID] = models.PostDraft{Title: p.Title, Content: p.Content}
		}
		e.postsLoaded = true
	})
}

func (e *EditPage) loadComments(ctx context.Context, gen uint64, userID int) {
	comments, err := e.deps.API.ListComments(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		e.deps.Log.Errorf("Error fetching comments: %v", err)
		e.deps.Notify.Alert("Failed to load your comments!")
		return
	}
	own := models.CommentsByUser(comments, userID)
	e.apply(gen, func() {
		e.comments = own
		for _, c := range own {
			e.commentDrafts[c.ID] = models.CommentDraft{Content: c.Content}
		}
		e.commentsLoaded = true
	})
}

func (e *EditPage) apply(gen uint64, fn func()) bool {
	e.mu.Lock()
	if !e.live(gen) {
		e.mu.Unlock()
		return false
	}
	fn()
	e.mu.Unlock()
	e.deps.changed()
	return true
}

// Loaded reports whether both fetches have completed successfully.
func (e *EditPage) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.postsLoaded && e.commentsLoaded
}

// Posts returns the user's posts as last fetched, minus confirmed deletes.
func (e *EditPage) Posts() []models.Post {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Post(nil), e.posts...)
}

// Comments returns the user's comments as last fetched, minus confirmed deletes.
func (e *EditPage) Comments() []models.Comment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Comment(nil), e.comments...)
}

// PostDraft returns the edit buffer for post id.
func (e *EditPage) PostDraft(id int) (models.PostDraft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.postDrafts[id]
	return d, ok
}

// CommentDraft returns the edit buffer for comment id.
func (e *EditPage) CommentDraft(id int) (models.CommentDraft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.commentDrafts[id]
	return d, ok
}

// SetPostTitle edits the buffered title of post id.
func (e *EditPage) SetPostTitle(id int, title string) {
	e.editPost(id, func(d *models.PostDraft) { d.Title = title })
}

// SetPostContent edits the buffered content of post id.
func (e *EditPage) SetPostContent(id int, content string) {
	e.editPost(id, func(d *models.PostDraft) { d.Content = content })
}

func (e *EditPage) editPost(id int, fn func(*models.PostDraft)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.postDrafts[id]
	if !ok {
		return
	}
	fn(&d)
	e.postDrafts[id] = d
}

// SetCommentContent edits the buffered content of comment id.
func (e *EditPage) SetCommentContent(id int, content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.commentDrafts[id]; !ok {
		return
	}
	e.commentDrafts[id] = models.CommentDraft{Content: content}
}

// SubmitPost sends post id's edit buffer as the new title and content.
func (e *EditPage) SubmitPost(ctx context.Context, id int) error {
	if _, err := e.deps.requireUser(); err != nil {
		return err
	}
	draft, ok := e.PostDraft(id)
	if !ok {
		return fmt.Errorf("post %d is not being edited", id)
	}

	if err := e.deps.API.UpdatePost(ctx, id, draft); err != nil {
		e.deps.Log.Errorf("Error editing post %d: %v", id, err)
		e.deps.Notify.Alert("Failed to edit post!")
		return err
	}
	e.deps.Log.Infof("Edited post %d", id)
	e.deps.Notify.Alert("Post edited successfully!")
	return nil
}

// SubmitComment sends comment id's edit buffer as the new content.
func (e *EditPage) SubmitComment(ctx context.Context, id int) error {
	if _, err := e.deps.requireUser(); err != nil {
		return err
	}
	draft, ok := e.CommentDraft(id)
	if !ok {
		return fmt.Errorf("comment %d is not being edited", id)
	}

	if err := e.deps.API.UpdateComment(ctx, id, draft); err != nil {
		e.deps.Log.Errorf("Error editing comment %d: %v", id, err)
		e.deps.Notify.Alert("Failed to edit comment!")
		return err
	}
	e.deps.Log.Infof("Edited comment %d", id)
	e.deps.Notify.Alert("Comment edited successfully!")
	return nil
}

// DeletePost deletes post id and, once the server confirms, drops it from the list.
func (e *EditPage) DeletePost(ctx context.Context, id int) error {
	if _, err := e.deps.requireUser(); err != nil {
		return err
	}
	gen, _ := e.current()

	if err := e.deps.API.DeletePost(ctx, id); err != nil {
		e.deps.Log.Errorf("Error deleting post %d: %v", id, err)
		e.deps.Notify.Alert("Failed to delete post!")
		return err
	}
	e.apply(gen, func() {
		e.posts = models.WithoutPost(e.posts, id)
		delete(e.postDrafts, id)
	})
	e.deps.Log.Infof("Deleted post %d", id)
	e.deps.Notify.Alert("Post deleted successfully!")
	return nil
}

// DeleteComment deletes comment id and, once the server confirms, drops it from the list.
func (e *EditPage) DeleteComment(ctx context.Context, id int) error {
	if _, err := e.deps.requireUser(); err != nil {
		return err
	}
	gen, _ := e.current()

	if err := e.deps.API.DeleteComment(ctx, id); err != nil {
		e.deps.Log.Errorf("Error deleting comment %d: %v", id, err)
		e.deps.Notify.Alert("Failed to delete comment!")
		return err
	}
	e.apply(gen, func() {
		e.comments = models.WithoutComment(e.comments, id)
		delete(e.commentDrafts, id)
	})
	e.deps.Log.Infof("Deleted comment %d", id)
	e.deps.Notify.Alert("Comment deleted successfully!")
	return nil
}
