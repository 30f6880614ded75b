// ABOUTME: Post page view-model: one post with its comments and a comment form.
// ABOUTME: Polls the post and its comments concurrently, restarting whenever the post id changes.
package pages

import (
	"context"
	"sync"

	"github.com/2389-research/flasker/internal/models"
)

// PostPage shows a single post.
type PostPage struct {
	lifecycle
	deps Deps

	// Comment is the form for adding a comment to the displayed post.
	Comment *CommentForm

	mu         sync.Mutex
	postID     int
	post       models.Post
	havePost   bool
	comments   []models.Comment
	postErr    error
	commentErr error
}

// NewPost creates the Post page.
func NewPost(deps Deps) *PostPage {
	return &PostPage{
		deps:    deps,
		Comment: NewCommentForm(deps, 0),
	}
}

// Mount shows post id, fetching it and its comments and polling both.
func (p *PostPage) Mount(ctx context.Context, id int) {
	_, gen := p.begin(ctx)

	p.mu.Lock()
	if p.postID != id {
		p.post = models.Post{}
		p.havePost = false
		p.comments = nil
	}
	p.postID = id
	p.postErr, p.commentErr = nil, nil
	p.mu.Unlock()
	p.Comment.SetPostID(id)

	interval := intervalOr(p.deps.PostInterval, DefaultPostInterval)
	p.startPoller(gen, interval, func(pctx context.Context) {
		p.refresh(pctx, gen, id)
	})
}

// SetPostID follows a route change. A different id restarts polling for the
// new post; the same id on a mounted page is a no-op.
func (p *PostPage) SetPostID(ctx context.Context, id int) {
	p.mu.Lock()
	same := p.postID == id
	p.mu.Unlock()
	if same && p.Mounted() {
		return
	}
	p.Mount(ctx, id)
}

// Unmount stops polling. Responses still in flight are discarded.
func (p *PostPage) Unmount() {
	p.end()
}

func (p *PostPage) refresh(ctx context.Context, gen uint64, id int) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		post, err := p.deps.API.GetPost(ctx, id)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.deps.Log.Errorf("Error fetching post %d: %v", id, err)
		}
		p.apply(gen, func() {
			p.postErr = err
			if err == nil {
				p.post = post
				p.havePost = true
			}
		})
	}()
	go func() {
		defer wg.Done()
		comments, err := p.deps.API.ListPostComments(ctx, id)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.deps.Log.Errorf("Error fetching comments for post %d: %v", id, err)
		}
		p.apply(gen, func() {
			p.commentErr = err
			if err == nil {
				p.comments = comments
			}
		})
	}()
	wg.Wait()
}

func (p *PostPage) apply(gen uint64, fn func()) {
	p.mu.Lock()
	if !p.live(gen) {
		p.mu.Unlock()
		return
	}
	fn()
	p.mu.Unlock()
	p.deps.changed()
}

// PostID returns the id of the displayed post.
func (p *PostPage) PostID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.postID
}

// Post returns the displayed post once it has loaded.
func (p *PostPage) Post() (models.Post, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.post, p.havePost
}

// Comments returns the comments on the displayed post.
func (p *PostPage) Comments() []models.Comment {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Comment(nil), p.comments...)
}

// Err returns the first error from the latest fetches, if any failed.
func (p *PostPage) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.postErr != nil {
		return p.postErr
	}
	return p.commentErr
}

// Polls reports how many refreshes the current mount has issued.
func (p *PostPage) Polls() int64 {
	return p.pollTicks()
}
