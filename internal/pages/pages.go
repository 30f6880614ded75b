// ABOUTME: Shared contracts for Flasker page view-models: routes, dependencies, and the login gate.
// ABOUTME: Tracks mount generations so results from a dismissed page are dropped.
package pages

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/2389-research/flasker/internal/api"
	"github.com/2389-research/flasker/internal/logging"
	"github.com/2389-research/flasker/internal/models"
	"github.com/2389-research/flasker/internal/poller"
	"github.com/2389-research/flasker/internal/session"
)

const (
	// DefaultHomeInterval is how often the Home page re-fetches the post list.
	DefaultHomeInterval = 80 * time.Second

	// DefaultPostInterval is how often the Post page re-fetches the post and its comments.
	DefaultPostInterval = time.Second
)

const notLoggedInNotice = "You are not logged in"

// ErrNotLoggedIn is returned by gated actions when there is no session identity.
var ErrNotLoggedIn = errors.New("not logged in")

// RouteName identifies a page.
type RouteName string

const (
	RouteHome     RouteName = "home"
	RoutePost     RouteName = "post"
	RouteLogin    RouteName = "login"
	RouteRegister RouteName = "register"
	RouteAddPost  RouteName = "addpost"
	RouteEdit     RouteName = "edit"
	RouteLogout   RouteName = "logout"
)

// Route is a navigation target. PostID is only meaningful for RoutePost.
type Route struct {
	Name   RouteName
	PostID int
}

// Navigator switches the displayed page.
type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(r Route) { f(r) }

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Alert(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(string)

// Alert implements Notifier.
func (f NotifierFunc) Alert(msg string) { f(msg) }

// API is the subset of the Flasker client the pages use.
type API interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int) (models.Post, error)
	CreatePost(ctx context.Context, p api.NewPost) (models.Post, error)
	UpdatePost(ctx context.Context, id int, d models.PostDraft) error
	DeletePost(ctx context.Context, id int) error
	ListPostComments(ctx context.Context, postID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID int, c api.NewComment) (models.Comment, error)
	ListComments(ctx context.Context) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id int, d models.CommentDraft) error
	DeleteComment(ctx context.Context, id int) error
	GetUser(ctx context.Context, id int) (models.User, error)
	Register(ctx context.Context, r api.Registration) (models.User, error)
	Login(ctx context.Context, c api.Credentials) (api.LoginResponse, error)
	Logout(ctx context.Context) error
	UploadPicture(ctx context.Context, filename string, r io.Reader) (api.Upload, error)
}

// Deps bundles what every page needs. The session is injected rather than
// looked up globally.
type Deps struct {
	Session session.Store
	API     API
	Nav     Navigator
	Notify  Notifier
	Log     *logging.Logger

	HomeInterval time.Duration
	PostInterval time.Duration

	// OnChange is called after page state changes so a renderer can redraw.
	OnChange func()
}

func (d Deps) changed() {
	if d.OnChange != nil {
		d.OnChange()
	}
}

// requireUser returns the session user id, or alerts and redirects to the
// login page when there is none. No request may be issued on error.
func (d Deps) requireUser() (int, error) {
	id, ok := d.Session.Get()
	if !ok {
		d.Notify.Alert(notLoggedInNotice)
		d.Nav.Navigate(Route{Name: RouteLogin})
		return 0, ErrNotLoggedIn
	}
	return id, nil
}

func intervalOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// lifecycle tracks whether a page is mounted. Every mount gets a new
// generation; async results carry the generation they were issued under and
// are applied only while it is still current.
type lifecycle struct {
	mu      sync.Mutex
	gen     uint64
	mounted bool
	cancel  context.CancelFunc
	poll    *poller.Handle
}

// begin tears down any previous mount and starts a new generation.
func (l *lifecycle) begin(parent context.Context) (context.Context, uint64) {
	l.end()

	ctx, cancel := context.WithCancel(parent)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.mounted = true
	l.cancel = cancel
	return ctx, l.gen
}

// startPoller starts a poller owned by generation gen.
func (l *lifecycle) startPoller(gen uint64, interval time.Duration, fn func(ctx context.Context)) {
	h := poller.Start(fn, interval)

	l.mu.Lock()
	if !l.mounted || l.gen != gen {
		l.mu.Unlock()
		h.Stop()
		return
	}
	l.poll = h
	l.mu.Unlock()
}

// end invalidates the current generation, cancels in-flight work, and stops
// the poller, waiting for it to exit.
func (l *lifecycle) end() {
	l.mu.Lock()
	l.gen++
	l.mounted = false
	cancel, h := l.cancel, l.poll
	l.cancel, l.poll = nil, nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.Stop()
}

// live reports whether gen is the active mount.
func (l *lifecycle) live(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted && l.gen == gen
}

// current returns the active generation and whether the page is mounted.
func (l *lifecycle) current() (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen, l.mounted
}

// Mounted reports whether the page is currently displayed.
func (l *lifecycle) Mounted() bool {
	_, ok := l.current()
	return ok
}

// pollTicks reports how many times the active poller has fired (zero when none).
func (l *lifecycle) pollTicks() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.poll.Ticks()
}
