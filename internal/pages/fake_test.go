// ABOUTME: In-memory fake of the Flasker API plus recording navigator and notifier for page tests.
// ABOUTME: Every call is logged so tests can assert what was and was not sent.
package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/2389-research/flasker/internal/api"
	"github.com/2389-research/flasker/internal/logging"
	"github.com/2389-research/flasker/internal/models"
	"github.com/2389-research/flasker/internal/session"
)

type call struct {
	Name string
	ID   int
	Body any
}

type fakeAPI struct {
	mu       sync.Mutex
	calls    []call
	posts    []models.Post
	comments []models.Comment
	users    map[int]models.User

	// fail maps a call name to the error it should return.
	fail map[string]error

	// block, when set for a call name, is received from before the call returns.
	block map[string]chan struct{}

	loginUser    models.User
	registerUser models.User
	uploadURL    string
	uploaded     string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: map[int]models.User{},
		fail:  map[string]error{},
		block: map[string]chan struct{}{},
	}
}

var errServer = &api.HTTPError{Method: "GET", Path: "/", StatusCode: http.StatusInternalServerError, Status: "500 Internal Server Error"}

func (f *fakeAPI) record(ctx context.Context, name string, id int, body any) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{Name: name, ID: id, Body: body})
	err := f.fail[name]
	ch := f.block[name]
	f.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeAPI) setFail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[name] = err
}

func (f *fakeAPI) setBlock(name string, ch chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.block[name] = ch
}

func (f *fakeAPI) setPosts(posts []models.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = posts
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = c.Name
	}
	return names
}

func (f *fakeAPI) last(name string) (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Name == name {
			return f.calls[i], true
		}
	}
	return call{}, false
}

func (f *fakeAPI) ListPosts(ctx context.Context) ([]models.Post, error) {
	if err := f.record(ctx, "ListPosts", 0, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Post(nil), f.posts...), nil
}

func (f *fakeAPI) GetPost(ctx context.Context, id int) (models.Post, error) {
	if err := f.record(ctx, "GetPost", id, nil); err != nil {
		return models.Post{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, &api.HTTPError{Method: "GET", Path: fmt.Sprintf("/post/%d", id), StatusCode: 404, Status: "404 Not Found"}
}

func (f *fakeAPI) CreatePost(ctx context.Context, p api.NewPost) (models.Post, error) {
	if err := f.record(ctx, "CreatePost", 0, p); err != nil {
		return models.Post{}, err
	}
	return models.Post{ID: 100, Title: p.Title, Content: p.Content, UserID: p.UserID}, nil
}

func (f *fakeAPI) UpdatePost(ctx context.Context, id int, d models.PostDraft) error {
	return f.record(ctx, "UpdatePost", id, d)
}

func (f *fakeAPI) DeletePost(ctx context.Context, id int) error {
	return f.record(ctx, "DeletePost", id, nil)
}

func (f *fakeAPI) ListPostComments(ctx context.Context, postID int) ([]models.Comment, error) {
	if err := f.record(ctx, "ListPostComments", postID, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateComment(ctx context.Context, postID int, c api.NewComment) (models.Comment, error) {
	if err := f.record(ctx, "CreateComment", postID, c); err != nil {
		return models.Comment{}, err
	}
	return models.Comment{ID: 200, Content: c.Content, UserID: c.UserID, PostID: postID}, nil
}

func (f *fakeAPI) ListComments(ctx context.Context) ([]models.Comment, error) {
	if err := f.record(ctx, "ListComments", 0, nil); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment(nil), f.comments...), nil
}

func (f *fakeAPI) UpdateComment(ctx context.Context, id int, d models.CommentDraft) error {
	return f.record(ctx, "UpdateComment", id, d)
}

func (f *fakeAPI) DeleteComment(ctx context.Context, id int) error {
	return f.record(ctx, "DeleteComment", id, nil)
}

func (f *fakeAPI) GetUser(ctx context.Context, id int) (models.User, error) {
	if err := f.record(ctx, "GetUser", id, nil); err != nil {
		return models.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, &api.HTTPError{Method: "GET", Path: fmt.Sprintf("/user/%d", id), StatusCode: 404, Status: "404 Not Found"}
	}
	return u, nil
}

func (f *fakeAPI) Register(ctx context.Context, r api.Registration) (models.User, error) {
	if err := f.record(ctx, "Register", 0, r); err != nil {
		return models.User{}, err
	}
	return f.registerUser, nil
}

func (f *fakeAPI) Login(ctx context.Context, c api.Credentials) (api.LoginResponse, error) {
	if err := f.record(ctx, "Login", 0, c); err != nil {
		return api.LoginResponse{}, err
	}
	return api.LoginResponse{AccessToken: "token", User: f.loginUser}, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	return f.record(ctx, "Logout", 0, nil)
}

func (f *fakeAPI) UploadPicture(ctx context.Context, filename string, r io.Reader) (api.Upload, error) {
	data, readErr := io.ReadAll(r)
	if err := f.record(ctx, "UploadPicture", 0, filename); err != nil {
		return api.Upload{}, err
	}
	if readErr != nil {
		return api.Upload{}, readErr
	}
	f.mu.Lock()
	f.uploaded = string(data)
	f.mu.Unlock()
	return api.Upload{FileURL: f.uploadURL}, nil
}

type recorder struct {
	mu     sync.Mutex
	routes []Route
	alerts []string
}

func (r *recorder) Navigate(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recorder) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, msg)
}

func (r *recorder) lastRoute() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return Route{}, false
	}
	return r.routes[len(r.routes)-1], true
}

func (r *recorder) alertList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

func (r *recorder) hasAlert(msg string) bool {
	for _, a := range r.alertList() {
		if a == msg {
			return true
		}
	}
	return false
}

type fixture struct {
	api     *fakeAPI
	session *session.MemoryStore
	rec     *recorder
	deps    Deps
}

func newFixture() *fixture {
	f := &fixture{
		api:     newFakeAPI(),
		session: session.NewMemoryStore(),
		rec:     &recorder{},
	}
	f.deps = Deps{
		Session: f.session,
		API:     f.api,
		Nav:     f.rec,
		Notify:  f.rec,
		Log:     logging.Nop(),
	}
	return f
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

var errBoom = errors.New("boom")
