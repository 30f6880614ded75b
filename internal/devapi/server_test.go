// ABOUTME: End-to-end tests for the development API driven through the real Flasker client.
// ABOUTME: Covers registration, login sessions, ownership checks, comments, and avatar uploads.
package devapi

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2389-research/flasker/internal/api"
	"github.com/2389-research/flasker/internal/models"
	"github.com/2389-research/flasker/internal/session"
)

type harness struct {
	srv     *Server
	ts      *httptest.Server
	client  *api.Client
	session *session.CookieStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := New(WithSessionSecret("test-secret"))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	store, err := session.NewCookieStore(ts.URL)
	if err != nil {
		t.Fatalf("NewCookieStore: %v", err)
	}
	return &harness{
		srv:     srv,
		ts:      ts,
		client:  api.NewClient(ts.URL, api.WithJar(store.Jar())),
		session: store,
	}
}

// anonymous returns a client with its own empty cookie jar.
func (h *harness) anonymous(t *testing.T) *api.Client {
	t.Helper()
	store, err := session.NewCookieStore(h.ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	return api.NewClient(h.ts.URL, api.WithJar(store.Jar()))
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.client.Register(ctx, api.Registration{Name: "ada", Password: "pw", ProfilePicture: "http://x/a.jpg"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.ID == 0 || u.Name != "ada" || u.ProfilePicture != "http://x/a.jpg" {
		t.Errorf("unexpected user %+v", u)
	}

	if _, err := h.client.Login(ctx, api.Credentials{Name: "ada", Password: "wrong"}); !api.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 for bad password, got %v", err)
	}
	resp, err := h.client.Login(ctx, api.Credentials{Name: "ada", Password: "pw"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if resp.User.ID != u.ID || resp.AccessToken == "" {
		t.Errorf("unexpected login response %+v", resp)
	}

	got, err := h.client.GetUser(ctx, u.ID)
	if err != nil || got.Name != "ada" {
		t.Errorf("GetUser = %+v, %v", got, err)
	}
	if _, err := h.client.GetUser(ctx, 999); !api.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 for unknown user, got %v", err)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.client.Register(ctx, api.Registration{Name: "ada", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.client.Register(ctx, api.Registration{Name: "ada", Password: "pw"}); !api.IsStatus(err, http.StatusConflict) {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestMutationsRequireIdentity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ada, _ := h.srv.AddUser("ada", "pw")
	post := h.srv.AddPost(ada.ID, "t", "c")

	anon := h.anonymous(t)
	if _, err := anon.CreatePost(ctx, api.NewPost{Title: "x", Content: "y"}); !api.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 on anonymous create, got %v", err)
	}
	if err := anon.DeletePost(ctx, post.ID); !api.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 on anonymous delete, got %v", err)
	}
	if err := anon.Logout(ctx); !api.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 on anonymous logout, got %v", err)
	}
}

func TestUserIDCookieIdentifies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ada, _ := h.srv.AddUser("ada", "pw")

	h.session.Set(ada.ID)
	post, err := h.client.CreatePost(ctx, api.NewPost{Title: "Hello", Content: "World", UserID: ada.ID})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if post.UserID != ada.ID || post.Timestamp == "" {
		t.Errorf("unexpected post %+v", post)
	}
}

func TestPostLifecycleAndOwnership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ada, _ := h.srv.AddUser("ada", "pw")
	grace, _ := h.srv.AddUser("grace", "pw")
	theirs := h.srv.AddPost(grace.ID, "theirs", "x")

	if _, err := h.client.Login(ctx, api.Credentials{Name: "ada", Password: "pw"}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	mine, err := h.client.CreatePost(ctx, api.NewPost{Title: "mine", Content: "c", UserID: ada.ID})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}

	if err := h.client.UpdatePost(ctx, mine.ID, models.PostDraft{Title: "renamed", Content: "c2"}); err != nil {
		t.Fatalf("UpdatePost error: %v", err)
	}
	got, _ := h.client.GetPost(ctx, mine.ID)
	if got.Title != "renamed" || got.Content != "c2" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := h.client.UpdatePost(ctx, theirs.ID, models.PostDraft{Title: "x", Content: "y"}); !api.IsStatus(err, http.StatusForbidden) {
		t.Errorf("expected 403 editing another user's post, got %v", err)
	}
	if err := h.client.DeletePost(ctx, theirs.ID); !api.IsStatus(err, http.StatusForbidden) {
		t.Errorf("expected 403 deleting another user's post, got %v", err)
	}
	if err := h.client.DeletePost(ctx, 999); !api.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 deleting unknown post, got %v", err)
	}

	if err := h.client.DeletePost(ctx, mine.ID); err != nil {
		t.Fatalf("DeletePost error: %v", err)
	}
	posts, _ := h.client.ListPosts(ctx)
	if len(posts) != 1 || posts[0].ID != theirs.ID {
		t.Errorf("expected only the other user's post left, got %+v", posts)
	}
}

func TestComments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ada, _ := h.srv.AddUser("ada", "pw")
	post := h.srv.AddPost(ada.ID, "t", "c")
	h.session.Set(ada.ID)

	c, err := h.client.CreateComment(ctx, post.ID, api.NewComment{Content: "first", UserID: ada.ID})
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if _, err := h.client.CreateComment(ctx, 999, api.NewComment{Content: "x"}); !api.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 commenting on unknown post, got %v", err)
	}

	onPost, err := h.client.ListPostComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListPostComments error: %v", err)
	}
	if len(onPost) != 1 || onPost[0].UserName != "ada" || onPost[0].PostID != post.ID {
		t.Errorf("unexpected post comments %+v", onPost)
	}

	all, _ := h.client.ListComments(ctx)
	if len(all) != 1 || all[0].PostID != 0 || all[0].UserName != "" {
		t.Errorf("all-comments listing should omit post_id and user_name, got %+v", all)
	}

	if err := h.client.UpdateComment(ctx, c.ID, models.CommentDraft{Content: "edited"}); err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}
	onPost, _ = h.client.ListPostComments(ctx, post.ID)
	if onPost[0].Content != "edited" {
		t.Errorf("expected edited content, got %q", onPost[0].Content)
	}

	if err := h.client.DeleteComment(ctx, c.ID); err != nil {
		t.Fatalf("DeleteComment error: %v", err)
	}
	if err := h.client.DeleteComment(ctx, c.ID); !api.IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 on second delete, got %v", err)
	}
}

func TestDeletePostRemovesComments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ada, _ := h.srv.AddUser("ada", "pw")
	post := h.srv.AddPost(ada.ID, "t", "c")
	h.srv.AddComment(ada.ID, post.ID, "gone soon")
	h.session.Set(ada.ID)

	if err := h.client.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost error: %v", err)
	}
	all, _ := h.client.ListComments(ctx)
	if len(all) != 0 {
		t.Errorf("expected comments removed with the post, got %+v", all)
	}
}

func TestLogoutEndsLoginSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, _ = h.srv.AddUser("ada", "pw")

	if _, err := h.client.Login(ctx, api.Credentials{Name: "ada", Password: "pw"}); err != nil {
		t.Fatal(err)
	}
	if err := h.client.Logout(ctx); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if _, err := h.client.CreatePost(ctx, api.NewPost{Title: "t", Content: "c"}); !api.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 after logout, got %v", err)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestUploadDownscalesAndServes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	up, err := h.client.UploadPicture(ctx, "me.png", bytes.NewReader(encodePNG(t, 1024, 512)))
	if err != nil {
		t.Fatalf("UploadPicture error: %v", err)
	}
	if !strings.HasPrefix(up.FileURL, h.ts.URL+"/uploads/") || !strings.HasSuffix(up.FileURL, ".jpg") {
		t.Fatalf("unexpected file url %q", up.FileURL)
	}

	resp, err := http.Get(up.FileURL)
	if err != nil {
		t.Fatalf("GET upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	img, err := jpeg.Decode(resp.Body)
	if err != nil {
		t.Fatalf("stored upload is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != maxAvatarWidth || b.Dy() != maxAvatarWidth/2 {
		t.Errorf("expected %dx%d, got %dx%d", maxAvatarWidth, maxAvatarWidth/2, b.Dx(), b.Dy())
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := newHarness(t)
	_, err := h.client.UploadPicture(context.Background(), "notes.txt", strings.NewReader("hello"))
	if !api.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestSmallUploadKeepsSize(t *testing.T) {
	data, err := processAvatar(bytes.NewReader(encodePNG(t, 40, 30)))
	if err != nil {
		t.Fatalf("processAvatar error: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("expected 40x30, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSeed(t *testing.T) {
	h := newHarness(t)
	if err := h.srv.Seed(); err != nil {
		t.Fatalf("Seed error: %v", err)
	}
	posts, err := h.client.ListPosts(context.Background())
	if err != nil || len(posts) != 2 {
		t.Fatalf("expected 2 seeded posts, got %d (%v)", len(posts), err)
	}
	if _, err := h.client.Login(context.Background(), api.Credentials{Name: "ada", Password: "lovelace"}); err != nil {
		t.Errorf("seeded user should log in: %v", err)
	}
}
