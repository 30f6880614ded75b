// ABOUTME: In-memory Flasker-compatible HTTP API for local development and tests.
// ABOUTME: gorilla/mux routing, bcrypt password hashes, and a signed gorilla/sessions login cookie.
package devapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/2389-research/flasker/internal/logging"
	"github.com/2389-research/flasker/internal/models"
	"github.com/2389-research/flasker/internal/session"
)

const (
	sessionName   = "session"
	sessionUserID = "user_id"
)

type user struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	HashedPassword string `json:"hashed_password"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

func (u user) model() models.User {
	return models.User{ID: u.ID, Name: u.Name, ProfilePicture: u.ProfilePicture}
}

// Server is an in-memory Flasker API.
type Server struct {
	mu       sync.RWMutex
	users    map[int]user
	posts    map[int]models.Post
	comments map[int]models.Comment
	uploads  map[string][]byte
	nextID   map[string]int

	store  *sessions.CookieStore
	log    *logging.Logger
	now    func() time.Time
	router *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithSessionSecret sets the key used to sign login session cookies.
// Without it a random key is generated, so sessions do not survive a restart.
func WithSessionSecret(secret string) Option {
	return func(s *Server) { s.store = newSessionStore(secret) }
}

// New creates an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		users:    map[int]user{},
		posts:    map[int]models.Post{},
		comments: map[int]models.Comment{},
		uploads:  map[string][]byte{},
		nextID:   map[string]int{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = newSessionStore(uuid.NewString())
	}
	s.router = s.routes()
	return s
}

func newSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleIndex).Methods("GET")

	r.HandleFunc("/user", s.handleRegister).Methods("POST")
	r.HandleFunc("/user/{id:[0-9]+}", s.handleGetUser).Methods("GET")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")

	r.HandleFunc("/posts", s.handleListPosts).Methods("GET")
	r.HandleFunc("/post", s.handleCreatePost).Methods("POST")
	r.HandleFunc("/post/{id:[0-9]+}", s.handleGetPost).Methods("GET")
	r.HandleFunc("/post/{id:[0-9]+}", s.handleUpdatePost).Methods("PUT")
	r.HandleFunc("/post/{id:[0-9]+}", s.handleDeletePost).Methods("DELETE")
	r.HandleFunc("/post/{id:[0-9]+}/comments", s.handleListPostComments).Methods("GET")
	r.HandleFunc("/post/{id:[0-9]+}/comment", s.handleCreateComment).Methods("POST")

	r.HandleFunc("/comments", s.handleListComments).Methods("GET")
	r.HandleFunc("/comment/{id:[0-9]+}", s.handleUpdateComment).Methods("PUT")
	r.HandleFunc("/comment/{id:[0-9]+}", s.handleDeleteComment).Methods("DELETE")

	r.HandleFunc("/upload", s.handleUpload).Methods("POST")
	r.HandleFunc("/uploads/{name}", s.handleGetUpload).Methods("GET")
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Infof("%s %s %d %s request_id=%s", r.Method, r.URL.Path, rec.status, time.Since(start), r.Header.Get("X-Request-ID"))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// allocID hands out the next id for kind. Caller holds s.mu.
func (s *Server) allocID(kind string) int {
	s.nextID[kind]++
	return s.nextID[kind]
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format("2006-01-02T15:04:05")
}

// identity returns the acting user: the signed login session first, then the
// plaintext user_id cookie the client keeps.
func (s *Server) identity(r *http.Request) (int, bool) {
	if sess, err := s.store.Get(r, sessionName); err == nil {
		if id, ok := sess.Values[sessionUserID].(int); ok && s.userExists(id) {
			return id, true
		}
	}
	if c, err := r.Cookie(session.CookieName); err == nil {
		if id, err := strconv.Atoi(c.Value); err == nil && s.userExists(id) {
			return id, true
		}
	}
	return 0, false
}

func (s *Server) userExists(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// requireUser writes 401 and returns false when the request has no identity.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := s.identity(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Login required")
	}
	return id, ok
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func sortedPosts(m map[int]models.Post) []models.Post {
	out := make([]models.Post, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedComments(m map[int]models.Comment) []models.Comment {
	out := make([]models.Comment, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
