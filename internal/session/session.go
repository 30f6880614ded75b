// ABOUTME: Session identity for the Flasker client: an optional user id.
// ABOUTME: Cookie-jar backed store shared with the HTTP client, plus an in-memory store.
package session

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"
)

// CookieName is the cookie holding the logged-in user's id.
const CookieName = "user_id"

// Store holds the session identity. Presence of an id means "logged in".
type Store interface {
	// Get returns the current user id and whether one is set.
	Get() (int, bool)

	// Set records id as the current user.
	Set(id int)

	// Clear forgets the current user.
	Clear()
}

// CookieStore keeps the identity as a plaintext user_id cookie in a cookie
// jar scoped to the API origin. The jar lives as long as the process, like a
// browser-session cookie, and is shared with the HTTP client so the cookie
// rides along on credentialed requests.
type CookieStore struct {
	jar    http.CookieJar
	origin *url.URL
}

// NewCookieStore creates a cookie store for the given API base URL.
func NewCookieStore(baseURL string) (*CookieStore, error) {
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &CookieStore{
		jar:    jar,
		origin: &url.URL{Scheme: origin.Scheme, Host: origin.Host, Path: "/"},
	}, nil
}

// Jar returns the cookie jar backing the store.
func (s *CookieStore) Jar() http.CookieJar {
	return s.jar
}

// Get implements Store. A cookie that is not an integer counts as absent.
func (s *CookieStore) Get() (int, bool) {
	for _, c := range s.jar.Cookies(s.origin) {
		if c.Name != CookieName {
			continue
		}
		id, err := strconv.Atoi(c.Value)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

// Set implements Store.
func (s *CookieStore) Set(id int) {
	s.jar.SetCookies(s.origin, []*http.Cookie{{
		Name:  CookieName,
		Value: strconv.Itoa(id),
		Path:  "/",
	}})
}

// Clear implements Store.
func (s *CookieStore) Clear() {
	s.jar.SetCookies(s.origin, []*http.Cookie{{
		Name:   CookieName,
		Path:   "/",
		MaxAge: -1,
	}})
}

// MemoryStore is a Store that lives only in memory.
type MemoryStore struct {
	mu  sync.RWMutex
	id  int
	set bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (m *MemoryStore) Get() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id, m.set
}

// Set implements Store.
func (m *MemoryStore) Set(id int) {
	m.mu.Lock()
	m.id, m.set = id, true
	m.mu.Unlock()
}

// Clear implements Store.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	m.id, m.set = 0, false
	m.mu.Unlock()
}
