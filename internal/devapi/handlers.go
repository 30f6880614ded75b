// ABOUTME: Route handlers for the development API: users, login, posts, and comments.
// ABOUTME: Mutations require an identity; only owners may edit or delete.
package devapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/2389-research/flasker/internal/models"
)

type credentials struct {
	Name           string `json:"name"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profile_picture"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Hello World!!"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required fields (name, password)")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if u.Name == req.Name {
			s.mu.Unlock()
			writeMessage(w, http.StatusConflict, "User already exists")
			return
		}
	}
	u := user{
		ID:             s.allocID("user"),
		Name:           req.Name,
		HashedPassword: string(hash),
		ProfilePicture: req.ProfilePicture,
	}
	s.users[u.ID] = u
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	u, ok := s.users[pathID(r)]
	s.mu.RUnlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.RLock()
	var found *user
	for _, u := range s.users {
		if u.Name == req.Name {
			u := u
			found = &u
			break
		}
	}
	s.mu.RUnlock()

	if found == nil || bcrypt.CompareHashAndPassword([]byte(found.HashedPassword), []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sess, _ := s.store.Get(r, sessionName)
	sess.Values[sessionUserID] = found.ID
	if err := sess.Save(r, w); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": uuid.NewString(),
		"user":         found,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	sess, _ := s.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}
	writeMessage(w, http.StatusOK, "Logout successful")
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	posts := sortedPosts(s.posts)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	p, ok := s.posts[pathID(r)]
	s.mu.RUnlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type postBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func decodePost(r *http.Request) (string, string, bool) {
	var body postBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == nil || body.Content == nil {
		return "", "", false
	}
	return *body.Title, *body.Content, true
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	title, content, ok := decodePost(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Missing required fields (title, content)")
		return
	}

	s.mu.Lock()
	p := models.Post{
		ID:        s.allocID("post"),
		Title:     title,
		Content:   content,
		UserID:    userID,
		Timestamp: s.timestamp(),
	}
	s.posts[p.ID] = p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	title, content, ok := decodePost(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Missing required fields (title, content)")
		return
	}
	if p.UserID != userID {
		writeMessage(w, http.StatusForbidden, "Permission denied")
		return
	}
	p.Title, p.Content = title, content
	s.posts[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	if p.UserID != userID {
		writeMessage(w, http.StatusForbidden, "Permission denied")
		return
	}
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.posts, id)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListPostComments(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.posts[id]; !ok {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	out := []models.Comment{}
	for _, c := range sortedComments(s.comments) {
		if c.PostID != id {
			continue
		}
		c.UserName = s.users[c.UserID].Name
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	postID := pathID(r)
	var body models.CommentDraft
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required field (content)")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[postID]; !ok {
		writeMessage(w, http.StatusNotFound, "Post not found")
		return
	}
	c := models.Comment{
		ID:        s.allocID("comment"),
		Content:   body.Content,
		UserID:    userID,
		PostID:    postID,
		Timestamp: s.timestamp(),
	}
	s.comments[c.ID] = c
	writeJSON(w, http.StatusOK, c)
}

// handleListComments serves every comment without post_id or user_name,
// the way the real API does.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	all := sortedComments(s.comments)
	s.mu.RUnlock()
	for i := range all {
		all[i].PostID = 0
		all[i].UserName = ""
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)
	var body models.CommentDraft
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Missing required field (content)")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Comment not found")
		return
	}
	if c.UserID != userID {
		writeMessage(w, http.StatusForbidden, "Permission denied")
		return
	}
	c.Content = body.Content
	s.comments[id] = c
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Comment not found")
		return
	}
	if c.UserID != userID {
		writeMessage(w, http.StatusForbidden, "Permission denied")
		return
	}
	delete(s.comments, id)
	writeJSON(w, http.StatusOK, c)
}
