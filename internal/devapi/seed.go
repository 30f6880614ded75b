// ABOUTME: Direct data helpers for the development API, used to seed demo content and tests.
package devapi

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/2389-research/flasker/internal/models"
)

// AddUser creates an account without going through HTTP.
func (s *Server) AddUser(name, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user{ID: s.allocID("user"), Name: name, HashedPassword: string(hash)}
	s.users[u.ID] = u
	return u.model(), nil
}

// AddPost creates a post owned by userID.
func (s *Server) AddPost(userID int, title, content string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Post{ID: s.allocID("post"), Title: title, Content: content, UserID: userID, Timestamp: s.timestamp()}
	s.posts[p.ID] = p
	return p
}

// AddComment creates a comment by userID on postID.
func (s *Server) AddComment(userID, postID int, content string) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Comment{ID: s.allocID("comment"), Content: content, UserID: userID, PostID: postID, Timestamp: s.timestamp()}
	s.comments[c.ID] = c
	return c
}

// Seed loads a couple of demo users with posts and comments.
func (s *Server) Seed() error {
	ada, err := s.AddUser("ada", "lovelace")
	if err != nil {
		return err
	}
	grace, err := s.AddUser("grace", "hopper")
	if err != nil {
		return err
	}
	first := s.AddPost(ada.ID, "Notes on the Analytical Engine", "It might act upon other things besides number.")
	second := s.AddPost(grace.ID, "Found a bug", "First actual case of bug being found.")
	s.AddComment(grace.ID, first.ID, "Still the best description of a general purpose machine.")
	s.AddComment(ada.ID, second.ID, "Was it a moth?")
	return nil
}
