// ABOUTME: Typed helpers for each Flasker API endpoint.
// ABOUTME: Mutations made as the session user carry credentials; reads are anonymous.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/2389-research/flasker/internal/models"
)

// NewPost is the body for creating a post.
type NewPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int    `json:"user_id"`
}

// NewComment is the body for adding a comment to a post.
type NewComment struct {
	Content string `json:"content"`
	UserID  int    `json:"user_id"`
}

// Credentials is the login body.
type Credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Registration is the body for creating a user.
type Registration struct {
	Name           string `json:"name"`
	Password       string `json:"password"`
	ProfilePicture string `json:"profile_picture"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// Upload is returned by POST /upload.
type Upload struct {
	FileURL string `json:"file_url"`
}

// ListPosts fetches all posts.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.Request(ctx, http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post.
func (c *Client) GetPost(ctx context.Context, id int) (models.Post, error) {
	var post models.Post
	err := c.Request(ctx, http.MethodGet, postPath(id), nil, &post)
	return post, err
}

// CreatePost creates a post as the session user.
func (c *Client) CreatePost(ctx context.Context, p NewPost) (models.Post, error) {
	var post models.Post
	err := c.Request(ctx, http.MethodPost, "/post", p, &post, WithCredentials())
	return post, err
}

// UpdatePost replaces a post's title and content.
func (c *Client) UpdatePost(ctx context.Context, id int, d models.PostDraft) error {
	return c.Request(ctx, http.MethodPut, postPath(id), d, nil, WithCredentials())
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodDelete, postPath(id), nil, nil, WithCredentials())
}

// ListPostComments fetches the comments on a post.
func (c *Client) ListPostComments(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.Request(ctx, http.MethodGet, postPath(postID)+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment adds a comment to a post as the session user.
func (c *Client) CreateComment(ctx context.Context, postID int, nc NewComment) (models.Comment, error) {
	var comment models.Comment
	err := c.Request(ctx, http.MethodPost, postPath(postID)+"/comment", nc, &comment, WithCredentials())
	return comment, err
}

// ListComments fetches every comment.
func (c *Client) ListComments(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.Request(ctx, http.MethodGet, "/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, id int, d models.CommentDraft) error {
	return c.Request(ctx, http.MethodPut, commentPath(id), d, nil, WithCredentials())
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodDelete, commentPath(id), nil, nil, WithCredentials())
}

// GetUser fetches a user profile.
func (c *Client) GetUser(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/user/%d", id), nil, &user)
	return user, err
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, r Registration) (models.User, error) {
	var user models.User
	err := c.Request(ctx, http.MethodPost, "/user", r, &user)
	return user, err
}

// Login authenticates and stores any server session cookie in the jar.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var resp LoginResponse
	err := c.Request(ctx, http.MethodPost, "/login", creds, &resp, WithCredentials())
	return resp, err
}

// Logout ends the server-side login session.
func (c *Client) Logout(ctx context.Context) error {
	return c.Request(ctx, http.MethodPost, "/logout", nil, nil, WithCredentials())
}

// UploadPicture uploads a profile picture and returns its URL.
func (c *Client) UploadPicture(ctx context.Context, filename string, r io.Reader) (Upload, error) {
	var up Upload
	err := c.UploadFile(ctx, "/upload", "file", filename, r, &up)
	return up, err
}

func postPath(id int) string {
	return fmt.Sprintf("/post/%d", id)
}

func commentPath(id int) string {
	return fmt.Sprintf("/comment/%d", id)
}
