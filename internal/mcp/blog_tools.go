// ABOUTME: MCP tool implementations for posts and comments.
// ABOUTME: Reads are anonymous; changes act as the logged-in user and need the login tool first.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/flasker/internal/api"
	"github.com/2389-research/flasker/internal/models"
)

const notLoggedIn = "not logged in - use the login tool first"

func (s *Server) registerBlogTools() {
	s.addTool(&gomcp.Tool{
		Name:        "list_posts",
		Description: "List blog posts, newest last.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of posts to return (default 20)"},
				"mine": {"type": "boolean", "description": "Only posts by the logged-in user"}
			}
		}`),
	}, s.handleListPosts)

	s.addTool(&gomcp.Tool{
		Name:        "read_post",
		Description: "Read one post with its comments.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "number", "description": "ID of the post."}
			},
			"required": ["post_id"]
		}`),
	}, s.handleReadPost)

	s.addTool(&gomcp.Tool{
		Name:        "create_post",
		Description: "Publish a new post as the logged-in user.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Post title.", "minLength": 1},
				"content": {"type": "string", "description": "Post body.", "minLength": 1}
			},
			"required": ["title", "content"]
		}`),
	}, s.handleCreatePost)

	s.addTool(&gomcp.Tool{
		Name:        "edit_post",
		Description: "Change the title and/or content of one of your posts. Omitted fields keep their current value.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "number", "description": "ID of the post."},
				"title": {"type": "string", "description": "New title (optional)"},
				"content": {"type": "string", "description": "New body (optional)"}
			},
			"required": ["post_id"]
		}`),
	}, s.handleEditPost)

	s.addTool(&gomcp.Tool{
		Name:        "delete_post",
		Description: "Delete one of your posts along with its comments.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "number", "description": "ID of the post."}
			},
			"required": ["post_id"]
		}`),
	}, s.handleDeletePost)

	s.addTool(&gomcp.Tool{
		Name:        "add_comment",
		Description: "Comment on a post as the logged-in user.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "number", "description": "ID of the post to comment on."},
				"content": {"type": "string", "description": "Comment text.", "minLength": 1}
			},
			"required": ["post_id", "content"]
		}`),
	}, s.handleAddComment)

	s.addTool(&gomcp.Tool{
		Name:        "edit_comment",
		Description: "Replace the text of one of your comments.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"comment_id": {"type": "number", "description": "ID of the comment."},
				"content": {"type": "string", "description": "New comment text.", "minLength": 1}
			},
			"required": ["comment_id", "content"]
		}`),
	}, s.handleEditComment)

	s.addTool(&gomcp.Tool{
		Name:        "delete_comment",
		Description: "Delete one of your comments.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"comment_id": {"type": "number", "description": "ID of the comment."}
			},
			"required": ["comment_id"]
		}`),
	}, s.handleDeleteComment)
}

func (s *Server) handleListPosts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit int  `json:"limit"`
		Mine  bool `json:"mine"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = 20
	}

	posts, err := s.blog.ListPosts(ctx)
	if err != nil {
		s.log.Warnf("Error fetching posts: %v", err)
		return toolError("failed to list posts: %v", err), nil
	}
	if args.Mine {
		id, ok := s.session.Get()
		if !ok {
			return toolError(notLoggedIn), nil
		}
		posts = models.PostsByUser(posts, id)
	}
	if len(posts) > args.Limit {
		posts = posts[len(posts)-args.Limit:]
	}

	if len(posts) == 0 {
		return toolText("No posts found."), nil
	}

	var sb strings.Builder
	for _, p := range posts {
		sb.WriteString(fmt.Sprintf("---\n#%d %s (user %d", p.ID, p.Title, p.UserID))
		if p.Timestamp != "" {
			sb.WriteString(", " + p.Timestamp)
		}
		sb.WriteString(")\n")
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleReadPost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		PostID int `json:"post_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.PostID <= 0 {
		return toolError("post_id is required"), nil
	}

	post, err := s.blog.GetPost(ctx, args.PostID)
	if err != nil {
		return toolError("failed to fetch post %d: %v", args.PostID, err), nil
	}
	comments, err := s.blog.ListPostComments(ctx, args.PostID)
	if err != nil {
		return toolError("failed to fetch comments for post %d: %v", args.PostID, err), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#%d %s\nby user %d", post.ID, post.Title, post.UserID))
	if post.Timestamp != "" {
		sb.WriteString(" at " + post.Timestamp)
	}
	sb.WriteString("\n\n" + post.Content + "\n")
	if len(comments) > 0 {
		sb.WriteString(fmt.Sprintf("\nComments (%d):\n", len(comments)))
	}
	for _, c := range comments {
		author := c.UserName
		if author == "" {
			author = fmt.Sprintf("user %d", c.UserID)
		}
		sb.WriteString(fmt.Sprintf("- [%d] %s: %s\n", c.ID, author, c.Content))
	}
	return toolText("%s", sb.String()), nil
}

func (s *Server) handleCreatePost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Title == "" || args.Content == "" {
		return toolError("title and content are required"), nil
	}
	userID, ok := s.session.Get()
	if !ok {
		return toolError(notLoggedIn), nil
	}

	post, err := s.blog.CreatePost(ctx, api.NewPost{Title: args.Title, Content: args.Content, UserID: userID})
	if err != nil {
		s.log.Warnf("Failed to add a post: %v", err)
		return toolError("failed to create post: %v", err), nil
	}
	return toolText("Post created (ID: %d)", post.ID), nil
}

func (s *Server) handleEditPost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		PostID  int     `json:"post_id"`
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.PostID <= 0 {
		return toolError("post_id is required"), nil
	}
	if args.Title == nil && args.Content == nil {
		return toolError("nothing to change: pass title and/or content"), nil
	}
	if _, ok := s.session.Get(); !ok {
		return toolError(notLoggedIn), nil
	}

	current, err := s.blog.GetPost(ctx, args.PostID)
	if err != nil {
		return toolError("failed to fetch post %d: %v", args.PostID, err), nil
	}
	draft := models.PostDraft{Title: current.Title, Content: current.Content}
	if args.Title != nil {
		draft.Title = *args.Title
	}
	if args.Content != nil {
		draft.Content = *args.Content
	}

	if err := s.blog.UpdatePost(ctx, args.PostID, draft); err != nil {
		s.log.Warnf("Failed to edit post %d: %v", args.PostID, err)
		return toolError("failed to edit post %d: %v", args.PostID, err), nil
	}
	return toolText("Post %d edited.", args.PostID), nil
}

func (s *Server) handleDeletePost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, res := s.mutationTarget(req, "post_id")
	if res != nil {
		return res, nil
	}
	if err := s.blog.DeletePost(ctx, id); err != nil {
		s.log.Warnf("Failed to delete post %d: %v", id, err)
		return toolError("failed to delete post %d: %v", id, err), nil
	}
	return toolText("Post %d deleted.", id), nil
}

func (s *Server) handleAddComment(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		PostID  int    `json:"post_id"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.PostID <= 0 || args.Content == "" {
		return toolError("post_id and content are required"), nil
	}
	userID, ok := s.session.Get()
	if !ok {
		return toolError(notLoggedIn), nil
	}

	c, err := s.blog.CreateComment(ctx, args.PostID, api.NewComment{Content: args.Content, UserID: userID})
	if err != nil {
		s.log.Warnf("Failed to add a comment: %v", err)
		return toolError("failed to add comment: %v", err), nil
	}
	return toolText("Comment added (ID: %d)", c.ID), nil
}

func (s *Server) handleEditComment(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		CommentID int    `json:"comment_id"`
		Content   string `json:"content"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.CommentID <= 0 || args.Content == "" {
		return toolError("comment_id and content are required"), nil
	}
	if _, ok := s.session.Get(); !ok {
		return toolError(notLoggedIn), nil
	}

	if err := s.blog.UpdateComment(ctx, args.CommentID, models.CommentDraft{Content: args.Content}); err != nil {
		s.log.Warnf("Failed to edit comment %d: %v", args.CommentID, err)
		return toolError("failed to edit comment %d: %v", args.CommentID, err), nil
	}
	return toolText("Comment %d edited.", args.CommentID), nil
}

func (s *Server) handleDeleteComment(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, res := s.mutationTarget(req, "comment_id")
	if res != nil {
		return res, nil
	}
	if err := s.blog.DeleteComment(ctx, id); err != nil {
		s.log.Warnf("Failed to delete comment %d: %v", id, err)
		return toolError("failed to delete comment %d: %v", id, err), nil
	}
	return toolText("Comment %d deleted.", id), nil
}

// mutationTarget reads a single id argument and checks the session.
// A non-nil result is the error to return to the caller.
func (s *Server) mutationTarget(req *gomcp.CallToolRequest, key string) (int, *gomcp.CallToolResult) {
	var args map[string]json.RawMessage
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return 0, toolError("invalid arguments: %v", err)
	}
	var id int
	if raw, ok := args[key]; !ok || json.Unmarshal(raw, &id) != nil || id <= 0 {
		return 0, toolError("%s is required", key)
	}
	if _, ok := s.session.Get(); !ok {
		return 0, toolError(notLoggedIn)
	}
	return id, nil
}
