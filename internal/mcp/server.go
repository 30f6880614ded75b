// ABOUTME: MCP server initialization and configuration for flasker.
// ABOUTME: Exposes the blog's account, post, and comment operations as tools for AI agents.
package mcp

import (
	"context"
	"fmt"
	"io"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/flasker/internal/api"
	"github.com/2389-research/flasker/internal/logging"
	"github.com/2389-research/flasker/internal/models"
	"github.com/2389-research/flasker/internal/session"
)

// Blog is the subset of the Flasker API the tools call.
type Blog interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int) (models.Post, error)
	CreatePost(ctx context.Context, p api.NewPost) (models.Post, error)
	UpdatePost(ctx context.Context, id int, d models.PostDraft) error
	DeletePost(ctx context.Context, id int) error
	ListPostComments(ctx context.Context, postID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID int, c api.NewComment) (models.Comment, error)
	UpdateComment(ctx context.Context, id int, d models.CommentDraft) error
	DeleteComment(ctx context.Context, id int) error
	GetUser(ctx context.Context, id int) (models.User, error)
	Register(ctx context.Context, r api.Registration) (models.User, error)
	Login(ctx context.Context, creds api.Credentials) (api.LoginResponse, error)
	Logout(ctx context.Context) error
	UploadPicture(ctx context.Context, filename string, r io.Reader) (api.Upload, error)
}

// Server wraps the MCP server with the blog client and the session it acts as.
type Server struct {
	mcp     *gomcp.Server
	blog    Blog
	session session.Store
	log     *logging.Logger
	tools   map[string]gomcp.ToolHandler
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool failures.
func WithLogger(l *logging.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer creates an MCP server backed by a Flasker API client.
func NewServer(blog Blog, sess session.Store, opts ...ServerOption) (*Server, error) {
	if blog == nil {
		return nil, fmt.Errorf("blog client is required")
	}
	if sess == nil {
		return nil, fmt.Errorf("session store is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "flasker",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		blog:    blog,
		session: sess,
		tools:   make(map[string]gomcp.ToolHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerAccountTools()
	s.registerBlogTools()

	return s, nil
}

func (s *Server) addTool(t *gomcp.Tool, h gomcp.ToolHandler) {
	s.tools[t.Name] = h
	s.mcp.AddTool(t, h)
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolText(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}
