// ABOUTME: MCP tool implementations for the blog session.
// ABOUTME: Registers register, login, logout, and whoami tools.
package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/flasker/internal/api"
)

func (s *Server) registerAccountTools() {
	s.addTool(&gomcp.Tool{
		Name:        "register",
		Description: "Create a blog account and log in as it. Optionally uploads a local image as the profile picture.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Account name.", "minLength": 1},
				"password": {"type": "string", "description": "Account password.", "minLength": 1},
				"picture_path": {"type": "string", "description": "Path to a local image to use as the profile picture (optional)"}
			},
			"required": ["name", "password"]
		}`),
	}, s.handleRegister)

	s.addTool(&gomcp.Tool{
		Name:        "login",
		Description: "Log in to the blog. Later tools that change posts or comments act as this user.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Account name.", "minLength": 1},
				"password": {"type": "string", "description": "Account password.", "minLength": 1}
			},
			"required": ["name", "password"]
		}`),
	}, s.handleLogin)

	s.addTool(&gomcp.Tool{
		Name:        "logout",
		Description: "End the blog session.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleLogout)

	s.addTool(&gomcp.Tool{
		Name:        "whoami",
		Description: "Show which blog user the session is logged in as.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleWhoami)
}

func (s *Server) handleRegister(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Name        string `json:"name"`
		Password    string `json:"password"`
		PicturePath string `json:"picture_path"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Name == "" || args.Password == "" {
		return toolError("name and password are required"), nil
	}

	var pictureURL string
	if args.PicturePath != "" {
		f, err := os.Open(args.PicturePath)
		if err != nil {
			return toolError("failed to open picture: %v", err), nil
		}
		up, err := s.blog.UploadPicture(ctx, filepath.Base(args.PicturePath), f)
		f.Close()
		if err != nil {
			s.log.Warnf("Picture upload failed: %v", err)
			return toolError("failed to upload picture: %v", err), nil
		}
		pictureURL = up.FileURL
	}

	u, err := s.blog.Register(ctx, api.Registration{
		Name:           args.Name,
		Password:       args.Password,
		ProfilePicture: pictureURL,
	})
	if err != nil {
		s.log.Warnf("Registration failed: %v", err)
		return toolError("registration failed: %v", err), nil
	}
	s.session.Set(u.ID)

	return toolText("Registered and logged in as %s (user %d)", u.Name, u.ID), nil
}

func (s *Server) handleLogin(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Name == "" || args.Password == "" {
		return toolError("name and password are required"), nil
	}

	resp, err := s.blog.Login(ctx, api.Credentials{Name: args.Name, Password: args.Password})
	if err != nil {
		s.log.Warnf("Login failed: %v", err)
		return toolError("login failed: %v", err), nil
	}
	s.session.Set(resp.User.ID)

	return toolText("Logged in as %s (user %d)", resp.User.Name, resp.User.ID), nil
}

func (s *Server) handleLogout(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	if _, ok := s.session.Get(); !ok {
		return toolText("Not logged in."), nil
	}
	s.session.Clear()

	// The local session is gone either way; the server call only ends the cookie session there.
	if err := s.blog.Logout(ctx); err != nil {
		s.log.Debugf("Server logout failed: %v", err)
		return toolText("Logged out locally (server logout failed: %v)", err), nil
	}
	return toolText("Logged out."), nil
}

func (s *Server) handleWhoami(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	id, ok := s.session.Get()
	if !ok {
		return toolText("Not logged in."), nil
	}
	u, err := s.blog.GetUser(ctx, id)
	if err != nil {
		return toolError("logged in as user %d, but failed to fetch the profile: %v", id, err), nil
	}
	if u.ProfilePicture != "" {
		return toolText("Logged in as %s (user %d)\nPicture: %s", u.Name, u.ID, u.ProfilePicture), nil
	}
	return toolText("Logged in as %s (user %d)", u.Name, u.ID), nil
}
