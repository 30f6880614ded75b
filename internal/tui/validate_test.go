// ABOUTME: Tests for Flasker API connection validation.
// ABOUTME: Uses httptest to verify the probed endpoint and error handling.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/posts" {
			t.Errorf("expected /posts, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	if err := ValidateConnection(context.Background(), server.URL); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateConnection_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "internal error"},
		{"not found", http.StatusNotFound, `{"message":"nope"}`},
		{"not json", http.StatusOK, "<html></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			if err := ValidateConnection(context.Background(), server.URL); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateConnection_BadURL(t *testing.T) {
	for _, u := range []string{"", "localhost:5000", "not a url"} {
		if err := ValidateConnection(context.Background(), u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func TestValidateConnection_Unreachable(t *testing.T) {
	if err := ValidateConnection(context.Background(), "http://localhost:1"); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestValidateConnection_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ValidateConnection(ctx, server.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
