// ABOUTME: Core data models for Flasker posts, comments, users, and edit drafts.
// ABOUTME: Mirrors the JSON the remote API serves and provides ownership filters.
package models

// Post is a blog post owned by the remote service.
type Post struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	UserID    int    `json:"user_id"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Comment is a comment on a post. The all-comments listing omits PostID and UserName.
type Comment struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	UserID    int    `json:"user_id"`
	PostID    int    `json:"post_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// User is a registered Flasker account.
type User struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// PostDraft is the in-progress edit of a post's fields.
type PostDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CommentDraft is the in-progress edit of a comment.
type CommentDraft struct {
	Content string `json:"content"`
}

// PostsByUser returns the posts authored by userID, preserving order.
func PostsByUser(posts []Post, userID int) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

// CommentsByUser returns the comments authored by userID, preserving order.
func CommentsByUser(comments []Comment, userID int) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// WithoutPost returns a copy of posts with the given id removed.
func WithoutPost(posts []Post, id int) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// WithoutComment returns a copy of comments with the given id removed.
func WithoutComment(comments []Comment, id int) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
