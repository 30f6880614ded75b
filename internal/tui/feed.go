// ABOUTME: Home and Post screens: the post list and a single post with its comments.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/flasker/internal/models"
	"github.com/2389-research/flasker/internal/pages"
)

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := a.home.Posts()
	switch msg.String() {
	case "up", "k":
		if a.homeCursor > 0 {
			a.homeCursor--
		}
	case "down", "j":
		if a.homeCursor < len(posts)-1 {
			a.homeCursor++
		}
	case "enter":
		if a.homeCursor < len(posts) {
			return a, a.navigate(pages.Route{Name: pages.RoutePost, PostID: posts[a.homeCursor].ID})
		}
	case "n":
		return a, a.navigate(pages.Route{Name: pages.RouteAddPost})
	case "e":
		return a, a.navigate(pages.Route{Name: pages.RouteEdit})
	case "l":
		return a, a.navigate(pages.Route{Name: pages.RouteLogin})
	case "r":
		return a, a.navigate(pages.Route{Name: pages.RouteRegister})
	case "o":
		return a, a.navigate(pages.Route{Name: pages.RouteLogout})
	case "q":
		return a.quit()
	}
	return a, nil
}

func (a *App) viewHome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Posts"))
	b.WriteString("\n\n")

	posts := a.home.Posts()
	switch {
	case !a.home.Loaded() && a.home.Err() != nil:
		b.WriteString(errorStyle.Render("Could not load posts; retrying."))
		b.WriteString("\n")
	case !a.home.Loaded():
		b.WriteString(promptStyle.Render("Loading posts..."))
		b.WriteString("\n")
	case len(posts) == 0:
		b.WriteString(promptStyle.Render("No posts yet."))
		b.WriteString("\n")
	}
	for i, p := range posts {
		line := fmt.Sprintf("%4d  %s", p.ID, p.Title)
		if i == a.homeCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "[enter] open  [n]ew post  [e]dit mine  "
	if a.header.LoggedIn() {
		help += "l[o]gout  "
	} else {
		help += "[l]ogin  [r]egister  "
	}
	b.WriteString(promptStyle.Render(help + "[q]uit"))
	b.WriteString("\n")
	return b.String()
}

func (a *App) updatePost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, a.navigate(pages.Route{Name: pages.RouteHome})
	case "enter":
		form := a.post.Comment
		return a, a.submit(pages.RoutePost, func(ctx context.Context) error {
			return form.Submit(ctx)
		})
	}
	var cmd tea.Cmd
	a.commentInput, cmd = a.commentInput.Update(msg)
	a.post.Comment.SetInput(a.commentInput.Value())
	return a, cmd
}

func (a *App) viewPost() string {
	var b strings.Builder
	post, ok := a.post.Post()
	if !ok {
		if a.post.Err() != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Could not load post %d; retrying.", a.post.PostID())))
		} else {
			b.WriteString(promptStyle.Render("Loading post..."))
		}
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[esc] back"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(post.Title))
	b.WriteString("\n")
	b.WriteString(authorStyle.Render(fmt.Sprintf("by user %d", post.UserID)))
	if post.Timestamp != "" {
		b.WriteString(stepStyle.Render("  " + post.Timestamp))
	}
	b.WriteString("\n\n")
	b.WriteString(post.Content)
	b.WriteString("\n\n")

	comments := a.post.Comments()
	b.WriteString(titleStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))))
	b.WriteString("\n")
	for _, c := range comments {
		b.WriteString(authorStyle.Render(commentAuthor(c) + ": "))
		b.WriteString(c.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(a.commentInput.View())
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("[enter] comment  [esc] back"))
	b.WriteString("\n")
	return b.String()
}

func commentAuthor(c models.Comment) string {
	if c.UserName != "" {
		return c.UserName
	}
	return fmt.Sprintf("user %d", c.UserID)
}
