// ABOUTME: Edit screen: the session user's posts and comments with inline editors.
// ABOUTME: Keystrokes update the page's edit buffers; ctrl+s sends them, d deletes.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/flasker/internal/pages"
)

type itemKind int

const (
	postItem itemKind = iota
	commentItem
)

type editItem struct {
	kind  itemKind
	id    int
	label string
}

type editState struct {
	cursor  int
	editing bool
	item    editItem
	post    postEditor
	comment textarea.Model
}

func (a *App) editItems() []editItem {
	var items []editItem
	for _, p := range a.edit.Posts() {
		items = append(items, editItem{kind: postItem, id: p.ID, label: p.Title})
	}
	for _, c := range a.edit.Comments() {
		items = append(items, editItem{kind: commentItem, id: c.ID, label: c.Content})
	}
	return items
}

func (a *App) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editor.editing {
		return a.updateEditor(msg)
	}

	items := a.editItems()
	switch msg.String() {
	case "esc":
		return a, a.navigate(pages.Route{Name: pages.RouteHome})
	case "up", "k":
		if a.editor.cursor > 0 {
			a.editor.cursor--
		}
	case "down", "j":
		if a.editor.cursor < len(items)-1 {
			a.editor.cursor++
		}
	case "enter":
		if a.editor.cursor < len(items) {
			return a, a.openEditor(items[a.editor.cursor])
		}
	case "d":
		if a.editor.cursor < len(items) {
			item := items[a.editor.cursor]
			page := a.edit
			return a, a.submit(pages.RouteEdit, func(ctx context.Context) error {
				if item.kind == postItem {
					return page.DeletePost(ctx, item.id)
				}
				return page.DeleteComment(ctx, item.id)
			})
		}
	}
	return a, nil
}

func (a *App) openEditor(item editItem) tea.Cmd {
	a.editor.editing = true
	a.editor.item = item
	if item.kind == postItem {
		d, _ := a.edit.PostDraft(item.id)
		a.editor.post = newPostEditor()
		a.editor.post.setValues(d.Title, d.Content)
		return a.editor.post.focusFirst()
	}
	d, _ := a.edit.CommentDraft(item.id)
	a.editor.comment = newTextarea("Comment")
	a.editor.comment.SetValue(d.Content)
	return a.editor.comment.Focus()
}

func (a *App) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := a.editor.item
	switch msg.String() {
	case "esc":
		a.editor.editing = false
		return a, nil
	case "tab":
		if item.kind == postItem {
			return a, a.editor.post.toggle()
		}
	case "ctrl+s":
		a.editor.editing = false
		page := a.edit
		return a, a.submit(pages.RouteEdit, func(ctx context.Context) error {
			if item.kind == postItem {
				return page.SubmitPost(ctx, item.id)
			}
			return page.SubmitComment(ctx, item.id)
		})
	}

	var cmd tea.Cmd
	if item.kind == postItem {
		cmd = a.editor.post.update(msg)
		title, content := a.editor.post.values()
		a.edit.SetPostTitle(item.id, title)
		a.edit.SetPostContent(item.id, content)
	} else {
		a.editor.comment, cmd = a.editor.comment.Update(msg)
		a.edit.SetCommentContent(item.id, a.editor.comment.Value())
	}
	return a, cmd
}

func (a *App) viewEdit() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Your posts and comments"))
	b.WriteString("\n\n")

	if a.editor.editing {
		item := a.editor.item
		if item.kind == postItem {
			b.WriteString(stepStyle.Render(fmt.Sprintf("Editing post %d", item.id)))
			b.WriteString("\n\n")
			b.WriteString(a.editor.post.view())
			b.WriteString("\n")
			b.WriteString(promptStyle.Render("[tab] switch field  [ctrl+s] save  [esc] back to list"))
		} else {
			b.WriteString(stepStyle.Render(fmt.Sprintf("Editing comment %d", item.id)))
			b.WriteString("\n\n")
			b.WriteString(a.editor.comment.View())
			b.WriteString("\n\n")
			b.WriteString(promptStyle.Render("[ctrl+s] save  [esc] back to list"))
		}
		b.WriteString("\n")
		return b.String()
	}

	if !a.edit.Loaded() {
		b.WriteString(promptStyle.Render("Loading..."))
		b.WriteString("\n")
	}
	items := a.editItems()
	lastKind := itemKind(-1)
	for i, item := range items {
		if item.kind != lastKind {
			heading := "Posts"
			if item.kind == commentItem {
				heading = "Comments"
			}
			b.WriteString(stepStyle.Render(heading))
			b.WriteString("\n")
			lastKind = item.kind
		}
		line := fmt.Sprintf("%4d  %s", item.id, firstLine(item.label))
		if i == a.editor.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if a.edit.Loaded() && len(items) == 0 {
		b.WriteString(promptStyle.Render("Nothing of yours yet."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("[enter] edit  [d]elete  [esc] back"))
	b.WriteString("\n")
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "..."
	}
	return s
}
