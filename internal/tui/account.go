// ABOUTME: Login, Register, and AddPost screens backed by their page view-models.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/flasker/internal/pages"
)

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, a.navigate(pages.Route{Name: pages.RouteHome})
	case "tab", "down":
		return a, a.loginForm.next()
	case "shift+tab", "up":
		return a, a.loginForm.prev()
	case "enter":
		if !a.loginForm.onLast() {
			return a, a.loginForm.next()
		}
		page := a.login
		return a, a.submit(pages.RouteLogin, func(ctx context.Context) error {
			return page.Submit(ctx)
		})
	}

	val, cmd := a.loginForm.update(msg)
	switch a.loginForm.focus {
	case 0:
		a.login.SetName(val)
	case 1:
		a.login.SetPassword(val)
	}
	return a, cmd
}

func (a *App) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Log in"))
	b.WriteString("\n\n")
	b.WriteString(a.loginForm.view())
	b.WriteString(promptStyle.Render("[tab] next field  [enter] log in  [esc] back"))
	b.WriteString("\n")
	return b.String()
}

func (a *App) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, a.navigate(pages.Route{Name: pages.RouteHome})
	case "tab", "down":
		return a, a.registerForm.next()
	case "shift+tab", "up":
		return a, a.registerForm.prev()
	case "enter":
		if !a.registerForm.onLast() {
			return a, a.registerForm.next()
		}
		page := a.register
		return a, a.submit(pages.RouteRegister, func(ctx context.Context) error {
			return page.Submit(ctx)
		})
	}

	val, cmd := a.registerForm.update(msg)
	switch a.registerForm.focus {
	case 0:
		a.register.SetName(val)
	case 1:
		a.register.SetPassword(val)
	case 2:
		a.register.SetPicture(val)
	}
	return a, cmd
}

func (a *App) viewRegister() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Register"))
	b.WriteString("\n\n")
	b.WriteString(a.registerForm.view())
	b.WriteString(promptStyle.Render("[tab] next field  [enter] register  [esc] back"))
	b.WriteString("\n")
	return b.String()
}

func (a *App) updateAddPost(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, a.navigate(pages.Route{Name: pages.RouteHome})
	case "tab":
		return a, a.addPostForm.toggle()
	case "ctrl+s":
		page := a.addPost
		return a, a.submit(pages.RouteAddPost, func(ctx context.Context) error {
			return page.Submit(ctx)
		})
	}

	cmd := a.addPostForm.update(msg)
	title, content := a.addPostForm.values()
	a.addPost.SetTitle(title)
	a.addPost.SetContent(content)
	return a, cmd
}

func (a *App) viewAddPost() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New post"))
	b.WriteString("\n\n")
	b.WriteString(a.addPostForm.view())
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("[tab] switch field  [ctrl+s] publish  [esc] back"))
	b.WriteString("\n")
	return b.String()
}
