// ABOUTME: Interactive Flasker client: a bubbletea program that renders the page view-models.
// ABOUTME: Routes between pages, shows blocking notices, and runs network actions off the UI loop.
package tui

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/flasker/internal/logging"
	"github.com/2389-research/flasker/internal/pages"
	"github.com/2389-research/flasker/internal/session"
)

// Options configures the client.
type Options struct {
	Session      session.Store
	API          pages.API
	Log          *logging.Logger
	HomeInterval time.Duration
	PostInterval time.Duration
}

type navigateMsg struct{ route pages.Route }

type alertMsg struct{ text string }

// refreshMsg asks for a redraw after page state changed.
type refreshMsg struct{}

// submittedMsg reports that a network action started from a page finished.
type submittedMsg struct {
	route pages.RouteName
	err   error
}

// bridge forwards page callbacks into the program. Pages may call back from
// inside Update, so each send happens on its own goroutine.
type bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (b *bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *bridge) post(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send == nil {
		return
	}
	go send(msg)
}

func (b *bridge) Navigate(r pages.Route) { b.post(navigateMsg{route: r}) }

func (b *bridge) Alert(text string) { b.post(alertMsg{text: text}) }

func (b *bridge) changed() { b.post(refreshMsg{}) }

// App is the root bubbletea model.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	bridge *bridge
	log    *logging.Logger

	header   *pages.Header
	home     *pages.HomePage
	post     *pages.PostPage
	login    *pages.LoginPage
	register *pages.RegisterPage
	addPost  *pages.AddPostPage
	edit     *pages.EditPage
	logout   *pages.LogoutPage

	route   pages.Route
	notices []string
	busy    bool
	spinner spinner.Model
	width   int

	homeCursor   int
	commentInput textinput.Model
	loginForm    form
	registerForm form
	addPostForm  postEditor
	editor       editState
}

// NewApp creates the client. Call Attach with the program's Send before running.
func NewApp(ctx context.Context, opts Options) *App {
	ctx, cancel := context.WithCancel(ctx)
	b := &bridge{}
	deps := pages.Deps{
		Session:      opts.Session,
		API:          opts.API,
		Nav:          b,
		Notify:       b,
		Log:          opts.Log,
		HomeInterval: opts.HomeInterval,
		PostInterval: opts.PostInterval,
		OnChange:     b.changed,
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	comment := textinput.New()
	comment.Placeholder = "Add a comment"
	comment.Width = 60

	return &App{
		ctx:          ctx,
		cancel:       cancel,
		bridge:       b,
		log:          opts.Log,
		header:       pages.NewHeader(deps),
		home:         pages.NewHome(deps),
		post:         pages.NewPost(deps),
		login:        pages.NewLogin(deps),
		register:     pages.NewRegister(deps),
		addPost:      pages.NewAddPost(deps),
		edit:         pages.NewEdit(deps),
		logout:       pages.NewLogout(deps),
		spinner:      s,
		commentInput: comment,
		loginForm: newForm(
			field{label: "Name", placeholder: "your name"},
			field{label: "Password", placeholder: "password", secret: true},
		),
		registerForm: newForm(
			field{label: "Name", placeholder: "your name"},
			field{label: "Password", placeholder: "password", secret: true},
			field{label: "Profile picture", placeholder: "/path/to/picture.png"},
		),
		addPostForm: newPostEditor(),
	}
}

// Attach connects page callbacks to a running program.
func (a *App) Attach(send func(tea.Msg)) {
	a.bridge.attach(send)
}

// Run starts the client on the terminal and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	app := NewApp(ctx, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	app.Attach(p.Send)
	defer app.Close()
	_, err := p.Run()
	return err
}

// Close stops every page's background work.
func (a *App) Close() {
	a.unmount(a.route.Name)
	a.cancel()
}

// Route returns the displayed page.
func (a *App) Route() pages.Route {
	return a.route
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.navigate(pages.Route{Name: pages.RouteHome})
}

func (a *App) unmount(name pages.RouteName) {
	switch name {
	case pages.RouteHome:
		a.home.Unmount()
	case pages.RoutePost:
		a.post.Unmount()
	case pages.RouteEdit:
		a.edit.Unmount()
		a.editor = editState{}
	}
}

func (a *App) navigate(r pages.Route) tea.Cmd {
	if a.route.Name != r.Name {
		a.unmount(a.route.Name)
	}
	a.route = r

	var cmd tea.Cmd
	switch r.Name {
	case pages.RouteHome:
		a.home.Mount(a.ctx)
	case pages.RoutePost:
		a.post.SetPostID(a.ctx, r.PostID)
		a.commentInput.SetValue(a.post.Comment.Input())
		cmd = a.commentInput.Focus()
	case pages.RouteLogin:
		name, password := a.login.Fields()
		a.loginForm.setValues(name, password)
		cmd = a.loginForm.focusFirst()
	case pages.RouteRegister:
		name, password, picture := a.register.Fields()
		a.registerForm.setValues(name, password, picture)
		cmd = a.registerForm.focusFirst()
	case pages.RouteAddPost:
		a.addPost.Mount(a.ctx)
		title, content := a.addPost.Fields()
		a.addPostForm.setValues(title, content)
		cmd = a.addPostForm.focusFirst()
	case pages.RouteEdit:
		a.editor = editState{}
		a.edit.Mount(a.ctx)
	case pages.RouteLogout:
		a.logout.Mount(a.ctx)
	}
	return tea.Batch(cmd, a.refreshHeader())
}

func (a *App) refreshHeader() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		a.header.Refresh(ctx)
		return refreshMsg{}
	}
}

// submit runs fn off the UI loop and reports back with a submittedMsg.
func (a *App) submit(route pages.RouteName, fn func(ctx context.Context) error) tea.Cmd {
	a.busy = true
	ctx := a.ctx
	action := func() tea.Msg {
		return submittedMsg{route: route, err: fn(ctx)}
	}
	return tea.Batch(action, a.spinner.Tick)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case navigateMsg:
		return a, a.navigate(msg.route)

	case alertMsg:
		a.notices = append(a.notices, msg.text)
		return a, nil

	case refreshMsg:
		a.clampCursors()
		return a, nil

	case submittedMsg:
		a.busy = false
		a.syncForms(msg.route)
		a.clampCursors()
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a.quit()
		}
		if len(a.notices) > 0 {
			switch msg.String() {
			case "enter", "esc", " ":
				a.notices = a.notices[1:]
			}
			return a, nil
		}
		if a.busy {
			return a, nil
		}
		return a.updatePage(msg)
	}
	return a, nil
}

// clampCursors keeps list selections inside lists that shrank under them.
func (a *App) clampCursors() {
	a.homeCursor = clampCursor(a.homeCursor, len(a.home.Posts()))
	a.editor.cursor = clampCursor(a.editor.cursor, len(a.editItems()))
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Close()
	return a, tea.Quit
}

func (a *App) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.route.Name {
	case pages.RouteHome:
		return a.updateHome(msg)
	case pages.RoutePost:
		return a.updatePost(msg)
	case pages.RouteLogin:
		return a.updateLogin(msg)
	case pages.RouteRegister:
		return a.updateRegister(msg)
	case pages.RouteAddPost:
		return a.updateAddPost(msg)
	case pages.RouteEdit:
		return a.updateEdit(msg)
	case pages.RouteLogout:
		if msg.String() == "esc" {
			return a, a.navigate(pages.Route{Name: pages.RouteLogin})
		}
	}
	return a, nil
}

// syncForms copies page form state back into the inputs after an action,
// since pages clear their fields on failure.
func (a *App) syncForms(route pages.RouteName) {
	switch route {
	case pages.RoutePost:
		a.commentInput.SetValue(a.post.Comment.Input())
	case pages.RouteLogin:
		a.loginForm.setValues(a.login.Fields())
	case pages.RouteRegister:
		a.registerForm.setValues(a.register.Fields())
	case pages.RouteAddPost:
		a.addPostForm.setValues(a.addPost.Fields())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.viewHeader())
	b.WriteString("\n\n")

	switch a.route.Name {
	case pages.RouteHome:
		b.WriteString(a.viewHome())
	case pages.RoutePost:
		b.WriteString(a.viewPost())
	case pages.RouteLogin:
		b.WriteString(a.viewLogin())
	case pages.RouteRegister:
		b.WriteString(a.viewRegister())
	case pages.RouteAddPost:
		b.WriteString(a.viewAddPost())
	case pages.RouteEdit:
		b.WriteString(a.viewEdit())
	case pages.RouteLogout:
		b.WriteString(promptStyle.Render("Logging out..."))
		b.WriteString("\n")
	}

	if a.busy {
		b.WriteString("\n")
		b.WriteString(a.spinner.View())
		b.WriteString(" Working...\n")
	}
	if len(a.notices) > 0 {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(a.notices[0] + "\n\n" + promptStyle.Render("[enter] OK")))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewHeader() string {
	line := brandStyle.Render("FLASKER")
	if u, ok := a.header.User(); ok {
		line += stepStyle.Render("  logged in as ") + titleStyle.Render(u.Name)
		if u.ProfilePicture != "" {
			line += stepStyle.Render("  " + u.ProfilePicture)
		}
	} else if a.header.LoggedIn() {
		line += stepStyle.Render("  logged in")
	} else {
		line += stepStyle.Render("  not logged in")
	}
	return line
}

// textareaWidth is shared by the multi-line editors.
const textareaWidth = 60

func newTextarea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(textareaWidth)
	ta.SetHeight(6)
	return ta
}
