// ABOUTME: Small focus-cycling form built from bubbles text inputs.
// ABOUTME: Also provides the title-plus-body editor used for new and edited posts.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label       string
	placeholder string
	secret      bool
}

type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{}
	for _, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.placeholder
		in.Width = 50
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, in)
	}
	return f
}

func (f *form) focusFirst() tea.Cmd {
	return f.focusAt(0)
}

func (f *form) focusAt(i int) tea.Cmd {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *form) next() tea.Cmd {
	return f.focusAt((f.focus + 1) % len(f.inputs))
}

func (f *form) prev() tea.Cmd {
	return f.focusAt((f.focus + len(f.inputs) - 1) % len(f.inputs))
}

// onLast reports whether the last field has focus.
func (f *form) onLast() bool {
	return f.focus == len(f.inputs)-1
}

// update forwards a key to the focused input and returns its new value.
func (f *form) update(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f.inputs[f.focus].Value(), cmd
}

func (f *form) setValues(vals ...string) {
	for i, v := range vals {
		if i < len(f.inputs) {
			f.inputs[i].SetValue(v)
		}
	}
}

func (f *form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := promptStyle.Render(f.labels[i])
		if i == f.focus {
			label = selectedStyle.Render(f.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	return b.String()
}

// postEditor is a title input above a multi-line body.
type postEditor struct {
	title textinput.Model
	body  textarea.Model
	focus int
}

func newPostEditor() postEditor {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Width = textareaWidth
	return postEditor{title: title, body: newTextarea("Write your post")}
}

func (e *postEditor) focusFirst() tea.Cmd {
	e.focus = 0
	e.body.Blur()
	return e.title.Focus()
}

func (e *postEditor) toggle() tea.Cmd {
	if e.focus == 0 {
		e.focus = 1
		e.title.Blur()
		return e.body.Focus()
	}
	return e.focusFirst()
}

func (e *postEditor) setValues(title, content string) {
	e.title.SetValue(title)
	e.body.SetValue(content)
}

func (e *postEditor) values() (string, string) {
	return e.title.Value(), e.body.Value()
}

func (e *postEditor) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if e.focus == 0 {
		e.title, cmd = e.title.Update(msg)
	} else {
		e.body, cmd = e.body.Update(msg)
	}
	return cmd
}

func (e *postEditor) view() string {
	var b strings.Builder
	b.WriteString(e.title.View())
	b.WriteString("\n\n")
	b.WriteString(e.body.View())
	b.WriteString("\n")
	return b.String()
}
