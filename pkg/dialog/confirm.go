// Package dialog renders the terminal dialogs around an export: the
// confirmation prompt before it starts and the result boxes after it ends.
package dialog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Export confirmation texts
const (
	ExportTitle        = "Export Options"
	ExportInstruction  = "Flow Export"
	ExportContent      = "Choose how connections are resolved."
	ExportVerification = "Skip pipe fittings & accessories (direct connections only)"
)

type focus int

const (
	focusCheckbox focus = iota
	focusOK
	focusCancel
	focusCount
)

type confirmKeyMap struct {
	Toggle key.Binding
	Next   key.Binding
	Prev   key.Binding
	Enter  key.Binding
	Cancel key.Binding
}

var confirmKeys = confirmKeyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space/x", "toggle"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab", "prev"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Enter, k.Cancel}
}

func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Enter},
		{k.Next, k.Prev},
		{k.Cancel},
	}
}

// Result is the user's answer to a confirmation dialog
type Result struct {
	Confirmed bool
	Checked   bool
}

// ConfirmModel is an OK/Cancel dialog with one verification checkbox
type ConfirmModel struct {
	title        string
	instruction  string
	content      string
	verification string

	checked   bool
	focus     focus
	done      bool
	confirmed bool

	keys  confirmKeyMap
	help  help.Model
	width int
}

// NewConfirm creates a dialog with the given texts
func NewConfirm(title, instruction, content, verification string, checked bool) ConfirmModel {
	return ConfirmModel{
		title:        title,
		instruction:  instruction,
		content:      content,
		verification: verification,
		checked:      checked,
		focus:        focusOK,
		keys:         confirmKeys,
		help:         help.New(),
	}
}

// NewExportConfirm creates the export options dialog
func NewExportConfirm(skipAccessories bool) ConfirmModel {
	return NewConfirm(ExportTitle, ExportInstruction, ExportContent, ExportVerification, skipAccessories)
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m.finish(false)

		case key.Matches(msg, m.keys.Toggle):
			m.checked = !m.checked

		case key.Matches(msg, m.keys.Next):
			m.focus = (m.focus + 1) % focusCount

		case key.Matches(msg, m.keys.Prev):
			m.focus = (m.focus + focusCount - 1) % focusCount

		case key.Matches(msg, m.keys.Enter):
			switch m.focus {
			case focusCheckbox:
				m.checked = !m.checked
			case focusOK:
				return m.finish(true)
			case focusCancel:
				return m.finish(false)
			}
		}
	}
	return m, nil
}

func (m ConfirmModel) finish(confirmed bool) (tea.Model, tea.Cmd) {
	m.done = true
	m.confirmed = confirmed
	return m, tea.Quit
}

// Done reports whether the user has answered
func (m ConfirmModel) Done() bool {
	return m.done
}

// Result returns the answer. An unanswered dialog is not confirmed.
func (m ConfirmModel) Result() Result {
	return Result{Confirmed: m.done && m.confirmed, Checked: m.checked}
}

func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(instructionStyle.Render(m.instruction))
	b.WriteString("\n")
	b.WriteString(m.content)
	b.WriteString("\n\n")

	mark := "[ ]"
	if m.checked {
		mark = "[x]"
	}
	b.WriteString(m.styled(focusCheckbox, mark+" "+m.verification))
	b.WriteString("\n\n")
	b.WriteString(m.styled(focusOK, "OK"))
	b.WriteString("  ")
	b.WriteString(m.styled(focusCancel, "Cancel"))

	out := boxStyle.Render(b.String())
	return out + "\n" + helpStyle.Render(m.help.View(m.keys)) + "\n"
}

func (m ConfirmModel) styled(f focus, s string) string {
	if m.focus == f {
		return focusedStyle.Render(s)
	}
	return blurredStyle.Render(s)
}

// Confirm runs a dialog on the given terminal streams until it is answered
func Confirm(ctx context.Context, in io.Reader, out io.Writer, m ConfirmModel) (Result, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("confirmation dialog failed: %w", err)
	}
	return final.(ConfirmModel).Result(), nil
}
