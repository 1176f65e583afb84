package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/addressbook/internal/command"
)

// maxHistory bounds the scrollback kept in the model.
const maxHistory = 200

// Executor runs one command line and persists the result.
type Executor interface {
	Execute(line string) (command.Result, error)
}

// entry is one command and its result in the scrollback.
type entry struct {
	input  string
	result command.Result
}

type keyMap struct {
	Submit key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// Model is the Bubble Tea model for the interactive address book prompt.
type Model struct {
	exec     Executor
	input    textinput.Model
	keys     keyMap
	history  []entry
	height   int
	quitting bool
	err      error // persistence failure that ended the session
}

// NewModel creates a Model that sends submitted lines to exec.
func NewModel(exec Executor, prompt string) Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = "add <name> <phone>"
	ti.Focus()

	return Model{
		exec:  exec,
		input: ti,
		keys:  defaultKeys(),
	}
}

// Err returns the persistence error that ended the session, if any.
func (m Model) Err() error { return m.err }

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit executes the current input line.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()

	res, err := m.exec.Execute(line)
	m.history = append(m.history, entry{input: line, result: res})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}

	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	if res.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the scrollback followed by the prompt.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Welcome to the assistant bot!"))
	b.WriteString("\n\n")

	for _, e := range m.visibleHistory() {
		b.WriteString(echoStyle.Render(m.input.Prompt + e.input))
		b.WriteString("\n")
		b.WriteString(renderResult(e.result.String(), e.result.Failed()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.quitting {
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.keys.Submit.Help().Key + " " + m.keys.Submit.Help().Desc +
		" • " + m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc))
	return b.String()
}

// visibleHistory returns the entries that fit the terminal height.
func (m Model) visibleHistory() []entry {
	if m.height <= 0 {
		return m.history
	}
	// Title, blank line, prompt and help take four rows.
	budget := m.height - 4
	start := len(m.history)
	for start > 0 {
		rows := 1 + strings.Count(m.history[start-1].result.String(), "\n") + 1
		if rows > budget {
			break
		}
		budget -= rows
		start--
	}
	return m.history[start:]
}
