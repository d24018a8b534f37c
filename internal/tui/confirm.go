// ABOUTME: Yes/no confirmation prompts for destructive commands.
// ABOUTME: Bubbletea model for terminals plus a line-reading fallback for pipes.
package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Confirmer asks the user a yes/no question. The default answer is no.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmModel is a single-keypress y/N prompt.
type ConfirmModel struct {
	prompt   string
	answered bool
	yes      bool
}

// NewConfirmModel creates a prompt model for the given question.
func NewConfirmModel(prompt string) ConfirmModel {
	return ConfirmModel{prompt: prompt}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEscape, tea.KeyEnter:
		m.answered = true
		m.yes = false
		return m, tea.Quit
	case tea.KeyRunes:
		if len(keyMsg.Runes) == 0 {
			return m, nil
		}
		switch keyMsg.Runes[0] {
		case 'y', 'Y':
			m.answered = true
			m.yes = true
			return m, tea.Quit
		case 'n', 'N', 'q':
			m.answered = true
			m.yes = false
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.answered {
		answer := "n"
		if m.yes {
			answer = "y"
		}
		return fmt.Sprintf("%s y/N %s\n", m.prompt, answer)
	}
	return fmt.Sprintf("%s %s ", m.prompt, promptStyle.Render("y/N"))
}

// Confirmed reports whether the user answered yes.
func (m ConfirmModel) Confirmed() bool {
	return m.answered && m.yes
}

// TeaConfirmer asks through a bubbletea program.
type TeaConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm implements Confirmer.
func (c TeaConfirmer) Confirm(prompt string) (bool, error) {
	p := tea.NewProgram(NewConfirmModel(prompt), tea.WithInput(c.In), tea.WithOutput(c.Out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run confirmation prompt: %w", err)
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return false, nil
	}
	return m.Confirmed(), nil
}

// LineConfirmer reads one answer line. Only "y" and "yes" count as yes.
type LineConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm implements Confirmer.
func (c LineConfirmer) Confirm(prompt string) (bool, error) {
	if _, err := fmt.Fprintf(c.Out, "%s y/N ", prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// NewConfirmer picks the bubbletea prompt when in is a terminal and the
// line-reading prompt otherwise.
func NewConfirmer(in *os.File, out io.Writer) Confirmer {
	if IsTerminal(in) {
		return TeaConfirmer{In: in, Out: out}
	}
	return LineConfirmer{In: in, Out: out}
}
