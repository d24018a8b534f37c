// ABOUTME: Interactive TUI wizard for configuring the daily storage backend.
// ABOUTME: Bubbletea model collecting backend kind, storage location, and editor.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/daily/internal/config"
	"github.com/2389-research/daily/internal/storage"
)

// Step represents the current wizard step.
type Step int

const (
	StepBackend Step = iota
	StepLocation
	StepEditor
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn checks that the chosen backend can be opened at location.
type ValidateFn func(ctx context.Context, backend, location string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	base          config.Config
	inputErr      string
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(cfg *config.Config) SetupModel {
	base := *config.Default()
	if cfg != nil {
		base = *cfg
	}

	backendInput := textinput.New()
	backendInput.Placeholder = config.DefaultBackend
	backendInput.Focus()
	backendInput.Width = 50
	if base.Backend != "" {
		backendInput.SetValue(base.Backend)
	}

	locationInput := textinput.New()
	locationInput.Width = 50

	editorInput := textinput.New()
	editorInput.Placeholder = "$VISUAL, $EDITOR or vim"
	editorInput.Width = 50
	if base.Editor != "" {
		editorInput.SetValue(base.Editor)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepBackend,
		inputs:     [3]textinput.Model{backendInput, locationInput, editorInput},
		spinner:    s,
		validateFn: ValidateStore,
		cancelCtx:  &cancelHolder{},
		base:       base,
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepBackend, StepLocation, StepEditor:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)
		m.inputErr = ""

		switch m.step {
		case StepBackend:
			kind := strings.ToLower(strings.TrimSpace(m.inputs[0].Value()))
			if kind == "" {
				kind = config.DefaultBackend
			}
			if kind != storage.KindFile && kind != storage.KindSQLite {
				m.inputErr = fmt.Sprintf("unknown backend %q, choose file or sqlite", kind)
				return m, nil
			}
			m.inputs[0].SetValue(kind)
			m.inputs[0].Blur()
			m.inputs[1].Placeholder = m.defaultLocation()
			m.inputs[1].SetValue(m.currentLocation())
			m.step = StepLocation
			m.inputs[1].Focus()
			return m, textinput.Blink

		case StepLocation:
			if strings.TrimSpace(m.inputs[1].Value()) == "" {
				m.inputs[1].SetValue(m.defaultLocation())
			}
			m.inputs[idx].Blur()
			m.step = StepEditor
			m.inputs[2].Focus()
			return m, textinput.Blink

		case StepEditor:
			m.inputs[idx].Blur()
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	backend := m.inputs[0].Value()
	location := m.inputs[1].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, backend, location)}
	}
}

func (m SetupModel) isSQLite() bool {
	return m.inputs[0].Value() == storage.KindSQLite
}

func (m SetupModel) defaultLocation() string {
	if m.isSQLite() {
		return config.DefaultDatabasePath
	}
	return config.DefaultEntriesDir
}

func (m SetupModel) currentLocation() string {
	loc := m.base.EntriesDir
	if m.isSQLite() {
		loc = m.base.DatabasePath
	}
	if loc == "" {
		return m.defaultLocation()
	}
	return loc
}

func (m SetupModel) locationLabel() string {
	if m.isSQLite() {
		return "Database file"
	}
	return "Entries directory"
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   daily"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Choose where your daily log lives.\n\n")

	switch m.step {
	case StepBackend:
		b.WriteString(stepStyle.Render("Step 1 of 3: Backend (file or sqlite)"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepLocation:
		b.WriteString(fmt.Sprintf("  Backend: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: " + m.locationLabel()))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepEditor:
		b.WriteString(fmt.Sprintf("  Backend: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  %s: %s\n\n", m.locationLabel(), m.inputs[1].Value()))
		b.WriteString(stepStyle.Render("Step 3 of 3: Editor"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(leave empty to use $VISUAL or $EDITOR)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Backend: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  %s: %s\n\n", m.locationLabel(), m.inputs[1].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Opening storage...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Storage ready!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	if m.inputErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.inputErr))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the config with the entered values applied.
func (m SetupModel) Result() *config.Config {
	cfg := m.base
	cfg.Backend = m.inputs[0].Value()
	if m.isSQLite() {
		cfg.DatabasePath = m.inputs[1].Value()
	} else {
		cfg.EntriesDir = m.inputs[1].Value()
	}
	cfg.Editor = strings.TrimSpace(m.inputs[2].Value())
	return &cfg
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
