// ABOUTME: Unit tests for the setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/daily/internal/config"
)

func enter(t *testing.T, m SetupModel) (SetupModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(SetupModel), cmd
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel(nil)
	if m.step != StepBackend {
		t.Errorf("expected initial step StepBackend, got %d", m.step)
	}
	if m.inputs[0].Value() != config.DefaultBackend {
		t.Errorf("expected default backend prefilled, got %q", m.inputs[0].Value())
	}
	if m.inputs[2].Value() != "" {
		t.Error("expected empty editor input for new config")
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "sqlite"
	cfg.DatabasePath = "/srv/daily.db"
	cfg.Editor = "nano"

	m := NewSetupModel(cfg)
	if m.inputs[0].Value() != "sqlite" {
		t.Errorf("expected pre-filled backend, got %q", m.inputs[0].Value())
	}
	if m.inputs[2].Value() != "nano" {
		t.Errorf("expected pre-filled editor, got %q", m.inputs[2].Value())
	}

	m, _ = enter(t, m)
	if m.inputs[1].Value() != "/srv/daily.db" {
		t.Errorf("expected database path as location, got %q", m.inputs[1].Value())
	}
}

func TestSetupModel_StepTransitions(t *testing.T) {
	m := NewSetupModel(nil)

	m.inputs[0].SetValue("file")
	m, _ = enter(t, m)
	if m.step != StepLocation {
		t.Errorf("expected StepLocation after Enter on backend, got %d", m.step)
	}
	if m.inputs[1].Value() != config.DefaultEntriesDir {
		t.Errorf("expected entries dir default, got %q", m.inputs[1].Value())
	}

	m.inputs[1].SetValue("/tmp/daily")
	m, _ = enter(t, m)
	if m.step != StepEditor {
		t.Errorf("expected StepEditor after Enter on location, got %d", m.step)
	}

	var cmd tea.Cmd
	m, cmd = enter(t, m)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after Enter on editor, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd (validation + spinner tick) when entering validation")
	}
}

func TestSetupModel_EmptyBackendUsesDefault(t *testing.T) {
	m := NewSetupModel(nil)
	m.inputs[0].SetValue("")

	m, _ = enter(t, m)
	if m.inputs[0].Value() != config.DefaultBackend {
		t.Errorf("expected default backend %q, got %q", config.DefaultBackend, m.inputs[0].Value())
	}
	if m.step != StepLocation {
		t.Errorf("expected StepLocation after default backend applied, got %d", m.step)
	}
}

func TestSetupModel_BackendNormalized(t *testing.T) {
	m := NewSetupModel(nil)
	m.inputs[0].SetValue("  SQLite ")

	m, _ = enter(t, m)
	if m.inputs[0].Value() != "sqlite" {
		t.Errorf("expected normalized backend, got %q", m.inputs[0].Value())
	}
	if m.inputs[1].Value() != config.DefaultDatabasePath {
		t.Errorf("expected database default location, got %q", m.inputs[1].Value())
	}
}

func TestSetupModel_UnknownBackendBlocked(t *testing.T) {
	m := NewSetupModel(nil)
	m.inputs[0].SetValue("postgres")

	m, _ = enter(t, m)
	if m.step != StepBackend {
		t.Errorf("expected to stay on StepBackend, got %d", m.step)
	}
	if !strings.Contains(m.View(), "unknown backend") {
		t.Error("expected view to explain the rejected backend")
	}
}

func TestSetupModel_EmptyLocationUsesDefault(t *testing.T) {
	m := NewSetupModel(nil)
	m, _ = enter(t, m)
	m.inputs[1].SetValue("   ")

	m, _ = enter(t, m)
	if m.inputs[1].Value() != config.DefaultEntriesDir {
		t.Errorf("expected default location, got %q", m.inputs[1].Value())
	}
}

func TestSetupModel_ValidationSuccess(t *testing.T) {
	m := NewSetupModel(nil)
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: nil})
	m = updated.(SetupModel)
	if m.step != StepDone {
		t.Errorf("expected StepDone after successful validation, got %d", m.step)
	}
}

func TestSetupModel_ValidationFailure(t *testing.T) {
	m := NewSetupModel(nil)
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: fmt.Errorf("permission denied")})
	m = updated.(SetupModel)
	if m.step != StepFailed {
		t.Errorf("expected StepFailed after validation error, got %d", m.step)
	}
	if m.validationErr == nil {
		t.Error("expected validationErr to be set")
	}
}

func TestSetupModel_FailedRetry(t *testing.T) {
	m := NewSetupModel(nil)
	m.step = StepFailed
	m.validationErr = fmt.Errorf("some error")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after retry, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd on retry")
	}
}

func TestSetupModel_FailedQuit(t *testing.T) {
	m := NewSetupModel(nil)
	m.step = StepFailed

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m2 := updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd")
	}
	if m2.ShouldSave() {
		t.Error("expected ShouldSave false after quit")
	}
}

func TestSetupModel_ShouldSave(t *testing.T) {
	t.Run("done means save", func(t *testing.T) {
		m := NewSetupModel(nil)
		m.step = StepDone
		if !m.ShouldSave() {
			t.Error("expected ShouldSave true when done")
		}
	})

	t.Run("save anyway means save", func(t *testing.T) {
		m := NewSetupModel(nil)
		m.step = StepFailed
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = updated.(SetupModel)
		if !m.ShouldSave() {
			t.Error("expected ShouldSave true after save anyway")
		}
	})

	t.Run("escape means no save", func(t *testing.T) {
		m := NewSetupModel(nil)
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
		m = updated.(SetupModel)
		if cmd == nil {
			t.Error("expected quit cmd on escape")
		}
		if m.ShouldSave() {
			t.Error("expected ShouldSave false after escape")
		}
	})
}

func TestSetupModel_Result(t *testing.T) {
	base := config.Default()
	base.EntriesDir = "~/notes"
	base.LogLevel = "debug"

	m := NewSetupModel(base)
	m.inputs[0].SetValue("sqlite")
	m.inputs[1].SetValue("/data/daily.db")
	m.inputs[2].SetValue(" code --wait ")
	m.step = StepDone

	cfg := m.Result()
	if cfg.Backend != "sqlite" {
		t.Errorf("expected backend from result, got %q", cfg.Backend)
	}
	if cfg.DatabasePath != "/data/daily.db" {
		t.Errorf("expected database path from result, got %q", cfg.DatabasePath)
	}
	if cfg.EntriesDir != "~/notes" {
		t.Errorf("expected entries dir kept from base, got %q", cfg.EntriesDir)
	}
	if cfg.Editor != "code --wait" {
		t.Errorf("expected trimmed editor, got %q", cfg.Editor)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level kept from base, got %q", cfg.LogLevel)
	}
	if base.Backend != config.DefaultBackend {
		t.Error("Result must not mutate the base config")
	}
}

func TestSetupModel_ViewShowsCurrentStep(t *testing.T) {
	m := NewSetupModel(nil)

	if !strings.Contains(m.View(), "Backend") {
		t.Error("expected StepBackend view to mention Backend")
	}

	m, _ = enter(t, m)
	if !strings.Contains(m.View(), "Entries directory") {
		t.Error("expected StepLocation view to mention Entries directory")
	}

	m, _ = enter(t, m)
	if !strings.Contains(m.View(), "Editor") {
		t.Error("expected StepEditor view to mention Editor")
	}

	m.step = StepDone
	if !strings.Contains(m.View(), "Storage ready") {
		t.Error("expected StepDone view to mention Storage ready")
	}
}

func TestSetupModel_ViewFailed(t *testing.T) {
	m := NewSetupModel(nil)
	m.step = StepFailed
	m.validationErr = fmt.Errorf("read-only file system")
	view := m.View()
	for _, want := range []string{"Validation failed", "read-only file system", "[r]etry", "[s]ave anyway", "[q]uit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected StepFailed view to contain %q", want)
		}
	}
}

func TestSetupModel_ViewFailedNilError(t *testing.T) {
	m := NewSetupModel(nil)
	m.step = StepFailed
	view := m.View()
	if strings.Contains(view, "<nil>") {
		t.Error("expected nil error to be rendered gracefully, not as <nil>")
	}
	if !strings.Contains(view, "unknown error") {
		t.Error("expected nil error to show 'unknown error' fallback")
	}
}

func TestSetupModel_CtrlCDuringValidation(t *testing.T) {
	cancelled := false
	m := NewSetupModel(nil)
	m.validateFn = func(ctx context.Context, _, _ string) error {
		<-ctx.Done()
		cancelled = true
		return ctx.Err()
	}
	m.inputs[1].SetValue("/tmp/daily")
	m.step = StepEditor

	m, batchCmd := enter(t, m)
	if m.step != StepValidating {
		t.Fatalf("expected StepValidating, got %d", m.step)
	}

	batchMsg := batchCmd().(tea.BatchMsg)
	done := make(chan tea.Msg)
	go func() {
		// batchMsg[0] is the validation cmd, batchMsg[1] is the spinner tick
		done <- batchMsg[0]()
	}()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(SetupModel)
	if !m.quitting {
		t.Error("expected quitting to be true after Ctrl+C during validation")
	}

	<-done
	if !cancelled {
		t.Error("expected validation context to be cancelled")
	}
}

func TestSetupModel_ValidationPassesCorrectArgs(t *testing.T) {
	var gotBackend, gotLocation string
	m := NewSetupModel(nil)
	m.validateFn = func(_ context.Context, backend, location string) error {
		gotBackend = backend
		gotLocation = location
		return nil
	}
	m.inputs[0].SetValue("sqlite")
	m, _ = enter(t, m)
	m.inputs[1].SetValue("/var/lib/daily.db")
	m, _ = enter(t, m)

	_, batchCmd := enter(t, m)
	batchMsg := batchCmd().(tea.BatchMsg)
	batchMsg[0]()

	if gotBackend != "sqlite" {
		t.Errorf("expected backend %q, got %q", "sqlite", gotBackend)
	}
	if gotLocation != "/var/lib/daily.db" {
		t.Errorf("expected location %q, got %q", "/var/lib/daily.db", gotLocation)
	}
}

func TestSetupModel_FullFlowWithTeaProgram(t *testing.T) {
	m := NewSetupModel(nil)
	m.validateFn = func(_ context.Context, _, _ string) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}

	p := tea.NewProgram(m, tea.WithInput(nil), tea.WithoutRenderer())

	go func() {
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // backend
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // location
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // editor -> validates -> done -> quit
	}()

	result, err := p.Run()
	if err != nil {
		t.Fatalf("tea.Program error: %v", err)
	}

	final := result.(SetupModel)
	if !final.ShouldSave() {
		t.Errorf("expected ShouldSave=true after successful validation (step=%d, quitting=%v)", final.step, final.quitting)
	}
	if final.Result().EntriesDir != config.DefaultEntriesDir {
		t.Errorf("expected default entries dir, got %q", final.Result().EntriesDir)
	}
}
