// ABOUTME: External editor collaborator used by the edit commands.
// ABOUTME: Resolves the editor binary and runs it synchronously on a file path.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultEditor is used when neither config nor environment names one.
const DefaultEditor = "vim"

// Launcher opens path in an editor and blocks until it exits.
type Launcher interface {
	Launch(path string) (int, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(path string) (int, error)

// Launch calls f(path).
func (f LauncherFunc) Launch(path string) (int, error) {
	return f(path)
}

// Command runs an editor command line attached to the given streams.
type Command struct {
	// Editor may carry arguments, e.g. "code --wait".
	Editor string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommand returns a Command wired to the process's terminal.
func NewCommand(editor string) *Command {
	return &Command{
		Editor: editor,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Launch runs the editor on path. A non-zero exit is reported through the
// status, not the error; the error is for editors that could not be started.
func (c *Command) Launch(path string) (int, error) {
	fields := strings.Fields(c.Editor)
	if len(fields) == 0 {
		return -1, fmt.Errorf("no editor configured")
	}

	args := append(fields[1:], path)
	cmd := exec.Command(fields[0], args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run editor %q: %w", fields[0], err)
}

// Resolve picks the editor: configured value, then $VISUAL, then $EDITOR,
// then DefaultEditor.
func Resolve(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return DefaultEditor
}

// EditText writes initial to a temp file, lets the launcher edit it, and
// returns the new contents with trailing newlines trimmed.
func EditText(launcher Launcher, initial string) (string, int, error) {
	path := filepath.Join(os.TempDir(), "daily-"+uuid.NewString()+".txt")
	if err := os.WriteFile(path, []byte(initial+"\n"), 0600); err != nil {
		return "", -1, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(path) }()

	status, err := launcher.Launch(path)
	if err != nil {
		return "", status, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", status, fmt.Errorf("failed to read edited text: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), status, nil
}
