// ABOUTME: Flat-file entry storage with one text file per date.
// ABOUTME: Each line of <dir>/<YYYY-MM-DD>.<ext> is one entry, appended in order.
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/2389-research/daily/internal/editor"
	"github.com/2389-research/daily/internal/models"
)

// DefaultExtension is the file extension used when none is configured.
const DefaultExtension = "txt"

var lineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// FileStore stores entries as lines in per-date text files.
type FileStore struct {
	dir    string
	ext    string
	logger *slog.Logger
}

// NewFileStore creates the entries directory if needed and returns a store over it.
func NewFileStore(dir, ext string, opts ...Option) (*FileStore, error) {
	o := applyOptions(opts)
	if dir == "" {
		return nil, storageErr("open entries dir", "", fmt.Errorf("no directory configured"))
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = DefaultExtension
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		o.logger.Info("creating entries dir", "dir", dir)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, storageErr("create entries dir", dir, err)
		}
	}

	return &FileStore{dir: dir, ext: ext, logger: o.logger}, nil
}

// Path returns the file holding key's entries.
func (s *FileStore) Path(key models.DateKey) string {
	return filepath.Join(s.dir, key.String()+"."+s.ext)
}

// Has reports whether the date's file exists.
func (s *FileStore) Has(key models.DateKey) (bool, error) {
	_, err := os.Stat(s.Path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, storageErr("check entry", key.String(), err)
}

// Read returns the date's lines without terminators.
func (s *FileStore) Read(key models.DateKey) ([]string, error) {
	f, err := os.Open(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, storageErr("read entries for", key.String(), err)
	}
	defer func() { _ = f.Close() }()

	lines := []string{}
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, storageErr("read entries for", key.String(), err)
		}
	}
}

// Write appends text plus the platform line separator, creating the file if absent.
func (s *FileStore) Write(key models.DateKey, text string) error {
	if err := checkSingleLine(key, text); err != nil {
		return err
	}
	path := s.Path(key)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return storageErr("write entry for", key.String(), err)
	}
	if _, err := f.WriteString(text + lineSeparator); err != nil {
		_ = f.Close()
		return storageErr("write entry for", key.String(), err)
	}
	if err := f.Close(); err != nil {
		return storageErr("write entry for", key.String(), err)
	}
	s.logger.Debug("appended entry", "date", key.String(), "path", path)
	return nil
}

// Delete removes the date's file if present.
func (s *FileStore) Delete(key models.DateKey) (bool, error) {
	err := os.Remove(s.Path(key))
	if err == nil {
		s.logger.Debug("removed entries file", "date", key.String())
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, storageErr("delete entries for", key.String(), err)
}

// EditFile launches the editor on the date's file. A file left empty (or
// holding only whitespace) is deleted so the date collapses to "no entry".
func (s *FileStore) EditFile(key models.DateKey, launcher editor.Launcher) ([]string, error) {
	has, err := s.Has(key)
	if err != nil {
		return nil, err
	}
	if !has {
		return []string{fmt.Sprintf("No entry for %s", key)}, nil
	}

	var warnings []string
	path := s.Path(key)
	status, err := launcher.Launch(path)
	if err != nil {
		return nil, fmt.Errorf("failed to launch editor: %w", err)
	}
	if status != 0 {
		warnings = append(warnings, fmt.Sprintf("Editor exited with status %d", status))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return warnings, nil
		}
		return nil, storageErr("read entries for", key.String(), err)
	}
	if strings.TrimSpace(string(data)) == "" {
		if _, err := s.Delete(key); err != nil {
			return nil, err
		}
		warnings = append(warnings, fmt.Sprintf("Deleted entries file %s because it was empty", key))
	}
	return warnings, nil
}

// Close releases any resources held by the store.
func (s *FileStore) Close() error {
	return nil
}
