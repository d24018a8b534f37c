// ABOUTME: Entry service composing the date resolver with a storage backend.
// ABOUTME: Implements fallback-to-latest reads and turns absence into warnings.
package daily

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/2389-research/daily/internal/editor"
	"github.com/2389-research/daily/internal/models"
	"github.com/2389-research/daily/internal/storage"
)

// Service orchestrates daily entry operations over one backend.
type Service struct {
	backend  storage.Backend
	resolver *Resolver
	now      Clock
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for "today".
func WithClock(now Clock) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a service over backend.
func NewService(backend storage.Backend, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend is required")
	}

	s := &Service{
		backend: backend,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = NewResolver(s.now, s.LatestEntry)
	return s, nil
}

// Backend returns the underlying store.
func (s *Service) Backend() storage.Backend {
	return s.backend
}

// Today returns the current local calendar date.
func (s *Service) Today() models.DateKey {
	return s.resolver.Today()
}

// Resolve maps a date token to a DateKey, using this service for "last".
func (s *Service) Resolve(token string) (models.DateKey, error) {
	return s.resolver.Resolve(token)
}

// HasEntry reports whether date has any entry.
func (s *Service) HasEntry(date models.DateKey) (bool, error) {
	return s.backend.Has(date)
}

// LatestEntry walks back from today over LookbackDays days and returns the
// first date with an entry.
func (s *Service) LatestEntry() (models.DateKey, bool, error) {
	today := s.Today()
	for i := 0; i < LookbackDays; i++ {
		date := today.AddDays(-i)
		has, err := s.backend.Has(date)
		if err != nil {
			return models.DateKey{}, false, err
		}
		if has {
			return date, true, nil
		}
	}
	return models.DateKey{}, false, nil
}

// GetEntry returns the entries for date, falling back to the latest date with
// entries and noting the substitution as a warning.
func (s *Service) GetEntry(date models.DateKey) (*models.Result, error) {
	result := &models.Result{}

	has, err := s.backend.Has(date)
	if err != nil {
		return nil, err
	}
	if !has {
		fallback, ok, err := s.LatestEntry()
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.Debug("no entries in lookback window", "requested", date.String(), "days", LookbackDays)
			result.Warn("No entries found for the last %d days", LookbackDays)
			result.Items = []string{}
			return result, nil
		}
		s.logger.Debug("falling back to latest entry", "requested", date.String(), "fallback", fallback.String())
		result.Warn("Nothing found for %s, showing results for %s", date, fallback)
		date = fallback
	}

	items, err := s.backend.Read(date)
	if err != nil {
		return nil, err
	}
	result.Items = items
	result.Date = date
	return result, nil
}

// lineBreaks folds a multi-line message into the single line one entry holds.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// AddEntry appends text to date. Line breaks in text become spaces.
func (s *Service) AddEntry(date models.DateKey, text string) error {
	return s.backend.Write(date, lineBreaks.Replace(text))
}

// AddTaggedEntry appends text with a tag, folding line breaks as AddEntry does.
// Backends without row identity store the text and report the dropped tag as
// a warning.
func (s *Service) AddTaggedEntry(date models.DateKey, text, tag string) (*models.Result, error) {
	text = lineBreaks.Replace(text)
	result := &models.Result{Date: date, Items: []string{text}}
	if tag == "" {
		return result, s.backend.Write(date, text)
	}

	addr, err := storage.AsAddressable(s.backend)
	if err != nil {
		if err := s.backend.Write(date, text); err != nil {
			return nil, err
		}
		result.Warn("Tag %q ignored: the %s backend does not store tags", tag, storage.Kind(s.backend))
		return result, nil
	}
	if _, err := addr.WriteTagged(date, text, tag); err != nil {
		return nil, err
	}
	return result, nil
}

// EditEntry opens every entry of date in the editor at once.
func (s *Service) EditEntry(date models.DateKey, launcher editor.Launcher) (*models.Result, error) {
	fe, err := storage.AsFileEditable(s.backend)
	if err != nil {
		return nil, err
	}
	warnings, err := fe.EditFile(date, launcher)
	if err != nil {
		return nil, err
	}
	return &models.Result{Date: date, Warnings: warnings}, nil
}

// EntryIDs lists the addressable entries of date.
func (s *Service) EntryIDs(date models.DateKey) ([]models.Entry, error) {
	addr, err := storage.AsAddressable(s.backend)
	if err != nil {
		return nil, err
	}
	return addr.ListIDs(date)
}

// EntryByID returns one addressable entry.
func (s *Service) EntryByID(id int64) (models.Entry, error) {
	addr, err := storage.AsAddressable(s.backend)
	if err != nil {
		return models.Entry{}, err
	}
	return addr.EntryByID(id)
}

// EditEntryByID replaces one entry's content.
func (s *Service) EditEntryByID(id int64, content string) error {
	addr, err := storage.AsAddressable(s.backend)
	if err != nil {
		return err
	}
	return addr.EditByID(id, content)
}

// EditEntryInEditor opens one entry's content in the editor. Clearing the
// text deletes the entry.
func (s *Service) EditEntryInEditor(id int64, launcher editor.Launcher) (*models.Result, error) {
	addr, err := storage.AsAddressable(s.backend)
	if err != nil {
		return nil, err
	}
	entry, err := addr.EntryByID(id)
	if err != nil {
		return nil, err
	}

	result := &models.Result{Date: entry.Date}
	content, status, err := editor.EditText(launcher, entry.Content)
	if err != nil {
		return nil, err
	}

	switch {
	case status != 0:
		result.Warn("Editor exited with status %d, entry %d left unchanged", status, id)
	case strings.TrimSpace(content) == "":
		if _, err := addr.DeleteByID(id); err != nil {
			return nil, err
		}
		s.logger.Debug("deleted emptied entry", "id", id)
		result.Warn("Deleted entry %d because it was empty", id)
	case content == entry.Content:
		result.Warn("No changes to entry %d", id)
	default:
		if err := addr.EditByID(id, content); err != nil {
			return nil, err
		}
	}

	items, err := addr.Read(entry.Date)
	if err != nil {
		return nil, err
	}
	result.Items = items
	return result, nil
}

// DeleteEntryByID removes one entry and reports whether it existed.
func (s *Service) DeleteEntryByID(id int64) (bool, error) {
	addr, err := storage.AsAddressable(s.backend)
	if err != nil {
		return false, err
	}
	return addr.DeleteByID(id)
}

// NukeEntries deletes every entry of date and reports whether anything was removed.
func (s *Service) NukeEntries(date models.DateKey) (bool, error) {
	removed, err := s.backend.Delete(date)
	if err != nil {
		return false, err
	}
	s.logger.Debug("nuked entries", "date", date.String(), "removed", removed)
	return removed, nil
}
