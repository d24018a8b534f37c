// ABOUTME: Interface definitions for daily entry storage backends.
// ABOUTME: Defines the base contract, optional capabilities, and the backend factory.
package storage

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/2389-research/daily/internal/editor"
	"github.com/2389-research/daily/internal/models"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Backend defines operations every entry store supports.
type Backend interface {
	// Has reports whether at least one entry exists for key.
	Has(key models.DateKey) (bool, error)

	// Read returns the entries for key in insertion order, empty if none.
	Read(key models.DateKey) ([]string, error)

	// Write appends one entry for key. Text containing a line break is
	// rejected with ErrMultiline on every backend.
	Write(key models.DateKey, text string) error

	// Delete removes every entry for key and reports whether anything was removed.
	Delete(key models.DateKey) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}

// Addressable is implemented by backends whose entries carry a row id.
type Addressable interface {
	Backend

	// WriteTagged appends one entry with an optional tag and returns its id.
	// Line breaks are rejected as in Write.
	WriteTagged(key models.DateKey, text, tag string) (int64, error)

	// ListIDs returns id, content and tag for every entry of key, ordered by id.
	ListIDs(key models.DateKey) ([]models.Entry, error)

	// EntryByID returns a single entry.
	EntryByID(id int64) (models.Entry, error)

	// EditByID replaces the content of one entry, keeping its id and date.
	EditByID(id int64, content string) error

	// DeleteByID removes one entry and reports whether it existed.
	DeleteByID(id int64) (bool, error)
}

// FileEditable is implemented by backends that edit a whole date at once in an
// external editor.
type FileEditable interface {
	Backend

	// EditFile opens the date's file in the editor and returns any warnings.
	EditFile(key models.DateKey, launcher editor.Launcher) ([]string, error)
}

// AsAddressable returns b as an Addressable or an UnsupportedOperationError.
func AsAddressable(b Backend) (Addressable, error) {
	if a, ok := b.(Addressable); ok {
		return a, nil
	}
	return nil, &UnsupportedOperationError{Op: "per-entry edit and delete", Backend: Kind(b)}
}

// AsFileEditable returns b as a FileEditable or an UnsupportedOperationError.
func AsFileEditable(b Backend) (FileEditable, error) {
	if f, ok := b.(FileEditable); ok {
		return f, nil
	}
	return nil, &UnsupportedOperationError{Op: "whole-file edit", Backend: Kind(b)}
}

// Kind names the backend implementation for messages.
func Kind(b Backend) string {
	switch b.(type) {
	case *FileStore:
		return KindFile
	case *SQLiteStore:
		return KindSQLite
	default:
		return fmt.Sprintf("%T", b)
	}
}

// Options selects and configures a backend for Open.
type Options struct {
	Kind         string
	EntriesDir   string
	Extension    string
	DatabasePath string
	Logger       *slog.Logger
}

// Open constructs the backend named by opts.Kind.
func Open(opts Options) (Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	switch opts.Kind {
	case KindFile, "":
		return NewFileStore(opts.EntriesDir, opts.Extension, WithLogger(logger))
	case KindSQLite:
		return NewSQLiteStore(opts.DatabasePath, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Kind)
	}
}

// Option configures a store constructor.
type Option func(*storeOptions)

type storeOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) storeOptions {
	o := storeOptions{logger: discardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
