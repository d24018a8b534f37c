// ABOUTME: Error types shared by the storage backends.
// ABOUTME: StorageError wraps I/O and engine failures; UnsupportedOperationError marks missing capabilities.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2389-research/daily/internal/models"
)

var (
	// ErrStorage matches every StorageError via errors.Is.
	ErrStorage = errors.New("storage error")

	// ErrUnsupported matches every UnsupportedOperationError via errors.Is.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrEntryNotFound is wrapped when a row id does not exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrMultiline is wrapped when an appended entry contains a line break.
	ErrMultiline = errors.New("entry text must be a single line")
)

// StorageError reports a failed backend operation.
type StorageError struct {
	Op  string // e.g. "read", "open database"
	Key string // date or id the operation targeted, may be empty
	Err error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrStorage so callers need not know the cause.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// UnsupportedOperationError is returned when the active backend lacks a capability.
type UnsupportedOperationError struct {
	Op      string
	Backend string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported by the %s backend", e.Op, e.Backend)
}

// Is reports true for ErrUnsupported.
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupported
}

func storageErr(op, key string, err error) error {
	return &StorageError{Op: op, Key: key, Err: err}
}

func checkSingleLine(key models.DateKey, text string) error {
	if strings.ContainsAny(text, "\r\n") {
		return storageErr("write entry for", key.String(), ErrMultiline)
	}
	return nil
}
