// ABOUTME: Storage validation for the setup wizard.
// ABOUTME: Opens and closes the chosen backend to prove the location is usable.
package tui

import (
	"context"
	"fmt"

	"github.com/2389-research/daily/internal/config"
	"github.com/2389-research/daily/internal/storage"
)

// ValidateStore opens the backend at location and closes it again.
// The context allows cancellation when the user quits during validation.
func ValidateStore(ctx context.Context, backend, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := config.ExpandPath(location)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no location given for the %s backend", backend)
	}

	opts := storage.Options{Kind: backend, Extension: config.DefaultExtension}
	if backend == storage.KindSQLite {
		opts.DatabasePath = path
	} else {
		opts.EntriesDir = path
	}

	b, err := storage.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", backend, err)
	}
	if err := b.Close(); err != nil {
		return fmt.Errorf("failed to close %s backend: %w", backend, err)
	}
	return nil
}
