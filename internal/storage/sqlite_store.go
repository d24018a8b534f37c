// ABOUTME: SQLite-backed entry storage using a single table keyed by date and row id.
// ABOUTME: Supports per-entry listing, editing, and deletion on top of the base contract.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/2389-research/daily/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS daily (
		id     INTEGER PRIMARY KEY,
		date   INTEGER,
		"desc" TEXT,
		tag    TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_daily_date ON daily(date);
`

// SQLiteStore stores entries as rows of the daily table.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and applies the schema.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	o := applyOptions(opts)
	if path == "" {
		return nil, storageErr("open database", "", fmt.Errorf("no database path configured"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, storageErr("create database dir", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open database", path, err)
	}
	// One connection for the process; every statement commits on its own.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, storageErr("open database", path, fmt.Errorf("pragma %q: %w", p, err))
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, storageErr("migrate database", path, err)
	}

	o.logger.Debug("opened database", "path", path)
	return &SQLiteStore{db: db, path: path, logger: o.logger}, nil
}

// Has reports whether any row exists for key.
func (s *SQLiteStore) Has(key models.DateKey) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM (SELECT 1 FROM daily WHERE date = ? LIMIT 1)`, key.Int()).Scan(&n)
	if err != nil {
		return false, storageErr("check entry", key.String(), err)
	}
	return n > 0, nil
}

// Read returns the contents of key's rows ordered by id.
func (s *SQLiteStore) Read(key models.DateKey) ([]string, error) {
	entries, err := s.ListIDs(key)
	if err != nil {
		return nil, err
	}
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Content)
	}
	return items, nil
}

// Write inserts one untagged row.
func (s *SQLiteStore) Write(key models.DateKey, text string) error {
	_, err := s.WriteTagged(key, text, "")
	return err
}

// WriteTagged inserts one row and returns its id. An empty tag is stored as NULL.
func (s *SQLiteStore) WriteTagged(key models.DateKey, text, tag string) (int64, error) {
	if err := checkSingleLine(key, text); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO daily (date, "desc", tag) VALUES (?, ?, ?)`,
		key.Int(), text, sql.NullString{String: tag, Valid: tag != ""})
	if err != nil {
		return 0, storageErr("write entry for", key.String(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("write entry for", key.String(), err)
	}
	s.logger.Debug("inserted entry", "date", key.String(), "id", id)
	return id, nil
}

// Delete removes every row for key.
func (s *SQLiteStore) Delete(key models.DateKey) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM daily WHERE date = ?`, key.Int())
	if err != nil {
		return false, storageErr("delete entries for", key.String(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete entries for", key.String(), err)
	}
	return n > 0, nil
}

// ListIDs returns key's rows ordered by id.
func (s *SQLiteStore) ListIDs(key models.DateKey) ([]models.Entry, error) {
	rows, err := s.db.Query(`SELECT id, "desc", tag FROM daily WHERE date = ? ORDER BY id ASC`, key.Int())
	if err != nil {
		return nil, storageErr("list entries for", key.String(), err)
	}
	defer func() { _ = rows.Close() }()

	entries := []models.Entry{}
	for rows.Next() {
		var (
			id      int64
			content sql.NullString
			tag     sql.NullString
		)
		if err := rows.Scan(&id, &content, &tag); err != nil {
			return nil, storageErr("list entries for", key.String(), err)
		}
		entries = append(entries, models.Entry{
			ID:      id,
			Date:    key,
			Content: content.String,
			Tag:     tag.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list entries for", key.String(), err)
	}
	return entries, nil
}

// EntryByID returns one row.
func (s *SQLiteStore) EntryByID(id int64) (models.Entry, error) {
	var (
		date    int64
		content sql.NullString
		tag     sql.NullString
	)
	idStr := strconv.FormatInt(id, 10)
	err := s.db.QueryRow(`SELECT date, "desc", tag FROM daily WHERE id = ?`, id).Scan(&date, &content, &tag)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, storageErr("read entry", idStr, ErrEntryNotFound)
	}
	if err != nil {
		return models.Entry{}, storageErr("read entry", idStr, err)
	}
	key, err := models.DateKeyFromInt(date)
	if err != nil {
		return models.Entry{}, storageErr("read entry", idStr, err)
	}
	return models.Entry{ID: id, Date: key, Content: content.String, Tag: tag.String}, nil
}

// EditByID replaces one row's content.
func (s *SQLiteStore) EditByID(id int64, content string) error {
	idStr := strconv.FormatInt(id, 10)
	res, err := s.db.Exec(`UPDATE daily SET "desc" = ? WHERE id = ?`, content, id)
	if err != nil {
		return storageErr("edit entry", idStr, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("edit entry", idStr, err)
	}
	if n == 0 {
		return storageErr("edit entry", idStr, ErrEntryNotFound)
	}
	return nil
}

// DeleteByID removes one row.
func (s *SQLiteStore) DeleteByID(id int64) (bool, error) {
	idStr := strconv.FormatInt(id, 10)
	res, err := s.db.Exec(`DELETE FROM daily WHERE id = ?`, id)
	if err != nil {
		return false, storageErr("delete entry", idStr, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("delete entry", idStr, err)
	}
	return n > 0, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr("close database", s.path, err)
	}
	return nil
}
