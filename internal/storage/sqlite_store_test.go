// ABOUTME: Tests for the SQLite entry store.
// ABOUTME: Covers row identity, per-entry edit/delete, tags, schema layout, and reopening.
package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/daily/internal/models"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "daily.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestSQLiteAddThenListIDs(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	key := models.MustDateKey("2024-03-05")

	require.NoError(t, store.Write(key, "did X"))

	entries, err := store.ListIDs(key)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotZero(t, entries[0].ID)
	assert.Equal(t, "did X", entries[0].Content)
	assert.Equal(t, key.String(), entries[0].Date.String())
}

func TestSQLiteEditByIDKeepsIdentity(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	key := models.MustDateKey("2024-03-05")

	id, err := store.WriteTagged(key, "did X", "work")
	require.NoError(t, err)

	require.NoError(t, store.EditByID(id, "did Y"))

	entry, err := store.EntryByID(id)
	require.NoError(t, err)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "did Y", entry.Content)
	assert.Equal(t, "work", entry.Tag)
	assert.Equal(t, "2024-03-05", entry.Date.String())

	entries, err := store.ListIDs(key)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
}

func TestSQLiteEditMissingID(t *testing.T) {
	store, _ := newTestSQLiteStore(t)

	err := store.EditByID(4242, "nothing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntryNotFound))
	assert.True(t, errors.Is(err, ErrStorage))

	_, err = store.EntryByID(4242)
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestSQLiteDeleteByID(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	key := models.MustDateKey("2024-03-05")

	first, err := store.WriteTagged(key, "first", "")
	require.NoError(t, err)
	_, err = store.WriteTagged(key, "second", "")
	require.NoError(t, err)

	removed, err := store.DeleteByID(first)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.DeleteByID(first)
	require.NoError(t, err)
	assert.False(t, removed)

	items, err := store.Read(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, items)
}

func TestSQLiteIDsAreMonotonic(t *testing.T) {
	store, _ := newTestSQLiteStore(t)
	a := models.MustDateKey("2024-03-05")
	b := models.MustDateKey("2024-03-06")

	id1, err := store.WriteTagged(a, "one", "")
	require.NoError(t, err)
	id2, err := store.WriteTagged(b, "two", "")
	require.NoError(t, err)
	id3, err := store.WriteTagged(a, "three", "")
	require.NoError(t, err)

	assert.Less(t, id1, id2)
	assert.Less(t, id2, id3)

	entries, err := store.ListIDs(a)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, id1, entries[0].ID)
	assert.Equal(t, id3, entries[1].ID)
}

func TestSQLiteStoredLayout(t *testing.T) {
	store, path := newTestSQLiteStore(t)
	key := models.MustDateKey("2024-01-02")

	_, err := store.WriteTagged(key, "plain", "")
	require.NoError(t, err)
	_, err = store.WriteTagged(key, "tagged", "ops")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT date, "desc", tag FROM daily ORDER BY id`)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	type row struct {
		date int64
		desc string
		tag  sql.NullString
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.date, &r.desc, &r.tag))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)
	assert.Equal(t, int64(20240102), got[0].date)
	assert.Equal(t, "plain", got[0].desc)
	assert.False(t, got[0].tag.Valid, "empty tag stored as NULL")
	assert.Equal(t, "ops", got[1].tag.String)

	var indexName string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'daily'`).Scan(&indexName)
	require.NoError(t, err)
	assert.Equal(t, "idx_daily_date", indexName)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "daily.db")
	key := models.MustDateKey("2024-01-02")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Write(key, "persisted"))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	items, err := store.Read(key)
	require.NoError(t, err)
	assert.Equal(t, []string{"persisted"}, items)
}

func TestSQLiteOpenFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))

	_, err := NewSQLiteStore(filepath.Join(blocker, "daily.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))

	_, err = NewSQLiteStore("")
	assert.True(t, errors.Is(err, ErrStorage))
}
