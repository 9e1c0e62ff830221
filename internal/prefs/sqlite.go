package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	apperrors "github.com/DohaRamadan/jabref/internal/errors"
	"github.com/DohaRamadan/jabref/internal/update"
)

const sqliteOpTimeout = 3 * time.Second

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps preferences in a key/value table of a SQLite database.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.CodePreferences, "open preferences", fmt.Errorf("preferences path is empty"))
	}
	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(trimmed), 0755); err != nil {
		return nil, apperrors.New(apperrors.CodePreferences, "create preferences directory", err)
	}

	db, err := sql.Open("sqlite", buildSQLiteDSN(trimmed))
	if err != nil {
		return nil, apperrors.New(apperrors.CodePreferences, "open sqlite db", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.New(apperrors.CodePreferences, "ping sqlite db", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, apperrors.New(apperrors.CodePreferences, "create preferences table", err)
	}
	return &SQLiteStore{path: trimmed, db: db}, nil
}

// buildSQLiteDSN creates a read-write WAL DSN for the given path.
func buildSQLiteDSN(dbPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(dbPath),
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(3000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u.RawQuery = q.Encode()
	return u.String()
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// IgnoredVersion returns the persisted ignored release, if any.
func (s *SQLiteStore) IgnoredVersion() (update.Version, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, KeyIgnoredVersion,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return update.Version{}, false, nil
	}
	if err != nil {
		return update.Version{}, false, apperrors.New(apperrors.CodePreferences, "query ignored version", err)
	}
	v, ok, err := parseStored(strings.TrimSpace(raw))
	if err != nil {
		return update.Version{}, false, apperrors.New(apperrors.CodePreferences, "read ignored version", err)
	}
	return v, ok, nil
}

// SetIgnoredVersion persists v as the ignored release.
func (s *SQLiteStore) SetIgnoredVersion(v update.Version) error {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, KeyIgnoredVersion, v.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return apperrors.New(apperrors.CodePreferences, "store ignored version", err)
	}
	return nil
}

// ClearIgnoredVersion removes the ignored release.
func (s *SQLiteStore) ClearIgnoredVersion() error {
	ctx, cancel := context.WithTimeout(context.Background(), sqliteOpTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, KeyIgnoredVersion); err != nil {
		return apperrors.New(apperrors.CodePreferences, "clear ignored version", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
