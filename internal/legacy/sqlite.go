package legacy

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

const prefsSchema = `CREATE TABLE IF NOT EXISTS prefs (
	key   TEXT PRIMARY KEY,
	kind  TEXT NOT NULL CHECK (kind IN ('int', 'float', 'string')),
	value TEXT NOT NULL
)`

// SQLite reads legacy preferences from a prefs table in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the prefs
// table exists. Pass ":memory:" for an in-memory database (used by tests).
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating legacy database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening legacy database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging legacy database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(prefsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating prefs table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) put(key, kind, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO prefs (key, kind, value) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET kind = excluded.kind, value = excluded.value`,
		key, kind, value,
	)
	return err
}

// PutInt, PutFloat and PutString seed the legacy table. They exist for
// importing old data and for fixtures; the settings store never calls them.
func (s *SQLite) PutInt(key string, v int) error {
	return s.put(key, "int", strconv.Itoa(v))
}

func (s *SQLite) PutFloat(key string, v float64) error {
	return s.put(key, "float", strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *SQLite) PutString(key string, v string) error {
	return s.put(key, "string", v)
}

// get returns the raw value when key holds a value of the given kind.
func (s *SQLite) get(key, kind string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM prefs WHERE key = ? AND kind = ?`, key, kind).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading legacy pref %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Has(key string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM prefs WHERE key = ?`, key).Scan(&n); err != nil {
		return false, fmt.Errorf("checking legacy pref %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *SQLite) GetInt(key string, def int) (int, error) {
	raw, ok, err := s.get(key, "int")
	if !ok || err != nil {
		return def, err
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return i, nil
}

func (s *SQLite) GetFloat(key string, def float64) (float64, error) {
	raw, ok, err := s.get(key, "float")
	if !ok || err != nil {
		return def, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, fmt.Errorf("invalid float for %s: %w", key, err)
	}
	return f, nil
}

func (s *SQLite) GetString(key string, def string) (string, error) {
	raw, ok, err := s.get(key, "string")
	if !ok || err != nil {
		return def, err
	}
	return raw, nil
}

func (s *SQLite) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM prefs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting legacy pref %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) DeleteAll() error {
	if _, err := s.db.Exec(`DELETE FROM prefs`); err != nil {
		return fmt.Errorf("deleting legacy prefs: %w", err)
	}
	return nil
}
