// Package settings implements a typed key-value settings store persisted as
// a single JSON file.
//
// Values that still live in a legacy platform store are migrated lazily: the
// first Get that misses the settings file consults the legacy store, copies
// any value found into the file and deletes it from the legacy store.
//
// A Store is not safe for concurrent use. Every mutation rewrites the whole
// file; the last writer wins.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kalambet/prefs/internal/legacy"
)

// ErrClosed is returned by operations on a Store after Close.
var ErrClosed = errors.New("settings store is closed")

// Store owns the in-memory Record and the file it is persisted to.
type Store struct {
	path     string
	legacy   legacy.Store
	logger   *slog.Logger
	fileMode os.FileMode

	rec    *Record
	loaded bool
	dirty  bool
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migration and recovery events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFileMode sets the permission bits of the settings file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Store) { s.fileMode = mode }
}

// New returns a Store backed by the file at path. Nothing is read until the
// first operation. A nil legacy store means there is nothing to migrate.
func New(path string, old legacy.Store, opts ...Option) *Store {
	if old == nil {
		old = legacy.Nop{}
	}
	s := &Store{
		path:     path,
		legacy:   old,
		logger:   slog.Default(),
		fileMode: 0o600,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open is New followed by an eager load, so a host sees read errors at
// startup instead of on first use.
func Open(path string, old legacy.Store, opts ...Option) (*Store, error) {
	s := New(path, old, opts...)
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close flushes a record whose last persist failed and marks the store
// closed. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	var err error
	if s.dirty {
		err = s.persist()
	}
	s.closed = true
	return err
}

// Path returns the location of the settings file.
func (s *Store) Path() string { return s.path }

func (s *Store) ensureLoaded() error {
	if s.closed {
		return ErrClosed
	}
	if s.loaded {
		return nil
	}
	rec, err := s.load()
	if err != nil {
		return err
	}
	s.rec = rec
	s.loaded = true
	return nil
}

// load reads the settings file. A missing file yields an empty record; so
// does a malformed one, after a warning.
func (s *Store) load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewRecord(), nil
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	rec := NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		s.logger.Warn("could not parse settings file, starting empty", "path", s.path, "error", err)
		return NewRecord(), nil
	}
	rec.normalize()
	s.logger.Debug("settings loaded", "path", s.path,
		"ints", len(rec.Ints), "floats", len(rec.Floats), "strings", len(rec.Strings))
	return rec, nil
}

// persist overwrites the settings file with the full record.
func (s *Store) persist() error {
	s.dirty = true
	data, err := json.Marshal(s.rec)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, s.fileMode); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	s.dirty = false
	return nil
}

func set[T any](s *Store, field func(*Record) map[string]T, key string, v T) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	field(s.rec)[key] = v
	return s.persist()
}

// get returns the value under key in the typed map selected by field. On a
// miss it migrates the key from the legacy store when present there.
func get[T any](s *Store, kind Kind, field func(*Record) map[string]T,
	read func(string, T) (T, error), key string, def T) (T, error) {
	if err := s.ensureLoaded(); err != nil {
		return def, err
	}
	m := field(s.rec)
	if v, ok := m[key]; ok {
		return v, nil
	}

	found, err := s.legacy.Has(key)
	if err != nil {
		return def, fmt.Errorf("checking legacy store for %s: %w", key, err)
	}
	if !found {
		return def, nil
	}
	v, err := read(key, def)
	if err != nil {
		return def, fmt.Errorf("reading legacy %s %s: %w", kind, key, err)
	}

	m[key] = v
	if err := s.persist(); err != nil {
		return v, err
	}
	if err := s.legacy.Delete(key); err != nil {
		return v, fmt.Errorf("removing migrated key %s from legacy store: %w", key, err)
	}
	s.logger.Info("migrated legacy setting", "key", key, "kind", kind)
	return v, nil
}

func ints(r *Record) map[string]int { return r.Ints }
func floats(r *Record) map[string]float64 { return r.Floats }
func strs(r *Record) map[string]string { return r.Strings }

// SetInt stores v under key in the integer map and persists the record.
func (s *Store) SetInt(key string, v int) error { return set(s, ints, key, v) }

// SetFloat stores v under key in the float map and persists the record.
func (s *Store) SetFloat(key string, v float64) error { return set(s, floats, key, v) }

// SetString stores v under key in the string map and persists the record.
func (s *Store) SetString(key string, v string) error { return set(s, strs, key, v) }

// GetInt returns the integer stored under key, migrating it from the legacy
// store on a miss, or def when neither has it. When migration persists the
// value but fails afterwards, the migrated value is returned with the error.
func (s *Store) GetInt(key string, def int) (int, error) {
	return get(s, KindInt, ints, s.legacy.GetInt, key, def)
}

// GetFloat is GetInt for float values.
func (s *Store) GetFloat(key string, def float64) (float64, error) {
	return get(s, KindFloat, floats, s.legacy.GetFloat, key, def)
}

// GetString is GetInt for string values.
func (s *Store) GetString(key string, def string) (string, error) {
	return get(s, KindString, strs, s.legacy.GetString, key, def)
}

// HasKey reports whether key is known to the legacy store or to any typed
// map of the record. It never migrates.
func (s *Store) HasKey(key string) (bool, error) {
	if err := s.ensureLoaded(); err != nil {
		return false, err
	}
	found, err := s.legacy.Has(key)
	if err != nil {
		return false, fmt.Errorf("checking legacy store for %s: %w", key, err)
	}
	return found || s.rec.HasKey(key), nil
}

// Kind reports which typed map holds key, letting callers tell a type
// mismatch apart from a missing key. It does not consult the legacy store.
func (s *Store) Kind(key string) (Kind, error) {
	if err := s.ensureLoaded(); err != nil {
		return KindNone, err
	}
	return s.rec.KindOf(key), nil
}

// DeleteKey removes key from the legacy store and from the first typed map
// holding it (int, then float, then string). If key was stored under more
// than one type, the later entries remain.
func (s *Store) DeleteKey(key string) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	if err := s.legacy.Delete(key); err != nil {
		return fmt.Errorf("deleting %s from legacy store: %w", key, err)
	}
	if s.rec.Remove(key) == KindNone {
		return nil
	}
	return s.persist()
}

// DeleteAll clears the legacy store, removes the settings file and resets
// the record. Calling it again is harmless.
func (s *Store) DeleteAll() error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	if err := s.legacy.DeleteAll(); err != nil {
		return fmt.Errorf("clearing legacy store: %w", err)
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing settings file: %w", err)
	}
	s.rec = NewRecord()
	s.dirty = false
	return nil
}
