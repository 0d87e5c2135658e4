// Package legacy provides read/delete access to the platform preference
// stores that settings lived in before the file-backed settings store.
//
// Every backend is consume-only: values can be read and removed, never
// written through the Store interface. Typed getters mirror the platform
// semantics, so a missing key and a key holding a value of another type
// both yield the caller's default.
package legacy

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown legacy backend")

// Store abstracts the ambient key-value preference API a host used before
// migrating to the settings file.
type Store interface {
	Has(key string) (bool, error)
	GetInt(key string, def int) (int, error)
	GetFloat(key string, def float64) (float64, error)
	GetString(key string, def string) (string, error)
	Delete(key string) error
	DeleteAll() error
}

// Backend is a Store that holds resources the host must release.
type Backend interface {
	Store
	Close() error
}

// Backend names accepted by Open.
const (
	BackendDefaults = "defaults"
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendNone     = "none"
)

// Open constructs the backend named by kind. location is the defaults
// domain for BackendDefaults and a file path for BackendJSON and
// BackendSQLite; it is ignored for BackendNone.
func Open(kind, location string, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch kind {
	case BackendDefaults:
		if location == "" {
			return nil, errors.New("defaults backend requires a domain")
		}
		return NewDefaults(location), nil
	case BackendJSON:
		if location == "" {
			return nil, errors.New("json backend requires a file path")
		}
		return NewJSONFile(location, logger), nil
	case BackendSQLite:
		if location == "" {
			return nil, errors.New("sqlite backend requires a database path")
		}
		s, err := OpenSQLite(location)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendNone, "":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
}

// Nop is a legacy store that never holds anything.
type Nop struct{}

func (Nop) Has(string) (bool, error) { return false, nil }
func (Nop) GetInt(_ string, def int) (int, error) { return def, nil }
func (Nop) GetFloat(_ string, def float64) (float64, error) { return def, nil }
func (Nop) GetString(_ string, def string) (string, error) { return def, nil }
func (Nop) Delete(string) error { return nil }
func (Nop) DeleteAll() error { return nil }
func (Nop) Close() error { return nil }
