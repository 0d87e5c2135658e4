package legacy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
)

// JSONFile reads legacy preferences from a flat JSON object, the format
// non-macOS hosts wrote before the settings file existed.
type JSONFile struct {
	path   string
	data   map[string]any
	loaded bool
	logger *slog.Logger
}

func NewJSONFile(path string, logger *slog.Logger) *JSONFile {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONFile{path: path, logger: logger}
}

// load reads the file once. A missing or unparsable file is treated as an
// empty store so a broken legacy file never blocks the settings store.
func (f *JSONFile) load() error {
	if f.loaded {
		return nil
	}
	f.data = make(map[string]any)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.loaded = true
			return nil
		}
		return fmt.Errorf("reading legacy prefs %s: %w", f.path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&f.data); err != nil {
		f.logger.Warn("could not parse legacy prefs file, ignoring it", "path", f.path, "error", err)
		f.data = make(map[string]any)
	}
	f.loaded = true
	return nil
}

func (f *JSONFile) save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating legacy prefs dir: %w", err)
	}
	out, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, out, 0o600)
}

func (f *JSONFile) Has(key string) (bool, error) {
	if err := f.load(); err != nil {
		return false, err
	}
	_, ok := f.data[key]
	return ok, nil
}

func (f *JSONFile) GetInt(key string, def int) (int, error) {
	if err := f.load(); err != nil {
		return def, err
	}
	n, ok := f.data[key].(json.Number)
	if !ok {
		return def, nil
	}
	i, err := n.Int64()
	if err != nil || i < math.MinInt || i > math.MaxInt {
		return def, nil
	}
	return int(i), nil
}

func (f *JSONFile) GetFloat(key string, def float64) (float64, error) {
	if err := f.load(); err != nil {
		return def, err
	}
	n, ok := f.data[key].(json.Number)
	if !ok {
		return def, nil
	}
	v, err := n.Float64()
	if err != nil {
		return def, nil
	}
	return v, nil
}

func (f *JSONFile) GetString(key string, def string) (string, error) {
	if err := f.load(); err != nil {
		return def, err
	}
	if s, ok := f.data[key].(string); ok {
		return s, nil
	}
	return def, nil
}

func (f *JSONFile) Delete(key string) error {
	if err := f.load(); err != nil {
		return err
	}
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.save()
}

// DeleteAll removes the legacy file entirely.
func (f *JSONFile) DeleteAll() error {
	f.data = make(map[string]any)
	f.loaded = true
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing legacy prefs %s: %w", f.path, err)
	}
	return nil
}

func (f *JSONFile) Close() error { return nil }
