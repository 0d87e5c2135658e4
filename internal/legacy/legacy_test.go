package legacy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seeder is implemented by every backend that can be populated in tests.
type seeder interface {
	PutInt(key string, v int)
	PutFloat(key string, v float64)
	PutString(key string, v string)
}

// sqliteSeeder adapts SQLite's error-returning Put methods.
type sqliteSeeder struct {
	t *testing.T
	s *SQLite
}

func (w sqliteSeeder) PutInt(k string, v int) { require.NoError(w.t, w.s.PutInt(k, v)) }
func (w sqliteSeeder) PutFloat(k string, v float64) { require.NoError(w.t, w.s.PutFloat(k, v)) }
func (w sqliteSeeder) PutString(k string, v string) { require.NoError(w.t, w.s.PutString(k, v)) }

// backends returns each seedable backend under test, freshly constructed.
func backends() map[string]func(t *testing.T) (Store, seeder) {
	return map[string]func(t *testing.T) (Store, seeder){
		"memory": func(t *testing.T) (Store, seeder) {
			m := NewMemory()
			return m, m
		},
		"sqlite": func(t *testing.T) (Store, seeder) {
			s, err := OpenSQLite(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			return s, sqliteSeeder{t: t, s: s}
		},
		"defaults": func(t *testing.T) (Store, seeder) {
			f := newFakeDefaults()
			d := &Defaults{domain: "com.example.app", run: f.run}
			return d, f
		},
	}
}

func TestBackendTypedReads(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			s, seed := mk(t)
			seed.PutInt("i", 7)
			seed.PutFloat("f", 0.5)
			seed.PutString("s", "hello")

			i, err := s.GetInt("i", 0)
			require.NoError(t, err)
			assert.Equal(t, 7, i)

			f, err := s.GetFloat("f", 0)
			require.NoError(t, err)
			assert.Equal(t, 0.5, f)

			str, err := s.GetString("s", "")
			require.NoError(t, err)
			assert.Equal(t, "hello", str)
		})
	}
}

func TestBackendTypeMismatchReturnsDefault(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			s, seed := mk(t)
			seed.PutString("s", "hello")

			i, err := s.GetInt("s", -1)
			require.NoError(t, err)
			assert.Equal(t, -1, i)

			f, err := s.GetFloat("missing", 1.5)
			require.NoError(t, err)
			assert.Equal(t, 1.5, f)
		})
	}
}

func TestBackendDelete(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			s, seed := mk(t)
			seed.PutInt("a", 1)
			seed.PutInt("b", 2)

			require.NoError(t, s.Delete("a"))
			require.NoError(t, s.Delete("never-there"))

			has, err := s.Has("a")
			require.NoError(t, err)
			assert.False(t, has)
			has, err = s.Has("b")
			require.NoError(t, err)
			assert.True(t, has)

			require.NoError(t, s.DeleteAll())
			has, err = s.Has("b")
			require.NoError(t, err)
			assert.False(t, has)
			require.NoError(t, s.DeleteAll())
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		kind     string
		location string
		wantErr  bool
		wantType any
	}{
		{BackendNone, "", false, Nop{}},
		{BackendJSON, filepath.Join(dir, "prefs.json"), false, &JSONFile{}},
		{BackendSQLite, filepath.Join(dir, "prefs.db"), false, &SQLite{}},
		{BackendDefaults, "com.example.app", false, &Defaults{}},
		{BackendJSON, "", true, nil},
		{BackendDefaults, "", true, nil},
		{"registry", "x", true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.location, func(t *testing.T) {
			b, err := Open(tt.kind, tt.location, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { b.Close() })
			assert.IsType(t, tt.wantType, b)
		})
	}

	_, err := Open("registry", "x", nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNop(t *testing.T) {
	var s Store = Nop{}
	has, err := s.Has("k")
	require.NoError(t, err)
	assert.False(t, has)
	v, err := s.GetString("k", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", v)
	assert.NoError(t, s.Delete("k"))
	assert.NoError(t, s.DeleteAll())
}
