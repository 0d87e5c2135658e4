package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/prefs/internal/legacy"
)

type cliEnv struct {
	configDir string
	dataDir   string
	legacyDB  string
}

// newCLIEnv writes a config.yaml that points the CLI at temp directories
// and a SQLite legacy store.
func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	root := t.TempDir()
	env := cliEnv{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		legacyDB:  filepath.Join(root, "legacy", "prefs.db"),
	}
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	yaml := "legacy:\n  backend: sqlite\n  location: " + env.legacyDB + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte(yaml), 0o644))
	return env
}

func (e cliEnv) settingsPath() string {
	return filepath.Join(e.dataDir, "settings.json")
}

// seed populates the legacy database through a short-lived connection.
func (e cliEnv) seed(t *testing.T, fn func(s *legacy.SQLite)) {
	t.Helper()
	s, err := legacy.OpenSQLite(e.legacyDB)
	require.NoError(t, err)
	fn(s)
	require.NoError(t, s.Close())
}

func (e cliEnv) legacyHas(t *testing.T, key string) bool {
	t.Helper()
	s, err := legacy.OpenSQLite(e.legacyDB)
	require.NoError(t, err)
	defer s.Close()
	ok, err := s.Has(key)
	require.NoError(t, err)
	return ok
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI and returns stdout and the status stream.
func (e cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, status bytes.Buffer

	oldStatus := statusOut
	statusOut = &status
	defer func() {
		statusOut = oldStatus
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		resetFlags(rootCmd)
	}()

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--no-color"}, args...))
	err := rootCmd.Execute()
	if cerr := closeSession(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return out.String(), status.String(), err
}

func TestSetGetCommand(t *testing.T) {
	env := newCLIEnv(t)

	_, status, err := env.run(t, "set", "volume", "7", "--type", "int")
	require.NoError(t, err)
	assert.Contains(t, status, "Set volume = 7 (int)")

	out, _, err := env.run(t, "get", "volume", "--type", "int")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	_, _, err = env.run(t, "set", "gamma", "2.2", "--type", "float")
	require.NoError(t, err)
	out, _, err = env.run(t, "get", "gamma", "--type", "float")
	require.NoError(t, err)
	assert.Equal(t, "2.2\n", out)

	data, err := os.ReadFile(env.settingsPath())
	require.NoError(t, err)
	assert.JSONEq(t, `{"intValues":{"volume":7},"floatValues":{"gamma":2.2},"stringValues":{}}`, string(data))
}

func TestGetCommand_Default(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "get", "missing", "--default", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback\n", out)

	_, err = os.Stat(env.settingsPath())
	assert.True(t, errors.Is(err, os.ErrNotExist), "a default read must not write the settings file")
}

func TestGetCommand_MigratesLegacy(t *testing.T) {
	env := newCLIEnv(t)
	env.seed(t, func(s *legacy.SQLite) {
		require.NoError(t, s.PutInt("lives", 3))
	})

	out, _, err := env.run(t, "get", "lives", "--type", "int")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	assert.False(t, env.legacyHas(t, "lives"))
	data, err := os.ReadFile(env.settingsPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lives":3`)
}

func TestGetCommand_InvalidInput(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "get", "k", "--type", "bool")
	assert.ErrorContains(t, err, "invalid --type")

	_, _, err = env.run(t, "get", "k", "--type", "int", "--default", "many")
	assert.ErrorContains(t, err, "invalid integer default")

	_, _, err = env.run(t, "set", "k", "1.5", "--type", "int")
	assert.ErrorContains(t, err, "invalid integer value")
}

func TestHasAndDeleteCommands(t *testing.T) {
	env := newCLIEnv(t)
	env.seed(t, func(s *legacy.SQLite) {
		require.NoError(t, s.PutString("old", "x"))
	})
	_, _, err := env.run(t, "set", "new", "y")
	require.NoError(t, err)

	for _, key := range []string{"old", "new"} {
		out, _, err := env.run(t, "has", key)
		require.NoError(t, err)
		assert.Equal(t, "true\n", out, key)

		_, _, err = env.run(t, "delete", key)
		require.NoError(t, err)

		out, _, err = env.run(t, "has", key)
		require.NoError(t, err)
		assert.Equal(t, "false\n", out, key)
	}
}

func TestResetCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.seed(t, func(s *legacy.SQLite) {
		require.NoError(t, s.PutInt("old", 1))
	})
	_, _, err := env.run(t, "set", "k", "v")
	require.NoError(t, err)

	_, status, err := env.run(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, status, "--confirm")
	_, err = os.Stat(env.settingsPath())
	require.NoError(t, err, "reset without --confirm must not delete anything")

	_, _, err = env.run(t, "reset", "--confirm")
	require.NoError(t, err)
	_, err = os.Stat(env.settingsPath())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, env.legacyHas(t, "old"))
}

func TestMigrateCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.seed(t, func(s *legacy.SQLite) {
		require.NoError(t, s.PutString("theme", "dark"))
		require.NoError(t, s.PutString("lang", "de"))
	})
	_, _, err := env.run(t, "set", "already", "here")
	require.NoError(t, err)

	_, status, err := env.run(t, "migrate", "theme", "lang", "already", "absent")
	require.NoError(t, err)
	assert.Contains(t, status, "Migrated 2 of 4 keys")
	assert.False(t, env.legacyHas(t, "theme"))
	assert.False(t, env.legacyHas(t, "lang"))

	out, _, err := env.run(t, "get", "lang")
	require.NoError(t, err)
	assert.Equal(t, "de\n", out)
}

func TestPathCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "path")
	require.NoError(t, err)
	assert.Equal(t, env.settingsPath()+"\n", out)
}

func TestConfigCommands(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run(t, "config", "set", "storage.file_name", "store.json")
	require.NoError(t, err)

	out, _, err := env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "storage.file_name = store.json")
	assert.Contains(t, out, "PREFS_LEGACY_BACKEND")

	// The legacy settings written by newCLIEnv survive config set.
	assert.Contains(t, out, "legacy.backend = sqlite")

	out, _, err = env.run(t, "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.dataDir, "store.json")+"\n", out)

	_, _, err = env.run(t, "config", "set", "bogus.key", "1")
	assert.ErrorContains(t, err, "unknown config key")
}

func TestVersionCommand(t *testing.T) {
	env := newCLIEnv(t)

	out, _, err := env.run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "prefs version "), out)
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "hello")
	if result != "hello" {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	result = colorize(colorGreen, "hello")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldColor := statusOut, noColor
	statusOut, noColor = &buf, true
	defer func() { statusOut, noColor = oldOut, oldColor }()

	printSuccess("Set %s", "a")
	printWarning("careful")
	printStatus("theme", "%s", "dark")
	assert.Equal(t, "✓ Set a\n⚠ careful\n  theme: dark\n", buf.String())
}
