package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kalambet/prefs/internal/legacy"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envFileName    = ".env"
)

type Config struct {
	Storage StorageConfig
	Legacy  LegacyConfig
	Log     LogConfig
}

type StorageConfig struct {
	DataDir  string
	FileName string
}

// LegacyConfig selects the platform store values are migrated out of.
type LegacyConfig struct {
	Backend  string
	Location string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	backend, location := defaultLegacy()
	return Config{
		Storage: StorageConfig{
			DataDir:  defaultDataDir(),
			FileName: "settings.json",
		},
		Legacy: LegacyConfig{
			Backend:  backend,
			Location: location,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SettingsPath returns the full path of the settings file.
func (c Config) SettingsPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.FileName)
}

// SlogLevel maps Log.Level to a slog level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load reads configuration for the prefs host.
//
// Sources, lowest precedence first: built-in platform defaults, config.yaml
// in configDir, a .env file in configDir, and PREFS_* environment variables
// (for example PREFS_STORAGE_DATA_DIR). An empty configDir means
// DefaultConfigDir(). A missing config.yaml or .env is not an error.
func Load(configDir string) (Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}
	if err := applyEnvFile(v, filepath.Join(configDir, envFileName)); err != nil {
		return Config{}, err
	}

	cfg := Config{}
	for _, s := range specs {
		s.apply(&cfg, v.GetString(s.key))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := defaults()
	for _, s := range specs {
		v.SetDefault(s.key, s.extract(def))
	}
	return v
}

// applyEnvFile layers .env entries over config.yaml. Variables already in
// the process environment win over the file.
func applyEnvFile(v *viper.Viper, path string) error {
	entries, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for _, s := range specs {
		name := s.envName()
		val, ok := entries[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(s.key, val)
	}
	return nil
}

// Validate checks that required fields are present and enumerations known.
func (c Config) Validate() error {
	var missing []string
	if c.Storage.DataDir == "" {
		missing = append(missing, "storage.data_dir")
	}
	if c.Storage.FileName == "" {
		missing = append(missing, "storage.file_name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	switch c.Legacy.Backend {
	case legacy.BackendDefaults, legacy.BackendJSON, legacy.BackendSQLite, legacy.BackendNone:
	default:
		return fmt.Errorf("invalid legacy.backend %q: %w", c.Legacy.Backend, legacy.ErrUnknownBackend)
	}
	if c.Legacy.Backend != legacy.BackendNone && c.Legacy.Location == "" {
		return fmt.Errorf("missing required config: legacy.location for backend %q", c.Legacy.Backend)
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return nil
}
