package config

import (
	"strings"
)

const envPrefix = "PREFS"

type keySpec struct {
	key     string
	apply   func(cfg *Config, v string)
	extract func(cfg Config) string
}

// envName returns the environment variable viper binds to key.
func (s keySpec) envName() string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(s.key, ".", "_"))
}

var specs = []keySpec{
	{
		key:     "storage.data_dir",
		apply:   func(cfg *Config, v string) { cfg.Storage.DataDir = v },
		extract: func(cfg Config) string { return cfg.Storage.DataDir },
	},
	{
		key:     "storage.file_name",
		apply:   func(cfg *Config, v string) { cfg.Storage.FileName = v },
		extract: func(cfg Config) string { return cfg.Storage.FileName },
	},
	{
		key:     "legacy.backend",
		apply:   func(cfg *Config, v string) { cfg.Legacy.Backend = v },
		extract: func(cfg Config) string { return cfg.Legacy.Backend },
	},
	{
		key:     "legacy.location",
		apply:   func(cfg *Config, v string) { cfg.Legacy.Location = v },
		extract: func(cfg Config) string { return cfg.Legacy.Location },
	},
	{
		key:     "log.level",
		apply:   func(cfg *Config, v string) { cfg.Log.Level = v },
		extract: func(cfg Config) string { return cfg.Log.Level },
	},
}

func lookupSpec(key string) (keySpec, bool) {
	for _, s := range specs {
		if s.key == key {
			return s, true
		}
	}
	return keySpec{}, false
}
