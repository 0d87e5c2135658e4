package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kalambet/prefs/internal/config"
	"github.com/kalambet/prefs/internal/settings"
)

func parseKind(s string) (settings.Kind, error) {
	switch s {
	case "int":
		return settings.KindInt, nil
	case "float":
		return settings.KindFloat, nil
	case "string", "":
		return settings.KindString, nil
	}
	return settings.KindNone, fmt.Errorf("invalid --type %q: want int, float or string", s)
}

// getValue reads key as kind, parsing raw as the default, and returns the
// value formatted for display.
func getValue(store *settings.Store, kind settings.Kind, key, raw string) (string, error) {
	switch kind {
	case settings.KindInt:
		def := 0
		if raw != "" {
			d, err := strconv.Atoi(raw)
			if err != nil {
				return "", fmt.Errorf("invalid integer default %q: %w", raw, err)
			}
			def = d
		}
		v, err := store.GetInt(key, def)
		return strconv.Itoa(v), err
	case settings.KindFloat:
		def := 0.0
		if raw != "" {
			d, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return "", fmt.Errorf("invalid float default %q: %w", raw, err)
			}
			def = d
		}
		v, err := store.GetFloat(key, def)
		return strconv.FormatFloat(v, 'g', -1, 64), err
	default:
		return store.GetString(key, raw)
	}
}

func setValue(store *settings.Store, kind settings.Kind, key, raw string) error {
	switch kind {
	case settings.KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", key, err)
		}
		return store.SetInt(key, v)
	case settings.KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %w", key, err)
		}
		return store.SetFloat(key, v)
	default:
		return store.SetString(key, raw)
	}
}

// --- get / set ---

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting, migrating it from the legacy store if needed",
	Long: `Print a setting, migrating it from the legacy store if needed.

Examples:
  prefs get volume --type int --default 5
  prefs get theme`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		def, _ := cmd.Flags().GetString("default")
		kind, err := parseKind(typ)
		if err != nil {
			return err
		}
		store, err := activeStore()
		if err != nil {
			return err
		}

		val, err := getValue(store, kind, args[0], def)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), val)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		kind, err := parseKind(typ)
		if err != nil {
			return err
		}
		store, err := activeStore()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		if err := setValue(store, kind, key, value); err != nil {
			return err
		}
		printSuccess("Set %s = %s (%s)", key, value, kind)
		return nil
	},
}

func init() {
	getCmd.Flags().String("type", "string", "value type: int, float or string")
	getCmd.Flags().String("default", "", "value printed when the key is absent")
	setCmd.Flags().String("type", "string", "value type: int, float or string")
}

// --- has / delete / reset ---

var hasCmd = &cobra.Command{
	Use:   "has <key>",
	Short: "Report whether a key exists in the settings file or the legacy store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := activeStore()
		if err != nil {
			return err
		}
		ok, err := store.HasKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a key from the settings file and the legacy store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := activeStore()
		if err != nil {
			return err
		}
		if err := store.DeleteKey(args[0]); err != nil {
			return err
		}
		printSuccess("Deleted %s", args[0])
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every setting and clear the legacy store",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete ALL settings, including the legacy store. Use --confirm to proceed.")
			return nil
		}
		store, err := activeStore()
		if err != nil {
			return err
		}
		if err := store.DeleteAll(); err != nil {
			return err
		}
		printSuccess("All settings deleted")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("confirm", false, "confirm deleting all settings")
}

// --- migrate ---

var migrateCmd = &cobra.Command{
	Use:   "migrate <key>...",
	Short: "Move the named keys out of the legacy store now",
	Long: `Move the named keys out of the legacy store now.

Keys are migrated on first read anyway; this forces it for keys a host
may not read for a while. The legacy store cannot be enumerated, so keys
must be named.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		kind, err := parseKind(typ)
		if err != nil {
			return err
		}
		store, err := activeStore()
		if err != nil {
			return err
		}

		migrated := 0
		for _, key := range args {
			held, err := store.Kind(key)
			if err != nil {
				return err
			}
			known, err := store.HasKey(key)
			if err != nil {
				return err
			}
			if held != settings.KindNone || !known {
				printStatus(key, "nothing to migrate")
				continue
			}
			val, err := getValue(store, kind, key, "")
			if err != nil {
				return fmt.Errorf("migrating %s: %w", key, err)
			}
			migrated++
			printStatus(key, "%s", val)
		}
		printSuccess("Migrated %d of %d keys", migrated, len(args))
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("type", "string", "value type of the keys: int, float or string")
}

// --- path ---

var pathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the settings file location",
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.SettingsPath())
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current configuration",
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s  (%s)\n", colorize(colorBold, k.Key), k.Value, k.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Set a configuration value in config.yaml",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(flagConfigDir, key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the prefs version",
	Annotations: map[string]string{skipStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "prefs version %s\n", version)
	},
}
