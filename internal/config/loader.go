package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/gsconsole/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".gsconsole.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/gsconsole"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. GSCONSOLE_PANEL_TOKEN.
	EnvPrefix = "GSCONSOLE"
)

// Load reads config from the specified path. An empty path loads defaults
// plus environment overrides only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'gsconsole init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .gsconsole.yaml in current directory
// 3. .gsconsole.yaml in parent directories (stops at git root or home)
// 4. ~/.config/gsconsole/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	if path := findUpward(cwd); path != "" {
		return path, nil
	}

	if home, _ := os.UserHomeDir(); home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// findUpward looks for ConfigFileName in dir and its parents, stopping at
// a git root or the home directory.
func findUpward(dir string) string {
	home, _ := os.UserHomeDir()
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		if isGitRoot(dir) {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		if home != "" && parent == home {
			return ""
		}
		dir = parent
	}
}

// LoadOrDefault loads config from the found path, or returns defaults plus
// environment overrides if no file is found.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		hint := "Check the YAML syntax"
		if path != "" {
			hint += " in " + path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Invalid config format", hint)
	}

	if cfg.Servers == nil {
		cfg.Servers = make(map[string]Server)
	}
	cfg.Panel.TokenFile = ExpandTilde(cfg.Panel.TokenFile)

	return cfg, nil
}

// setDefaults registers every scalar key so AutomaticEnv can override it
// even when the config file leaves it out.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("panel.url", "")
	v.SetDefault("panel.path", d.Panel.Path)
	v.SetDefault("panel.token", "")
	v.SetDefault("panel.token_file", "")
	v.SetDefault("panel.dial_timeout", d.Panel.DialTimeout.String())
	v.SetDefault("panel.write_timeout", d.Panel.WriteTimeout.String())
	v.SetDefault("default", "")
	v.SetDefault("console.capacity", d.Console.Capacity)
	v.SetDefault("stats.window", d.Stats.Window.String())
	v.SetDefault("reconnect.base", d.Reconnect.Base.String())
	v.SetDefault("reconnect.max", d.Reconnect.Max.String())
}

// ExpandTilde replaces ~ or ~/path with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
