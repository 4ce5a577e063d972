package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with durations as strings so the written YAML
// reads "10s" rather than nanoseconds.
type fileConfig struct {
	Version int `yaml:"version"`
	Panel   struct {
		URL          string `yaml:"url"`
		Path         string `yaml:"path"`
		Token        string `yaml:"token,omitempty"`
		TokenFile    string `yaml:"token_file,omitempty"`
		DialTimeout  string `yaml:"dial_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"panel"`
	Servers map[string]Server `yaml:"servers"`
	Default string            `yaml:"default,omitempty"`
	Console ConsoleConfig     `yaml:"console"`
	Stats   struct {
		Window string `yaml:"window"`
	} `yaml:"stats"`
	Reconnect struct {
		Base string `yaml:"base"`
		Max  string `yaml:"max"`
	} `yaml:"reconnect"`
}

const fileHeader = `# gsconsole configuration
# The panel token can also come from GSCONSOLE_PANEL_TOKEN or panel.token_file.
`

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var f fileConfig
	f.Version = cfg.Version
	f.Panel.URL = cfg.Panel.URL
	f.Panel.Path = cfg.Panel.Path
	f.Panel.Token = cfg.Panel.Token
	f.Panel.TokenFile = cfg.Panel.TokenFile
	f.Panel.DialTimeout = cfg.Panel.DialTimeout.String()
	f.Panel.WriteTimeout = cfg.Panel.WriteTimeout.String()
	f.Servers = cfg.Servers
	f.Default = cfg.Default
	f.Console = cfg.Console
	f.Stats.Window = cfg.Stats.Window.String()
	f.Reconnect.Base = cfg.Reconnect.Base.String()
	f.Reconnect.Max = cfg.Reconnect.Max.String()

	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append([]byte(fileHeader), data...), nil
}

// Write saves cfg to path. An existing file is only replaced when
// overwrite is set.
func Write(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	// The file can hold a token.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
