package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// DefaultSocketPath is the per-server socket path; {id} is replaced by the
// server identifier.
const DefaultSocketPath = "/api/servers/{id}/ws"

// Config represents the complete .gsconsole.yaml configuration file.
type Config struct {
	Version   int               `yaml:"version" mapstructure:"version"`
	Panel     PanelConfig       `yaml:"panel" mapstructure:"panel"`
	Servers   map[string]Server `yaml:"servers" mapstructure:"servers"`
	Default   string            `yaml:"default" mapstructure:"default"`
	Console   ConsoleConfig     `yaml:"console" mapstructure:"console"`
	Stats     StatsConfig       `yaml:"stats" mapstructure:"stats"`
	Reconnect ReconnectConfig   `yaml:"reconnect" mapstructure:"reconnect"`
}

// PanelConfig locates the game panel and the credential used against it.
type PanelConfig struct {
	// URL is the panel base URL (ws, wss, http or https).
	URL string `yaml:"url" mapstructure:"url"`

	// Path is the socket path template. "{id}" is replaced by the server ID.
	Path string `yaml:"path" mapstructure:"path"`

	// Token is the bearer credential. Prefer TokenFile or GSCONSOLE_PANEL_TOKEN
	// over committing a token to the config file.
	Token string `yaml:"token" mapstructure:"token"`

	// TokenFile is read on every connection open, so rotated tokens are
	// picked up on reconnect. Takes precedence over Token.
	TokenFile string `yaml:"token_file" mapstructure:"token_file"`

	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// Server is a named game server instance on the panel.
type Server struct {
	// ID is the panel's identifier for the server instance.
	ID string `yaml:"id" mapstructure:"id"`

	Description string `yaml:"description" mapstructure:"description"`
}

// ConsoleConfig controls console history retention.
type ConsoleConfig struct {
	// Capacity is the number of console lines kept per session.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`
}

// StatsConfig controls the resource graphs.
type StatsConfig struct {
	// Window is how far back the CPU and memory graphs reach.
	Window time.Duration `yaml:"window" mapstructure:"window"`
}

// ReconnectConfig controls the reconnect backoff.
type ReconnectConfig struct {
	Base time.Duration `yaml:"base" mapstructure:"base"`
	Max  time.Duration `yaml:"max" mapstructure:"max"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Panel: PanelConfig{
			Path:         DefaultSocketPath,
			DialTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Servers: make(map[string]Server),
		Console: ConsoleConfig{
			Capacity: 2000,
		},
		Stats: StatsConfig{
			Window: 60 * time.Second,
		},
		Reconnect: ReconnectConfig{
			Base: 1 * time.Second,
			Max:  30 * time.Second,
		},
	}
}
