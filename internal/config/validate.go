package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rileyhilliard/gsconsole/internal/errors"
)

// ValidSchemes are the panel URL schemes the transport accepts.
var ValidSchemes = []string{"ws", "wss", "http", "https"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but gsconsole only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade gsconsole to a newer release.")
	}

	if err := validatePanel(cfg.Panel); err != nil {
		return err
	}

	for _, name := range sortedKeys(cfg.Servers) {
		if strings.TrimSpace(cfg.Servers[name].ID) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Server '%s' has no id", name),
				fmt.Sprintf("Add the panel's server identifier under servers.%s.id.", name))
		}
	}

	if cfg.Default != "" {
		if _, ok := cfg.Servers[cfg.Default]; !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Default server '%s' isn't defined", cfg.Default),
				suggestServers(cfg))
		}
	}

	if cfg.Console.Capacity < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("console.capacity must be at least 1, got %d", cfg.Console.Capacity),
			"The default of 2000 lines works well for most servers.")
	}

	if cfg.Stats.Window <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("stats.window must be positive, got %s", cfg.Stats.Window),
			"Use a duration like 60s.")
	}

	if cfg.Reconnect.Base <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("reconnect.base must be positive, got %s", cfg.Reconnect.Base),
			"Use a duration like 1s.")
	}
	if cfg.Reconnect.Max < cfg.Reconnect.Base {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("reconnect.max (%s) is shorter than reconnect.base (%s)", cfg.Reconnect.Max, cfg.Reconnect.Base),
			"Set reconnect.max to at least reconnect.base.")
	}

	return nil
}

func validatePanel(p PanelConfig) error {
	if strings.TrimSpace(p.URL) == "" {
		return errors.New(errors.ErrConfig,
			"No panel URL configured",
			"Set panel.url in .gsconsole.yaml or GSCONSOLE_PANEL_URL, e.g. wss://panel.example.com")
	}

	u, err := url.Parse(p.URL)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Panel URL '%s' can't be parsed", p.URL),
			"Use a URL like wss://panel.example.com")
	}
	if !isValidScheme(u.Scheme) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Panel URL scheme '%s' isn't supported", u.Scheme),
			"Use one of: "+strings.Join(ValidSchemes, ", "))
	}
	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Panel URL '%s' has no host", p.URL),
			"Use a URL like wss://panel.example.com")
	}

	if p.DialTimeout < 0 || p.WriteTimeout < 0 {
		return errors.New(errors.ErrConfig,
			"Panel timeouts can't be negative",
			"Check panel.dial_timeout and panel.write_timeout.")
	}
	return nil
}

func isValidScheme(s string) bool {
	for _, valid := range ValidSchemes {
		if strings.EqualFold(s, valid) {
			return true
		}
	}
	return false
}

// ResolveServer picks the server to connect to. An empty name selects the
// default, or the only configured server when there is exactly one.
func (c *Config) ResolveServer(name string) (string, Server, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" {
		if len(c.Servers) == 1 {
			for only, s := range c.Servers {
				return only, s, nil
			}
		}
		return "", Server{}, errors.New(errors.ErrConfig,
			"No server specified",
			"Pass a server name, or set 'default' in .gsconsole.yaml. "+suggestServers(c))
	}

	s, ok := c.Servers[name]
	if !ok {
		return "", Server{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Server '%s' isn't configured", name),
			suggestServers(c))
	}
	return name, s, nil
}

// ServerNames returns the configured server names, sorted.
func (c *Config) ServerNames() []string {
	return sortedKeys(c.Servers)
}

func suggestServers(c *Config) string {
	names := sortedKeys(c.Servers)
	if len(names) == 0 {
		return "Add a server under 'servers' in .gsconsole.yaml, or run 'gsconsole init'."
	}
	return "Configured servers: " + strings.Join(names, ", ")
}

func sortedKeys(m map[string]Server) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
