package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/gsconsole/internal/config"
	"github.com/rileyhilliard/gsconsole/internal/errors"
	"github.com/rileyhilliard/gsconsole/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write; defaults to ./.gsconsole.yaml
	URL            string // Panel base URL
	Name           string // Local name for the server
	ServerID       string // Panel server identifier
	TokenFile      string // Optional token file path
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts
	Out            io.Writer
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .gsconsole.yaml config",
	Long: `Write a starter .gsconsole.yaml in the current directory.

Without flags you are prompted for the panel URL and one server. The token
is not written unless you point at a token file; prefer GSCONSOLE_PANEL_TOKEN.

Examples:
  gsconsole init
  gsconsole init --url wss://panel.example.com --server-id 7f3c2a --name survival`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.Out = cmd.OutOrStdout()
		if !stdinIsTerminal() {
			opts.NonInteractive = true
		}
		return Init(opts)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initOpts.URL, "url", "", "panel base URL (wss://...)")
	initCmd.Flags().StringVar(&initOpts.ServerID, "server-id", "", "panel server identifier")
	initCmd.Flags().StringVar(&initOpts.Name, "name", "", "local name for the server (default \"default\")")
	initCmd.Flags().StringVar(&initOpts.TokenFile, "token-file", "", "file holding the panel token")
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "don't prompt; requires --url and --server-id")
}

// Init creates a new .gsconsole.yaml configuration file.
func Init(opts InitOptions) error {
	if opts.Path == "" {
		opts.Path = filepath.Join(".", config.ConfigFileName)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(opts.Out, "Cancelled.")
			return nil
		}
	}

	if !opts.NonInteractive {
		if err := promptInit(&opts); err != nil {
			return err
		}
	}

	cfg, err := buildInitConfig(opts)
	if err != nil {
		return err
	}
	if err := config.Write(opts.Path, cfg, true); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config",
			"Check you have write permission in this directory")
	}

	fmt.Fprintf(opts.Out, "%s Wrote %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), opts.Path)
	if cfg.Panel.TokenFile == "" {
		fmt.Fprintf(opts.Out, "  Set %s_PANEL_TOKEN before connecting.\n", config.EnvPrefix)
	}
	fmt.Fprintf(opts.Out, "  Try: gsconsole console %s\n", cfg.Default)
	return nil
}

func promptInit(opts *InitOptions) error {
	required := func(what string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", what)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Panel URL").
				Description("Base URL of the game panel's websocket endpoint").
				Placeholder("wss://panel.example.com").
				Value(&opts.URL).
				Validate(required("panel URL")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Server id").
				Description("The panel's identifier for the server").
				Placeholder("7f3c2a").
				Value(&opts.ServerID).
				Validate(required("server id")),
			huh.NewInput().
				Title("Server name").
				Description("A friendly name for this server in your config").
				Placeholder("survival").
				Value(&opts.Name).
				Validate(func(s string) error {
					if strings.ContainsAny(s, " \t\n") {
						return fmt.Errorf("server name cannot contain whitespace")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Token file (optional)").
				Description("Leave empty to use GSCONSOLE_PANEL_TOKEN").
				Value(&opts.TokenFile),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}
	return nil
}

// buildInitConfig turns the answers into a validated config.
func buildInitConfig(opts InitOptions) (*config.Config, error) {
	url := strings.TrimSpace(opts.URL)
	id := strings.TrimSpace(opts.ServerID)
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "default"
	}

	if url == "" || id == "" {
		return nil, errors.New(errors.ErrConfig,
			"Panel URL and server id are required",
			"Provide --url and --server-id, or run interactively")
	}

	cfg := config.DefaultConfig()
	cfg.Panel.URL = url
	cfg.Panel.TokenFile = strings.TrimSpace(opts.TokenFile)
	cfg.Servers[name] = config.Server{ID: id}
	cfg.Default = name

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
