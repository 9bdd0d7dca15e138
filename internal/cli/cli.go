// Package cli implements the cratesio command-line interface.
//
// Every client operation has a command: summary, crate, full, downloads,
// owners, authors, deps, rdeps, list, user, plus an interactive browse
// command. Output is rendered as tables by default and as JSON with --json.
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/cratesio/config.toml (or the file
// given with --config) and overridden by flags:
//
//	user_agent = "my_bot (help@my_bot.com)"
//	rate_limit = "1s"
//
//	[registry]
//	url  = "https://crates.my-registry.com/api/v1/"
//	name = "my-registry"
//
// # Logging
//
// All commands support --verbose (-v), which logs every registry request
// with its request ID, status and duration. Loggers are passed through
// context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesio/pkg/buildinfo"
	"github.com/matzehuels/cratesio/pkg/integrations"
	"github.com/matzehuels/cratesio/pkg/integrations/crates"
	"github.com/matzehuels/cratesio/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cratesio"

	// configFileName is the name of the config file inside the config directory.
	configFileName = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags  globalFlags
	config Config
}

// globalFlags are the persistent flags shared by all commands.
type globalFlags struct {
	configPath   string
	userAgent    string
	rateLimit    duration
	registryURL  string
	registryName string
	json         bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cratesio queries the crates.io registry API",
		Long:         `cratesio is a CLI for the crates.io registry API. It fetches crates, versions, downloads, owners and reverse dependencies while respecting the registry's rate limit.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			c.config = cfg

			observability.SetHTTPHooks(newHTTPLogHooks(c.Logger))
			observability.SetPaginationHooks(newPageLogHooks(c.Logger))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cratesio/config.toml)")
	pf.StringVar(&c.flags.userAgent, "user-agent", "", "User-Agent sent with every request")
	pf.Var(&c.flags.rateLimit, "rate-limit", "minimum time between request starts (e.g. 1s, 250ms)")
	pf.StringVar(&c.flags.registryURL, "registry-url", "", "API root of an alternative registry")
	pf.StringVar(&c.flags.registryName, "registry-name", "", "Cargo registry name, used to read CARGO_REGISTRIES_<NAME>_TOKEN")
	pf.BoolVar(&c.flags.json, "json", false, "print raw JSON instead of tables")

	// Register all subcommands
	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.crateCommand())
	root.AddCommand(c.fullCommand())
	root.AddCommand(c.downloadsCommand())
	root.AddCommand(c.ownersCommand())
	root.AddCommand(c.authorsCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.rdepsCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.userCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates a registry client from the effective configuration.
func (c *CLI) newClient() (*crates.Client, error) {
	cfg := c.config
	c.Logger.Debug("creating client", "registry", cfg.registry().BaseURL(), "rate_limit", cfg.RateLimit.Duration)
	return crates.Build(cfg.UserAgent, cfg.RateLimit.Duration, cfg.registry())
}

// registry returns the configured registry, or nil for crates.io.
func (cfg Config) registry() *integrations.Registry {
	r := cfg.Registry
	if r.URL == "" && r.Name == "" && r.Token == "" {
		return nil
	}
	return &integrations.Registry{URL: r.URL, Name: r.Name, Token: r.Token}
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/cratesio/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
