package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesio/pkg/buildinfo"
)

// annotationConfigOptional marks commands that run without the file given
// with --config, such as "config init" which creates it.
const annotationConfigOptional = "config-optional"

// defaultRateLimit follows the crates.io crawler policy of one request per second.
const defaultRateLimit = time.Second

// Config is the effective CLI configuration: defaults, then the config
// file, then flags.
type Config struct {
	UserAgent string         `toml:"user_agent"`
	RateLimit duration       `toml:"rate_limit"`
	Registry  RegistryConfig `toml:"registry,omitempty"`
}

// RegistryConfig selects an alternative registry.
type RegistryConfig struct {
	URL   string `toml:"url,omitempty"`
	Name  string `toml:"name,omitempty"`
	Token string `toml:"token,omitempty"`
}

// defaultUserAgent identifies the CLI to the registry.
func defaultUserAgent() string {
	return fmt.Sprintf("%s/%s (https://github.com/matzehuels/cratesio)", appName, buildinfo.Version)
}

func defaultConfig() Config {
	return Config{
		UserAgent: defaultUserAgent(),
		RateLimit: duration{defaultRateLimit},
	}
}

// loadConfig builds the effective configuration for cmd.
func (c *CLI) loadConfig(cmd *cobra.Command) (Config, error) {
	cfg := defaultConfig()

	path, explicit := c.flags.configPath, c.flags.configPath != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, configFileName)
		}
	}

	if path != "" {
		if err := readConfigFile(path, &cfg); err != nil {
			optional := !explicit || cmd.Annotations[annotationConfigOptional] == "true"
			if optional && os.IsNotExist(err) {
				c.Logger.Debug("no config file", "path", path)
			} else {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else {
			c.Logger.Debug("loaded config", "path", path)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("user-agent") {
		cfg.UserAgent = c.flags.userAgent
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = c.flags.rateLimit
	}
	if flags.Changed("registry-url") {
		cfg.Registry.URL = c.flags.registryURL
	}
	if flags.Changed("registry-name") {
		cfg.Registry.Name = c.flags.registryName
	}
	return cfg, nil
}

// readConfigFile decodes the TOML file at path into cfg. Keys the CLI does
// not know are rejected so that typos do not pass silently.
func readConfigFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return nil
}

// writeConfigFile encodes cfg as TOML at path, creating the directory.
func writeConfigFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// duration is a time.Duration that reads and writes as a string ("1s") in
// TOML and works as a pflag value.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %s", v)
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *duration) Set(s string) error { return d.UnmarshalText([]byte(s)) }

func (d *duration) Type() string { return "duration" }
