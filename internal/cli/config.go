package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// fileConfig is the optional on-disk configuration. Flags take precedence
// over file values; file values take precedence over built-in defaults.
type fileConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
	Listen  string   `toml:"listen"`
}

// duration lets TOML carry timeouts as strings like "30s".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// configPath returns the config file location using the XDG convention
// (~/.config/depview/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file if present. A missing file is not an
// error; a malformed one is.
func loadConfig() (fileConfig, error) {
	var cfg fileConfig
	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	_, err = toml.DecodeFile(path, &cfg)
	return cfg, err
}

// applyConfig fills graph options from the config file for any flag the user
// did not set explicitly. A broken config file is ignored here; the built-in
// defaults still work without one.
func applyConfig(cmd *cobra.Command, opts *graphOptions) {
	cfg, err := loadConfig()
	if err != nil {
		return
	}
	if cfg.BaseURL != "" && !cmd.Flags().Changed("base-url") {
		opts.baseURL = cfg.BaseURL
	}
	if cfg.Timeout != 0 && !cmd.Flags().Changed("timeout") {
		opts.timeout = time.Duration(cfg.Timeout)
	}
}
