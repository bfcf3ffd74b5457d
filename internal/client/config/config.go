// Package config loads the client's TOML configuration, falling back
// to defaults when the file is missing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings the storefront client needs.
type Config struct {
	ServerURL      string
	StatePath      string
	DebounceWindow time.Duration
}

const (
	defaultConfigPath = "~/.config/cartsync/config.toml"
	defaultServerURL  = "http://127.0.0.1:8080"
	defaultStatePath  = "~/.local/share/cartsync/state.json"
	defaultWindowMS   = 700
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path (or the default location when path is
// empty). A missing file yields the defaults; a malformed file is an
// error.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	resolved, err := expand(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerURL:      defaultServerURL,
		DebounceWindow: defaultWindowMS * time.Millisecond,
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.StatePath, err = expand(defaultStatePath)
			return cfg, err
		}
		return Config{}, fmt.Errorf("config: read %s: %w", resolved, err)
	}

	var file struct {
		ServerURL        string `toml:"server_url"`
		StatePath        string `toml:"state_path"`
		DebounceWindowMS int    `toml:"debounce_window_ms"`
	}
	if err := toml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", resolved, err)
	}

	if s := strings.TrimSpace(file.ServerURL); s != "" {
		cfg.ServerURL = s
	}
	statePath := strings.TrimSpace(file.StatePath)
	if statePath == "" {
		statePath = defaultStatePath
	}
	cfg.StatePath, err = expand(statePath)
	if err != nil {
		return Config{}, err
	}
	if file.DebounceWindowMS > 0 {
		cfg.DebounceWindow = time.Duration(file.DebounceWindowMS) * time.Millisecond
	}
	return cfg, nil
}

func expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: resolve home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
