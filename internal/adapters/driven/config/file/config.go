// Package file loads and writes clipvault's TOML configuration. Values not
// present in the file keep their defaults, so a minimal config stays minimal.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/logger"
)

// Locate returns the first existing config file, trying the explicit path,
// then ./clipvault.toml, ./.clipvault/config.toml and the XDG config
// directory. ok is false when no config file exists anywhere.
func Locate(explicit string) (path string, ok bool) {
	candidates := []string{explicit}
	candidates = append(candidates,
		"clipvault.toml",
		filepath.Join(".clipvault", "config.toml"),
	)
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "clipvault", "config.toml"))
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Load reads configuration from the given path, or from the search locations
// when path is empty. No config file anywhere yields the defaults; an
// explicit path that does not exist or a file that does not parse is an
// error wrapping domain.ErrConfigInvalid.
func Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	if path == "" {
		found, ok := Locate("")
		if !ok {
			logger.Debug("no config file found, using defaults")
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigInvalid, path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigInvalid, path, err)
	}

	logger.Debug("loaded config from %s", path)
	return cfg, nil
}

// Write persists a configuration as TOML, creating parent folders as needed.
func Write(path string, cfg *domain.Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
