package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipvault/clipvault-cli/internal/core/domain"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driven"
	"github.com/clipvault/clipvault-cli/internal/core/ports/driving"
	"github.com/clipvault/clipvault-cli/internal/discovery"
)

// Ensure Validator implements the interface.
var _ driving.Validator = (*Validator)(nil)

// Validator checks that configuration, vault root and cache are usable
// before a batch touches anything.
type Validator struct {
	cfg        *domain.Config
	configPath string
	cacheStore driven.CacheStore
}

// NewValidator creates a validator. configPath is the config file in use,
// empty when running on defaults.
func NewValidator(cfg *domain.Config, configPath string, cacheStore driven.CacheStore) *Validator {
	return &Validator{cfg: cfg, configPath: configPath, cacheStore: cacheStore}
}

// Validate runs every check and never fails early: the report carries all
// results.
func (v *Validator) Validate(ctx context.Context) (*driving.ValidationReport, error) {
	report := &driving.ValidationReport{}
	add := func(name string, ok bool, detail string) {
		report.Checks = append(report.Checks, driving.ValidationCheck{Name: name, OK: ok, Detail: detail})
	}

	if v.configPath != "" {
		add("config", true, v.configPath)
	} else {
		add("config", true, "using defaults (no config file)")
	}

	root := v.cfg.Paths.Root
	info, err := os.Stat(root)
	switch {
	case err != nil:
		add("vault root", false, fmt.Sprintf("%s: %v", root, err))
	case !info.IsDir():
		add("vault root", false, fmt.Sprintf("%s is not a directory", root))
	default:
		add("vault root", true, root)
	}

	if _, err := v.cacheStore.Load(ctx); err != nil {
		add("cache", false, err.Error())
	} else if err := v.cacheWritable(); err != nil {
		add("cache", false, fmt.Sprintf("not writable: %v", err))
	} else {
		add("cache", true, v.cacheStore.Path())
	}

	if report.Checks[1].OK {
		finder := discovery.NewFinder(v.cfg.SpecialFolders)
		files, err := finder.Markdown(root)
		if err != nil {
			add("documents", false, err.Error())
		} else {
			add("documents", true, fmt.Sprintf("%d markdown files", len(files)))
		}
	}

	return report, nil
}

// cacheWritable verifies the cache directory accepts writes without touching
// the cache itself.
func (v *Validator) cacheWritable() error {
	dir := filepath.Dir(v.cacheStore.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}
