package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	"git.home.luguber.info/inful/remotedocs/internal/content"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

// yearPlaceholder in the footer copyright is replaced with the current year.
const yearPlaceholder = "{year}"

// Config is the generated site configuration: the static settings plus the
// remote-content plugin entries of one resolution pass.
type Config struct {
	config.SiteConfig
	Plugins []content.PluginEntry `json:"plugins"`
}

// Assemble combines static site settings with resolved plugin entries.
func Assemble(settings config.SiteConfig, plugins []content.PluginEntry, now time.Time) *Config {
	if plugins == nil {
		plugins = []content.PluginEntry{}
	}
	cfg := &Config{SiteConfig: settings, Plugins: plugins}
	cfg.ThemeConfig.Footer.Copyright = strings.ReplaceAll(
		cfg.ThemeConfig.Footer.Copyright, yearPlaceholder, strconv.Itoa(now.Year()))
	return cfg
}

// Flatten concatenates the plugin entries of successful resolutions in order.
// Failed resolutions contribute nothing.
func Flatten(resolutions []content.Resolution) []content.PluginEntry {
	plugins := []content.PluginEntry{}
	for _, r := range resolutions {
		if !r.OK() {
			continue
		}
		plugins = append(plugins, r.Plugins...)
	}
	return plugins
}

// Marshal renders cfg as indented JSON with a trailing newline.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal site config: %w", err)
	}
	return append(data, '\n'), nil
}

// Write stores cfg at path, creating parent directories. The file is written
// to a temporary sibling first so readers never observe a partial document.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return rderrors.InternalError("failed to encode site configuration", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return rderrors.OutputError(path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return rderrors.OutputError(path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return rderrors.OutputError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return rderrors.OutputError(path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return rderrors.OutputError(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return rderrors.OutputError(path, err)
	}
	return nil
}
