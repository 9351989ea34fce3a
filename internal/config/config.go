/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied after the file.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Grid          GridConfig    `yaml:"grid"`
	Catalog       CatalogConfig `yaml:"catalog"`
	Server        ServerConfig  `yaml:"server"`
	Export        ExportConfig  `yaml:"export"`
	General       GeneralConfig `yaml:"general"`
	Logging       LoggingConfig `yaml:"logging"`
}

// GridConfig fixes the grid dimensions for a session; they cannot change at runtime.
type GridConfig struct {
	Slots   int `yaml:"slots"`
	Columns int `yaml:"columns"`
}

type CatalogConfig struct {
	// Path to a .yaml/.yml/.json catalog; empty uses the built-in sample catalog.
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ExportConfig struct {
	Dir        string `yaml:"dir"`
	CellWidth  int    `yaml:"cell_width"` // px at 1x
	CellHeight int    `yaml:"cell_height"`
	Gap        int    `yaml:"gap"`
	NoGuides   bool   `yaml:"no_guides"` // omit empty slot outlines
	Font       string `yaml:"font"`      // TTF/OTF used for PNG labels
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	TelemetryURL   string `yaml:"telemetry_url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// ErrInvalid is wrapped by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Defaults returns the application defaults: an 18 slot grid in 3 columns.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Grid:          GridConfig{Slots: 18, Columns: 3},
		Server:        ServerConfig{Addr: "127.0.0.1:8080"},
		Export:        ExportConfig{Dir: "exports", CellWidth: 160, CellHeight: 96, Gap: 16},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvGridSlots      = "LB_GRID_SLOTS"
	EnvGridColumns    = "LB_GRID_COLUMNS"
	EnvCatalog        = "LB_CATALOG"
	EnvServerAddr     = "LB_SERVER_ADDR"
	EnvExportDir      = "LB_EXPORT_DIR"
	EnvTelemetryOptIn = "LB_TELEMETRY_OPT_IN"
	EnvTelemetryURL   = "LB_TELEMETRY_URL"
	EnvLogLevel       = "LB_LOG_LEVEL"
	EnvLogFormat      = "LB_LOG_FORMAT"
	EnvLogSource      = "LB_LOG_SOURCE"
	EnvLogFile        = "LB_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "LayoutBuilder")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "LayoutBuilder")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "layoutbuilder")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "layoutbuilder")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the per-user config file if present, then applies env overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file is not an error; a file that
// does not parse is.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Validate()
}

// Save writes cfg to the per-user config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as YAML to path, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects grids that cannot hold a box and export sizes that cannot render.
func (c AppConfig) Validate() error {
	var problems []string
	if c.Grid.Slots <= 0 {
		problems = append(problems, fmt.Sprintf("grid.slots must be positive, got %d", c.Grid.Slots))
	}
	if c.Grid.Columns <= 0 {
		problems = append(problems, fmt.Sprintf("grid.columns must be positive, got %d", c.Grid.Columns))
	}
	if c.Export.CellWidth <= 0 || c.Export.CellHeight <= 0 {
		problems = append(problems, fmt.Sprintf("export cell size must be positive, got %dx%d", c.Export.CellWidth, c.Export.CellHeight))
	}
	if c.Export.Gap < 0 {
		problems = append(problems, fmt.Sprintf("export.gap must not be negative, got %d", c.Export.Gap))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Grid.Slots != 0 {
		dst.Grid.Slots = src.Grid.Slots
	}
	if src.Grid.Columns != 0 {
		dst.Grid.Columns = src.Grid.Columns
	}
	if v := strings.TrimSpace(src.Catalog.Path); v != "" {
		dst.Catalog.Path = v
	}
	if v := strings.TrimSpace(src.Server.Addr); v != "" {
		dst.Server.Addr = v
	}
	if v := strings.TrimSpace(src.Export.Dir); v != "" {
		dst.Export.Dir = v
	}
	if src.Export.CellWidth != 0 {
		dst.Export.CellWidth = src.Export.CellWidth
	}
	if src.Export.CellHeight != 0 {
		dst.Export.CellHeight = src.Export.CellHeight
	}
	if src.Export.Gap != 0 {
		dst.Export.Gap = src.Export.Gap
	}
	if v := strings.TrimSpace(src.Export.Font); v != "" {
		dst.Export.Font = v
	}
	// booleans: copy directly from the file so user preferences persist
	dst.Export.NoGuides = src.Export.NoGuides
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if v := strings.TrimSpace(src.General.TelemetryURL); v != "" {
		dst.General.TelemetryURL = v
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func envInt(key string, dst *int) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	envInt(EnvGridSlots, &cfg.Grid.Slots)
	envInt(EnvGridColumns, &cfg.Grid.Columns)
	envString(EnvCatalog, &cfg.Catalog.Path)
	envString(EnvServerAddr, &cfg.Server.Addr)
	envString(EnvExportDir, &cfg.Export.Dir)
	if v := os.Getenv(EnvTelemetryOptIn); strings.TrimSpace(v) != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	envString(EnvTelemetryURL, &cfg.General.TelemetryURL)
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogSource); strings.TrimSpace(v) != "" {
		cfg.Logging.Source = parseBool(v)
	}
	envString(EnvLogFile, &cfg.Logging.File)
}

var overrides = map[string]string{
	"grid.slots":               EnvGridSlots,
	"grid.columns":             EnvGridColumns,
	"catalog.path":             EnvCatalog,
	"server.addr":              EnvServerAddr,
	"export.dir":               EnvExportDir,
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"general.telemetry_url":    EnvTelemetryURL,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	if env, ok := overrides[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
