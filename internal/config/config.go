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
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"screenruler/internal/calibration"
	"screenruler/internal/ticks"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied after loading.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type EdgesConfig struct {
	Top    bool `yaml:"top"`
	Bottom bool `yaml:"bottom"`
	Left   bool `yaml:"left"`
	Right  bool `yaml:"right"`
}

type RulerConfig struct {
	Unit         string      `yaml:"unit"` // "px" | "mm"
	Edges        EdgesConfig `yaml:"edges"`
	Opacity      int         `yaml:"opacity"` // percent, 0 = opaque body
	Topmost      bool        `yaml:"topmost"`
	ExpandPolicy string      `yaml:"expand_policy"` // "diagonal" | "bbox"
}

type CalibrationConfig struct {
	Enabled       bool    `yaml:"enabled"`
	PxLength      float64 `yaml:"px_length"`
	LogicalLength float64 `yaml:"logical_length"`
	LogicalUnit   string  `yaml:"logical_unit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	Ruler         RulerConfig       `yaml:"ruler"`
	Calibration   CalibrationConfig `yaml:"calibration"`
	Logging       LoggingConfig     `yaml:"logging"`
	// HelpURL is opened by the Help menu. Empty hides the entry.
	HelpURL       string            `yaml:"help_url,omitempty"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	id := calibration.Identity()
	return AppConfig{
		ConfigVersion: 1,
		Ruler: RulerConfig{
			Unit:         string(ticks.UnitPx),
			Edges:        EdgesConfig{Top: true},
			Opacity:      30,
			ExpandPolicy: "diagonal",
		},
		Calibration: CalibrationConfig{PxLength: id.PxLength, LogicalLength: id.LogicalLength, LogicalUnit: id.LogicalUnit},
		Logging:     LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath   = "RULER_CONFIG"
	EnvUnit         = "RULER_UNIT"
	EnvOpacity      = "RULER_OPACITY"
	EnvEdges        = "RULER_EDGES"
	EnvExpandPolicy = "RULER_EXPAND_POLICY"
	EnvTopmost      = "RULER_TOPMOST"
	EnvHelpURL      = "RULER_HELP_URL"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "RULER_LOG_LEVEL"
	EnvLogFormat = "RULER_LOG_FORMAT"
	EnvLogSource = "RULER_LOG_SOURCE"
	EnvLogFile   = "RULER_LOG_FILE"
)

// ConfigPath returns the per-user config file path. RULER_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ScreenRuler")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ScreenRuler")
	default:
		home := os.Getenv("HOME")
		if home == "" {
			return "", errors.New("cannot resolve config directory")
		}
		base = filepath.Join(home, ".config", "screenruler")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults and merges environment overrides.
// A missing file is not an error; a malformed one is ignored in favour of defaults.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if u, err := ticks.ParseUnit(src.Ruler.Unit); err == nil {
		dst.Ruler.Unit = string(u)
	}
	// booleans: copy directly so user preferences persist
	dst.Ruler.Edges = src.Ruler.Edges
	dst.Ruler.Topmost = src.Ruler.Topmost
	dst.Ruler.Opacity = clampOpacity(src.Ruler.Opacity)
	if p := normPolicy(src.Ruler.ExpandPolicy); p != "" {
		dst.Ruler.ExpandPolicy = p
	}
	// the ruler only accepts a valid ratio; keep defaults otherwise
	r := calibration.Ratio{PxLength: src.Calibration.PxLength, LogicalLength: src.Calibration.LogicalLength, LogicalUnit: src.Calibration.LogicalUnit}
	if r.Validate() == nil {
		dst.Calibration.PxLength = r.PxLength
		dst.Calibration.LogicalLength = r.LogicalLength
		dst.Calibration.LogicalUnit = strings.TrimSpace(r.LogicalUnit)
		dst.Calibration.Enabled = src.Calibration.Enabled
	}
	if _, ok := parseHelpURL(src.HelpURL); ok {
		dst.HelpURL = strings.TrimSpace(src.HelpURL)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvUnit)); v != "" {
		if u, err := ticks.ParseUnit(v); err == nil {
			cfg.Ruler.Unit = string(u)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvOpacity)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ruler.Opacity = clampOpacity(n)
		}
	}
	if v, ok := os.LookupEnv(EnvEdges); ok {
		if e, err := ticks.ParseEdges(v); err == nil {
			cfg.Ruler.Edges = EdgesConfig{Top: e.Top, Bottom: e.Bottom, Left: e.Left, Right: e.Right}
		}
	}
	if p := normPolicy(os.Getenv(EnvExpandPolicy)); p != "" {
		cfg.Ruler.ExpandPolicy = p
	}
	if v := strings.TrimSpace(os.Getenv(EnvTopmost)); v != "" {
		cfg.Ruler.Topmost = truthy(v)
	}
	if v, ok := os.LookupEnv(EnvHelpURL); ok {
		if _, valid := parseHelpURL(v); valid || strings.TrimSpace(v) == "" {
			cfg.HelpURL = strings.TrimSpace(v)
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var overrideKeys = map[string]string{
	"ruler.unit":          EnvUnit,
	"ruler.opacity":       EnvOpacity,
	"ruler.edges":         EnvEdges,
	"ruler.expand_policy": EnvExpandPolicy,
	"ruler.topmost":       EnvTopmost,
	"help_url":            EnvHelpURL,
	"logging.level":       EnvLogLevel,
	"logging.format":      EnvLogFormat,
	"logging.source":      EnvLogSource,
	"logging.file":        EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := overrideKeys[key]
	if !ok {
		return "", false
	}
	if _, set := os.LookupEnv(env); !set {
		return "", false
	}
	return env, true
}

// HelpLink returns the configured help page, false when none is set.
func (c AppConfig) HelpLink() (*url.URL, bool) {
	return parseHelpURL(c.HelpURL)
}

// parseHelpURL accepts absolute http and https links only.
func parseHelpURL(s string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}
	return u, true
}

// UnitValue returns the configured unit, px when unset or unknown.
func (r RulerConfig) UnitValue() ticks.Unit {
	if u, err := ticks.ParseUnit(r.Unit); err == nil {
		return u
	}
	return ticks.UnitPx
}

// EdgesValue converts the yaml flags into ticks.Edges.
func (r RulerConfig) EdgesValue() ticks.Edges {
	return ticks.Edges{Top: r.Edges.Top, Bottom: r.Edges.Bottom, Left: r.Edges.Left, Right: r.Edges.Right}
}

// SetEdges stores e in the yaml representation.
func (r *RulerConfig) SetEdges(e ticks.Edges) {
	r.Edges = EdgesConfig{Top: e.Top, Bottom: e.Bottom, Left: e.Left, Right: e.Right}
}

// Ratio returns the configured calibration ratio.
func (c CalibrationConfig) Ratio() calibration.Ratio {
	return calibration.Ratio{PxLength: c.PxLength, LogicalLength: c.LogicalLength, LogicalUnit: c.LogicalUnit}
}

func clampOpacity(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func normPolicy(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "diagonal":
		return "diagonal"
	case "bbox", "boundingbox", "bounding_box":
		return "bbox"
	}
	return ""
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
