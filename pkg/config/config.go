// Package config provides configuration management for headerstamp.
// It supports multi-layer configuration with precedence:
//  1. Built-in defaults (lowest priority)
//  2. Global user config (~/.config/headerstamp/config.toml)
//  3. Project config (.headerstamp/config.toml or headerstamp.toml)
//  4. Environment variables (HEADERSTAMP_*)
//  5. CLI flags (highest priority)
package config

import (
	"fmt"
	"slices"

	"github.com/albertocavalcante/headerstamp/pkg/header"
	"github.com/albertocavalcante/headerstamp/pkg/metadata"
	"github.com/albertocavalcante/headerstamp/pkg/textenc"
)

// Supported header locales.
const (
	LocaleEnglish = "en"
	LocaleChinese = "zh"
)

// Config is the main configuration struct for headerstamp.
type Config struct {
	// Header configures the rendered block and how existing blocks are found.
	Header HeaderConfig `toml:"header"`

	// Scan configures which files are visited.
	Scan ScanConfig `toml:"scan"`

	// Metadata points at the per-file summary table.
	Metadata MetadataConfig `toml:"metadata"`

	// Encoding configures the decode fallback chain.
	Encoding EncodingConfig `toml:"encoding"`

	// dir is the directory of the project config file that was loaded, used
	// to resolve relative paths. Empty when no project file was found.
	dir string
}

// HeaderConfig holds the constants baked into every rendered header.
type HeaderConfig struct {
	Copyright      string `toml:"copyright"`
	Author         string `toml:"author"`
	Created        string `toml:"created"`
	InitialVersion string `toml:"initial_version"`
	CurrentVersion string `toml:"current_version"`

	// Locale selects captions and the fallback summary wording ("en", "zh").
	Locale string `toml:"locale"`

	// TemplateFile replaces the built-in skeleton with a custom one.
	TemplateFile string `toml:"template_file"`

	// Marker is the word that identifies an existing header.
	Marker string `toml:"marker"`

	// Window is how many leading characters are searched for Marker.
	Window int `toml:"window"`

	// RequireAnchored treats a file as annotated only when a block comment
	// also starts at offset zero.
	RequireAnchored *bool `toml:"require_anchored"`
}

// ScanConfig controls the tree walk.
type ScanConfig struct {
	// Languages names entries of the language table (see internal/langs).
	Languages []string `toml:"languages"`

	// Include holds extra doublestar patterns, relative to the root.
	Include []string `toml:"include"`

	// IgnoreDirs are extra directory name prefixes to skip.
	IgnoreDirs []string `toml:"ignore_dirs"`

	// Exclude lists basenames that are never rewritten (generated files).
	Exclude []string `toml:"exclude"`
}

// MetadataConfig locates the metadata table.
type MetadataConfig struct {
	// File is a YAML table; relative paths resolve against the config file.
	File string `toml:"file"`
}

// EncodingConfig lists fallback decoders tried after UTF-8.
type EncodingConfig struct {
	Fallbacks []string `toml:"fallbacks"`
}

// NewConfig creates a new Config with built-in defaults.
func NewConfig() *Config {
	falseVal := false
	return &Config{
		Header: HeaderConfig{
			Copyright:       "2025.12",
			Author:          "Vere",
			Created:         "2025-12-03",
			InitialVersion:  "1.0",
			CurrentVersion:  "1.0",
			Locale:          LocaleEnglish,
			Marker:          header.DefaultMarker,
			Window:          header.DefaultWindow,
			RequireAnchored: &falseVal,
		},
		Scan: ScanConfig{
			Languages: []string{"header"},
			Exclude:   []string{"moc_predefs.h"},
		},
		Encoding: EncodingConfig{
			Fallbacks: []string{"gbk"},
		},
	}
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	h := other.Header
	if h.Copyright != "" {
		c.Header.Copyright = h.Copyright
	}
	if h.Author != "" {
		c.Header.Author = h.Author
	}
	if h.Created != "" {
		c.Header.Created = h.Created
	}
	if h.InitialVersion != "" {
		c.Header.InitialVersion = h.InitialVersion
	}
	if h.CurrentVersion != "" {
		c.Header.CurrentVersion = h.CurrentVersion
	}
	if h.Locale != "" {
		c.Header.Locale = h.Locale
	}
	if h.TemplateFile != "" {
		c.Header.TemplateFile = h.TemplateFile
	}
	if h.Marker != "" {
		c.Header.Marker = h.Marker
	}
	if h.Window > 0 {
		c.Header.Window = h.Window
	}
	if h.RequireAnchored != nil {
		c.Header.RequireAnchored = h.RequireAnchored
	}

	if len(other.Scan.Languages) > 0 {
		c.Scan.Languages = other.Scan.Languages
	}
	if len(other.Scan.Include) > 0 {
		c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	}
	if len(other.Scan.IgnoreDirs) > 0 {
		c.Scan.IgnoreDirs = append(c.Scan.IgnoreDirs, other.Scan.IgnoreDirs...)
	}
	// Exclusions accumulate: a project cannot un-exclude a generated file.
	for _, name := range other.Scan.Exclude {
		if !slices.Contains(c.Scan.Exclude, name) {
			c.Scan.Exclude = append(c.Scan.Exclude, name)
		}
	}

	if other.Metadata.File != "" {
		c.Metadata.File = other.Metadata.File
	}
	if other.Encoding.Fallbacks != nil {
		c.Encoding.Fallbacks = other.Encoding.Fallbacks
	}
	if other.dir != "" {
		c.dir = other.dir
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Header.Locale {
	case LocaleEnglish, LocaleChinese:
	default:
		return fmt.Errorf("header.locale: unsupported locale %q (want %q or %q)", c.Header.Locale, LocaleEnglish, LocaleChinese)
	}
	if c.Header.Window <= 0 {
		return fmt.Errorf("header.window: must be positive, got %d", c.Header.Window)
	}
	for _, name := range c.Encoding.Fallbacks {
		if _, ok := textenc.Lookup(name); !ok {
			return fmt.Errorf("encoding.fallbacks: unknown encoding %q", name)
		}
	}
	return nil
}

// RequireAnchoredHeader reports the effective require_anchored setting.
func (c *Config) RequireAnchoredHeader() bool {
	return c.Header.RequireAnchored != nil && *c.Header.RequireAnchored
}

// Labels returns the caption set for the configured locale.
func (c *Config) Labels() header.Labels {
	if c.Header.Locale == LocaleChinese {
		return header.ChineseLabels
	}
	return header.EnglishLabels
}

// Fallback returns the metadata fallback for the configured locale.
func (c *Config) Fallback() metadata.Fallback {
	if c.Header.Locale == LocaleChinese {
		return metadata.ChineseFallback
	}
	return metadata.EnglishFallback
}

// Fields returns the constant header values.
func (c *Config) Fields() header.Fields {
	return header.Fields{
		Copyright:      c.Header.Copyright,
		Author:         c.Header.Author,
		Created:        c.Header.Created,
		InitialVersion: c.Header.InitialVersion,
		CurrentVersion: c.Header.CurrentVersion,
	}
}

// Dir returns the directory of the loaded project config, or "".
func (c *Config) Dir() string {
	return c.dir
}
