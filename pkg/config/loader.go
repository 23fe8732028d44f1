package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/albertocavalcante/headerstamp/internal/log"
)

// ConfigFileName is the name of the project-level config file.
const ConfigFileName = "headerstamp.toml"

// ConfigDirName is the name of the project-level config directory.
const ConfigDirName = ".headerstamp"

// GlobalConfigDir is the name of the global config directory inside user's config.
const GlobalConfigDir = "headerstamp"

// LoadFrom loads configuration starting from a specific directory:
//  1. Built-in defaults
//  2. Global user config (~/.config/headerstamp/config.toml)
//  3. Project config (.headerstamp/config.toml or headerstamp.toml)
//  4. Environment variables (HEADERSTAMP_*)
func LoadFrom(dir string) *Config {
	cfg := NewConfig()

	// Layer 2: Global user config
	if globalCfg := loadGlobalConfig(); globalCfg != nil {
		cfg.Merge(globalCfg)
	}

	// Layer 3: Project config from specified directory
	if dir != "" {
		if projectCfg := loadProjectConfigFrom(dir); projectCfg != nil {
			cfg.Merge(projectCfg)
		}
	}

	// Layer 4: Environment variables
	applyEnvironmentVariables(cfg)

	return cfg
}

// LoadExplicit loads defaults, then the given file in place of the project
// layer, then environment variables. Unlike the discovered layers, a missing
// or malformed explicit file is an error.
func LoadExplicit(path string) (*Config, error) {
	cfg := NewConfig()
	if globalCfg := loadGlobalConfig(); globalCfg != nil {
		cfg.Merge(globalCfg)
	}

	fileCfg, err := decodeConfigFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(fileCfg)

	applyEnvironmentVariables(cfg)
	return cfg, nil
}

// loadGlobalConfig loads the global user configuration.
func loadGlobalConfig() *Config {
	path := GetGlobalConfigPath()
	if path == "" {
		return nil
	}
	return loadConfigFile(path)
}

// loadProjectConfigFrom looks for project configuration starting from the given directory.
func loadProjectConfigFrom(dir string) *Config {
	// Search up the directory tree for config files
	current := dir
	for {
		for _, path := range GetProjectConfigPaths(current) {
			if cfg := loadConfigFile(path); cfg != nil {
				return cfg
			}
		}

		// Stop at filesystem root or repository root
		if isRepositoryRoot(current) {
			break
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return nil
}

// isRepositoryRoot checks if the directory is a version control root.
func isRepositoryRoot(dir string) bool {
	markers := []string{".git", ".hg", ".svn"}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// loadConfigFile loads a discovered configuration file. A missing file is
// silent; a malformed one is logged and ignored.
func loadConfigFile(path string) *Config {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	cfg, err := decodeConfigFile(path)
	if err != nil {
		log.Warn("ignoring config file", "path", path, "error", err)
		return nil
	}
	return cfg
}

// decodeConfigFile decodes a TOML file and records its directory.
func decodeConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warn("unknown config keys", "path", path, "keys", undecoded)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.dir = configDirFor(abs)
	log.Debug("loaded config", "path", abs)
	return &cfg, nil
}

// configDirFor returns the directory that relative paths in the config file
// resolve against: the project root for .headerstamp/config.toml, otherwise
// the file's own directory.
func configDirFor(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) == ConfigDirName {
		return filepath.Dir(dir)
	}
	return dir
}

// applyEnvironmentVariables applies HEADERSTAMP_* environment variables to the config.
func applyEnvironmentVariables(cfg *Config) {
	if v := os.Getenv("HEADERSTAMP_AUTHOR"); v != "" {
		cfg.Header.Author = v
	}
	if v := os.Getenv("HEADERSTAMP_LOCALE"); v != "" {
		cfg.Header.Locale = v
	}
	if v := os.Getenv("HEADERSTAMP_MARKER"); v != "" {
		cfg.Header.Marker = v
	}
	if v := os.Getenv("HEADERSTAMP_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Header.Window = n
		}
	}
	applyBoolEnv("HEADERSTAMP_REQUIRE_ANCHORED", &cfg.Header.RequireAnchored)

	// HEADERSTAMP_METADATA_FILE: path to the YAML metadata table
	if v := os.Getenv("HEADERSTAMP_METADATA_FILE"); v != "" {
		cfg.Metadata.File = v
	}

	// HEADERSTAMP_LANGUAGES: comma-separated list of language table names
	if v := os.Getenv("HEADERSTAMP_LANGUAGES"); v != "" {
		cfg.Scan.Languages = splitAndTrim(v)
	}

	// HEADERSTAMP_EXCLUDE: comma-separated basenames added to the exclusion list
	if v := os.Getenv("HEADERSTAMP_EXCLUDE"); v != "" {
		cfg.Merge(&Config{Scan: ScanConfig{Exclude: splitAndTrim(v)}})
	}

	// HEADERSTAMP_ENCODINGS: comma-separated fallback chain
	if v, ok := os.LookupEnv("HEADERSTAMP_ENCODINGS"); ok {
		cfg.Encoding.Fallbacks = splitAndTrim(v)
	}
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// applyBoolEnv applies a boolean environment variable to a pointer.
func applyBoolEnv(envVar string, target **bool) {
	if v := os.Getenv(envVar); v != "" {
		v = strings.ToLower(v)
		if v == "true" || v == "1" || v == "yes" {
			t := true
			*target = &t
		} else if v == "false" || v == "0" || v == "no" {
			f := false
			*target = &f
		}
	}
}

// ResolvePath makes a config-relative path absolute. Absolute paths and
// paths in a config with no known directory are returned unchanged.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// MetadataPath returns the resolved metadata table path, or "" when unset.
func (c *Config) MetadataPath() string {
	return c.ResolvePath(c.Metadata.File)
}

// TemplatePath returns the resolved custom template path, or "" when unset.
func (c *Config) TemplatePath() string {
	return c.ResolvePath(c.Header.TemplateFile)
}

// GetGlobalConfigPath returns the path to the global config file.
func GetGlobalConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, GlobalConfigDir, "config.toml")
}

// GetProjectConfigPaths returns potential project config paths for a given directory.
func GetProjectConfigPaths(dir string) []string {
	return []string{
		filepath.Join(dir, ConfigDirName, "config.toml"),
		filepath.Join(dir, ConfigFileName),
	}
}
