// Package config loads fc configuration from JSONC files and CLI overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"
)

// Config errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDeckDirEmpty       = errors.New("deck-dir cannot be empty")
	ErrInvalidLogLevel    = errors.New("invalid log level (must be debug|info|warn|error)")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DeckDir  string `json:"deck_dir"`
	Editor   string `json:"editor,omitempty"`
	LogLevel string `json:"log_level,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DeckDirAbs   string `json:"-"` // Absolute path to deck directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// FileName is the default project config file name.
const FileName = ".fc.json"

// Default returns the default configuration.
func Default() Config {
	return Config{
		DeckDir:  ".flashcards",
		LogLevel: "warn",
	}
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	DeckDirOverride  string            // --deck-dir flag value
	HasDeckDirFlag   bool              // --deck-dir was given, even if empty
	LogLevelOverride string            // --log-level flag value; empty means no override
	Env              map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/fc/config.json or $XDG_CONFIG_HOME/fc/config.json)
// 3. Project config file at default location (.fc.json, if exists)
// 4. Explicit config file via ConfigPath (replaces 3)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	globalCfg, globalPath, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, projectCfg)

	if input.HasDeckDirFlag {
		cfg.DeckDir = input.DeckDirOverride
	}

	if input.LogLevelOverride != "" {
		cfg.LogLevel = input.LogLevelOverride
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DeckDir) {
		cfg.DeckDirAbs = cfg.DeckDir
	} else {
		cfg.DeckDirAbs = filepath.Join(workDir, cfg.DeckDir)
	}

	return cfg, nil
}

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/fc/config.json if set, otherwise ~/.config/fc/config.json.
// Returns empty string if neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "fc", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "fc", "config.json")
	}

	return ""
}

func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	cfg, explicitEmpty, loaded, err := loadFile(path, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["deck_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDeckDirEmpty)
	}

	return cfg, path, nil
}

// loadProject loads .fc.json from workDir, or the explicit config file.
func loadProject(workDir, configPath string) (Config, string, error) {
	var (
		path      string
		mustExist bool
	)

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		if _, err := os.Stat(path); err != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		path = filepath.Join(workDir, FileName)
	}

	cfg, explicitEmpty, loaded, err := loadFile(path, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if explicitEmpty["deck_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrDeckDirEmpty)
	}

	return cfg, path, nil
}

// loadFile loads a config file. If mustExist is false, missing files return zero config.
// Returns the config, a map of explicitly empty fields, whether the file was loaded, and any error.
func loadFile(path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, err := parse(data)
	if err != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, explicitEmpty, true, nil
}

func parse(data []byte) (Config, map[string]bool, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, exists := raw["deck_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty["deck_dir"] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.DeckDir != "" {
		base.DeckDir = overlay.DeckDir
	}

	if overlay.Editor != "" {
		base.Editor = overlay.Editor
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	return base
}

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"} //nolint:gochecknoglobals // package-level constant

func validate(cfg Config) error {
	if cfg.DeckDir == "" {
		return ErrDeckDirEmpty
	}

	if slices.Contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidLogLevel, cfg.LogLevel)
}

// Format returns the serializable part of cfg as indented JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
