package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/kvtable/internal/dataset"
	"github.com/calvinalkan/kvtable/internal/session"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	OutputDir string `json:"output_dir"`
	File      string `json:"file"`
	History   bool   `json:"history"`
	Lock      bool   `json:"lock"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	OutputDirAbs string `json:"-"` // Absolute output directory
	HistoryPath  string `json:"-"` // Prompt history file, empty if disabled

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
	Env     bool   // OUTPUT_DIRECTORY was applied
}

// fileConfig is the on-disk shape. Pointers distinguish "absent" from
// "explicitly set".
type fileConfig struct {
	OutputDir *string `json:"output_dir"`
	File      *string `json:"file"`
	History   *bool   `json:"history"`
	Lock      *bool   `json:"lock"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir: session.DefaultOutputDir,
		File:      dataset.DefaultName,
		History:   true,
		Lock:      true,
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".kvt.json"

// Environment variables read by LoadConfig.
const (
	envOutputDirectory = "OUTPUT_DIRECTORY"
	envXDGConfigHome   = "XDG_CONFIG_HOME"
	envHome            = "HOME"
)

const historyFileName = ".kvt_history"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/kvt/config.json if set, otherwise ~/.config/kvt/config.json.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env[envXDGConfigHome]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "kvt", "config.json")
	}

	if home := env[envHome]; home != "" {
		return filepath.Join(home, ".config", "kvt", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride   string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath        string            // -c/--config flag value
	OutputDirOverride *string           // -o/--output-dir flag value; nil means no override
	Env               map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/kvt/config.json or $XDG_CONFIG_HOME/kvt/config.json)
// 3. Project config file at default location (.kvt.json, if exists)
// 4. Explicit config file via configPath (replaces 3)
// 5. $OUTPUT_DIRECTORY
// 6. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if dir := input.Env[envOutputDirectory]; dir != "" {
		cfg.OutputDir = dir
		cfg.Sources.Env = true
	}

	if input.OutputDirOverride != nil {
		cfg.OutputDir = *input.OutputDirOverride
	}

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDirAbs = filepath.Clean(cfg.OutputDir)
	} else {
		cfg.OutputDirAbs = filepath.Join(workDir, cfg.OutputDir)
	}

	if home := input.Env[envHome]; cfg.History && home != "" {
		cfg.HistoryPath = filepath.Join(home, historyFileName)
	}

	return cfg, nil
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (fileConfig, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return fileConfig{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return fileConfig{}, "", err
	}

	if !loaded {
		return fileConfig{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.kvt.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (fileConfig, string, error) {
	cfgFile := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return fileConfig{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return fileConfig{}, "", err
	}

	if !loaded {
		return fileConfig{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
func loadConfigFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return fileConfig{}, false, nil
		}

		if mustExist {
			return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return fileConfig{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	if cfg.OutputDir != nil && *cfg.OutputDir == "" {
		return fileConfig{}, ErrOutputDirEmpty
	}

	if cfg.File != nil && *cfg.File == "" {
		return fileConfig{}, ErrFileEmpty
	}

	return cfg, nil
}

func mergeConfig(base Config, overlay fileConfig) Config {
	if overlay.OutputDir != nil {
		base.OutputDir = *overlay.OutputDir
	}

	if overlay.File != nil {
		base.File = *overlay.File
	}

	if overlay.History != nil {
		base.History = *overlay.History
	}

	if overlay.Lock != nil {
		base.Lock = *overlay.Lock
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.OutputDir == "" {
		return ErrOutputDirEmpty
	}

	if cfg.File == "" {
		return ErrFileEmpty
	}

	return nil
}
