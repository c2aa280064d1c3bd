package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/draftscript/draftscript/internal/logging"
)

const (
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultFloodRate     = 50.0
	defaultFloodBurst    = 100
)

// Environment variables consulted by Load.
const (
	EnvLogLevel    = "DRAFTSCRIPT_LOG_LEVEL"
	EnvFileLogging = "DRAFTSCRIPT_FILE_LOGGING"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	AppDir        string  `yaml:"app_dir"`
	LogLevel      string  `yaml:"log_level"`
	FileLogging   bool    `yaml:"file_logging"`
	LogMaxSizeMB  int     `yaml:"log_max_size_mb"`
	LogMaxBackups int     `yaml:"log_max_backups"`
	FloodRate     float64 `yaml:"-"`
	FloodBurst    int     `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	AppDir        string         `yaml:"app_dir"`
	LogLevel      string         `yaml:"log_level"`
	FileLogging   *bool          `yaml:"file_logging"`
	LogMaxSizeMB  int            `yaml:"log_max_size_mb"`
	LogMaxBackups int            `yaml:"log_max_backups"`
	FloodGuard    yamlFloodGuard `yaml:"flood_guard"`
}

// yamlFloodGuard represents the console flood guard section in YAML.
type yamlFloodGuard struct {
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile  string
	AppDir      *string
	LogLevel    *string
	FileLogging *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
//
// A .env file next to the YAML config (or in the working directory when no
// config file is given) is applied to the process environment first, so the
// host bridge variables can be provided the same way.
func Load(overrides *CLIOverrides) (Config, error) {
	loadDotEnv(overrides)

	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values. File logging defaults
// to off; scripts opt in per session.
func defaultConfig() Config {
	return Config{
		LogLevel:      "",
		FileLogging:   false,
		LogMaxSizeMB:  defaultLogMaxSizeMB,
		LogMaxBackups: defaultLogMaxBackups,
		FloodRate:     defaultFloodRate,
		FloodBurst:    defaultFloodBurst,
	}
}

// loadDotEnv applies a .env file to the process environment when one exists.
// Existing variables are never overwritten.
func loadDotEnv(overrides *CLIOverrides) {
	path := ".env"
	if overrides != nil && overrides.ConfigFile != "" {
		path = filepath.Join(filepath.Dir(overrides.ConfigFile), ".env")
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.AppDir != "" {
		cfg.AppDir = yamlCfg.AppDir
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.FileLogging != nil {
		cfg.FileLogging = *yamlCfg.FileLogging
	}

	if yamlCfg.LogMaxSizeMB > 0 {
		cfg.LogMaxSizeMB = yamlCfg.LogMaxSizeMB
	}

	if yamlCfg.LogMaxBackups > 0 {
		cfg.LogMaxBackups = yamlCfg.LogMaxBackups
	}

	if yamlCfg.FloodGuard.Rate > 0 {
		cfg.FloodRate = yamlCfg.FloodGuard.Rate
	}

	if yamlCfg.FloodGuard.Burst > 0 {
		cfg.FloodBurst = yamlCfg.FloodGuard.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.LogLevel = level
	}

	if raw := strings.TrimSpace(os.Getenv(EnvFileLogging)); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.FileLogging = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.AppDir != nil && *overrides.AppDir != "" {
		cfg.AppDir = *overrides.AppDir
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.FileLogging != nil {
		cfg.FileLogging = *overrides.FileLogging
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.LogMaxSizeMB <= 0 {
		return fmt.Errorf("log_max_size_mb must be > 0")
	}
	if cfg.LogMaxBackups < 0 {
		return fmt.Errorf("log_max_backups must be >= 0")
	}
	if cfg.FloodRate < 0 {
		return fmt.Errorf("flood guard rate must be >= 0")
	}
	if cfg.FloodBurst < 0 {
		return fmt.Errorf("flood guard burst must be >= 0")
	}
	return nil
}
