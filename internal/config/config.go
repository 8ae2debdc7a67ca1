package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Page size constants
	PageA4     = "a4"
	PageLetter = "letter"

	// Default values
	DefaultScaleFactor = 3
	DefaultLogLevel    = "info"
	DefaultRecordFile  = "service-report.json"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the service report tool
type Config struct {
	// Record persistence
	RecordFile string

	// Export configuration
	OutputDir   string
	ScaleFactor int
	PageSize    string

	// Application configuration
	Version  string
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		RecordFile:  filepath.Join(currentDir, DefaultRecordFile),
		OutputDir:   currentDir,
		ScaleFactor: DefaultScaleFactor,
		PageSize:    PageA4,
		Version:     "1.0.0",
		LogLevel:    DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if expandedPath, err := filepath.Abs(cfg.RecordFile); err == nil {
		cfg.RecordFile = expandedPath
	}
	if expandedPath, err := filepath.Abs(cfg.OutputDir); err == nil {
		cfg.OutputDir = expandedPath
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("SERVICEREPORT")
	viper.AutomaticEnv()

	viper.SetDefault("record", cfg.RecordFile)
	viper.SetDefault("out", cfg.OutputDir)
	viper.SetDefault("scale", cfg.ScaleFactor)
	viper.SetDefault("page", cfg.PageSize)
	viper.SetDefault("loglevel", cfg.LogLevel)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("record", cfg.RecordFile, "Path of the locally persisted report record")
	pflag.String("out", cfg.OutputDir, "Directory exported artifacts are written to")
	pflag.Int("scale", cfg.ScaleFactor, "Oversampling factor applied at capture time (2-5)")
	pflag.String("page", cfg.PageSize, "Output page size: 'a4' or 'letter'")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("record", pflag.Lookup("record"))
	_ = viper.BindPFlag("out", pflag.Lookup("out"))
	_ = viper.BindPFlag("scale", pflag.Lookup("scale"))
	_ = viper.BindPFlag("page", pflag.Lookup("page"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nService Report - edit, preview and export field service reports\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  export              Export the report as a paginated PDF\n")
		fmt.Fprintf(os.Stderr, "  snapshot            Export the report record as JSON\n")
		fmt.Fprintf(os.Stderr, "  import <file>       Replace the record from a JSON snapshot\n")
		fmt.Fprintf(os.Stderr, "  photos <files...>   Attach photo files to the report\n")
		fmt.Fprintf(os.Stderr, "  show                Print a summary of the current record\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SERVICEREPORT_RECORD    Record file path\n")
		fmt.Fprintf(os.Stderr, "  SERVICEREPORT_OUT       Output directory\n")
		fmt.Fprintf(os.Stderr, "  SERVICEREPORT_SCALE     Oversampling factor\n")
		fmt.Fprintf(os.Stderr, "  SERVICEREPORT_PAGE      Page size\n")
		fmt.Fprintf(os.Stderr, "  SERVICEREPORT_LOGLEVEL  Log level\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.RecordFile = viper.GetString("record")
	cfg.OutputDir = viper.GetString("out")
	cfg.ScaleFactor = viper.GetInt("scale")
	cfg.PageSize = viper.GetString("page")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.RecordFile == "" {
		return errors.New("record file path cannot be empty")
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	// Check if output directory exists, create if it doesn't
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.ScaleFactor < 2 || c.ScaleFactor > 5 {
		return fmt.Errorf("scale factor must be between 2 and 5, got %d", c.ScaleFactor)
	}

	if c.PageSize != PageA4 && c.PageSize != PageLetter {
		return fmt.Errorf("invalid page size: %s (must be one of: a4, letter)", c.PageSize)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{RecordFile: %s, OutputDir: %s, ScaleFactor: %d, PageSize: %s, LogLevel: %s}",
		c.RecordFile, c.OutputDir, c.ScaleFactor, c.PageSize, c.LogLevel)
}
