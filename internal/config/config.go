package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio = "stdio"
	ModeCLI   = "cli"

	// EnvPrefix is prepended to every environment variable, e.g. HUNTREPORT_DIR
	EnvPrefix = "HUNTREPORT"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultAnchor      = "archery"
	DefaultOutputDir   = "output"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Flag and viper keys
const (
	KeyDir         = "dir"
	KeyOutputDir   = "out"
	KeyLogLevel    = "log-level"
	KeyMaxFileSize = "max-file-size"
	KeyWorkers     = "workers"
	KeyAnchor      = "anchor"
	KeyDatabaseURL = "database-url"
)

// Config holds all configuration for the report extractor
type Config struct {
	// Mode is ModeStdio when serving MCP over standard I/O, ModeCLI otherwise
	Mode string `validate:"oneof=stdio cli"`

	// Directory holds the report PDFs
	Directory string `validate:"required"`
	// OutputDir receives the CSV tables
	OutputDir string `validate:"required"`

	// Extraction configuration
	Anchor      string `validate:"required"`
	Workers     int    `validate:"min=1,max=64"`
	MaxFileSize int64  `validate:"gt=0"` // Maximum PDF file size in bytes

	// DatabaseURL enables the PostgreSQL sink when set
	DatabaseURL string `validate:"omitempty,url"`

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string `validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:        ModeCLI,
		Directory:   currentDir,
		OutputDir:   filepath.Join(currentDir, DefaultOutputDir),
		Anchor:      DefaultAnchor,
		Workers:     defaultWorkers(),
		MaxFileSize: DefaultMaxFileSize,
		Version:     "1.0.0",
		ServerName:  "huntreport",
		LogLevel:    DefaultLogLevel,
	}
}

// defaultWorkers is one worker per CPU, capped at 8
func defaultWorkers() int {
	if n := runtime.NumCPU(); n < 8 {
		return n
	}
	return 8
}

// Loader reads configuration from flags, environment variables and defaults
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader with its own viper instance. Environment variables
// use EnvPrefix and dashes become underscores, so --max-file-size is read from
// HUNTREPORT_MAX_FILE_SIZE.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// DefineFlags adds the shared flags to fs and binds them. fs is usually the
// persistent flag set of the root command.
func (l *Loader) DefineFlags(fs *pflag.FlagSet) {
	cfg := DefaultConfig()

	l.v.SetDefault(KeyDir, cfg.Directory)
	l.v.SetDefault(KeyOutputDir, cfg.OutputDir)
	l.v.SetDefault(KeyLogLevel, cfg.LogLevel)
	l.v.SetDefault(KeyMaxFileSize, cfg.MaxFileSize)
	l.v.SetDefault(KeyWorkers, cfg.Workers)
	l.v.SetDefault(KeyAnchor, cfg.Anchor)
	l.v.SetDefault(KeyDatabaseURL, "")

	fs.String(KeyDir, cfg.Directory, "Directory containing report PDFs")
	fs.String(KeyOutputDir, cfg.OutputDir, "Directory that receives CSV tables")
	fs.String(KeyLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64(KeyMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.Int(KeyWorkers, cfg.Workers, "Number of documents processed in parallel")
	fs.String(KeyAnchor, cfg.Anchor, "Keyword that starts the harvest subtable")
	fs.String(KeyDatabaseURL, "", "PostgreSQL URL; when set tables are also written to the database")

	for _, key := range []string{
		KeyDir, KeyOutputDir, KeyLogLevel, KeyMaxFileSize, KeyWorkers, KeyAnchor, KeyDatabaseURL,
	} {
		_ = l.v.BindPFlag(key, fs.Lookup(key))
	}
}

// Load builds the configuration for the given mode and validates it
func (l *Loader) Load(mode string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Mode = mode
	l.populate(cfg)

	// Expand paths if needed
	for _, p := range []*string{&cfg.Directory, &cfg.OutputDir} {
		if *p == "" {
			continue
		}
		if expanded, err := filepath.Abs(*p); err == nil {
			*p = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// populate fills the config struct with values from viper
func (l *Loader) populate(cfg *Config) {
	cfg.Directory = l.v.GetString(KeyDir)
	cfg.OutputDir = l.v.GetString(KeyOutputDir)
	cfg.LogLevel = strings.ToLower(l.v.GetString(KeyLogLevel))
	cfg.MaxFileSize = l.v.GetInt64(KeyMaxFileSize)
	cfg.Workers = l.v.GetInt(KeyWorkers)
	cfg.Anchor = strings.ToLower(l.v.GetString(KeyAnchor))
	cfg.DatabaseURL = l.v.GetString(KeyDatabaseURL)
}

var validate = validator.New()

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: failed %q check (value %v)", verrs[0].Field(), verrs[0].Tag(), verrs[0].Value())
		}
		return err
	}

	// Check if the report directory exists
	info, err := os.Stat(c.Directory)
	if err != nil {
		return fmt.Errorf("cannot access report directory %s: %w", c.Directory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("report directory %s is not a directory", c.Directory)
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}
	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// HasDatabase returns true if the PostgreSQL sink is configured
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// String returns a string representation of the configuration. The database URL
// is reduced to a flag so credentials are not logged.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Directory: %s, OutputDir: %s, LogLevel: %s, "+
		"MaxFileSize: %d, Workers: %d, Anchor: %s, Database: %t}",
		c.Mode, c.Directory, c.OutputDir, c.LogLevel,
		c.MaxFileSize, c.Workers, c.Anchor, c.HasDatabase())
}

// IsStdioMode returns true if the process serves MCP over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
