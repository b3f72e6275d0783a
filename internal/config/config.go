// Package config reads and writes tally.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file created by tally init.
const FileName = "tally.yaml"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Backup  BackupConfig  `yaml:"backup" mapstructure:"backup"`
}

// DataConfig says where the ledger is stored. Relative paths are taken
// from the directory holding the config file.
type DataConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Backend string `yaml:"backend" mapstructure:"backend"`
	Key     string `yaml:"key" mapstructure:"key"`
}

// LoggingConfig controls diagnostics on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BackupConfig controls tally backup.
type BackupConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Git         bool   `yaml:"git" mapstructure:"git"`
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration of a fresh project.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:     ".",
			Backend: BackendFile,
			Key:     "financeData",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Backup: BackupConfig{
			Dir:         "backups",
			Git:         false,
			AuthorName:  "Tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// DefaultRoot is where tally keeps its data when no config file is found.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tally"
	}
	return filepath.Join(home, ".tally")
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Data.Dir == "" {
		errs = append(errs, errors.New("data.dir is required"))
	}
	switch c.Data.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("data.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Data.Backend))
	}
	if c.Data.Key == "" || strings.ContainsAny(c.Data.Key, `/\`) {
		errs = append(errs, fmt.Errorf("data.key must be a plain name, got %q", c.Data.Key))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	if c.Backup.Dir == "" {
		errs = append(errs, errors.New("backup.dir is required"))
	}
	if c.Backup.Git && (c.Backup.AuthorName == "" || c.Backup.AuthorEmail == "") {
		errs = append(errs, errors.New("backup.git needs backup.author_name and backup.author_email"))
	}
	return errors.Join(errs...)
}

// Resolve builds the effective configuration from defaults, the config
// file and TALLY_* environment variables, in increasing priority. With an
// empty file, tally.yaml is looked up in the working directory and then in
// DefaultRoot; finding none is not an error. Relative directories are
// made absolute against the config file's directory (or DefaultRoot).
func Resolve(v *viper.Viper, file string) (*Config, error) {
	def := Default()
	v.SetDefault("data.dir", def.Data.Dir)
	v.SetDefault("data.backend", def.Data.Backend)
	v.SetDefault("data.key", def.Data.Key)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("backup.dir", def.Backup.Dir)
	v.SetDefault("backup.git", def.Backup.Git)
	v.SetDefault("backup.author_name", def.Backup.AuthorName)
	v.SetDefault("backup.author_email", def.Backup.AuthorEmail)

	v.SetEnvPrefix("TALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultRoot())
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	root := DefaultRoot()
	if used := v.ConfigFileUsed(); used != "" {
		root = filepath.Dir(used)
	}
	cfg.Data.Dir = resolvePath(root, cfg.Data.Dir)
	cfg.Backup.Dir = resolvePath(root, cfg.Backup.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
