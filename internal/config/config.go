package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"

	"github.com/Tiliavir/memex/internal/timecalc"
)

// Config is the root configuration for memex, stored in ~/.memex/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// LogFile is the plain-text message log.
	LogFile string `json:"log_file"`
	// DBFile holds verbs and reminders.
	DBFile string `json:"db_file"`
	// Timezone is the IANA zone used for day grouping and new entries. Empty = local.
	Timezone string `json:"timezone"`
	// AtomicWrites rewrites the log through a temp file and rename.
	AtomicWrites *bool `json:"atomic_writes"`
	// Retention is the default age for `memex prune --auto`, e.g. "4w". Empty = keep all.
	Retention string `json:"retention"`
}

// envOverrides are read from MEMEX_* environment variables.
type envOverrides struct {
	LogFile      string `envconfig:"LOG_FILE"`
	DBFile       string `envconfig:"DB_FILE"`
	Timezone     string `envconfig:"TIMEZONE"`
	AtomicWrites *bool  `envconfig:"ATOMIC_WRITES"`
	Retention    string `envconfig:"RETENTION"`
}

const (
	// DefaultDir is the data directory under the user's home.
	DefaultDir = "~/.memex"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "MEMEX"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	atomic := true
	return Config{
		LogFile:      filepath.Join(DefaultDir, "memex.txt"),
		DBFile:       filepath.Join(DefaultDir, "memex.db"),
		AtomicWrites: &atomic,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// memex configuration – ~/.memex/config.json
//
// All settings are optional. Every value can also be set through the
// environment, e.g. MEMEX_LOG_FILE or MEMEX_TIMEZONE.
{
  // Plain-text log, one message per line. This file is also the export artifact.
  "log_file": "~/.memex/memex.txt",

  // SQLite database for verbs and reminders.
  "db_file": "~/.memex/memex.db",

  // IANA timezone for grouping messages by day, e.g. "Europe/Berlin".
  // Leave empty to use the system timezone.
  "timezone": "",

  // Rewrite the log through a temporary file and an atomic rename.
  "atomic_writes": true,

  // Default age for 'memex prune --auto', e.g. "4w" or "90d". Empty keeps everything.
  "retention": ""
}
`

// DefaultPath returns the path to ~/.memex/config.json.
func DefaultPath() (string, error) {
	path, err := homedir.Expand(filepath.Join(DefaultDir, "config.json"))
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return path, nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config at path (DefaultPath when empty), creating it with
// annotated defaults on first run, then applies MEMEX_* environment
// overrides and expands ~ in file paths.
func Load(path string) (Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return defaultConfig(), err
		}
	}

	cfg, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.expand(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := defaultConfig()
	if cfg.LogFile == "" {
		cfg.LogFile = def.LogFile
	}
	if cfg.DBFile == "" {
		cfg.DBFile = def.DBFile
	}
	if cfg.AtomicWrites == nil {
		cfg.AtomicWrites = def.AtomicWrites
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}
	if env.LogFile != "" {
		cfg.LogFile = env.LogFile
	}
	if env.DBFile != "" {
		cfg.DBFile = env.DBFile
	}
	if env.Timezone != "" {
		cfg.Timezone = env.Timezone
	}
	if env.AtomicWrites != nil {
		cfg.AtomicWrites = env.AtomicWrites
	}
	if env.Retention != "" {
		cfg.Retention = env.Retention
	}
	return nil
}

func (c *Config) expand() error {
	var err error
	if c.LogFile, err = homedir.Expand(c.LogFile); err != nil {
		return fmt.Errorf("expanding log_file: %w", err)
	}
	if c.DBFile, err = homedir.Expand(c.DBFile); err != nil {
		return fmt.Errorf("expanding db_file: %w", err)
	}
	return nil
}

// Atomic reports whether log rewrites go through a temp file.
func (c Config) Atomic() bool {
	return c.AtomicWrites == nil || *c.AtomicWrites
}

// Location resolves Timezone, falling back to the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RetentionAge parses Retention. It returns zero when retention is disabled.
func (c Config) RetentionAge() (time.Duration, error) {
	if c.Retention == "" {
		return 0, nil
	}
	d, err := timecalc.ParseAge(c.Retention)
	if err != nil {
		return 0, fmt.Errorf("invalid retention %q: %w", c.Retention, err)
	}
	return d, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
