package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Tiliavir/headache-tracker/internal/series"
	"github.com/Tiliavir/headache-tracker/internal/storage"
)

// Config is the root configuration for headache, stored in
// ~/.headache/config.json. The file supports single-line // comments for
// documentation purposes.
type Config struct {
	// DataDir holds the stored log and UI state. Empty = ~/.headache.
	DataDir string `json:"data_dir"`
	// Backend is "file" or "sqlite".
	Backend string `json:"backend"`
	// Encoding of the stored log: "json" or "msgpack".
	Encoding string `json:"encoding"`
	// CapacityBytes caps the stored record size. Negative disables the cap.
	CapacityBytes int `json:"capacity_bytes"`
	// WindowDays is the number of days before today shown in charts.
	WindowDays int `json:"window_days"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `json:"log_level"`
}

const (
	DefaultBackend    = storage.BackendFile
	DefaultEncoding   = string(storage.EncodingJSON)
	DefaultCapacity   = storage.DefaultCapacity
	DefaultWindowDays = series.DefaultWindow
	DefaultLogLevel   = "warn"
)

// Environment variables that override the config file.
const (
	EnvConfig   = "HEADACHE_CONFIG"
	EnvDataDir  = "HEADACHE_DATA_DIR"
	EnvBackend  = "HEADACHE_BACKEND"
	EnvEncoding = "HEADACHE_ENCODING"
	EnvCapacity = "HEADACHE_CAPACITY_BYTES"
	EnvWindow   = "HEADACHE_WINDOW_DAYS"
	EnvLogLevel = "HEADACHE_LOG_LEVEL"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Backend:       DefaultBackend,
		Encoding:      DefaultEncoding,
		CapacityBytes: DefaultCapacity,
		WindowDays:    DefaultWindowDays,
		LogLevel:      DefaultLogLevel,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// headache configuration – ~/.headache/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Every value can also be set through the environment
// (HEADACHE_DATA_DIR, HEADACHE_BACKEND, ...) or a .env file.
{
  // Directory holding the stored log and ui.yaml.
  // Leave empty to use ~/.headache. Can be overridden with: headache --data-dir <dir>
  "data_dir": "",

  // Storage backend for the log.
  // • "file"   – one JSON envelope file per record (default)
  // • "sqlite" – a small key-value table in headache.db
  "backend": "file",

  // Encoding of the stored log: "json" (default) or "msgpack" (more compact).
  // Existing data is readable in either setting.
  "encoding": "json",

  // Size ceiling for the stored log in bytes, like a browser cookie.
  // Saves that would exceed it are refused. Use -1 to disable.
  "capacity_bytes": 4096,

  // Number of days before today covered by charts (charts show this plus one).
  "window_days": 31,

  // Log verbosity on stderr: debug, info, warn, error.
  "log_level": "warn"
}
`

// FilePath returns the config file path: $HEADACHE_CONFIG if set,
// otherwise ~/.headache/config.json.
func FilePath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.json"), nil
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

// LoadDotenv loads variables from the given .env files (default ".env").
// Variables already set in the environment win. Missing files are ignored.
// Skipped when NO_DOTENV=1.
func LoadDotenv(paths ...string) {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load resolves the effective configuration: .env, then the config file,
// then environment overrides.
func Load() (Config, error) {
	LoadDotenv()

	path, err := FilePath()
	if err != nil {
		return defaultConfig(), err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile reads the config at path, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func LoadFile(path string) (Config, error) {
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
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := defaultConfig()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.Encoding == "" {
		c.Encoding = d.Encoding
	}
	if c.CapacityBytes == 0 {
		c.CapacityBytes = d.CapacityBytes
	}
	if c.WindowDays == 0 {
		c.WindowDays = d.WindowDays
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// ApplyEnv overrides fields from HEADACHE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvEncoding); v != "" {
		c.Encoding = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	for _, o := range []struct {
		name string
		dst  *int
	}{
		{EnvCapacity, &c.CapacityBytes},
		{EnvWindow, &c.WindowDays},
	} {
		v := strings.TrimSpace(os.Getenv(o.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", o.name, v)
		}
		*o.dst = n
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("backend %q: want %s or %s", c.Backend, storage.BackendFile, storage.BackendSQLite)
	}
	if _, err := storage.ParseEncoding(c.Encoding); err != nil {
		return err
	}
	if err := series.CheckWindow(c.WindowDays); err != nil {
		return fmt.Errorf("window_days: %w", err)
	}
	return nil
}

// Capacity returns the storage capacity to use; 0 means unlimited.
func (c Config) Capacity() int {
	if c.CapacityBytes < 0 {
		return 0
	}
	return c.CapacityBytes
}

// ResolveDataDir returns DataDir, or ~/.headache when unset.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return storage.BaseDir()
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
