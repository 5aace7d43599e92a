// ABOUTME: Wellness configuration: JSON file, WELLNESS_* env overrides, validation.
// ABOUTME: Also owns the factory that opens the configured storage backend.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/wellness/internal/logger"
	"github.com/harperreed/wellness/internal/storage"
)

const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"

	DefaultBackfillWeeks       = 8
	DefaultBackfillConcurrency = 4
	DefaultHTTPAddr            = "127.0.0.1:8080"
)

// Config stores wellness tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty" validate:"omitempty,oneof=sqlite badger"`

	// DataDir is the root directory for data storage.
	// SQLite puts wellness.db here. Badger puts its files in kv/.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/wellness.
	DataDir string `json:"data_dir,omitempty"`

	// LogMode is "prod" (default), "dev" or "nop".
	LogMode string `json:"log_mode,omitempty" validate:"omitempty,oneof=prod dev nop"`

	// BackfillWeeks is how many trailing ISO weeks a backfill rescores.
	BackfillWeeks int `json:"backfill_weeks,omitempty" validate:"gte=0,lte=104"`

	// BackfillConcurrency bounds how many users are backfilled at once.
	BackfillConcurrency int `json:"backfill_concurrency,omitempty" validate:"gte=0,lte=64"`

	// HTTPAddr is the listen address for "wellness serve".
	HTTPAddr string `json:"http_addr,omitempty" validate:"omitempty,hostname_port"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogMode returns the configured log mode, defaulting to "prod".
func (c *Config) GetLogMode() string {
	if c.LogMode == "" {
		return "prod"
	}
	return c.LogMode
}

// GetBackfillWeeks returns the backfill depth, defaulting to 8 weeks.
func (c *Config) GetBackfillWeeks() int {
	if c.BackfillWeeks <= 0 {
		return DefaultBackfillWeeks
	}
	return c.BackfillWeeks
}

// GetBackfillConcurrency returns the backfill worker count, defaulting to 4.
func (c *Config) GetBackfillConcurrency() int {
	if c.BackfillConcurrency <= 0 {
		return DefaultBackfillConcurrency
	}
	return c.BackfillConcurrency
}

// GetHTTPAddr returns the HTTP listen address, defaulting to 127.0.0.1:8080.
func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(log *logger.Logger) (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir(), log)
}

// OpenBackend opens the named backend rooted at dataDir.
func OpenBackend(backend, dataDir string, log *logger.Logger) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(storage.DBPath(dataDir))
	case BackendBadger:
		return storage.OpenKV(storage.KVPath(dataDir), log)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "wellness", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Env variables that override the config file.
const (
	EnvBackend  = "WELLNESS_BACKEND"
	EnvDataDir  = "WELLNESS_DATA_DIR"
	EnvLogMode  = "WELLNESS_LOG_MODE"
	EnvHTTPAddr = "WELLNESS_HTTP_ADDR"
)

// ApplyEnv overwrites fields whose WELLNESS_* variable is set and non-empty.
func (c *Config) ApplyEnv() {
	for env, field := range map[string]*string{
		EnvBackend:  &c.Backend,
		EnvDataDir:  &c.DataDir,
		EnvLogMode:  &c.LogMode,
		EnvHTTPAddr: &c.HTTPAddr,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

var validate = validator.New()

// Validate reports the first field holding an unsupported value.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config: %s: invalid value %v (%s)", fe.Field(), fe.Value(), fe.Tag())
	}
	return fmt.Errorf("config: %w", err)
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
