package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Session backends.
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config represents the complete client configuration
type Config struct {
	Environment string        `toml:"environment"`
	API         APIConfig     `toml:"api"`
	Session     SessionConfig `toml:"session"`
	Redis       RedisConfig   `toml:"redis"`
	Minio       MinioConfig   `toml:"minio"`
	Server      ServerConfig  `toml:"server"`
	Pages       PageConfig    `toml:"pages"`
	Notify      NotifyConfig  `toml:"notify"`
}

// APIConfig contains the backend endpoint and request timeout
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SessionConfig selects where the credential and cached profile live
type SessionConfig struct {
	Backend string `toml:"backend"`
	File    string `toml:"file"`
	Name    string `toml:"name"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MinioConfig contains report archive settings. An empty bucket disables archiving.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// ServerConfig contains view server settings
type ServerConfig struct {
	Listen string `toml:"listen"`

	// AllowedOrigins may open the notification websocket in addition to
	// pages served from the view server itself.
	AllowedOrigins []string `toml:"allowed_origins"`
}

// PageConfig holds page sizes per list view
type PageConfig struct {
	Inventory        int `toml:"inventory"`
	InventoryCompact int `toml:"inventory_compact"`
	Suppliers        int `toml:"suppliers"`
	Activity         int `toml:"activity"`
}

// NotifyConfig controls the notification poller
type NotifyConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

// Timeout is the bound applied to every backend request.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// NotifyInterval is the period of the notification refresh.
func (c *Config) NotifyInterval() time.Duration {
	return time.Duration(c.Notify.IntervalSeconds) * time.Second
}

// ArchiveEnabled reports whether exports are uploaded to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.Minio.Bucket != "" && c.Minio.Endpoint != ""
}

// Load reads the environment (and an optional .env file), then overlays the
// TOML file named by SHELFSMART_CONFIG when set.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("SHELFSMART_ENV", "development"),
		API: APIConfig{
			BaseURL:        getEnv("SHELFSMART_API_URL", "http://localhost:8080"),
			TimeoutSeconds: getEnvAsInt("SHELFSMART_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			Backend: getEnv("SHELFSMART_SESSION_BACKEND", SessionBackendFile),
			File:    getEnv("SHELFSMART_SESSION_FILE", defaultSessionFile()),
			Name:    getEnv("SHELFSMART_SESSION_NAME", "default"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			Bucket:    getEnv("MINIO_BUCKET", ""),
		},
		Server: ServerConfig{
			Listen:         getEnv("SHELFSMART_LISTEN", ":8090"),
			AllowedOrigins: getEnvAsList("SHELFSMART_ALLOWED_ORIGINS"),
		},
		Pages: PageConfig{
			Inventory:        getEnvAsInt("SHELFSMART_INVENTORY_PAGE_SIZE", 8),
			InventoryCompact: getEnvAsInt("SHELFSMART_INVENTORY_PAGE_SIZE_COMPACT", 4),
			Suppliers:        getEnvAsInt("SHELFSMART_SUPPLIER_PAGE_SIZE", 10),
			Activity:         getEnvAsInt("SHELFSMART_ACTIVITY_PAGE_SIZE", 10),
		},
		Notify: NotifyConfig{
			IntervalSeconds: int(getEnvAsDuration("SHELFSMART_NOTIFY_INTERVAL", 5*time.Minute) / time.Second),
		},
	}

	if path := os.Getenv("SHELFSMART_CONFIG"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file on top of cfg. Keys absent from the file keep their current value.
func LoadFile(filename string, cfg *Config) error {
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

// Validate checks the values the client cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api base url is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api timeout must be positive")
	}
	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.Pages.Inventory <= 0 || c.Pages.InventoryCompact <= 0 || c.Pages.Suppliers <= 0 || c.Pages.Activity <= 0 {
		return errors.New("page sizes must be positive")
	}
	if c.Notify.IntervalSeconds <= 0 {
		return errors.New("notify interval must be positive")
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".shelfsmart-session.json"
	}
	return dir + string(os.PathSeparator) + "shelfsmart" + string(os.PathSeparator) + "session.json"
}

// getEnvAsList splits a comma separated value, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := time.ParseDuration(value)
	if err != nil || result <= 0 {
		return defaultValue
	}
	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
