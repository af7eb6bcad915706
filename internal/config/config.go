package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store kinds
const (
	StoreFile    = "file"
	StoreSurreal = "surreal"
	StoreRedis   = "redis"
	StoreMemory  = "memory"
)

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// DefaultPageSize is the number of items requested per page
const DefaultPageSize = 6

// Config holds all application configuration
type Config struct {
	API      APIConfig
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Paging   PagingConfig
	Posts    PostsConfig
	Metrics  MetricsConfig
	Output   string
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	UserAgent string
}

// SessionConfig selects and configures the durable token store
type SessionConfig struct {
	Store      string
	FilePath   string
	Passphrase string
	Scope      string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// JWTConfig holds token decoding settings
type JWTConfig struct {
	PublicKeyPath string
	Leeway        time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// PagingConfig holds collection loader settings
type PagingConfig struct {
	PageSize int
}

// PostsConfig holds upload limits
type PostsConfig struct {
	MaxVideoMB int
}

// MetricsConfig holds client metrics settings
type MetricsConfig struct {
	// TextfilePath receives the metrics after each command when set
	TextfilePath string
}

// Load reads configuration from the environment, a .env file and the active
// profile of the user config file, with sensible defaults.
func Load() (*Config, error) {
	return LoadProfile("")
}

// LoadProfile is Load with an explicit profile name. An empty name falls
// back to VIDGRAM_PROFILE and then to the file's current-profile.
func LoadProfile(name string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	uc, err := LoadUserConfig(UserConfigPath())
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = os.Getenv("VIDGRAM_PROFILE")
	}
	p := uc.ActiveProfile(name)

	return &Config{
		API: APIConfig{
			BaseURL:   getEnv("VIDGRAM_API_URL", orDefault(p.Host, "http://localhost:8081")),
			Timeout:   getDurationEnv("VIDGRAM_API_TIMEOUT", 30*time.Second),
			RateLimit: getFloatEnv("VIDGRAM_RATE_LIMIT", 10),
			RateBurst: getIntEnv("VIDGRAM_RATE_BURST", 5),
			UserAgent: getEnv("VIDGRAM_USER_AGENT", "vidgram-cli"),
		},
		Session: SessionConfig{
			Store:      getEnv("VIDGRAM_STORE", orDefault(p.Store, StoreFile)),
			FilePath:   getEnv("VIDGRAM_SESSION_FILE", defaultSessionPath()),
			Passphrase: getEnv("VIDGRAM_PASSPHRASE", ""),
			Scope:      getEnv("VIDGRAM_SESSION_SCOPE", orDefault(name, uc.CurrentProfile)),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "vidgram"),
			Database:  getEnv("DB_DATABASE", "client"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getIntEnv("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "vidgram:session:"),
			TTL:       getDurationEnv("REDIS_SESSION_TTL", 0),
		},
		JWT: JWTConfig{
			PublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Leeway:        getDurationEnv("JWT_LEEWAY", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("VIDGRAM_LOG_LEVEL", "warn"),
			Format: getEnv("VIDGRAM_LOG_FORMAT", "text"),
		},
		Paging: PagingConfig{
			PageSize: getIntEnv("VIDGRAM_PAGE_SIZE", orDefaultInt(p.PageSize, DefaultPageSize)),
		},
		Posts: PostsConfig{
			MaxVideoMB: getIntEnv("VIDGRAM_MAX_VIDEO_MB", 500),
		},
		Metrics: MetricsConfig{
			TextfilePath: getEnv("VIDGRAM_METRICS_TEXTFILE", ""),
		},
		Output: getEnv("VIDGRAM_OUTPUT", orDefault(p.Output, OutputTable)),
	}, nil
}

// MaxVideoBytes returns the upload limit in bytes
func (c *Config) MaxVideoBytes() int64 {
	return int64(c.Posts.MaxVideoMB) * 1024 * 1024
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// API validation
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("VIDGRAM_API_URL must be an absolute URL, got '%s'", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("VIDGRAM_API_TIMEOUT must be positive"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("VIDGRAM_RATE_LIMIT must not be negative"))
	}

	// Paging validation
	if c.Paging.PageSize <= 0 {
		errs = append(errs, errors.New("VIDGRAM_PAGE_SIZE must be positive"))
	}
	if c.Posts.MaxVideoMB <= 0 {
		errs = append(errs, errors.New("VIDGRAM_MAX_VIDEO_MB must be positive"))
	}

	// Store validation
	switch c.Session.Store {
	case StoreFile:
		if c.Session.FilePath == "" {
			errs = append(errs, errors.New("VIDGRAM_SESSION_FILE is required for the file store"))
		}
	case StoreSurreal:
		if c.Database.Host == "" || c.Database.Port == "" {
			errs = append(errs, errors.New("DB_HOST and DB_PORT are required for the surreal store"))
		}
		if c.Database.Namespace == "" || c.Database.Database == "" {
			errs = append(errs, errors.New("DB_NAMESPACE and DB_DATABASE are required for the surreal store"))
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("VIDGRAM_STORE must be 'file', 'surreal', 'redis', or 'memory', got '%s'", c.Session.Store))
	}

	// Logging and output validation
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("VIDGRAM_LOG_LEVEL must be 'debug', 'info', 'warn', or 'error', got '%s'", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("VIDGRAM_LOG_FORMAT must be 'text' or 'json', got '%s'", c.Log.Format))
	}
	if c.Output != OutputTable && c.Output != OutputJSON {
		errs = append(errs, fmt.Errorf("unsupported output format '%s': use 'table' or 'json'", c.Output))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func defaultSessionPath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return dir + string(os.PathSeparator) + "session.yaml"
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func orDefaultInt(value, defaultValue int) int {
	if value > 0 {
		return value
	}
	return defaultValue
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
