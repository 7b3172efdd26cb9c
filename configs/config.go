package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Visits   VisitConfig
	Pages    PageConfig
	Notify   NotifyConfig
	Email    EmailConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	IconsDir       string
}

// BackendConfig points at the external analysis service.
type BackendConfig struct {
	BaseURL string
	// Timeout of 0 means no client-side timeout (single attempt, wait for the backend).
	Timeout time.Duration
}

// StoreConfig selects the key-value backend: sqlite, postgres, redis or memory.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type CacheConfig struct {
	TTL          time.Duration
	KeyPrefix    string
	TextMaxChars int
}

type VisitConfig struct {
	Retention time.Duration
}

type PageConfig struct {
	Debounce    time.Duration
	IdleTimeout time.Duration
}

type NotifyConfig struct {
	AssetsBaseURL string
	IconPath      string
	FeedSize      int
}

type EmailConfig struct {
	SendGridAPIKey string
	SendGridHost   string
	FromEmail      string
	FromName       string
	To             string
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "127.0.0.1"),
			Port:           getEnv("SERVER_PORT", "8787"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			AllowedOrigins: getListEnv("ALLOWED_ORIGINS", []string{"*"}),
			IconsDir:       getEnv("ICONS_DIR", "./icons"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://127.0.0.1:8000"), "/"),
			Timeout: getDurationEnv("BACKEND_TIMEOUT", 0),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
			SQLitePath: getEnv("SQLITE_PATH", "sentinel.db"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "sentinel"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			Prefix:       getEnv("REDIS_PREFIX", "sentinel"),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Cache: CacheConfig{
			TTL:          getDurationEnv("CACHE_TTL", 5*time.Minute),
			KeyPrefix:    getEnv("CACHE_KEY_PREFIX", "sentinel_cache_"),
			TextMaxChars: getIntEnv("TEXT_MAX_CHARS", 4000),
		},
		Visits: VisitConfig{
			Retention: getDurationEnv("VISIT_RETENTION", 7*24*time.Hour),
		},
		Pages: PageConfig{
			Debounce:    getDurationEnv("PAGE_DEBOUNCE", 1500*time.Millisecond),
			IdleTimeout: getDurationEnv("PAGE_IDLE_TIMEOUT", 30*time.Minute),
		},
		Notify: NotifyConfig{
			AssetsBaseURL: strings.TrimRight(getEnv("NOTIFY_ASSETS_BASE_URL", ""), "/"),
			IconPath:      getEnv("NOTIFY_ICON_PATH", "icons/128.png"),
			FeedSize:      getIntEnv("NOTIFY_FEED_SIZE", 20),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			SendGridHost:   getEnv("SENDGRID_HOST", ""),
			FromEmail:      getEnv("FROM_EMAIL", "sentinel@localhost"),
			FromName:       getEnv("FROM_NAME", "Sentinel"),
			To:             getEnv("NOTIFY_EMAIL_TO", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Notifications check our own icon route unless pointed elsewhere
	if cfg.Notify.AssetsBaseURL == "" {
		cfg.Notify.AssetsBaseURL = fmt.Sprintf("http://%s:%s", cfg.Server.Host, cfg.Server.Port)
	}

	switch cfg.Store.Driver {
	case "sqlite", "postgres", "redis", "memory":
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
