package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Learning LearningConfig `yaml:"learning"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "postgres" or "sqlite"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	TimeZone string `yaml:"timezone"`
	// SQLitePath is used when Driver is "sqlite".
	SQLitePath string `yaml:"sqlite_path"`
}

// MongoConfig - an empty URI disables the mongo activity log.
type MongoConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"db_name"`
}

// RedisConfig - an empty URL disables the stats cache.
type RedisConfig struct {
	URL             string `yaml:"url"`
	StatsTTLSeconds int    `yaml:"stats_ttl_seconds"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Mode     string `yaml:"mode"`
	Level    string `yaml:"level"`
	Redact   bool   `yaml:"redact"`
	HashSalt string `yaml:"hash_salt"`
}

type LearningConfig struct {
	AutoCompleteCourses bool `yaml:"auto_complete_courses"`
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Driver: "postgres", Host: "localhost", Port: "5432", SSLMode: "disable", TimeZone: "UTC", SQLitePath: "coursehub.db"},
		Mongo:    MongoConfig{DBName: "coursehub"},
		Redis:    RedisConfig{StatsTTLSeconds: 300},
		Log:      LogConfig{Mode: "dev", Level: "info", Redact: true},
		Learning: LearningConfig{AutoCompleteCourses: true},
	}
}

// Load reads .env (if present), then the YAML file named by
// COURSEHUB_CONFIG_FILE (if set), then environment variables. Later
// sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("COURSEHUB_CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Server.Port = envStr("PORT", cfg.Server.Port)

	cfg.Database.Driver = envStr("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = envStr("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = envStr("DB_PORT", cfg.Database.Port)
	cfg.Database.User = envStr("DB_USER", cfg.Database.User)
	cfg.Database.Password = envStr("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envStr("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envStr("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.TimeZone = envStr("DB_TIMEZONE", cfg.Database.TimeZone)
	cfg.Database.SQLitePath = envStr("DB_SQLITE_PATH", cfg.Database.SQLitePath)

	cfg.Mongo.URI = envStr("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = envStr("MONGO_DB_NAME", cfg.Mongo.DBName)

	cfg.Redis.URL = envStr("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.StatsTTLSeconds = envInt("STATS_CACHE_TTL_SECONDS", cfg.Redis.StatsTTLSeconds)

	cfg.Auth.JWTSecret = envStr("JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.Log.Mode = envStr("LOG_MODE", cfg.Log.Mode)
	cfg.Log.Level = envStr("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Redact = envBool("LOG_REDACTION_ENABLED", cfg.Log.Redact)
	cfg.Log.HashSalt = envStr("LOG_HASH_SALT", cfg.Log.HashSalt)

	cfg.Learning.AutoCompleteCourses = envBool("AUTO_COMPLETE_COURSES", cfg.Learning.AutoCompleteCourses)

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the postgres driver")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be 'postgres' or 'sqlite', got %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Redis.StatsTTLSeconds < 0 {
		return fmt.Errorf("STATS_CACHE_TTL_SECONDS must not be negative")
	}
	return nil
}

func (c *Config) StatsTTL() time.Duration {
	return time.Duration(c.Redis.StatsTTLSeconds) * time.Second
}

// PostgresDSN builds the key/value DSN for gorm's postgres driver.
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}
