package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	FleetAPI  FleetAPIConfig
	Session   SessionConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Notify    NotifyConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	MaxRequestSize int64
}

type FleetAPIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RefreshTimeout  time.Duration
	DriverLookupTTL time.Duration // zero keeps the lookup until a driver mutation
}

// SessionConfig selects where browser sessions (token pairs) are kept.
type SessionConfig struct {
	Store           string // memory, postgres or redis
	CookieName      string
	TTL             time.Duration
	Secure          bool
	CleanupInterval time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
}

type NotifyConfig struct {
	DedupeWindow time.Duration
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	LoginRPS     float64
	LoginBurst   int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_MAX_REQUEST_SIZE", 10<<20)

	viper.SetDefault("FLEET_API_BASE_URL", "http://localhost:8081")
	viper.SetDefault("FLEET_API_TIMEOUT", "15s")
	viper.SetDefault("FLEET_API_REFRESH_TIMEOUT", "10s")
	viper.SetDefault("FLEET_API_DRIVER_LOOKUP_TTL", "0s")

	viper.SetDefault("SESSION_STORE", StoreMemory)
	viper.SetDefault("SESSION_COOKIE_NAME", "fleet_session")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("SESSION_CLEANUP_INTERVAL", "15m")

	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_KEY_PREFIX", "fleet-console:session:")

	viper.SetDefault("NOTIFY_DEDUPE_WINDOW", "1500ms")

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	viper.SetDefault("RATE_LIMIT_LOGIN_RPS", 1)
	viper.SetDefault("RATE_LIMIT_LOGIN_BURST", 5)

	viper.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST"})
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "X-Request-ID"})
	viper.SetDefault("CORS_MAX_AGE", 43200)
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Host:           viper.GetString("SERVER_HOST"),
			Environment:    viper.GetString("ENVIRONMENT"),
			MaxRequestSize: viper.GetInt64("SERVER_MAX_REQUEST_SIZE"),
		},
		FleetAPI: FleetAPIConfig{
			BaseURL:         viper.GetString("FLEET_API_BASE_URL"),
			Timeout:         viper.GetDuration("FLEET_API_TIMEOUT"),
			RefreshTimeout:  viper.GetDuration("FLEET_API_REFRESH_TIMEOUT"),
			DriverLookupTTL: viper.GetDuration("FLEET_API_DRIVER_LOOKUP_TTL"),
		},
		Session: SessionConfig{
			Store:           viper.GetString("SESSION_STORE"),
			CookieName:      viper.GetString("SESSION_COOKIE_NAME"),
			TTL:             viper.GetDuration("SESSION_TTL"),
			Secure:          viper.GetBool("SESSION_COOKIE_SECURE"),
			CleanupInterval: viper.GetDuration("SESSION_CLEANUP_INTERVAL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:      viper.GetString("REDIS_HOST"),
			Port:      viper.GetString("REDIS_PORT"),
			Password:  viper.GetString("REDIS_PASSWORD"),
			DB:        viper.GetInt("REDIS_DB"),
			KeyPrefix: viper.GetString("REDIS_KEY_PREFIX"),
		},
		Notify: NotifyConfig{
			DedupeWindow: viper.GetDuration("NOTIFY_DEDUPE_WINDOW"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
			LoginRPS:     viper.GetFloat64("RATE_LIMIT_LOGIN_RPS"),
			LoginBurst:   viper.GetInt("RATE_LIMIT_LOGIN_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations the console cannot start with.
func (c *Config) Validate() error {
	if c.FleetAPI.BaseURL == "" {
		return errors.New("FLEET_API_BASE_URL is required")
	}

	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("session store postgres requires DB_HOST and DB_NAME")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	return nil
}

func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
