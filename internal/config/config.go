package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime settings of the service.
type Config struct {
	AppPort string
	Env     string

	DatabaseDSN string

	JWTSecret          string
	JWTAlgorithm       string
	AccessTokenExpire  time.Duration
	RefreshTokenExpire time.Duration
	CookieMaxAge       int
	CookieSecure       bool

	RedisAddr        string
	CategoryCacheTTL time.Duration

	RabbitMQURL string

	AdminEmail    string
	AdminPassword string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// take precedence over it.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}
	return FromViper(viper.New())
}

// FromViper builds a Config from v after registering defaults and enabling
// environment lookup on it.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "market")
	v.SetDefault("ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15)
	v.SetDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7)
	v.SetDefault("CATEGORY_CACHE_TTL", "5m")
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		Env:                v.GetString("ENV"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		JWTSecret:          v.GetString("SECRET_KEY"),
		JWTAlgorithm:       v.GetString("ALGORITHM"),
		AccessTokenExpire:  time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		RefreshTokenExpire: time.Duration(v.GetInt("REFRESH_TOKEN_EXPIRE_DAYS")) * 24 * time.Hour,
		CookieMaxAge:       v.GetInt("COOKIE_MAX_AGE"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		CategoryCacheTTL:   v.GetDuration("CATEGORY_CACHE_TTL"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
	}
	cfg.CookieSecure = cfg.Env == "production"

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			v.GetString("DB_HOST"),
			v.GetInt("DB_PORT"),
			v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"),
			v.GetString("DB_NAME"),
		)
	}
	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = int(cfg.RefreshTokenExpire / time.Second)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("SECRET_KEY must be set")
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported ALGORITHM %q: expected HS256, HS384 or HS512", c.JWTAlgorithm)
	}
	if c.AccessTokenExpire <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.RefreshTokenExpire <= c.AccessTokenExpire {
		return fmt.Errorf("refresh token lifetime must exceed access token lifetime")
	}
	return nil
}
