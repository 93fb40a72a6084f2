package config_test

import (
	"testing"
	"time"

	"market/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("SECRET_KEY", "s3cret")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpire)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpire)
	assert.Equal(t, 7*24*60*60, cfg.CookieMaxAge)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 5*time.Minute, cfg.CategoryCacheTTL)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=market")
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("SECRET_KEY", "s3cret")
	v.Set("ENV", "production")
	v.Set("ALGORITHM", "HS512")
	v.Set("ACCESS_TOKEN_EXPIRE_MINUTES", 5)
	v.Set("REFRESH_TOKEN_EXPIRE_DAYS", 1)
	v.Set("COOKIE_MAX_AGE", 3600)
	v.Set("DATABASE_DSN", "host=db user=app dbname=shop")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "HS512", cfg.JWTAlgorithm)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenExpire)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenExpire)
	assert.Equal(t, 3600, cfg.CookieMaxAge)
	assert.Equal(t, "host=db user=app dbname=shop", cfg.DatabaseDSN)
}

func TestFromViper_Invalid(t *testing.T) {
	_, err := config.FromViper(viper.New())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")

	v := viper.New()
	v.Set("SECRET_KEY", "s3cret")
	v.Set("ALGORITHM", "RS256")
	_, err = config.FromViper(v)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported ALGORITHM")
}
