package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("POST_MEDIA_MAX_BYTES", "")
	t.Setenv("STRICT_POST_DELETE", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, int64(10<<20), cfg.PostMediaMaxBytes)
	assert.Equal(t, int64(5<<20), cfg.ProfilePictureMaxBytes)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.False(t, cfg.StrictPostDelete)
	assert.NotEmpty(t, cfg.DemoToken)
	assert.NotEmpty(t, cfg.AdminToken)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("POST_MEDIA_MAX_BYTES", "2048")
	t.Setenv("STRICT_POST_DELETE", "true")
	t.Setenv("ADMIN_TOKEN", "letmein")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, int64(2048), cfg.PostMediaMaxBytes)
	assert.True(t, cfg.StrictPostDelete)
	assert.Equal(t, "letmein", cfg.AdminToken)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("STRICT_POST_DELETE", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.StrictPostDelete)
}
