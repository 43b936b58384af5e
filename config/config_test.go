package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com,")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("DEFAULT_PAGE_SIZE", "25")

	require.NoError(t, LoadConfig())
	assert.Equal(t, "5000", AppConfig.ServerPort)
	assert.Equal(t, 25, AppConfig.DefaultPageSize)
	assert.Equal(t, 100, AppConfig.MaxPageSize)
	assert.True(t, AppConfig.Redis.Enabled)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, AppConfig.CORSAllowedOrigins)
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET", "jwt-secret")
	assert.EqualError(t, LoadConfig(), "DB_PASSWORD is required")

	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "")
	assert.EqualError(t, LoadConfig(), "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "short")
	t.Setenv("ENVIRONMENT", "production")
	assert.Error(t, LoadConfig())
}

func TestLoadConfigRejectsInvertedPageSizes(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("DEFAULT_PAGE_SIZE", "500")
	t.Setenv("MAX_PAGE_SIZE", "100")
	assert.Error(t, LoadConfig())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
	t.Setenv("SOME_INT", " 42 ")
	assert.Equal(t, 42, getEnvAsInt("SOME_INT", 7))

	t.Setenv("SOME_BOOL", "maybe")
	assert.False(t, getEnvAsBool("SOME_BOOL", false))
	t.Setenv("SOME_BOOL", "1")
	assert.True(t, getEnvAsBool("SOME_BOOL", false))
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "host=db password=***** dbname=x", maskPassword("host=db password=hunter2 dbname=x"))
	assert.Equal(t, "host=db password=*****", maskPassword("host=db password=hunter2"))
	assert.Equal(t, "host=db", maskPassword("host=db"))
}
