package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_BACKEND", "PING_MESSAGE", "PASSWORD_MODE", "BODY_LIMIT_MB"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 8080, env.PORT)
	assert.Equal(t, "gorm", env.DB_BACKEND)
	assert.Equal(t, "ping", env.PING_MESSAGE)
	assert.Equal(t, "bcrypt", env.PASSWORD_MODE)
	assert.Equal(t, 50, env.BODY_LIMIT_MB)
}

func TestGetOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DB_BACKEND", "sql")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("GO_ENV", "production")

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 3000, env.PORT)
	assert.Equal(t, "sql", env.DB_BACKEND)
	assert.Equal(t, "sqlite", env.DB_DRIVER)
	assert.True(t, env.IsProduction())
}
