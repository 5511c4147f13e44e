package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("TIMEZONE", "UTC")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "file", c.DBType)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "UTC", c.Location().String())
	assert.False(t, c.DemoMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"postgres without dsn", Config{Env: "development", DBType: "postgres", Timezone: "UTC"}, true},
		{"postgres with dsn", Config{Env: "development", DBType: "postgres", DBDSN: "postgres://x", Timezone: "UTC"}, false},
		{"sqlite without path", Config{Env: "development", DBType: "sqlite", Timezone: "UTC"}, true},
		{"file missing days", Config{Env: "development", DBType: "file", FileProfile: "p", FileActivities: "a", Timezone: "UTC"}, true},
		{"memory", Config{Env: "production", DBType: "memory", Timezone: "UTC"}, false},
		{"unknown backend", Config{Env: "development", DBType: "mongo", Timezone: "UTC"}, true},
		{"bad env", Config{Env: "qa", DBType: "memory", Timezone: "UTC"}, true},
		{"bad timezone", Config{Env: "development", DBType: "memory", Timezone: "Mars/Olympus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromEnv_DemoMode(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("DEMO_MODE", "true")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, c.DemoMode)
}
