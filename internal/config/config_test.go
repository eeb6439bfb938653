package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValidEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_PATH", "./warden.db")
	t.Setenv("OWNER_ID", "111")
	t.Setenv("RECONCILE_INTERVAL", "")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(111), cfg.OwnerID)
	assert.Equal(t, "./warden.db", cfg.DatabasePath)
	assert.Equal(t, 60*time.Second, cfg.ReconcileInterval)
}

func TestLoadReconcileInterval(t *testing.T) {
	setValidEnv(t)
	t.Setenv("RECONCILE_INTERVAL", "120")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Second, cfg.ReconcileInterval)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"token", "BOT_TOKEN"},
		{"database", "DATABASE_PATH"},
		{"owner", "OWNER_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadInvalidOwner(t *testing.T) {
	setValidEnv(t)
	t.Setenv("OWNER_ID", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
