package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigFromFile(t *testing.T) {
	prev := *GetConfig()
	t.Cleanup(func() { SetConfig(prev) })

	dir := t.TempDir()
	content := "server:\n  port: 9123\nworkspace:\n  default: team-a\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	require.NoError(t, InitConfig(dir))

	cfg := GetConfig()
	assert.Equal(t, 9123, cfg.Server.Port)
	assert.Equal(t, "team-a", cfg.Workspace.Default)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetViper().ConfigFileUsed())
}

func TestInitConfigEnvOverride(t *testing.T) {
	prev := *GetConfig()
	t.Cleanup(func() { SetConfig(prev) })

	t.Setenv(EnvPrefix+"_SERVER_PORT", "9456")

	require.NoError(t, InitConfig(t.TempDir()))
	assert.Equal(t, 9456, GetConfig().Server.Port)
}

func TestRedacted(t *testing.T) {
	cfg := Defaults()
	cfg.DB.Password = "pw"
	cfg.KV.Redis.Password = ""

	r := cfg.Redacted()

	assert.Equal(t, redactedValue, r.Auth.Secret)
	assert.Equal(t, redactedValue, r.DB.Password)
	assert.Equal(t, redactedValue, r.S3.SecretAccessKey)
	assert.Empty(t, r.KV.Redis.Password)
	assert.Equal(t, "pw", cfg.DB.Password)
}
