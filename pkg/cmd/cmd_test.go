package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	prev := *configs.GetConfig()
	t.Cleanup(func() { configs.SetConfig(prev) })

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	return out.String()
}

func TestBackendListCommands(t *testing.T) {
	assert.Contains(t, execute(t, "kv", "ls"), "   - memory")
	assert.Contains(t, execute(t, "blob", "ls"), "   - local")
	assert.Contains(t, execute(t, "db", "ls"), "   - sqlite")
}

func TestConfigDebugRedactsSecrets(t *testing.T) {
	out := execute(t, "config", "debug")

	assert.NotContains(t, out, "sharevault-dev-secret-change-me")
	assert.Contains(t, out, "******")
}
