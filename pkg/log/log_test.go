package log

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
)

func TestNewJSONLevel(t *testing.T) {
	var buf bytes.Buffer

	l := New(configs.LogConfig{Level: "warn", Format: configs.LogFormatJSON}, &buf, false)
	l.Info().Msg("hidden")
	l.Warn().Str("k", "v").Msg("shown")

	var ev map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev))
	assert.Equal(t, "shown", ev["message"])
	assert.Equal(t, "v", ev["k"])
	assert.Equal(t, serviceName, ev["service"])
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	l := New(configs.LogConfig{Level: "loud", Format: configs.LogFormatJSON}, &bytes.Buffer{}, false)
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	var buf bytes.Buffer

	l := New(configs.LogConfig{Level: "info", Format: configs.LogFormatJSON, EnableFile: true, FilePath: path, MaxSize: 1}, &buf, false)
	l.Info().Msg("to both")

	assert.Contains(t, buf.String(), "to both")
	assert.FileExists(t, path)
}

func TestGinWriter(t *testing.T) {
	var buf bytes.Buffer

	l := zerolog.New(&buf)
	w := NewGinWriter(&l, zerolog.ErrorLevel)

	n, err := w.Write([]byte("[GIN] boom\n"))
	require.NoError(t, err)
	assert.Equal(t, len("[GIN] boom\n"), n)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"message":"[GIN] boom"`)

	buf.Reset()

	_, _ = w.Write([]byte("  \n"))
	assert.Empty(t, buf.String())
}
