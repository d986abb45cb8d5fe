package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage"
)

func TestInitLocalStack(t *testing.T) {
	dir := t.TempDir()

	cfg := configs.Defaults()
	cfg.DB.Database = filepath.Join(dir, "meta")
	cfg.Blob.Local.Root = filepath.Join(dir, "files")

	mgr, err := storage.Init(context.Background(), &cfg)
	require.NoError(t, err)

	defer func() { assert.NoError(t, mgr.Close()) }()

	health := mgr.HealthCheck(context.Background())
	assert.Len(t, health, 4)

	for name, err := range health {
		assert.NoError(t, err, name)
	}

	assert.Equal(t, configs.BlobTypeLocal, mgr.Blob.Type())
	assert.Equal(t, configs.KVTypeLRU, mgr.KV.Type())
	assert.Equal(t, configs.MQTypeGoChannel, mgr.MQ.Type())
}

func TestInitWithoutMQ(t *testing.T) {
	dir := t.TempDir()

	cfg := configs.Defaults()
	cfg.DB.Database = filepath.Join(dir, "meta")
	cfg.Blob.Local.Root = filepath.Join(dir, "files")

	mgr, err := storage.Init(context.Background(), &cfg, storage.WithoutMQ())
	require.NoError(t, err)

	defer mgr.Close()

	assert.Nil(t, mgr.MQ)
	assert.NotContains(t, mgr.HealthCheck(context.Background()), "mq")
}
