package configs

import (
	"time"

	"github.com/spf13/viper"
)

// BlobType 文件内容存储后端类型.
type BlobType string

const (
	BlobTypeLocal BlobType = "local"
	BlobTypeS3    BlobType = "s3"

	DefaultBlobType       = BlobTypeLocal
	DefaultBlobRoot       = "data/files" // 本地存储根目录
	DefaultBlobStagingDir = ".staging"   // 相对于根目录的暂存目录
)

// BlobConfig 文件内容存储配置.
type BlobConfig struct {
	Type  BlobType        `mapstructure:"type"  rule:"oneof=local s3"`
	Local LocalBlobConfig `mapstructure:"local"`
}

// LocalBlobConfig 本地文件系统存储配置.
type LocalBlobConfig struct {
	Root       string `mapstructure:"root"        rule:"required"`
	StagingDir string `mapstructure:"staging_dir" rule:"required"`
	DirMode    uint32 `mapstructure:"dir_mode"`
	FileMode   uint32 `mapstructure:"file_mode"`
	Fsync      bool   `mapstructure:"fsync"` // 提交前是否 fsync 暂存文件
}

func (c *BlobConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("blob.type", DefaultBlobType)
	v.SetDefault("blob.local.root", DefaultBlobRoot)
	v.SetDefault("blob.local.staging_dir", DefaultBlobStagingDir)
	v.SetDefault("blob.local.dir_mode", 0o755)
	v.SetDefault("blob.local.file_mode", 0o644)
	v.SetDefault("blob.local.fsync", true)
}

// WorkspaceConfig 工作区配置，所有元数据查询都以工作区为作用域.
type WorkspaceConfig struct {
	Default string `mapstructure:"default" rule:"required,max=64"`
}

func (c *WorkspaceConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("workspace.default", "default")
}

// CacheConfig 列表与元数据缓存配置.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	ListTTL time.Duration `mapstructure:"list_ttl"`
	MetaTTL time.Duration `mapstructure:"meta_ttl"`
	Prefix  string        `mapstructure:"prefix"`
}

func (c *CacheConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.list_ttl", "30s")
	v.SetDefault("cache.meta_ttl", "5m")
	v.SetDefault("cache.prefix", "sv")
}

// SchedulerConfig 定时任务配置.
type SchedulerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	ReconcileCron string        `mapstructure:"reconcile_cron"`
	OrphanGrace   time.Duration `mapstructure:"orphan_grace"`
}

func (c *SchedulerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.reconcile_cron", "*/30 * * * *")
	v.SetDefault("scheduler.orphan_grace", "1h")
}
