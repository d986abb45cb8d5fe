package configs

import "github.com/spf13/viper"

// EventsConfig 控制事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"` // 总开关
	File    FileEventsConfig `mapstructure:"file"`
	Blob    BlobEventsConfig `mapstructure:"blob"`
	// Audit 为 true 时启动审计消费者，订阅文件事件并写入日志.
	Audit bool `mapstructure:"audit"`
}

// FileEventsConfig 文件生命周期事件开关。
type FileEventsConfig struct {
	Uploaded bool `mapstructure:"uploaded"`
	Replaced bool `mapstructure:"replaced"`
	Deleted  bool `mapstructure:"deleted"`
}

// BlobEventsConfig 对账产生的存储事件开关。
type BlobEventsConfig struct {
	OrphanRemoved bool `mapstructure:"orphan_removed"`
	Missing       bool `mapstructure:"missing"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)
	v.SetDefault("events.audit", true)

	v.SetDefault("events.file.uploaded", true)
	v.SetDefault("events.file.replaced", true)
	v.SetDefault("events.file.deleted", true)

	// 对账事件：缺失告警默认开启
	v.SetDefault("events.blob.orphan_removed", false)
	v.SetDefault("events.blob.missing", true)
}
