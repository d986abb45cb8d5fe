package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Prometheus 指标配置，指标通过主服务的 Path 暴露.
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`                             // 是否启用Metrics
	Namespace      string            `mapstructure:"namespace"`                           // 指标名前缀
	Path           string            `mapstructure:"path"            rule:"startswith=/"` // 暴露路径
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"`                     // 是否收集运行时指标
	Labels         map[string]string `mapstructure:"labels"`                              // 所有指标附带的常量标签
	Pprof          bool              `mapstructure:"pprof"`                               // 是否暴露 pprof 端点
}

// setDefaults 设置Metrics配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "sharevault")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.labels", map[string]string{})
	v.SetDefault("metrics.pprof", false)
}
