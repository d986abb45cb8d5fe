// Package metrics 提供监控指标功能.
// 支持Prometheus标准，收集 HTTP、文件操作与后台任务指标.
//
// Example:
//
//	import "github.com/yeisme/sharevault/pkg/metrics"
//
//	err := metrics.InitMetrics(cfg.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// 记录指标
//	metrics.FileOps.WithLabelValues("upload", "ok").Inc()
package metrics

import (
	"net/http"
	_ "net/http/pprof" // 自动注册pprof端点
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/sharevault/pkg/configs"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ActiveConnections 正在处理的请求数.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	// FileOps 文件生命周期操作计数，result 为 ok 或错误类别.
	FileOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_operations_total",
			Help: "File lifecycle operations by result",
		},
		[]string{"op", "result"},
	)

	// FileBytes 上传、替换与下载的字节数.
	FileBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_bytes_total",
			Help: "Bytes written or read through the file API",
		},
		[]string{"direction"},
	)

	// CacheRequests 列表与元数据缓存命中情况.
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by cache name and outcome",
		},
		[]string{"cache", "outcome"},
	)

	// FileEvents 审计消费者收到的事件数.
	FileEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "file_events_total",
			Help: "File events consumed by topic",
		},
		[]string{"topic"},
	)

	// ReconcileBlobs 最近一次对账结果.
	ReconcileBlobs = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reconcile_blobs",
			Help: "Blob counts observed by the last reconciliation sweep",
		},
		[]string{"kind"},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// InitMetrics 初始化Metrics，重复调用只生效一次.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	var err error

	initOnce.Do(func() {
		reg := prometheus.WrapRegistererWith(config.Labels, prometheus.WrapRegistererWithPrefix(prefix(config), registry))

		// 注册标准收集器
		if config.RuntimeMetrics {
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}

		for _, c := range []prometheus.Collector{
			RequestCounter, RequestDuration, ActiveConnections,
			FileOps, FileBytes, CacheRequests, FileEvents, ReconcileBlobs,
		} {
			if e := reg.Register(c); e != nil {
				err = e

				return
			}
		}
	})

	return err
}

func prefix(config configs.MetricsConfig) string {
	if config.Namespace == "" {
		return ""
	}

	return config.Namespace + "_"
}

// StartMetricsServer 在给定 engine 上暴露 /metrics 与可选的 pprof 端点.
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET(config.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// 如果启用pprof，注册pprof端点
	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}

	return nil
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

// ObserveFileOp 记录一次文件操作.
func ObserveFileOp(op, result string) {
	FileOps.WithLabelValues(op, result).Inc()
}

// ObserveCache 记录一次缓存查询.
func ObserveCache(cache string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}

	CacheRequests.WithLabelValues(cache, outcome).Inc()
}
