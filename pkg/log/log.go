// Package log 提供全局 zerolog logger，按配置输出到 stderr 与轮转文件.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yeisme/sharevault/pkg/configs"
)

const serviceName = "sharevault"

var (
	logger   zerolog.Logger
	initOnce sync.Once
)

// Init 按全局配置初始化 logger，只在第一次调用时生效.
func Init() {
	initOnce.Do(func() {
		cfg := configs.GetConfig()

		logger = New(cfg.Log, os.Stderr, cfg.Server.Debug)
		log.Logger = logger

		if cfg.Server.Debug {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	})
}

// New 创建 logger，out 为终端输出，开启文件时额外写入轮转文件.
// 非法级别按 info 处理.
func New(cfg configs.LogConfig, out io.Writer, debug bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format != configs.LogFormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	if cfg.EnableFile {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	lc := zerolog.New(out).Level(level).With().Timestamp().Str("service", serviceName)
	if debug {
		lc = lc.Caller()
	}

	return lc.Logger()
}

// Logger 返回全局 logger.
func Logger() *zerolog.Logger {
	Init()
	return &logger
}

// Component 返回带 component 字段的子 logger.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// GinWriter 把 gin 输出的文本行转为 zerolog 事件.
type GinWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

func NewGinWriter(logger *zerolog.Logger, level zerolog.Level) *GinWriter {
	return &GinWriter{logger: logger, level: level}
}

func (w *GinWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimSpace(string(p)); msg != "" {
		level := zerolog.DebugLevel
		if w.level >= zerolog.WarnLevel {
			level = w.level
		}

		w.logger.WithLevel(level).Str("source", "gin").Msg(msg)
	}

	return len(p), nil
}
