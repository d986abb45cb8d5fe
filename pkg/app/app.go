// Package app 提供应用程序的初始化、运行与优雅退出.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/sharevault/pkg/api"
	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/events"
	"github.com/yeisme/sharevault/pkg/internal/jobs"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/metrics"
	"github.com/yeisme/sharevault/pkg/scheduler"
	"github.com/yeisme/sharevault/pkg/token"
	"github.com/yeisme/sharevault/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Engine *gin.Engine

	config    *configs.AppConfig
	storage   *storage.Manager
	scheduler *scheduler.Scheduler
	logger    zerolog.Logger
}

// NewApp 按全局配置初始化追踪、指标、存储、调度器与 HTTP 引擎.
// 调用前必须先执行 configs.InitConfig.
func NewApp(ctx context.Context) (*App, error) {
	config := configs.GetConfig()

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	// 初始化追踪
	if err := tracing.InitTracer(ctx, config.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	var opts []storage.Option
	if config.Metrics.Enabled {
		opts = append(opts, storage.WithMetricsRegisterer(metrics.GetRegistry()))
	}

	manager, err := storage.Init(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	tm, err := token.NewManager(config.Auth)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init token manager: %w", err), manager.Close())
	}

	a := &App{
		config:  config,
		storage: manager,
		logger:  log.Component("app"),
	}

	if config.Scheduler.Enabled {
		if a.scheduler, err = scheduler.NewScheduler(); err != nil {
			return nil, errors.Join(fmt.Errorf("init scheduler: %w", err), manager.Close())
		}

		if err := jobs.RegisterCronJobs(a.scheduler, manager, config.Scheduler); err != nil {
			return nil, errors.Join(fmt.Errorf("register jobs: %w", err), a.scheduler.Shutdown(), manager.Close())
		}
	}

	if manager.MQ != nil && config.Events.Audit {
		if err := events.RegisterAudit(manager.MQ); err != nil {
			return nil, errors.Join(fmt.Errorf("register audit consumer: %w", err), manager.Close())
		}
	}

	a.Engine = api.NewEngine(api.Options{
		Config:    config,
		Storage:   manager,
		Scheduler: a.scheduler,
		Tokens:    tm,
	})

	return a, nil
}

// Run 启动 HTTP 服务、消息消费者与调度器，ctx 结束后优雅退出并释放资源.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.storage.MQ != nil && len(a.storage.MQ.Handlers()) > 0 {
		go func() {
			if err := a.storage.MQ.Run(ctx); err != nil {
				a.logger.Error().Err(err).Msg("mq router stopped")
			}
		}()
	}

	if a.scheduler != nil {
		a.scheduler.Start()
	}

	srv := &http.Server{
		Addr:              a.config.Server.GetAddr(),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", srv.Addr).Str("version", configs.AppVersion).Msg("HTTP server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	var runErr error

	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	a.logger.Info().Msg("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	errs := []error{runErr, srv.Shutdown(shutdownCtx)}

	if a.scheduler != nil {
		errs = append(errs, a.scheduler.Shutdown())
	}

	errs = append(errs, a.storage.Close(), tracing.ShutdownTracer(shutdownCtx))

	return errors.Join(errs...)
}
