// Package storage 聚合应用使用的存储资源：元数据库、文件内容存储、KV 与消息队列.
//
// Example:
//
//	mgr, err := storage.Init(ctx, configs.GetConfig())
//	if err != nil {
//		// 处理错误
//	}
//	defer mgr.Close()
//
//	files := mgr.DB.Files()
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/sharevault/pkg/internal/storage/db"
	kvc "github.com/yeisme/sharevault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/sharevault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/sharevault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB   *dbc.Client
	Blob blob.Store
	KV   *kvc.Client
	MQ   *mqc.Client
}

// Option 配置 Init.
type Option func(*initOptions)

type initOptions struct {
	registerer prometheus.Registerer
	skipMQ     bool
}

// WithMetricsRegisterer 为 MQ 指标指定注册器.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *initOptions) { o.registerer = reg }
}

// WithoutMQ 跳过消息队列初始化，命令行工具使用.
func WithoutMQ() Option {
	return func(o *initOptions) { o.skipMQ = true }
}

// Init 按配置初始化所有存储，任何一项失败都会关闭已打开的资源.
func Init(ctx context.Context, cfg *configs.AppConfig, opts ...Option) (*Manager, error) {
	var o initOptions
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{}

	fail := func(what string, err error) (*Manager, error) {
		return nil, errors.Join(fmt.Errorf("init %s: %w", what, err), m.Close())
	}

	var err error

	if m.DB, err = dbc.New(ctx, &cfg.DB); err != nil {
		return fail("db", err)
	}

	if err = m.DB.Migrate(ctx); err != nil {
		return fail("db migrate", err)
	}

	if m.Blob, err = blob.New(ctx, cfg); err != nil {
		return fail("blob", err)
	}

	if m.KV, err = kvc.New(ctx, &cfg.KV); err != nil {
		return fail("kv", err)
	}

	if !o.skipMQ {
		var mqOpts []mqc.Option
		if o.registerer != nil {
			mqOpts = append(mqOpts, mqc.WithRegisterer(o.registerer))
		}

		if m.MQ, err = mqc.New(ctx, &cfg.MQ, mqOpts...); err != nil {
			return fail("mq", err)
		}
	}

	nlog.Logger().Info().
		Str("db", string(m.DB.Type())).
		Str("blob", string(m.Blob.Type())).
		Str("kv", string(m.KV.Type())).
		Bool("mq", m.MQ != nil).
		Msg("storage manager initialized")

	return m, nil
}

// HealthCheck 逐项检查存储可用性，返回组件名到错误的映射（nil 表示正常）.
func (m *Manager) HealthCheck(ctx context.Context) map[string]error {
	result := map[string]error{}

	if m.DB != nil {
		result["db"] = m.DB.Ping(ctx)
	}

	if m.Blob != nil {
		result["blob"] = m.Blob.HealthCheck(ctx)
	}

	if m.KV != nil {
		result["kv"] = m.KV.Ping(ctx)
	}

	if m.MQ != nil {
		result["mq"] = m.MQ.HealthCheck(ctx)
	}

	return result
}

// Close 按初始化的逆序关闭所有资源.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	if m.Blob != nil {
		errs = append(errs, m.Blob.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
