// Package mq 提供基于 Watermill 库的统一消息队列操作接口.
// 支持发布/订阅模式，并通过工厂模式抽象不同的 MQ 实现.
//
// 支持的 MQ 类型：
//   - gochannel（进程内，默认）
//   - NATS（支持 JetStream）
//   - Redis Pub/Sub
//
// Client 除了封装 Publisher 与 Subscriber 外还持有一个 watermill Router，
// 后台消费者通过 AddConsumer 注册，由 Run 统一驱动.
//
// 使用示例：
//
//	client, err := mq.New(ctx, &cfg.MQ)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	_ = client.AddConsumer("audit", "sv.file.uploaded", func(msg *message.Message) error {
//		fmt.Println(string(msg.Payload))
//		return nil
//	})
//	go client.Run(ctx)
//
//	err = client.Publish(ctx, "sv.file.uploaded", message.NewMessage(watermill.NewUUID(), payload))
package mq

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/yeisme/sharevault/pkg/configs"
	nlog "github.com/yeisme/sharevault/pkg/log"
)

// ErrClosed 客户端已关闭.
var ErrClosed = errors.New("mq: client closed")

// Factory 定义创建 Publisher + Subscriber 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var factories = map[configs.MQType]Factory{}

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// GetRegisteredMQTypes 返回已注册的 MQ 类型.
func GetRegisteredMQTypes() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Option 配置 Client.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	logger     *zerolog.Logger
	retries    int
}

// WithRegisterer 使用给定的 Prometheus 注册器记录发布、订阅与处理指标.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithLogger 指定 watermill 日志使用的 zerolog 实例.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRetries 设置消费者处理失败时的重试次数.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// Client 封装 watermill Publisher、Subscriber 与 Router.
type Client struct {
	mqType     configs.MQType
	publisher  message.Publisher
	subscriber message.Subscriber
	router     *message.Router

	mu      sync.Mutex
	runCtx  context.Context
	running bool
	closed  bool
}

// New 根据配置创建消息队列客户端.
func New(ctx context.Context, cfg *configs.MQConfig, opts ...Option) (*Client, error) {
	o := options{retries: 3}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		l := nlog.Component("mq")
		o.logger = &l
	}

	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", cfg.Type)
	}

	logger := newLoggerAdapter(*o.logger)

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", cfg.Type, err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create router: %w", err), pub.Close(), sub.Close())
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      o.retries,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2,
			Logger:          logger,
		}.Middleware,
	)

	if o.registerer != nil {
		builder := metrics.NewPrometheusMetricsBuilder(o.registerer, "", "mq")
		builder.AddPrometheusRouterMetrics(router)

		if pub, err = builder.DecoratePublisher(pub); err != nil {
			return nil, fmt.Errorf("decorate publisher with metrics: %w", err)
		}

		if sub, err = builder.DecorateSubscriber(sub); err != nil {
			return nil, fmt.Errorf("decorate subscriber with metrics: %w", err)
		}
	}

	o.logger.Info().Str("type", string(cfg.Type)).Msg("MQ 客户端已初始化")

	return &Client{mqType: cfg.Type, publisher: pub, subscriber: sub, router: router}, nil
}

// Type 返回 MQ 类型.
func (c *Client) Type() configs.MQType {
	return c.mqType
}

// Publish 发布消息，ctx 会随消息传递给同进程的消费者.
func (c *Client) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return fmt.Errorf("mq publisher not initialized")
	}

	for _, m := range msgs {
		m.SetContext(ctx)
	}

	return c.publisher.Publish(topic, msgs...)
}

// Subscribe 直接订阅主题，调用方负责 Ack/Nack.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, fmt.Errorf("mq subscriber not initialized")
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// AddConsumer 注册一个消费者，handler 返回错误时按重试策略重新处理.
// Router 已运行时会立即启动该消费者.
func (c *Client) AddConsumer(name, topic string, handler message.NoPublishHandlerFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.router.AddConsumerHandler(name, topic, c.subscriber, handler)

	if c.running {
		return c.router.RunHandlers(c.runCtx)
	}

	return nil
}

// Run 启动 Router 并阻塞直到 ctx 结束或 Close 被调用.
func (c *Client) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	c.runCtx = ctx
	c.running = true
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = c.router.Close()
	}()

	return c.router.Run(ctx)
}

// Running 返回 Router 开始运行后关闭的通道.
func (c *Client) Running() <-chan struct{} {
	return c.router.Running()
}

// Handlers 返回已注册的消费者名称.
func (c *Client) Handlers() []string {
	names := make([]string, 0)
	for name := range c.router.Handlers() {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// HealthCheck 检查客户端状态.
func (c *Client) HealthCheck(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.running && c.router.IsClosed() {
		return errors.New("mq: router stopped")
	}

	return nil
}

// Close 关闭 Router、Publisher 与 Subscriber.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}

	c.closed = true
	c.mu.Unlock()

	var errs []error

	if c.router != nil {
		errs = append(errs, c.router.Close())
	}

	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}

	if c.subscriber != nil {
		errs = append(errs, c.subscriber.Close())
	}

	return errors.Join(errs...)
}
