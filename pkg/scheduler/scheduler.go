// Package scheduler 提供定时任务调度功能，使用 gocron/v2 库.
//
// 任务既可以按 cron 表达式定时执行，也可以通过 RunNow 同步触发；
// 两种方式共享同一把任务锁，同一任务不会并发执行.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/yeisme/sharevault/pkg/log"
)

var (
	// ErrJobNotFound 任务不存在.
	ErrJobNotFound = errors.New("scheduler: job not found")
	// ErrJobRunning 任务正在执行.
	ErrJobRunning = errors.New("scheduler: job already running")
	// ErrJobExists 同名任务已存在.
	ErrJobExists = errors.New("scheduler: job already exists")
)

// JobStatus 表示任务的状态类型.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled" // 任务已调度
	StatusRunning   JobStatus = "running"   // 任务正在运行
	StatusError     JobStatus = "error"     // 上次执行出错
)

// JobFunc 任务函数，返回值记录在 JobInfo.LastResult 中.
type JobFunc func(ctx context.Context) (any, error)

// JobInfo 表示定时任务的信息，用于可视化和监控.
type JobInfo struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CronExpr     string        `json:"cron_expr"`
	NextRun      time.Time     `json:"next_run"`
	LastRun      time.Time     `json:"last_run"`
	LastSuccess  time.Time     `json:"last_success,omitempty"`
	LastDuration time.Duration `json:"last_duration"`
	LastResult   any           `json:"last_result,omitempty"`
	RunCount     int           `json:"run_count"`
	Status       JobStatus     `json:"status"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type entry struct {
	job  gocron.Job
	fn   JobFunc
	info JobInfo
	lock sync.Mutex // 执行锁
}

// Scheduler 是定时任务调度器的实现.
type Scheduler struct {
	scheduler gocron.Scheduler
	entries   map[string]*entry
	mu        sync.RWMutex
	logger    zerolog.Logger
}

// NewScheduler 创建一个新的 Scheduler 实例.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		entries:   make(map[string]*entry),
		logger:    log.Component("scheduler"),
	}, nil
}

// AddCron 添加一个基于 cron 表达式（5 段）的定时任务，ctx 传递给每次执行.
func (s *Scheduler) AddCron(ctx context.Context, name, cronExpr string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}

	e := &entry{fn: fn}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			if _, err := s.execute(ctx, name, e); err != nil && !errors.Is(err, ErrJobRunning) {
				s.logger.Error().Err(err).Str("job", name).Msg("scheduled job failed")
			}
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	now := time.Now()
	e.job = j
	e.info = JobInfo{
		ID:        j.ID().String(),
		Name:      name,
		CronExpr:  cronExpr,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.entries[name] = e

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("Added cron job")

	return nil
}

// RunNow 同步执行任务并返回其结果；任务正在执行时返回 ErrJobRunning.
func (s *Scheduler) RunNow(ctx context.Context, name string) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return s.execute(ctx, name, e)
}

// execute 在任务锁内执行任务并记录状态.
func (s *Scheduler) execute(ctx context.Context, name string, e *entry) (result any, err error) {
	if !e.lock.TryLock() {
		return nil, ErrJobRunning
	}
	defer e.lock.Unlock()

	start := time.Now()
	s.update(e, func(info *JobInfo) { info.Status = StatusRunning })

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in job %s: %v", name, r)
			s.logger.Error().Str("job", name).Interface("panic", r).Msg("Job panicked")
		}

		s.update(e, func(info *JobInfo) {
			info.LastRun = start
			info.LastDuration = time.Since(start)
			info.RunCount++
			info.Status = StatusScheduled
			info.Error = ""

			if err != nil {
				info.Status = StatusError
				info.Error = err.Error()

				return
			}

			info.LastSuccess = time.Now()
			info.LastResult = result
		})
	}()

	return e.fn(ctx)
}

func (s *Scheduler) update(e *entry, fn func(*JobInfo)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&e.info)
	e.info.UpdatedAt = time.Now()
}

// RemoveJobByName 通过名称移除任务.
func (s *Scheduler) RemoveJobByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	if err := s.scheduler.RemoveJob(e.job.ID()); err != nil {
		return err
	}

	delete(s.entries, name)

	s.logger.Info().Str("job", name).Msg("Removed job")

	return nil
}

// GetJobInfoByName 通过名称获取任务信息.
func (s *Scheduler) GetJobInfoByName(name string) (JobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[name]
	if !exists {
		return JobInfo{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return snapshot(e), nil
}

// GetJobInfos 返回所有定时任务的信息，按名称排序.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.entries))
	for _, e := range s.entries {
		jobs = append(jobs, snapshot(e))
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })

	return jobs
}

func snapshot(e *entry) JobInfo {
	info := e.info
	if next, err := e.job.NextRun(); err == nil {
		info.NextRun = next
	}

	return info
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.entries)).Msg("Starting scheduler")
	s.scheduler.Start()
}

// Shutdown 停止调度器并等待正在执行的任务结束.
func (s *Scheduler) Shutdown() error {
	s.logger.Info().Msg("Stopping scheduler")
	return s.scheduler.Shutdown()
}
