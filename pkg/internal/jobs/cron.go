// Package jobs 把后台维护任务注册到调度器.
package jobs

import (
	"context"
	"errors"

	"github.com/yeisme/sharevault/pkg/configs"
	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/service"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/scheduler"
)

// JobReconcile 存储对账任务名，也是手动触发接口中的 :name.
const JobReconcile = "reconcile"

// DefaultCronReconcile 未配置 scheduler.reconcile_cron 时的周期.
const DefaultCronReconcile = "*/30 * * * *"

// RegisterCronJobs 注册对账任务，任务 context 携带 mgr.
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager, cfg configs.SchedulerConfig) error {
	if sched == nil || mgr == nil {
		return errors.New("jobs: scheduler and storage manager are required")
	}

	expr := cfg.ReconcileCron
	if expr == "" {
		expr = DefaultCronReconcile
	}

	return sched.AddCron(ctxPkg.WithStorageManager(context.Background(), mgr), JobReconcile, expr, Reconcile)
}

// Reconcile 执行一次对账并记录结果，ctx 中必须带有 storage manager.
func Reconcile(ctx context.Context) (any, error) {
	report, err := service.NewReconcileService(ctx).Sweep(ctx)
	if err != nil {
		return nil, err
	}

	if report.Removed > 0 || report.Missing > 0 {
		l := log.Component("jobs")
		l.Info().
			Int("scanned", report.Scanned).
			Int("removed", report.Removed).
			Int("missing", report.Missing).
			Msg("reconcile finished")
	}

	return report, nil
}
