package service

import (
	"context"
	"time"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	"github.com/yeisme/sharevault/pkg/internal/storage/db"
	"github.com/yeisme/sharevault/pkg/internal/types"
	nlog "github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/metrics"
	"github.com/yeisme/sharevault/pkg/queue"
	"github.com/yeisme/sharevault/pkg/tracing"
)

// DefaultOrphanGrace 孤儿对象至少存在这么久才会被删除，避开正在进行的上传.
const DefaultOrphanGrace = time.Hour

// ReconcileService 对比存储对象与元数据，清理孤儿对象并报告缺失内容.
type ReconcileService struct {
	deps  Deps
	grace time.Duration
}

// NewReconcileService 从 context 获取依赖实例.
func NewReconcileService(c context.Context) *ReconcileService {
	return NewReconcileServiceWith(DepsFromContext(c), configs.GetConfig().Scheduler.OrphanGrace)
}

// NewReconcileServiceWith 使用显式依赖创建服务，grace <= 0 时使用 DefaultOrphanGrace.
func NewReconcileServiceWith(deps Deps, grace time.Duration) *ReconcileService {
	if grace <= 0 {
		grace = DefaultOrphanGrace
	}

	return &ReconcileService{deps: deps.normalize(), grace: grace}
}

// Sweep 执行一次对账.元数据快照先于遍历获取，遍历期间新提交的对象受宽限期保护.
func (s *ReconcileService) Sweep(ctx context.Context) (report types.ReconcileReport, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReconcileService.Sweep")
	defer func() { tracing.EndSpan(span, err) }()

	logger := nlog.Component("reconcile")

	paths, err := s.deps.DB.Files().StoragePaths(ctx)
	if err != nil {
		return report, err
	}

	cutoff := s.deps.Now().Add(-s.grace)
	seen := make(map[string]struct{}, len(paths))

	var orphans []blob.Info

	err = s.deps.Blob.Walk(ctx, func(info blob.Info) error {
		report.Scanned++

		if !info.Staging {
			if _, ok := paths[info.Key]; ok {
				seen[info.Key] = struct{}{}
				return nil
			}
		}

		report.Orphans++

		if info.ModTime.Before(cutoff) {
			orphans = append(orphans, info)
		}

		return nil
	})
	if err != nil {
		return report, storageErr("walk blobs", err)
	}

	for _, info := range orphans {
		if err := s.deps.Blob.Delete(ctx, info.Key); err != nil {
			logger.Warn().Err(err).Str("key", info.Key).Msg("remove orphan blob failed")
			continue
		}

		report.Removed++

		s.deps.Events.BlobOrphanRemoved(ctx, queue.BlobOrphanRemovedPayload{
			Key:     info.Key,
			Size:    info.Size,
			ModTime: info.ModTime,
			Staging: info.Staging,
		})
	}

	for key, f := range paths {
		if _, ok := seen[key]; ok {
			continue
		}

		report.Missing++

		logger.Warn().
			Str("workspace", f.Workspace).
			Uint("file_id", f.FileID).
			Str("name", f.Name).
			Str("key", key).
			Msg("blob missing for file")

		s.deps.Events.FileBlobMissing(ctx, queue.FileBlobMissingPayload{File: missingRef(f)})
	}

	metrics.ReconcileBlobs.WithLabelValues("scanned").Set(float64(report.Scanned))
	metrics.ReconcileBlobs.WithLabelValues("orphans").Set(float64(report.Orphans))
	metrics.ReconcileBlobs.WithLabelValues("removed").Set(float64(report.Removed))
	metrics.ReconcileBlobs.WithLabelValues("missing").Set(float64(report.Missing))

	logger.Info().
		Int("scanned", report.Scanned).
		Int("orphans", report.Orphans).
		Int("removed", report.Removed).
		Int("missing", report.Missing).
		Msg("reconcile finished")

	return report, nil
}

func missingRef(f db.StoredFile) queue.FileRef {
	return queue.FileRef{
		Workspace:   f.Workspace,
		FileID:      f.FileID,
		Name:        f.Name,
		StoragePath: f.StoragePath,
	}
}
