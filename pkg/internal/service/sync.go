package service

import (
	"context"

	"github.com/yeisme/sharevault/pkg/internal/model"
	"github.com/yeisme/sharevault/pkg/internal/types"
)

// SyncService 帮助桌面客户端比较本地目录与工作区.
type SyncService struct {
	deps Deps
}

// NewSyncService 从 context 获取依赖实例.
func NewSyncService(c context.Context) *SyncService {
	return NewSyncServiceWith(DepsFromContext(c))
}

// NewSyncServiceWith 使用显式依赖创建服务.
func NewSyncServiceWith(deps Deps) *SyncService {
	return &SyncService{deps: deps.normalize()}
}

// Compare 返回本地有而工作区没有的文件名（按输入顺序去重），
// 以及工作区有而本地没有的文件名（按插入顺序）.
func (s *SyncService) Compare(ctx context.Context, local []string) (*types.CompareResponse, error) {
	remote, err := s.deps.DB.Files().Names(ctx, s.deps.Workspace)
	if err != nil {
		return nil, err
	}

	remoteSet := make(map[string]struct{}, len(remote))
	for _, n := range remote {
		remoteSet[n] = struct{}{}
	}

	localSet := make(map[string]struct{}, len(local))
	toUpload := make([]string, 0)

	for _, n := range local {
		if _, seen := localSet[n]; seen {
			continue
		}

		localSet[n] = struct{}{}

		if _, ok := remoteSet[n]; !ok {
			toUpload = append(toUpload, n)
		}
	}

	toDownload := make([]string, 0)

	for _, n := range remote {
		if _, ok := localSet[n]; !ok {
			toDownload = append(toDownload, n)
		}
	}

	return &types.CompareResponse{ToUpload: toUpload, ToDownload: toDownload}, nil
}

// RemoteFiles 返回工作区全部文件，按插入顺序.
func (s *SyncService) RemoteFiles(ctx context.Context) ([]model.FileRecord, error) {
	return NewListServiceWith(s.deps).List(ctx, ListQuery{Order: OrderNone})
}
