package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/sharevault/pkg/internal/model"
)

// ErrNotFound 记录不存在.
var ErrNotFound = errors.New("record not found")

// FileRepository 文件元数据仓储，除对账用的全局扫描外，所有查询都限定在 workspace 内.
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository 基于给定连接（或事务）创建仓储.
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Files 返回绑定当前连接的文件仓储.
func (c *Client) Files() *FileRepository {
	return NewFileRepository(c.DB)
}

// WithTx 返回绑定事务的仓储副本.
func (r *FileRepository) WithTx(tx *gorm.DB) *FileRepository {
	return &FileRepository{db: tx}
}

// ContentUpdate 替换文件内容时更新的字段.
type ContentUpdate struct {
	Size       int64
	Checksum   string
	EditorID   uint
	EditorName string
	ModifiedAt time.Time
}

// Get 按 id 读取记录.
func (r *FileRepository) Get(ctx context.Context, workspace string, id uint) (*model.FileRecord, error) {
	var rec model.FileRecord

	err := r.db.WithContext(ctx).
		Where("workspace = ? AND file_id = ?", workspace, id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get file %d: %w", id, err)
	}

	return &rec, nil
}

// ExistsByName 判断工作区内是否已有同名文件（区分大小写的精确匹配）.
func (r *FileRepository) ExistsByName(ctx context.Context, workspace, name string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("workspace = ? AND name = ?", workspace, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check name %q: %w", name, err)
	}

	return count > 0, nil
}

// Create 插入新记录，唯一索引冲突返回 ErrDuplicateKey.
func (r *FileRepository) Create(ctx context.Context, rec *model.FileRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("create file %q: %w", rec.Name, ErrDuplicateKey)
		}

		return fmt.Errorf("create file %q: %w", rec.Name, err)
	}

	return nil
}

// UpdateContent 更新内容相关字段，仅当记录仍属于 ownerID 时生效，返回受影响行数.
func (r *FileRepository) UpdateContent(ctx context.Context, workspace string, id, ownerID uint, u ContentUpdate) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("workspace = ? AND file_id = ? AND uploader_id = ?", workspace, id, ownerID).
		Updates(map[string]any{
			"size":          u.Size,
			"checksum":      u.Checksum,
			"editor_id":     u.EditorID,
			"editor_name":   u.EditorName,
			"modified_date": u.ModifiedAt,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("update file %d: %w", id, res.Error)
	}

	return res.RowsAffected, nil
}

// Delete 删除属于 ownerID 的记录，返回受影响行数.
func (r *FileRepository) Delete(ctx context.Context, workspace string, id, ownerID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("workspace = ? AND file_id = ? AND uploader_id = ?", workspace, id, ownerID).
		Delete(&model.FileRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete file %d: %w", id, res.Error)
	}

	return res.RowsAffected, nil
}

// List 返回工作区内的记录，types 非空时只保留这些类型，按插入顺序（file_id 升序）.
func (r *FileRepository) List(ctx context.Context, workspace string, types []string) ([]model.FileRecord, error) {
	q := r.db.WithContext(ctx).Where("workspace = ?", workspace)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}

	recs := make([]model.FileRecord, 0)
	if err := q.Order("file_id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return recs, nil
}

// Names 返回工作区内全部文件名，按插入顺序.
func (r *FileRepository) Names(ctx context.Context, workspace string) ([]string, error) {
	names := make([]string, 0)

	err := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("workspace = ?", workspace).
		Order("file_id ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}

	return names, nil
}

// StoredFile 对账使用的最小记录视图.
type StoredFile struct {
	FileID      uint
	Workspace   string
	Name        string
	StoragePath string
}

// StoragePaths 返回所有工作区的存储路径，键为 storage_path.
func (r *FileRepository) StoragePaths(ctx context.Context) (map[string]StoredFile, error) {
	var rows []StoredFile

	err := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Select("file_id, workspace, name, file_path AS storage_path").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("scan storage paths: %w", err)
	}

	out := make(map[string]StoredFile, len(rows))
	for _, row := range rows {
		out[row.StoragePath] = row
	}

	return out, nil
}

// Count 返回工作区内记录数.
func (r *FileRepository) Count(ctx context.Context, workspace string) (int64, error) {
	var n int64

	err := r.db.WithContext(ctx).Model(&model.FileRecord{}).
		Where("workspace = ?", workspace).
		Count(&n).Error

	return n, err
}
