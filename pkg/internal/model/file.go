package model

import (
	"time"
)

// FileRecord 共享工作区中一个文件的元数据.
// (workspace, name) 唯一；StoragePath 指向文件内容在存储后端中的位置.
type FileRecord struct {
	FileID uint `gorm:"column:file_id;primaryKey;autoIncrement"`
	// 工作区作用域，所有查询都带此条件
	Workspace string `gorm:"size:64;not null;default:'default';uniqueIndex:idx_workspace_name,priority:1;index:idx_workspace_type,priority:1"`
	// 文件名，区分大小写
	Name string `gorm:"size:255;not null;uniqueIndex:idx_workspace_name,priority:2"`
	// 小写扩展名，可能为空；创建后不变
	Type        string `gorm:"size:255;not null;default:'';index:idx_workspace_type,priority:2"`
	Size        int64  `gorm:"not null;default:0"`
	StoragePath string `gorm:"column:file_path;size:1024;not null;uniqueIndex:idx_file_path"`
	// 内容的 xxhash64 十六进制摘要
	Checksum string `gorm:"size:16"`

	CreatedAt  time.Time `gorm:"column:created_date;not null"`
	ModifiedAt time.Time `gorm:"column:modified_date;not null"`

	UploaderID   uint   `gorm:"not null;index"`
	UploaderName string `gorm:"size:150;not null"`
	EditorID     uint   `gorm:"not null"`
	EditorName   string `gorm:"size:150;not null"`
}

// TableName 固定表名.
func (FileRecord) TableName() string {
	return "file_records"
}

// OwnedBy 判断文件是否由指定用户上传.
func (f *FileRecord) OwnedBy(userID uint) bool {
	return f != nil && f.UploaderID == userID
}
