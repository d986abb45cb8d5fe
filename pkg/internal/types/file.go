// Package types 定义 HTTP 接口的请求与响应结构.
package types

import (
	"time"

	"github.com/yeisme/sharevault/pkg/internal/model"
)

// FileRecord 文件元数据响应.
type FileRecord struct {
	FileID       uint      `json:"file_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	FilePath     string    `json:"file_path"` // 存储键，仅供参考，客户端应使用 file_id
	CreatedDate  time.Time `json:"created_date"`
	ModifiedDate time.Time `json:"modified_date"`
	UploaderID   uint      `json:"uploader_id"`
	UploaderName string    `json:"uploader_name"`
	EditorID     uint      `json:"editor_id"`
	EditorName   string    `json:"editor_name"`
}

// NewFileRecord 由模型构造响应.
func NewFileRecord(m *model.FileRecord) FileRecord {
	return FileRecord{
		FileID:       m.FileID,
		Name:         m.Name,
		Type:         m.Type,
		Size:         m.Size,
		FilePath:     m.StoragePath,
		CreatedDate:  m.CreatedAt,
		ModifiedDate: m.ModifiedAt,
		UploaderID:   m.UploaderID,
		UploaderName: m.UploaderName,
		EditorID:     m.EditorID,
		EditorName:   m.EditorName,
	}
}

// NewFileRecords 批量转换，空输入返回空切片而不是 nil.
func NewFileRecords(ms []model.FileRecord) []FileRecord {
	out := make([]FileRecord, 0, len(ms))
	for i := range ms {
		out = append(out, NewFileRecord(&ms[i]))
	}

	return out
}

// ListFilesQuery 列表查询参数.
// Ascending 只有 "true" 与 "false" 有效，其余值（包括缺省）表示不排序.
type ListFilesQuery struct {
	Types     []string `form:"types"`
	Ascending string   `form:"ascending"`
}

// ErrorResponse 错误响应.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
