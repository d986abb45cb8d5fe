package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// FileRef 标识工作区中的一个文件.
type FileRef struct {
	Workspace   string `json:"workspace"`
	FileID      uint   `json:"file_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum,omitempty"`
	StoragePath string `json:"storage_path"`
}

// Actor 触发事件的用户.
type Actor struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// FileUploadedPayload 新文件已提交.
type FileUploadedPayload struct {
	File  FileRef `json:"file"`
	Actor Actor   `json:"actor"`
}

// FileReplacedPayload 文件内容被替换.
type FileReplacedPayload struct {
	File         FileRef `json:"file"`
	Actor        Actor   `json:"actor"`
	PrevSize     int64   `json:"prev_size"`
	PrevChecksum string  `json:"prev_checksum,omitempty"`
}

// FileDeletedPayload 文件被删除.
type FileDeletedPayload struct {
	File  FileRef `json:"file"`
	Actor Actor   `json:"actor"`
	// BlobRemoved 为 false 表示存储对象删除失败，留给对账清理.
	BlobRemoved bool `json:"blob_removed"`
}

// BlobOrphanRemovedPayload 对账删除了孤儿对象.
type BlobOrphanRemovedPayload struct {
	Key     string    `json:"key"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Staging bool      `json:"staging"`
}

// FileBlobMissingPayload 元数据指向的存储对象不存在.
type FileBlobMissingPayload struct {
	File FileRef `json:"file"`
}
