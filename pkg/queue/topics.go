// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：sv.<域>.<动作>，一经发布保持稳定.
// 域：file(文件元数据与内容)、blob(存储层对账)

const (
	// 文件生命周期.
	TopicFileUploaded = "sv.file.uploaded" // 新文件已提交（元数据与内容都已落盘）
	TopicFileReplaced = "sv.file.replaced" // 已有文件内容被替换
	TopicFileDeleted  = "sv.file.deleted"  // 文件元数据已删除

	// 对账.
	TopicBlobOrphanRemoved = "sv.blob.orphan_removed" // 删除了没有元数据的存储对象
	TopicFileBlobMissing   = "sv.file.blob_missing"   // 元数据存在但存储对象缺失
)

var (
	// FileTopics 文件生命周期主题集合.
	FileTopics = []string{TopicFileUploaded, TopicFileReplaced, TopicFileDeleted}

	// BlobTopics 对账主题集合.
	BlobTopics = []string{TopicBlobOrphanRemoved, TopicFileBlobMissing}
)

// AllTopics 返回全部主题.
func AllTopics() []string {
	out := make([]string, 0, len(FileTopics)+len(BlobTopics))
	out = append(out, FileTopics...)

	return append(out, BlobTopics...)
}
