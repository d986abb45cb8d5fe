package types

// CompareRequest 客户端本地文件名列表.
type CompareRequest struct {
	LocalFiles []string `json:"localFiles"`
}

// CompareResponse 需要上传与需要下载的文件名.
type CompareResponse struct {
	ToUpload   []string `json:"toUpload"`
	ToDownload []string `json:"toDownload"`
}

// ReconcileReport 一次对账的结果.
type ReconcileReport struct {
	Scanned int `json:"scanned"` // 遍历到的存储对象数
	Orphans int `json:"orphans"` // 没有元数据的对象数
	Removed int `json:"removed"` // 已删除的孤儿对象数
	Missing int `json:"missing"` // 元数据存在但对象缺失的文件数
}

// HealthResponse 组件健康状态.
type HealthResponse struct {
	Component string `json:"component"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}
