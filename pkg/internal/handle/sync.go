package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/internal/service"
	"github.com/yeisme/sharevault/pkg/internal/types"
)

// SyncCompare 对比客户端本地文件与工作区文件.
//
//	@Summary		同步对比
//	@Description	toUpload 为工作区中没有的本地文件，toDownload 为本地没有的工作区文件
//	@Tags			同步
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		types.CompareRequest	true	"本地文件名列表"
//	@Success		200		{object}	types.CompareResponse	"对比结果"
//	@Failure		400		{object}	types.ErrorResponse		"请求格式错误"
//	@Router			/api/v1/sync/compare [post]
func SyncCompare(c *gin.Context) {
	var req types.CompareRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := service.NewSyncService(c.Request.Context()).Compare(c.Request.Context(), req.LocalFiles)
	if err != nil {
		writeError(c, "sync compare", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SyncFiles 返回工作区全部文件，按上传顺序.
//
//	@Summary		同步文件列表
//	@Tags			同步
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		types.FileRecord	"文件列表"
//	@Failure		401	{object}	types.ErrorResponse	"未认证"
//	@Router			/api/v1/sync/files [get]
func SyncFiles(c *gin.Context) {
	recs, err := service.NewSyncService(c.Request.Context()).RemoteFiles(c.Request.Context())
	if err != nil {
		writeError(c, "sync files", err)
		return
	}

	c.JSON(http.StatusOK, types.NewFileRecords(recs))
}
