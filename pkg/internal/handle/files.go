package handle

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/sharevault/pkg/internal/service"
	"github.com/yeisme/sharevault/pkg/internal/types"
)

// formFileField multipart 表单中文件字段名.
const formFileField = "file"

// ListFiles 列出工作区中的文件.
//
//	@Summary		列出文件
//	@Description	列出整个工作区的文件，可按类型过滤并按名称排序；ascending 缺省或非 true/false 时按上传顺序返回
//	@Tags			文件
//	@Produce		json
//	@Security		BearerAuth
//	@Param			types		query		[]string			false	"文件类型（扩展名，不含点），可重复"	collectionFormat(multi)
//	@Param			ascending	query		string				false	"true 升序，false 降序"
//	@Success		200			{array}		types.FileRecord	"文件列表"
//	@Failure		401			{object}	types.ErrorResponse	"未认证"
//	@Failure		500			{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/v1/files [get]
func ListFiles(c *gin.Context) {
	var q types.ListFilesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	recs, err := service.NewListService(c.Request.Context()).List(c.Request.Context(), service.ListQuery{
		Types: q.Types,
		Order: parseOrder(q.Ascending),
	})
	if err != nil {
		writeError(c, "list", err)
		return
	}

	c.JSON(http.StatusOK, types.NewFileRecords(recs))
}

// parseOrder 只识别 true 与 false.
func parseOrder(ascending string) service.Order {
	switch strings.TrimSpace(ascending) {
	case "true":
		return service.OrderAscending
	case "false":
		return service.OrderDescending
	default:
		return service.OrderNone
	}
}

// UploadFile 上传新文件.
//
//	@Summary		上传文件
//	@Description	上传新文件到工作区，文件名在工作区内唯一
//	@Tags			文件
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file				true	"上传的文件"
//	@Success		201		{object}	types.FileRecord	"新建的文件"
//	@Failure		400		{object}	types.ErrorResponse	"未提供文件、文件名非法或重名"
//	@Failure		401		{object}	types.ErrorResponse	"未认证"
//	@Failure		409		{object}	types.ErrorResponse	"并发冲突"
//	@Failure		413		{object}	types.ErrorResponse	"文件过大"
//	@Failure		500		{object}	types.ErrorResponse	"存储错误"
//	@Router			/api/v1/files [post]
func UploadFile(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	up, closeFn, err := formUpload(c)
	if err != nil {
		writeError(c, "upload", err)
		return
	}
	defer closeFn()

	rec, err := service.NewFileService(c.Request.Context()).Upload(c.Request.Context(), who, up)
	if err != nil {
		writeError(c, "upload", err)
		return
	}

	c.JSON(http.StatusCreated, types.NewFileRecord(rec))
}

// GetFile 下载文件或返回元数据.
// Accept 包含 application/json 时返回元数据，否则以附件形式返回文件内容.
//
//	@Summary		下载文件或获取元数据
//	@Description	Accept 包含 application/json 时返回文件元数据，否则返回文件内容（Content-Disposition: attachment）
//	@Tags			文件
//	@Produce		json,octet-stream
//	@Security		BearerAuth
//	@Param			id	path		int					true	"文件 ID"
//	@Success		200	{object}	types.FileRecord	"文件元数据或文件内容"
//	@Failure		401	{object}	types.ErrorResponse	"未认证"
//	@Failure		404	{object}	types.ErrorResponse	"文件不存在"
//	@Failure		500	{object}	types.ErrorResponse	"存储错误"
//	@Router			/api/v1/files/{id} [get]
func GetFile(c *gin.Context) {
	id, ok := fileID(c)
	if !ok {
		return
	}

	if wantsJSON(c) {
		getMetadata(c, id)
		return
	}

	download(c, id)
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "application/json")
}

func getMetadata(c *gin.Context, id uint) {
	rec, err := service.NewFileService(c.Request.Context()).GetMetadata(c.Request.Context(), id)
	if err != nil {
		writeError(c, "metadata", err)
		return
	}

	c.JSON(http.StatusOK, types.NewFileRecord(rec))
}

func download(c *gin.Context, id uint) {
	fc, err := service.NewFileService(c.Request.Context()).Download(c.Request.Context(), id)
	if err != nil {
		writeError(c, "download", err)
		return
	}
	defer fc.Content.Close()

	c.DataFromReader(http.StatusOK, fc.Size, contentType(fc.Record.Name), fc.Content, map[string]string{
		"Content-Disposition": attachment(fc.Record.Name),
	})
}

// attachment 生成 Content-Disposition，非 ASCII 文件名按 RFC 2231 编码.
func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}

	return "attachment"
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}

	return "application/octet-stream"
}

// ReplaceFile 替换文件内容.
//
//	@Summary		替换文件内容
//	@Description	只有上传者可以替换；新文件扩展名必须与原文件一致，文件名保持不变
//	@Tags			文件
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int					true	"文件 ID"
//	@Param			file	formData	file				true	"新的文件内容"
//	@Success		200		{object}	types.FileRecord	"更新后的文件"
//	@Failure		400		{object}	types.ErrorResponse	"未提供文件或类型不一致"
//	@Failure		403		{object}	types.ErrorResponse	"不是上传者"
//	@Failure		404		{object}	types.ErrorResponse	"文件不存在"
//	@Failure		409		{object}	types.ErrorResponse	"并发冲突"
//	@Failure		413		{object}	types.ErrorResponse	"文件过大"
//	@Router			/api/v1/files/{id} [put]
func ReplaceFile(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	id, ok := fileID(c)
	if !ok {
		return
	}

	// 缺少文件时仍交给 service，保证 NotFound 与 AccessDenied 优先
	up, closeFn, err := formUpload(c)
	if err != nil && !errors.Is(err, service.ErrMissingFile) {
		writeError(c, "replace", err)
		return
	}
	defer closeFn()

	rec, err := service.NewFileService(c.Request.Context()).Replace(c.Request.Context(), who, id, up)
	if err != nil {
		writeError(c, "replace", err)
		return
	}

	c.JSON(http.StatusOK, types.NewFileRecord(rec))
}

// DeleteFile 删除文件.
//
//	@Summary		删除文件
//	@Description	只有上传者可以删除，同时删除元数据与文件内容
//	@Tags			文件
//	@Security		BearerAuth
//	@Param			id	path	int	true	"文件 ID"
//	@Success		204	"删除成功"
//	@Failure		403	{object}	types.ErrorResponse	"不是上传者"
//	@Failure		404	{object}	types.ErrorResponse	"文件不存在"
//	@Failure		409	{object}	types.ErrorResponse	"并发冲突"
//	@Router			/api/v1/files/{id} [delete]
func DeleteFile(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	id, ok := fileID(c)
	if !ok {
		return
	}

	if err := service.NewFileService(c.Request.Context()).Delete(c.Request.Context(), who, id); err != nil {
		writeError(c, "delete", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// formUpload 读取 multipart 中的 file 字段.未提供文件时返回 ErrMissingFile 与 nil Upload.
// 返回的 close 函数总是可以调用.
func formUpload(c *gin.Context) (*service.Upload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(formFileField)
	if err != nil {
		if isTooLarge(err) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, noop, &http.MaxBytesError{Limit: c.Request.ContentLength}
		}

		return nil, noop, service.ErrMissingFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, service.ErrMissingFile
	}

	return &service.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
