// Package handle 提供 HTTP 请求处理器，把请求转换为 service 调用并统一映射错误.
package handle

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/service"
	"github.com/yeisme/sharevault/pkg/internal/types"
	nlog "github.com/yeisme/sharevault/pkg/log"
	"github.com/yeisme/sharevault/pkg/rule"
)

// 错误响应中的 code 字段.
const (
	CodeBadRequest         = "BadRequest"
	CodeUnauthorized       = "Unauthorized"
	CodeMissingFile        = "MissingFile"
	CodeInvalidName        = "InvalidName"
	CodeDuplicateName      = "DuplicateName"
	CodeTypeMismatch       = "TypeMismatch"
	CodeAccessDenied       = "AccessDenied"
	CodeNotFound           = "NotFound"
	CodeNotFoundOnDisk     = "NotFoundOnDisk"
	CodeConflict           = "Conflict"
	CodeStorageIO          = "StorageIOError"
	CodeUsernameTaken      = "UsernameTaken"
	CodeInvalidCredentials = "InvalidCredentials"
	CodePayloadTooLarge    = "PayloadTooLarge"
	CodeUnavailable        = "Unavailable"
	CodeInternal           = "InternalError"
)

type errorMapping struct {
	target  error
	status  int
	message string
	code    string
}

var errorMappings = []errorMapping{
	{service.ErrMissingFile, http.StatusBadRequest, "No file provided", CodeMissingFile},
	{service.ErrInvalidName, http.StatusBadRequest, "Invalid file name", CodeInvalidName},
	{service.ErrDuplicateName, http.StatusBadRequest, "File with this name already exists", CodeDuplicateName},
	{service.ErrAccessDenied, http.StatusForbidden, "Access denied", CodeAccessDenied},
	{service.ErrNotFoundOnDisk, http.StatusNotFound, "File not found on disk", CodeNotFoundOnDisk},
	{service.ErrNotFound, http.StatusNotFound, "File not found", CodeNotFound},
	{service.ErrConflict, http.StatusConflict, "concurrent modification, retry", CodeConflict},
	{service.ErrUsernameTaken, http.StatusBadRequest, "Username already exists", CodeUsernameTaken},
	{service.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials", CodeInvalidCredentials},
	{service.ErrStorageIO, http.StatusInternalServerError, "storage error", CodeStorageIO},
}

// errorResponse 把错误映射为状态码与响应体，未知错误视为 500.
func errorResponse(err error) (int, types.ErrorResponse) {
	var tm *service.TypeMismatchError
	if errors.As(err, &tm) {
		return http.StatusBadRequest, types.ErrorResponse{
			Error: "File type must match original (" + tm.Expected + ")",
			Code:  CodeTypeMismatch,
		}
	}

	if isTooLarge(err) {
		return http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "request body too large", Code: CodePayloadTooLarge}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, types.ErrorResponse{Error: m.message, Code: m.code}
		}
	}

	return http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error", Code: CodeInternal}
}

// writeError 写出错误响应.客户端错误记 Warn，服务端错误记 Error.
func writeError(c *gin.Context, op string, err error) {
	status, body := errorResponse(err)

	l := ctxPkg.WithTraceContext(c.Request.Context(), nlog.Component("http"))

	ev := l.Warn()
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	}

	ev.Err(err).Str("op", op).Int("status", status).Str("code", body.Code).Msg("request failed")

	c.AbortWithStatusJSON(status, body)
}

// badRequest 请求格式或参数校验失败.
func badRequest(c *gin.Context, err error) {
	msg := err.Error()
	if verrs := rule.Errors(err); len(verrs) > 0 {
		msg = verrs.String()
	}

	l := ctxPkg.WithTraceContext(c.Request.Context(), nlog.Component("http"))
	l.Warn().Err(err).Msg("invalid request")

	c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{Error: msg, Code: CodeBadRequest})
}

// bindJSON 解析 JSON 请求体并执行 rule 校验，失败时已写出响应.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if isTooLarge(err) {
			writeError(c, "bind", err)
			return false
		}

		badRequest(c, err)

		return false
	}

	if err := rule.ValidateStruct(req); err != nil {
		badRequest(c, err)
		return false
	}

	return true
}

// identity 返回认证中间件注入的身份，缺失时写出 401.
func identity(c *gin.Context) (ctxPkg.Identity, bool) {
	id, ok := ctxPkg.GetIdentity(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Error: "Authentication required", Code: CodeUnauthorized})
		return ctxPkg.Identity{}, false
	}

	return id, true
}

// fileID 解析路径参数 id，非法时按文件不存在处理.
func fileID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(c, "parse id", service.ErrNotFound)
		return 0, false
	}

	return uint(id), true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}

	// multipart 解析可能丢失错误链
	return err != nil && strings.Contains(err.Error(), "http: request body too large")
}
