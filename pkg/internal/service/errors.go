package service

import (
	"errors"
	"fmt"
)

// 业务错误，handle 层统一映射为 HTTP 状态码.
var (
	ErrMissingFile    = errors.New("no file provided")
	ErrInvalidName    = errors.New("invalid file name")
	ErrDuplicateName  = errors.New("file with this name already exists")
	ErrTypeMismatch   = errors.New("file type must match original")
	ErrAccessDenied   = errors.New("access denied")
	ErrNotFound       = errors.New("file not found")
	ErrNotFoundOnDisk = errors.New("file not found on disk")
	ErrConflict       = errors.New("concurrent modification, retry")
	ErrStorageIO      = errors.New("storage error")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TypeMismatchError 替换时扩展名与原文件不同，Expected 为原文件类型.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("file type must match original (%s), got %q", e.Expected, e.Got)
}

// Is 使 errors.Is(err, ErrTypeMismatch) 成立.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// storageErr 把存储层错误包装为 ErrStorageIO，保留原始原因.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageIO, err)
}

// resultOf 返回指标中使用的结果标签.
func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotFoundOnDisk):
		return "not_found"
	case errors.Is(err, ErrAccessDenied):
		return "denied"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrStorageIO):
		return "storage_error"
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrDuplicateName), errors.Is(err, ErrTypeMismatch):
		return "invalid"
	default:
		return "error"
	}
}
