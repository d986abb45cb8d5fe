package service

import (
	"strings"

	"github.com/yeisme/sharevault/pkg/rule"
)

// DeriveType 返回文件名最后一个 "." 之后的小写部分，没有 "." 时返回空串.
func DeriveType(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}

	return strings.ToLower(name[i+1:])
}

// BaseName 去掉客户端可能携带的目录部分（"/" 与 "\" 均视为分隔符）.
func BaseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// normalizeName 取基础名并校验，非法时返回 ErrInvalidName.
func normalizeName(name string) (string, error) {
	base := BaseName(name)
	if !rule.IsValidFileName(base) {
		return "", ErrInvalidName
	}

	return base, nil
}
