package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeisme/sharevault/pkg/internal/service"
)

func TestDeriveType(t *testing.T) {
	cases := map[string]string{
		"report.pdf":     "pdf",
		"Photo.JPG":      "jpg",
		"archive.tar.gz": "gz",
		"Makefile":       "",
		"trailing.":      "",
		".bashrc":        "bashrc",
		"":               "",
	}

	for name, want := range cases {
		assert.Equal(t, want, service.DeriveType(name), name)
	}
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"a.txt":              "a.txt",
		"dir/a.txt":          "a.txt",
		`C:\Users\me\a.txt`:  "a.txt",
		"mixed/path\\b.md":   "b.md",
		"dir/":               "",
		"/abs/path/file.bin": "file.bin",
	}

	for in, want := range cases {
		assert.Equal(t, want, service.BaseName(in), in)
	}
}
