package handle_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/internal/handle"
	"github.com/yeisme/sharevault/pkg/internal/storage/blob"
	"github.com/yeisme/sharevault/pkg/internal/types"
)

func TestUploadDownloadRoundTrip(t *testing.T) {
	s := newServer(t, 0)
	alice := s.token(1, "alice")

	rec := s.uploadFile(alice, "report.PDF", "%PDF-1.7 content")
	assert.Equal(t, "report.PDF", rec.Name)
	assert.Equal(t, "pdf", rec.Type)
	assert.Equal(t, int64(len("%PDF-1.7 content")), rec.Size)
	assert.Equal(t, uint(1), rec.UploaderID)
	assert.Equal(t, "alice", rec.UploaderName)
	assert.Equal(t, "alice", rec.EditorName)

	// 任何身份都可以下载
	bob := s.token(2, "bob")
	w := s.get(filePath(rec.FileID), bob, "*/*")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.7 content", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename=report.PDF`)
	assert.Equal(t, strconv.Itoa(len("%PDF-1.7 content")), w.Header().Get("Content-Length"))

	w = s.get(filePath(rec.FileID), bob, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	meta := decode[types.FileRecord](t, w)
	assert.Equal(t, rec.FileID, meta.FileID)
	assert.Equal(t, rec.Name, meta.Name)
}

func TestUploadErrors(t *testing.T) {
	s := newServer(t, 0)
	alice := s.token(1, "alice")

	s.uploadFile(alice, "notes.txt", "v1")

	w := s.multipartFile(http.MethodPost, "/api/v1/files", alice, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handle.CodeMissingFile, decode[types.ErrorResponse](t, w).Code)

	w = s.multipartFile(http.MethodPost, "/api/v1/files", alice, "notes.txt", "other bytes")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[types.ErrorResponse](t, w)
	assert.Equal(t, "File with this name already exists", body.Error)
	assert.Equal(t, handle.CodeDuplicateName, body.Code)

	// 路径分隔符被去掉后与已有文件同名
	w = s.multipartFile(http.MethodPost, "/api/v1/files", alice, "dir/notes.txt", "x")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.multipartFile(http.MethodPost, "/api/v1/files", "", "other.txt", "x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	s := newServer(t, 64)
	alice := s.token(1, "alice")

	w := s.multipartFile(http.MethodPost, "/api/v1/files", alice, "big.bin", strings.Repeat("x", 1024))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestReplaceFile(t *testing.T) {
	s := newServer(t, 0)
	alice := s.token(1, "alice")
	bob := s.token(2, "bob")

	rec := s.uploadFile(alice, "main.cpp", "int main() {}")

	tests := []struct {
		name       string
		id         uint
		bearer     string
		filename   string
		wantStatus int
		wantCode   string
	}{
		{"not found", rec.FileID + 100, alice, "main.cpp", http.StatusNotFound, handle.CodeNotFound},
		{"not owner", rec.FileID, bob, "main.cpp", http.StatusForbidden, handle.CodeAccessDenied},
		{"not owner without file", rec.FileID, bob, "", http.StatusForbidden, handle.CodeAccessDenied},
		{"missing file", rec.FileID, alice, "", http.StatusBadRequest, handle.CodeMissingFile},
		{"type mismatch", rec.FileID, alice, "main.py", http.StatusBadRequest, handle.CodeTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.multipartFile(http.MethodPut, filePath(tt.id), tt.bearer, tt.filename, "print()")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode[types.ErrorResponse](t, w).Code)
		})
	}

	w := s.multipartFile(http.MethodPut, filePath(rec.FileID), alice, "main.py", "print()")
	assert.Equal(t, "File type must match original (cpp)", decode[types.ErrorResponse](t, w).Error)

	w = s.multipartFile(http.MethodPut, filePath(rec.FileID), alice, "renamed.cpp", "int main() { return 1; }")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[types.FileRecord](t, w)
	assert.Equal(t, "main.cpp", updated.Name)
	assert.Equal(t, int64(len("int main() { return 1; }")), updated.Size)

	w = s.get(filePath(rec.FileID), alice, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "int main() { return 1; }", w.Body.String())
}

func TestDeleteFile(t *testing.T) {
	s := newServer(t, 0)
	alice := s.token(1, "alice")
	bob := s.token(2, "bob")

	rec := s.uploadFile(alice, "a.txt", "a")

	del := func(bearer string) int {
		req := httptest.NewRequest(http.MethodDelete, filePath(rec.FileID), nil)
		return s.do(req, bearer).Code
	}

	assert.Equal(t, http.StatusForbidden, del(bob))
	assert.Equal(t, http.StatusNoContent, del(alice))
	assert.Equal(t, http.StatusNotFound, del(alice))

	w := s.get(filePath(rec.FileID), alice, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, handle.CodeNotFound, decode[types.ErrorResponse](t, w).Code)
}

func TestDownloadMissingBlob(t *testing.T) {
	s := newServer(t, 0)
	alice := s.token(1, "alice")

	rec := s.uploadFile(alice, "gone.txt", "bytes")

	local, ok := s.mgr.Blob.(*blob.Local)
	require.True(t, ok)
	require.NoError(t, os.Remove(filepath.Join(local.Root(), filepath.FromSlash(rec.FilePath))))

	w := s.get(filePath(rec.FileID), alice, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := decode[types.ErrorResponse](t, w)
	assert.Equal(t, "File not found on disk", body.Error)
	assert.Equal(t, handle.CodeNotFoundOnDisk, body.Code)

	// 元数据仍可查询
	w = s.get(filePath(rec.FileID), alice, "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidFileID(t *testing.T) {
	s := newServer(t, 0)
	alice := s.token(1, "alice")

	w := s.get("/api/v1/files/abc", alice, "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListFiles(t *testing.T) {
	s := newServer(t, 0)
	alice := s.token(1, "alice")
	bob := s.token(2, "bob")

	w := s.get("/api/v1/files", alice, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	s.uploadFile(alice, "zebra.cpp", "z")
	s.uploadFile(bob, "alpha.png", "a")
	s.uploadFile(alice, "middle.txt", "m")

	names := func(path string) []string {
		w := s.get(path, alice, "")
		require.Equal(t, http.StatusOK, w.Code)

		recs := decode[[]types.FileRecord](t, w)

		out := make([]string, 0, len(recs))
		for _, r := range recs {
			out = append(out, r.Name)
		}

		return out
	}

	assert.Equal(t, []string{"alpha.png", "zebra.cpp"}, names("/api/v1/files?types=cpp&types=png&ascending=true"))
	assert.Equal(t, []string{"zebra.cpp", "middle.txt", "alpha.png"}, names("/api/v1/files?ascending=false"))
	assert.Equal(t, []string{"zebra.cpp", "alpha.png", "middle.txt"}, names("/api/v1/files"))
	assert.Equal(t, []string{"zebra.cpp", "alpha.png", "middle.txt"}, names("/api/v1/files?ascending=maybe"))
	assert.Empty(t, names("/api/v1/files?types=gif"))

	w = s.get("/api/v1/files", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
