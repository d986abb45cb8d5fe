package api_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/api"
	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/internal/types"
	"github.com/yeisme/sharevault/pkg/middleware"
	"github.com/yeisme/sharevault/pkg/token"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dir := t.TempDir()

	cfg := configs.Defaults()
	cfg.DB.Database = filepath.Join(dir, "meta")
	cfg.Blob.Local.Root = filepath.Join(dir, "files")
	cfg.Blob.Local.Fsync = false
	cfg.KV.Type = configs.KVTypeMemory
	cfg.Auth.Secret = "api-test-secret"

	prev := *configs.GetConfig()
	configs.SetConfig(cfg)
	t.Cleanup(func() { configs.SetConfig(prev) })

	mgr, err := storage.Init(context.Background(), &cfg, storage.WithoutMQ())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	tm, err := token.NewManager(cfg.Auth)
	require.NoError(t, err)

	return api.NewEngine(api.Options{Config: &cfg, Storage: mgr, Tokens: tm})
}

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	return w
}

func TestEndToEnd(t *testing.T) {
	e := newEngine(t)

	body, _ := json.Marshal(types.RegisterRequest{Username: "erin", Password: "erin-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := serve(e, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	var auth types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "data.csv")
	require.NoError(t, err)

	content := bytes.Repeat([]byte("a,b,c\n"), 200)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+auth.Token)

	w = serve(e, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec types.FileRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "csv", rec.Type)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	req.Header.Set("Accept-Encoding", "gzip")

	w = serve(e, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, readBody(t, w), `"name":"data.csv"`)

	// 下载不压缩，长度与存储一致
	req = httptest.NewRequest(http.MethodGet, "/api/v1/files/"+strconv.FormatUint(uint64(rec.FileID), 10), nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	req.Header.Set("Accept-Encoding", "gzip")

	w = serve(e, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, strconv.Itoa(len(content)), w.Header().Get("Content-Length"))
	assert.Equal(t, content, w.Body.Bytes())
}

// readBody 按 Content-Encoding 读取响应体.
func readBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	if w.Header().Get("Content-Encoding") != "gzip" {
		return w.Body.String()
	}

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)

	b, err := io.ReadAll(zr)
	require.NoError(t, err)

	return string(b)
}

func TestHealthWithoutToken(t *testing.T) {
	e := newEngine(t)

	w := serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/health/db", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(e, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
