package handle_test

import (
	"bytes"
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
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/handle"
	"github.com/yeisme/sharevault/pkg/internal/storage"
	"github.com/yeisme/sharevault/pkg/internal/types"
	"github.com/yeisme/sharevault/pkg/middleware"
	"github.com/yeisme/sharevault/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	mgr    *storage.Manager
	tokens *token.Manager
}

// newServer 组装与生产一致的认证与存储中间件，存储位于临时目录.
func newServer(t *testing.T, maxBody int64) *server {
	t.Helper()

	dir := t.TempDir()

	cfg := configs.Defaults()
	cfg.DB.Database = filepath.Join(dir, "meta")
	cfg.Blob.Local.Root = filepath.Join(dir, "files")
	cfg.Blob.Local.Fsync = false
	cfg.KV.Type = configs.KVTypeMemory
	cfg.Auth.Secret = "handle-test-secret"

	prev := *configs.GetConfig()
	configs.SetConfig(cfg)
	t.Cleanup(func() { configs.SetConfig(prev) })

	mgr, err := storage.Init(context.Background(), &cfg, storage.WithoutMQ())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	tm, err := token.NewManager(cfg.Auth)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.StorageMiddleware(mgr), middleware.BodyLimitMiddleware(maxBody), middleware.AuthMiddleware(cfg.Auth, tm))

	api := r.Group("/api/v1")
	api.POST("/auth/register", handle.Register)
	api.POST("/auth/login", handle.Login)
	api.GET("/auth/validate", handle.Validate)
	api.GET("/files", handle.ListFiles)
	api.POST("/files", handle.UploadFile)
	api.GET("/files/:id", handle.GetFile)
	api.PUT("/files/:id", handle.ReplaceFile)
	api.DELETE("/files/:id", handle.DeleteFile)
	api.POST("/sync/compare", handle.SyncCompare)
	api.GET("/sync/files", handle.SyncFiles)
	api.GET("/health/db", handle.HealthDB)
	api.GET("/health/blob", handle.HealthBlob)
	api.GET("/health/kv", handle.HealthKV)
	api.GET("/health/mq", handle.HealthMQ)
	api.GET("/scheduler/jobs", handle.SchedulerJobs)

	return &server{t: t, engine: r, mgr: mgr, tokens: tm}
}

// token 为指定用户签发令牌.
func (s *server) token(userID uint, username string) string {
	s.t.Helper()

	raw, _, err := s.tokens.Issue(userID, username)
	require.NoError(s.t, err)

	return raw
}

func (s *server) do(req *http.Request, bearer string) *httptest.ResponseRecorder {
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w
}

func (s *server) get(path, bearer, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	return s.do(req, bearer)
}

func (s *server) postJSON(path, bearer string, body any) *httptest.ResponseRecorder {
	b, err := json.Marshal(body)
	require.NoError(s.t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, bearer)
}

// multipartFile 构造包含 file 字段的请求，filename 为空时不附带文件.
func (s *server) multipartFile(method, path, bearer, filename, content string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(s.t, err)

		_, err = io.WriteString(fw, content)
		require.NoError(s.t, err)
	} else {
		require.NoError(s.t, mw.WriteField("note", "no file"))
	}

	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return s.do(req, bearer)
}

// uploadFile 上传文件并返回响应中的记录.
func (s *server) uploadFile(bearer, filename, content string) types.FileRecord {
	s.t.Helper()

	w := s.multipartFile(http.MethodPost, "/api/v1/files", bearer, filename, content)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var rec types.FileRecord
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &rec))

	return rec
}

func filePath(id uint) string {
	return "/api/v1/files/" + strconv.FormatUint(uint64(id), 10)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}
