package router_test

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yeisme/sharevault/pkg/configs"
	"github.com/yeisme/sharevault/pkg/internal/router"
)

func TestRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)

	prev := *configs.GetConfig()
	t.Cleanup(func() { configs.SetConfig(prev) })

	cfg := configs.Defaults()
	cfg.Server.Debug = true
	configs.SetConfig(cfg)

	r := gin.New()
	router.Register(r)

	got := map[string]bool{}
	for _, ri := range r.Routes() {
		got[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /api/v1/files",
		"POST /api/v1/files",
		"GET /api/v1/files/:id",
		"PUT /api/v1/files/:id",
		"DELETE /api/v1/files/:id",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/validate",
		"POST /api/v1/sync/compare",
		"GET /api/v1/sync/files",
		"GET /api/v1/health/db",
		"GET /api/v1/health/blob",
		"GET /api/v1/health/kv",
		"GET /api/v1/health/mq",
		"GET /api/v1/scheduler/jobs",
		"POST /api/v1/scheduler/jobs/:name/run",
		"GET /swagger/*any",
	} {
		assert.True(t, got[want], want)
	}
}
