package handle_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/internal/handle"
	"github.com/yeisme/sharevault/pkg/middleware"
	"github.com/yeisme/sharevault/pkg/scheduler"
)

func TestSchedulerRunJob(t *testing.T) {
	sched, err := scheduler.NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	runs := 0
	require.NoError(t, sched.AddCron(context.Background(), "count", "0 0 1 1 *", func(context.Context) (any, error) {
		runs++
		return map[string]int{"runs": runs}, nil
	}))

	r := gin.New()
	r.Use(middleware.SchedulerMiddleware(sched))
	r.GET("/scheduler/jobs", handle.SchedulerJobs)
	r.POST("/scheduler/jobs/:name/run", handle.SchedulerRunJob)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scheduler/jobs/count/run", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"job":"count","result":{"runs":1}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scheduler/jobs/missing/run", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scheduler/jobs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"count"`)
	assert.Contains(t, w.Body.String(), `"run_count":1`)
}
