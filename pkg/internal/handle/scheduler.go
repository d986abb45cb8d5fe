package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/sharevault/pkg/context"
	"github.com/yeisme/sharevault/pkg/internal/types"
	"github.com/yeisme/sharevault/pkg/scheduler"
)

func getScheduler(c *gin.Context) (*scheduler.Scheduler, bool) {
	sched := ctxPkg.GetScheduler(c.Request.Context())
	if sched == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "scheduler disabled", Code: CodeUnavailable})
		return nil, false
	}

	return sched, true
}

// SchedulerJobs 返回所有调度器任务信息.
//
//	@Summary	列出定时任务
//	@Tags		调度
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string][]scheduler.JobInfo
//	@Failure	503	{object}	types.ErrorResponse	"调度器未启用"
//	@Router		/api/v1/scheduler/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched, ok := getScheduler(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.GetJobInfos()})
}

// SchedulerRunJob 立即执行指定任务并返回结果.
//
//	@Summary	立即执行定时任务
//	@Tags		调度
//	@Produce	json
//	@Security	BearerAuth
//	@Param		name	path		string	true	"任务名"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	types.ErrorResponse	"任务不存在"
//	@Failure	409		{object}	types.ErrorResponse	"任务正在执行"
//	@Failure	500		{object}	types.ErrorResponse	"任务执行失败"
//	@Router		/api/v1/scheduler/jobs/{name}/run [post]
func SchedulerRunJob(c *gin.Context) {
	sched, ok := getScheduler(c)
	if !ok {
		return
	}

	name := c.Param("name")

	result, err := sched.RunNow(c.Request.Context(), name)

	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, types.ErrorResponse{Error: "job not found", Code: CodeNotFound})
	case errors.Is(err, scheduler.ErrJobRunning):
		c.AbortWithStatusJSON(http.StatusConflict, types.ErrorResponse{Error: "job already running", Code: CodeConflict})
	case err != nil:
		writeError(c, "run job "+name, err)
	default:
		c.JSON(http.StatusOK, gin.H{"job": name, "result": result})
	}
}
