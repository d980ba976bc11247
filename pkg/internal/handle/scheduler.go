package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/types"
	"github.com/sloopymg1/ghana-creative-platform/pkg/middleware"
)

// SchedulerJobs 返回所有定时任务的运行状态.
//
//	@Summary	定时任务列表
//	@Tags		定时任务
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string][]scheduler.JobInfo
//	@Router		/api/v1/scheduler/jobs [get]
func SchedulerJobs(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "scheduler not running"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": sched.GetJobInfos()})
}

// SchedulerRunJob 立即执行一次指定任务.
//
//	@Summary	手动触发任务
//	@Tags		定时任务
//	@Produce	json
//	@Security	BearerAuth
//	@Param		name	path		string	true	"任务名称"
//	@Success	202		{object}	scheduler.JobInfo
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/v1/scheduler/jobs/{name}/run [post]
func SchedulerRunJob(c *gin.Context) {
	sched := middleware.GetScheduler(c)
	if sched == nil {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "scheduler not running"})
		return
	}

	name := c.Param("name")
	if err := sched.RunNow(name); err != nil {
		respondError(c, err)
		return
	}

	info, err := sched.GetJobInfoByName(name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, info)
}
