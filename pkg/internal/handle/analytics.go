package handle

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sloopymg1/ghana-creative-platform/pkg/internal/service"
)

// Dashboard 后台概览统计.
//
//	@Summary		统计概览
//	@Tags			统计
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	types.DashboardStats
//	@Failure		403	{object}	types.ErrorResponse
//	@Router			/api/v1/analytics/dashboard [get]
func Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	st, err := service.NewAnalyticsService(ctx).Dashboard(ctx, subject(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}

// Export 导出 CSV.
//
//	@Summary		导出数据
//	@Tags			统计
//	@Produce		text/csv
//	@Security		BearerAuth
//	@Param			type	query		string	true	"users | content | audit"
//	@Success		200		{file}		file
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		403		{object}	types.ErrorResponse
//	@Router			/api/v1/analytics/export [get]
func Export(c *gin.Context) {
	ctx := c.Request.Context()

	var buf bytes.Buffer

	name, err := service.NewAnalyticsService(ctx).Export(ctx, subject(c), c.Query("type"), &buf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
