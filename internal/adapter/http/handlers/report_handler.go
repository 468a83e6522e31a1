package handlers

import (
	request "gestao_oficina/internal/adapter/http/dto/request"
	"gestao_oficina/internal/usecase"
	"gestao_oficina/pkg"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the dashboard report.
type ReportHandler struct {
	usecase usecase.IReportUseCase
	loc     *time.Location
}

// NewReportHandler parses query dates as calendar days in loc.
func NewReportHandler(uc usecase.IReportUseCase, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{usecase: uc, loc: loc}
}

// GetReport godoc
// @Summary      Dashboard report
// @Description  Both bounds are inclusive calendar days. Defaults to the last 30 days.
// @Tags         reports
// @Produce      json
// @Param        from  query     string  false  "First day (YYYY-MM-DD)"
// @Param        to    query     string  false  "Last day (YYYY-MM-DD)"
// @Success      200   {object}  reporting.Report
// @Failure      400   {object}  pkg.HTTPError
// @Security     Bearer
// @Router       /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	var q request.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}
	rng, err := q.ToRange(h.loc)
	if err != nil {
		respondAppError(c, pkg.NewDomainError("INVALID_REQUEST", err.Error(), err, http.StatusBadRequest))
		return
	}

	report, err := h.usecase.Generate(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
