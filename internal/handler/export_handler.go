package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/course-reg-api/internal/dto"
	"github.com/campusops/course-reg-api/internal/service"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
	"github.com/campusops/course-reg-api/pkg/response"
)

// ExportHandler serves timetable documents.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportWeek godoc
// @Summary Export the effective week schedule of a class
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class ID"
// @Param week query int true "Week number"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /classes/{id}/schedule/export [get]
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if query.Format == "" {
		query.Format = "csv"
	}

	result, err := h.exports.ExportWeek(c.Request.Context(), c.Param("id"), query.Week, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
