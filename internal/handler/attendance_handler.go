package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusops/course-reg-api/internal/models"
	"github.com/campusops/course-reg-api/internal/service"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
	"github.com/campusops/course-reg-api/pkg/response"
)

// AttendanceHandler exposes derived week attendance.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// WeekAttendance godoc
// @Summary Report whether a student attended a class week
// @Description Derives week attendance from per-session marks under the configured policy. Students may only query themselves.
// @Tags Attendance
// @Produce json
// @Param id path string true "Class ID"
// @Param week query int true "Week number"
// @Param studentId query string false "Student user ID, defaults to the caller"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/attendance/week [get]
func (h *AttendanceHandler) WeekAttendance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	week, err := strconv.Atoi(c.Query("week"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "week must be an integer"))
		return
	}
	studentID := c.Query("studentId")
	if studentID == "" {
		studentID = claims.UserID
	}
	if claims.Role == models.RoleStudent && studentID != claims.UserID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "students may only query their own attendance"))
		return
	}

	attended, err := h.attendance.WeekAttended(c.Request.Context(), c.Param("id"), studentID, week)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"week":     week,
		"attended": attended,
		"policy":   h.attendance.Policy(),
	}, nil)
}
