package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/course-reg-api/internal/dto"
	"github.com/campusops/course-reg-api/internal/models"
	"github.com/campusops/course-reg-api/internal/service"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
	"github.com/campusops/course-reg-api/pkg/response"
)

type classCodeReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// RoomHandler exposes room availability for the slot editor.
type RoomHandler struct {
	rooms   *service.RoomService
	classes classCodeReader
}

// NewRoomHandler constructs the handler.
func NewRoomHandler(rooms *service.RoomService, classes classCodeReader) *RoomHandler {
	return &RoomHandler{rooms: rooms, classes: classes}
}

// Availability godoc
// @Summary List room availability at a timetable coordinate
// @Description Partitions the catalog into free and taken rooms for (week, day, period). Omitting week checks every week. classId marks the editing class whose own bookings stay available.
// @Tags Rooms
// @Produce json
// @Param week query int false "Week number, omit for all weeks"
// @Param day query int true "Day 1..6"
// @Param period query int true "Period 1..12"
// @Param classId query string false "Class being edited"
// @Success 200 {object} response.Envelope
// @Router /rooms/availability [get]
func (h *RoomHandler) Availability(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.RoomAvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability query"))
		return
	}

	ownClassCode := ""
	if query.ClassID != "" {
		class, err := h.classes.FindByID(c.Request.Context(), query.ClassID)
		if err == nil {
			ownClassCode = class.Code
		}
	}

	availability, err := h.rooms.ListAvailability(c.Request.Context(), claims.UserID, ownClassCode, query.Week, query.Day, query.Period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availability, nil)
}
