package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusops/course-reg-api/internal/dto"
	"github.com/campusops/course-reg-api/internal/models"
	"github.com/campusops/course-reg-api/internal/service"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
	"github.com/campusops/course-reg-api/pkg/response"
)

// ScheduleBuilderHandler exposes the recurring schedule editor endpoints.
type ScheduleBuilderHandler struct {
	builder  *service.BuilderService
	overlays *service.OverlayService
	drafts   *service.BuilderDraftStore
	validate *validator.Validate
}

// NewScheduleBuilderHandler constructs the handler.
func NewScheduleBuilderHandler(builder *service.BuilderService, overlays *service.OverlayService, drafts *service.BuilderDraftStore) *ScheduleBuilderHandler {
	return &ScheduleBuilderHandler{builder: builder, overlays: overlays, drafts: drafts, validate: validator.New()}
}

func builderDraftResponse(entry *service.BuilderDraftEntry) dto.BuilderDraftResponse {
	draft := entry.Draft
	return dto.BuilderDraftResponse{
		DraftID:         entry.ID,
		SelectedWeeks:   draft.SelectedWeeks,
		Pattern:         draft.Pattern,
		WeeksRequired:   draft.Program.NumberOfWeek,
		PeriodsRequired: draft.Program.PeriodPerWeek,
		WeekRange:       [2]int{draft.Program.StartWeek, draft.Program.EndWeek},
		ReadyToSubmit:   draft.CanSubmit(),
	}
}

// Draft godoc
// @Summary Edit a recurring schedule draft
// @Description Opens a draft or applies one add/remove week or pattern slot action to it.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.BuilderDraftRequest true "Draft action"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/schedule/draft [post]
func (h *ScheduleBuilderHandler) Draft(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.BuilderDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	if req.Op == "open" {
		draft, err := h.builder.NewDraft(c.Request.Context(), claims.UserID, claims.Name, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		entry := h.drafts.Put(claims.UserID, draft)
		response.JSON(c, http.StatusOK, builderDraftResponse(entry), nil)
		return
	}

	entry := h.drafts.Get(req.DraftID, claims.UserID)
	if entry == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired"))
		return
	}

	var err error
	switch req.Op {
	case "add_week":
		err = h.builder.AddWeek(c.Request.Context(), entry.Draft, req.Week)
	case "remove_week":
		err = h.builder.RemoveWeek(entry.Draft, req.Week)
	case "add_slot":
		if req.Slot == nil {
			err = appErrors.Clone(appErrors.ErrValidation, "slot is required")
			break
		}
		err = h.builder.AddPatternSlot(c.Request.Context(), entry.Draft, models.PatternSlot{
			Day:    req.Slot.Day,
			Period: req.Slot.Period,
			Room:   req.Slot.Room,
			Mode:   models.SessionMode(req.Slot.Mode),
		})
	case "remove_slot":
		if req.Slot == nil {
			err = appErrors.Clone(appErrors.ErrValidation, "slot is required")
			break
		}
		err = h.builder.RemovePatternSlot(entry.Draft, req.Slot.Day, req.Slot.Period)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, builderDraftResponse(entry), nil)
}

// Submit godoc
// @Summary Submit a recurring schedule draft
// @Description Expands the weekly pattern across the selected weeks and replaces the class schedule.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.SubmitScheduleRequest true "Submit payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/schedule [post]
func (h *ScheduleBuilderHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submit payload"))
		return
	}
	entry := h.drafts.Get(req.DraftID, claims.UserID)
	if entry == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired"))
		return
	}
	rows, err := h.builder.Submit(c.Request.Context(), entry.Draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.drafts.Delete(entry.ID)
	response.Created(c, rows)
}

// EffectiveSchedule godoc
// @Summary Get the effective schedule of a class for one week
// @Tags Schedule
// @Produce json
// @Param id path string true "Class ID"
// @Param week query int true "Week number"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/schedule [get]
func (h *ScheduleBuilderHandler) EffectiveSchedule(c *gin.Context) {
	week, err := strconv.Atoi(c.Query("week"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "week must be an integer"))
		return
	}
	slots, err := h.overlays.EffectiveSchedule(c.Request.Context(), c.Param("id"), week, nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
