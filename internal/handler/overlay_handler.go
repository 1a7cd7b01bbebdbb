package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusops/course-reg-api/internal/dto"
	"github.com/campusops/course-reg-api/internal/models"
	"github.com/campusops/course-reg-api/internal/service"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
	"github.com/campusops/course-reg-api/pkg/response"
)

// OverlayHandler exposes the makeup/cancellation editor endpoints.
type OverlayHandler struct {
	overlays *service.OverlayService
	drafts   *service.OverlayDraftStore
	validate *validator.Validate
}

// NewOverlayHandler constructs the handler.
func NewOverlayHandler(overlays *service.OverlayService, drafts *service.OverlayDraftStore) *OverlayHandler {
	return &OverlayHandler{overlays: overlays, drafts: drafts, validate: validator.New()}
}

func (h *OverlayHandler) draftResponse(c *gin.Context, entry *service.OverlayDraftEntry) {
	effective, err := h.overlays.EffectiveSchedule(c.Request.Context(), entry.Draft.ClassID, entry.Draft.Week, entry.Draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.OverlayDraftResponse{
		DraftID:   entry.ID,
		Week:      entry.Draft.Week,
		Version:   entry.Version,
		Records:   entry.Draft.Records,
		Effective: effective,
	}, nil)
}

// Draft godoc
// @Summary Edit a makeup/cancellation draft
// @Description Opens a week draft or applies one slot transition (add makeup, cancel, restore, remove makeup).
// @Tags Makeup
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.OverlayDraftRequest true "Draft action"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/makeup/draft [post]
func (h *OverlayHandler) Draft(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.OverlayDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	if req.Op == "open" {
		draft, version, err := h.overlays.NewDraft(c.Request.Context(), claims.UserID, c.Param("id"), req.Week)
		if err != nil {
			response.Error(c, err)
			return
		}
		entry := h.drafts.Put(claims.UserID, draft, version)
		h.draftResponse(c, entry)
		return
	}

	entry := h.drafts.Get(req.DraftID, claims.UserID)
	if entry == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired"))
		return
	}

	var err error
	switch req.Op {
	case "add_makeup":
		err = h.overlays.AddMakeup(c.Request.Context(), claims.UserID, entry.Draft, req.Day, req.Period, req.Room, models.SessionMode(req.Mode))
	case "cancel":
		err = h.overlays.CancelSession(c.Request.Context(), entry.Draft, req.Day, req.Period)
	case "restore":
		err = h.overlays.RestoreSession(entry.Draft, req.Day, req.Period)
	case "remove_makeup":
		err = h.overlays.RemoveMakeup(entry.Draft, req.Day, req.Period)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	h.draftResponse(c, entry)
}

// Save godoc
// @Summary Save a makeup/cancellation draft
// @Description Persists the delta between the draft and the stored exception set and notifies enrolled students.
// @Tags Makeup
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.SaveOverlayRequest true "Save payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /classes/{id}/makeup [post]
func (h *OverlayHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SaveOverlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	entry := h.drafts.Get(req.DraftID, claims.UserID)
	if entry == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "draft not found or expired"))
		return
	}
	result, err := h.overlays.Save(c.Request.Context(), claims.UserID, entry.Draft, entry.Version)
	if err != nil {
		// The draft survives save failures so the tutor can re-open and retry.
		response.Error(c, err)
		return
	}
	h.drafts.Delete(entry.ID)
	response.JSON(c, http.StatusOK, result, nil)
}
