package dto

import (
	"github.com/campusops/course-reg-api/internal/models"
)

// BuilderDraftRequest is one editing action on a recurring schedule draft.
// "open" creates the draft; every other op mutates an existing one.
type BuilderDraftRequest struct {
	Op      string              `json:"op" validate:"required,oneof=open add_week remove_week add_slot remove_slot"`
	DraftID string              `json:"draftId" validate:"required_unless=Op open"`
	Week    int                 `json:"week" validate:"omitempty,min=1"`
	Slot    *PatternSlotPayload `json:"slot" validate:"omitempty,dive"`
}

// PatternSlotPayload is one weekly slot in a builder request.
type PatternSlotPayload struct {
	Day    int    `json:"day" validate:"required,min=1,max=6"`
	Period int    `json:"period" validate:"required,min=1,max=12"`
	Room   string `json:"room"`
	Mode   string `json:"mode" validate:"required,oneof=ONLINE OFFLINE"`
}

// BuilderDraftResponse reflects the draft state after an action.
type BuilderDraftResponse struct {
	DraftID         string               `json:"draftId"`
	SelectedWeeks   []int                `json:"selectedWeeks"`
	Pattern         []models.PatternSlot `json:"pattern"`
	WeeksRequired   int                  `json:"weeksRequired"`
	PeriodsRequired int                  `json:"periodsRequired"`
	WeekRange       [2]int               `json:"weekRange"`
	ReadyToSubmit   bool                 `json:"readyToSubmit"`
}

// SubmitScheduleRequest commits a builder draft.
type SubmitScheduleRequest struct {
	DraftID string `json:"draftId" validate:"required"`
}

// OverlayDraftRequest is one slot-click action on a makeup/cancellation draft.
type OverlayDraftRequest struct {
	Op      string `json:"op" validate:"required,oneof=open add_makeup cancel restore remove_makeup"`
	DraftID string `json:"draftId" validate:"required_unless=Op open"`
	Week    int    `json:"week" validate:"required_if=Op open,omitempty,min=1"`
	Day     int    `json:"day" validate:"omitempty,min=1,max=6"`
	Period  int    `json:"period" validate:"omitempty,min=1,max=12"`
	Room    string `json:"room"`
	Mode    string `json:"mode" validate:"omitempty,oneof=ONLINE OFFLINE"`
}

// OverlayDraftResponse reflects the draft and the effective schedule preview
// after an action.
type OverlayDraftResponse struct {
	DraftID   string                 `json:"draftId"`
	Week      int                    `json:"week"`
	Version   int                    `json:"version"`
	Records   []models.MakeupRecord  `json:"records"`
	Effective []models.EffectiveSlot `json:"effective"`
}

// SaveOverlayRequest persists an overlay draft.
type SaveOverlayRequest struct {
	DraftID string `json:"draftId" validate:"required"`
}

// RoomAvailabilityQuery selects the coordinate to partition the catalog for.
type RoomAvailabilityQuery struct {
	Week    *int   `form:"week"`
	Day     int    `form:"day" binding:"required"`
	Period  int    `form:"period" binding:"required"`
	ClassID string `form:"classId"`
}

// ExportQuery selects the week and document format of a timetable export.
type ExportQuery struct {
	Week   int    `form:"week" binding:"required"`
	Format string `form:"format"`
}
