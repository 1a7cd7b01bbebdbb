package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

type attendanceReader interface {
	ListByStudentWeek(ctx context.Context, classID, studentUserID string, week int) ([]models.AttendanceRecord, error)
}

// AttendanceService derives per-week attendance from per-session attendance.
// The derivation rule is a configurable policy, not a fixed business rule.
type AttendanceService struct {
	attendance attendanceReader
	schedules  effectiveScheduleReader
	policy     models.WeekAttendancePolicy
	logger     *zap.Logger
}

// NewAttendanceService constructs the service. Unknown policy strings fall
// back to the "all sessions attended" rule.
func NewAttendanceService(attendance attendanceReader, schedules effectiveScheduleReader, policy string, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	resolved := models.WeekAttendancePolicy(policy)
	if resolved != models.WeekAttendanceAll && resolved != models.WeekAttendanceAny {
		resolved = models.WeekAttendanceAll
	}
	return &AttendanceService{attendance: attendance, schedules: schedules, policy: resolved, logger: logger}
}

// Policy returns the active derivation policy.
func (s *AttendanceService) Policy() models.WeekAttendancePolicy {
	return s.policy
}

// WeekAttended reports whether a student attended the week. Only sessions
// actually taught count: cancelled slots are ignored. A week with no taught
// sessions is not attended.
func (s *AttendanceService) WeekAttended(ctx context.Context, classID, studentUserID string, week int) (bool, error) {
	slots, err := s.schedules.EffectiveSchedule(ctx, classID, week, nil)
	if err != nil {
		return false, err
	}
	taught := make([][2]int, 0, len(slots))
	for _, slot := range slots {
		if slot.Status != models.SlotStatusCancelled {
			taught = append(taught, [2]int{slot.Day, slot.Period})
		}
	}
	if len(taught) == 0 {
		return false, nil
	}

	records, err := s.attendance.ListByStudentWeek(ctx, classID, studentUserID, week)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}
	present := make(map[[2]int]bool, len(records))
	for _, record := range records {
		if record.Present {
			present[[2]int{record.Day, record.Period}] = true
		}
	}

	switch s.policy {
	case models.WeekAttendanceAny:
		for _, coordinate := range taught {
			if present[coordinate] {
				return true, nil
			}
		}
		return false, nil
	default:
		for _, coordinate := range taught {
			if !present[coordinate] {
				return false, nil
			}
		}
		return true, nil
	}
}
