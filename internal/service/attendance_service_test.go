package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
)

type mockEffectiveSchedules struct {
	slots []models.EffectiveSlot
}

func (m *mockEffectiveSchedules) EffectiveSchedule(ctx context.Context, classID string, week int, draft *models.OverlayDraft) ([]models.EffectiveSlot, error) {
	return m.slots, nil
}

type mockAttendanceReader struct {
	records []models.AttendanceRecord
}

func (m *mockAttendanceReader) ListByStudentWeek(ctx context.Context, classID, studentUserID string, week int) ([]models.AttendanceRecord, error) {
	return m.records, nil
}

func taughtWeekSlots() []models.EffectiveSlot {
	return []models.EffectiveSlot{
		{Day: 1, Period: 1, Status: models.SlotStatusNormal},
		{Day: 2, Period: 3, Status: models.SlotStatusCancelled},
		{Day: 4, Period: 2, Status: models.SlotStatusMakeup},
	}
}

func TestAttendanceServiceAllPolicy(t *testing.T) {
	schedules := &mockEffectiveSchedules{slots: taughtWeekSlots()}
	attendance := &mockAttendanceReader{records: []models.AttendanceRecord{
		{Day: 1, Period: 1, Present: true},
		{Day: 4, Period: 2, Present: true},
	}}
	svc := NewAttendanceService(attendance, schedules, "all", zap.NewNop())

	attended, err := svc.WeekAttended(context.Background(), "c1", "u1", 35)
	require.NoError(t, err)
	assert.True(t, attended)
}

func TestAttendanceServiceAllPolicyMissingSession(t *testing.T) {
	schedules := &mockEffectiveSchedules{slots: taughtWeekSlots()}
	attendance := &mockAttendanceReader{records: []models.AttendanceRecord{
		{Day: 1, Period: 1, Present: true},
	}}
	svc := NewAttendanceService(attendance, schedules, "all", zap.NewNop())

	attended, err := svc.WeekAttended(context.Background(), "c1", "u1", 35)
	require.NoError(t, err)
	assert.False(t, attended)
}

func TestAttendanceServiceAnyPolicy(t *testing.T) {
	schedules := &mockEffectiveSchedules{slots: taughtWeekSlots()}
	attendance := &mockAttendanceReader{records: []models.AttendanceRecord{
		{Day: 4, Period: 2, Present: true},
	}}
	svc := NewAttendanceService(attendance, schedules, "any", zap.NewNop())
	assert.Equal(t, models.WeekAttendanceAny, svc.Policy())

	attended, err := svc.WeekAttended(context.Background(), "c1", "u1", 35)
	require.NoError(t, err)
	assert.True(t, attended)
}

func TestAttendanceServiceCancelledSessionsDoNotCount(t *testing.T) {
	// The only attendance mark sits on a cancelled slot; under "any" the week
	// is still unattended.
	schedules := &mockEffectiveSchedules{slots: taughtWeekSlots()}
	attendance := &mockAttendanceReader{records: []models.AttendanceRecord{
		{Day: 2, Period: 3, Present: true},
	}}
	svc := NewAttendanceService(attendance, schedules, "any", zap.NewNop())

	attended, err := svc.WeekAttended(context.Background(), "c1", "u1", 35)
	require.NoError(t, err)
	assert.False(t, attended)
}

func TestAttendanceServiceEmptyWeek(t *testing.T) {
	schedules := &mockEffectiveSchedules{slots: []models.EffectiveSlot{
		{Day: 2, Period: 3, Status: models.SlotStatusCancelled},
	}}
	svc := NewAttendanceService(&mockAttendanceReader{}, schedules, "all", zap.NewNop())

	attended, err := svc.WeekAttended(context.Background(), "c1", "u1", 35)
	require.NoError(t, err)
	assert.False(t, attended)
}

func TestAttendanceServiceUnknownPolicyFallsBack(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceReader{}, &mockEffectiveSchedules{}, "most", zap.NewNop())
	assert.Equal(t, models.WeekAttendanceAll, svc.Policy())
}
