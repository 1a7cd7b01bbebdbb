package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

type mockBuilderScheduleStore struct {
	existing []models.ScheduleRow
	replaced []models.ScheduleRow
}

func (m *mockBuilderScheduleStore) ListByClass(ctx context.Context, classID string) ([]models.ScheduleRow, error) {
	return m.existing, nil
}

func (m *mockBuilderScheduleStore) ReplaceForClass(ctx context.Context, classID string, rows []models.ScheduleRow) error {
	m.replaced = rows
	return nil
}

type mockBuilderClassStore struct {
	classes    map[string]models.Class
	assignedTo string
}

func (m *mockBuilderClassStore) FindByID(ctx context.Context, id string) (*models.Class, error) {
	class, ok := m.classes[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return &class, nil
}

func (m *mockBuilderClassStore) ListByProgram(ctx context.Context, programID string) ([]models.Class, error) {
	var out []models.Class
	for _, class := range m.classes {
		if class.ProgramID == programID {
			out = append(out, class)
		}
	}
	return out, nil
}

func (m *mockBuilderClassStore) UpdateTutorAssignment(ctx context.Context, classID, tutorID, tutorName string) error {
	m.assignedTo = tutorID
	if class, ok := m.classes[classID]; ok {
		class.TutorID = &tutorID
		class.TutorName = &tutorName
		m.classes[classID] = class
	}
	return nil
}

type mockProgramStore struct {
	programs map[string]models.Program
	status   models.ProgramStatus
}

func (m *mockProgramStore) FindByID(ctx context.Context, id string) (*models.Program, error) {
	program, ok := m.programs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return &program, nil
}

func (m *mockProgramStore) UpdateStatus(ctx context.Context, id string, status models.ProgramStatus) error {
	m.status = status
	return nil
}

func newBuilderFixture(scope []models.Commitment) (*BuilderService, *mockBuilderScheduleStore, *mockBuilderClassStore, *mockProgramStore) {
	schedules := &mockBuilderScheduleStore{}
	classes := &mockBuilderClassStore{classes: map[string]models.Class{
		"c1": {ID: "c1", Code: "ENG-01", ProgramID: "p1"},
	}}
	programs := &mockProgramStore{programs: map[string]models.Program{
		"p1": {ID: "p1", StartWeek: 35, EndWeek: 40, NumberOfWeek: 2, PeriodPerWeek: 1, Status: models.ProgramStatusUpcoming},
	}}
	svc := NewBuilderService(schedules, classes, programs, &mockCommitmentReader{scope: scope}, &mockMetrics{}, zap.NewNop())
	return svc, schedules, classes, programs
}

func TestBuilderServiceNewDraftEmptyClass(t *testing.T) {
	svc, _, _, _ := newBuilderFixture(nil)

	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)
	assert.Empty(t, draft.SelectedWeeks)
	assert.Empty(t, draft.Pattern)
	assert.Equal(t, 2, draft.Program.NumberOfWeek)
	assert.False(t, draft.CanSubmit())
}

func TestBuilderServiceNewDraftForbiddenForAssignedClass(t *testing.T) {
	svc, _, classes, _ := newBuilderFixture(nil)
	other := "t9"
	class := classes.classes["c1"]
	class.TutorID = &other
	classes.classes["c1"] = class

	_, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestBuilderServiceNewDraftPreloadsOwnSchedule(t *testing.T) {
	svc, schedules, classes, _ := newBuilderFixture(nil)
	tutor := "t1"
	name := "Tutor One"
	class := classes.classes["c1"]
	class.TutorID = &tutor
	class.TutorName = &name
	classes.classes["c1"] = class
	schedules.existing = []models.ScheduleRow{
		{ClassID: "c1", Week: 35, Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline},
		{ClassID: "c1", Week: 36, Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline},
	}

	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)
	assert.Equal(t, []int{35, 36}, draft.SelectedWeeks)
	require.Len(t, draft.Pattern, 1)
	assert.Equal(t, "A1-101", draft.Pattern[0].Room)
	assert.True(t, draft.CanSubmit())
}

func TestBuilderServiceAddWeekQuotaAndRange(t *testing.T) {
	svc, _, _, _ := newBuilderFixture(nil)
	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)

	require.Error(t, svc.AddWeek(context.Background(), draft, 34))
	require.Error(t, svc.AddWeek(context.Background(), draft, 41))

	require.NoError(t, svc.AddWeek(context.Background(), draft, 35))
	require.Error(t, svc.AddWeek(context.Background(), draft, 35))
	require.NoError(t, svc.AddWeek(context.Background(), draft, 36))

	// Quota reached: a third week is rejected, not truncated.
	err = svc.AddWeek(context.Background(), draft, 37)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 2 weeks")
	assert.Equal(t, []int{35, 36}, draft.SelectedWeeks)
}

func TestBuilderServiceAddWeekChecksExistingPattern(t *testing.T) {
	scope := []models.Commitment{
		{ClassID: "c2", ClassCode: "ENG-02", TutorID: "t1", Week: 36, Day: 1, Period: 1, Room: "B2"},
	}
	svc, _, _, _ := newBuilderFixture(scope)
	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)

	require.NoError(t, svc.AddWeek(context.Background(), draft, 35))
	require.NoError(t, svc.AddPatternSlot(context.Background(), draft, models.PatternSlot{Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline}))

	// Week 36 would put the current pattern on top of ENG-02.
	err = svc.AddWeek(context.Background(), draft, 36)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "week 36")
}

func TestBuilderServiceAddPatternSlotQuotaAndDuplicates(t *testing.T) {
	svc, _, _, _ := newBuilderFixture(nil)
	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)

	slot := models.PatternSlot{Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline}
	require.NoError(t, svc.AddPatternSlot(context.Background(), draft, slot))

	err = svc.AddPatternSlot(context.Background(), draft, slot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already part of the weekly pattern")

	err = svc.AddPatternSlot(context.Background(), draft, models.PatternSlot{Day: 2, Period: 2, Room: "A1-102", Mode: models.SessionModeOffline})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 1 periods")
}

func TestBuilderServiceAddPatternSlotConflictInAnyWeek(t *testing.T) {
	scope := []models.Commitment{
		{ClassID: "c2", ClassCode: "ENG-02", TutorID: "t1", Week: 36, Day: 3, Period: 2, Room: "B2"},
	}
	svc, _, _, _ := newBuilderFixture(scope)
	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)
	require.NoError(t, svc.AddWeek(context.Background(), draft, 35))
	require.NoError(t, svc.AddWeek(context.Background(), draft, 36))

	// Free in week 35, taken in week 36: the slot is rejected outright.
	err = svc.AddPatternSlot(context.Background(), draft, models.PatternSlot{Day: 3, Period: 2, Room: "A1-101", Mode: models.SessionModeOffline})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "busy with ENG-02")
	assert.Empty(t, draft.Pattern)
}

func TestBuilderServiceRemoveWeekAndSlot(t *testing.T) {
	svc, _, _, _ := newBuilderFixture(nil)
	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)
	require.NoError(t, svc.AddWeek(context.Background(), draft, 35))
	require.NoError(t, svc.AddPatternSlot(context.Background(), draft, models.PatternSlot{Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline}))

	require.NoError(t, svc.RemoveWeek(draft, 35))
	require.Error(t, svc.RemoveWeek(draft, 35))
	require.NoError(t, svc.RemovePatternSlot(draft, 1, 1))
	require.Error(t, svc.RemovePatternSlot(draft, 1, 1))
}

func TestBuilderServiceSubmitRequiresExactQuotas(t *testing.T) {
	svc, _, _, _ := newBuilderFixture(nil)
	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)
	require.NoError(t, svc.AddWeek(context.Background(), draft, 35))

	_, err = svc.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 2 weeks")

	require.NoError(t, svc.AddWeek(context.Background(), draft, 36))
	_, err = svc.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 1 periods")
}

func TestBuilderServiceSubmitExpandsPatternAcrossWeeks(t *testing.T) {
	svc, schedules, classes, programs := newBuilderFixture(nil)
	draft, err := svc.NewDraft(context.Background(), "t1", "Tutor One", "c1")
	require.NoError(t, err)
	require.NoError(t, svc.AddWeek(context.Background(), draft, 35))
	require.NoError(t, svc.AddWeek(context.Background(), draft, 36))
	require.NoError(t, svc.AddPatternSlot(context.Background(), draft, models.PatternSlot{Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline}))

	rows, err := svc.Submit(context.Background(), draft)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 35, rows[0].Week)
	assert.Equal(t, 36, rows[1].Week)
	for _, row := range rows {
		assert.Equal(t, "c1", row.ClassID)
		assert.Equal(t, 1, row.Day)
		assert.Equal(t, 1, row.Period)
		assert.Equal(t, "A1-101", row.Room)
	}

	assert.Equal(t, rows, schedules.replaced)
	assert.Equal(t, "t1", classes.assignedTo)
	assert.Equal(t, models.ProgramStatusActive, programs.status)
}

func TestExpandPatternOrdering(t *testing.T) {
	rows := ExpandPattern("c1", []int{36, 35}, []models.PatternSlot{
		{Day: 3, Period: 2, Room: "B", Mode: models.SessionModeOffline},
		{Day: 1, Period: 5, Room: "A", Mode: models.SessionModeOffline},
	})
	require.Len(t, rows, 4)
	assert.Equal(t, []int{35, 35, 36, 36}, []int{rows[0].Week, rows[1].Week, rows[2].Week, rows[3].Week})
	assert.Equal(t, 1, rows[0].Day)
	assert.Equal(t, 3, rows[1].Day)
}
