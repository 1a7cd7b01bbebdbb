package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

type builderScheduleStore interface {
	ListByClass(ctx context.Context, classID string) ([]models.ScheduleRow, error)
	ReplaceForClass(ctx context.Context, classID string, rows []models.ScheduleRow) error
}

type builderClassStore interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ListByProgram(ctx context.Context, programID string) ([]models.Class, error)
	UpdateTutorAssignment(ctx context.Context, classID, tutorID, tutorName string) error
}

type builderProgramStore interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
	UpdateStatus(ctx context.Context, id string, status models.ProgramStatus) error
}

// BuilderDraft accumulates a recurring schedule under construction: the weeks
// the tutor selected and the weekly pattern repeated across them. Both sets
// must reach their program quotas exactly before Submit is allowed.
type BuilderDraft struct {
	ClassID       string               `json:"class_id"`
	TutorID       string               `json:"tutor_id"`
	TutorName     string               `json:"tutor_name"`
	Program       models.Program       `json:"program"`
	SelectedWeeks []int                `json:"selected_weeks"`
	Pattern       []models.PatternSlot `json:"pattern"`
}

// HasWeek reports whether the week is already selected.
func (d *BuilderDraft) HasWeek(week int) bool {
	for _, w := range d.SelectedWeeks {
		if w == week {
			return true
		}
	}
	return false
}

// HasPatternSlot reports whether the (day, period) coordinate is in the pattern.
func (d *BuilderDraft) HasPatternSlot(day, period int) bool {
	for _, slot := range d.Pattern {
		if slot.Day == day && slot.Period == period {
			return true
		}
	}
	return false
}

// CanSubmit reports whether both quotas are met exactly.
func (d *BuilderDraft) CanSubmit() bool {
	return len(d.SelectedWeeks) == d.Program.NumberOfWeek && len(d.Pattern) == d.Program.PeriodPerWeek
}

// BuilderService constructs or replaces a class's full base schedule for a
// term: week selection, weekly pattern, conflict validation and the final
// expansion of pattern x weeks into concrete rows.
type BuilderService struct {
	schedules   builderScheduleStore
	classes     builderClassStore
	programs    builderProgramStore
	commitments tutorCommitmentReader
	detector    ConflictDetector
	metrics     schedulingMetrics
	logger      *zap.Logger
}

// NewBuilderService wires the builder dependencies.
func NewBuilderService(
	schedules builderScheduleStore,
	classes builderClassStore,
	programs builderProgramStore,
	commitments tutorCommitmentReader,
	metrics schedulingMetrics,
	logger *zap.Logger,
) *BuilderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuilderService{
		schedules:   schedules,
		classes:     classes,
		programs:    programs,
		commitments: commitments,
		detector:    NewConflictDetector(),
		metrics:     metrics,
		logger:      logger,
	}
}

// NewDraft opens a builder draft for a class. An unassigned class starts
// empty; the tutor's own existing assignment preloads weeks and pattern from
// the current schedule so the grid reflects current state.
func (s *BuilderService) NewDraft(ctx context.Context, tutorID, tutorName, classID string) (*BuilderDraft, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if class.TutorID != nil && *class.TutorID != tutorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class is assigned to another tutor")
	}
	program, err := s.programs.FindByID(ctx, class.ProgramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}

	draft := &BuilderDraft{
		ClassID:   classID,
		TutorID:   tutorID,
		TutorName: tutorName,
		Program:   *program,
	}

	if class.AssignedTo(tutorID) {
		rows, err := s.schedules.ListByClass(ctx, classID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing schedule")
		}
		preloadDraft(draft, rows)
	}
	return draft, nil
}

// AddWeek selects a week. Selection beyond the program quota is rejected, not
// truncated. A week in which the current pattern would collide with another of
// the tutor's classes is rejected as well.
func (s *BuilderService) AddWeek(ctx context.Context, draft *BuilderDraft, week int) error {
	if _, err := models.ParseWeek(week, draft.Program.StartWeek, draft.Program.EndWeek); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if draft.HasWeek(week) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("week %d is already selected", week))
	}
	if len(draft.SelectedWeeks) >= draft.Program.NumberOfWeek {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d weeks can be selected", draft.Program.NumberOfWeek))
	}
	if len(draft.Pattern) > 0 {
		scope, err := s.commitments.ListForTutor(ctx, draft.TutorID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor commitments")
		}
		for _, slot := range draft.Pattern {
			if hit := s.detector.Find(scope, week, slot.Day, slot.Period, draft.ClassID); hit != nil {
				if s.metrics != nil {
					s.metrics.ConflictDetected("builder")
				}
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("week %d: busy with %s at %s period %d", week, hit.ClassCode, models.DayName(slot.Day), slot.Period))
			}
		}
	}
	draft.SelectedWeeks = append(draft.SelectedWeeks, week)
	sort.Ints(draft.SelectedWeeks)
	return nil
}

// RemoveWeek unselects a week.
func (s *BuilderService) RemoveWeek(draft *BuilderDraft, week int) error {
	for i, w := range draft.SelectedWeeks {
		if w == week {
			draft.SelectedWeeks = append(draft.SelectedWeeks[:i], draft.SelectedWeeks[i+1:]...)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("week %d is not selected", week))
}

// AddPatternSlot adds one weekly slot. The slot must be free in every selected
// week simultaneously; a clash in even one week rejects the addition before
// the room selection commits.
func (s *BuilderService) AddPatternSlot(ctx context.Context, draft *BuilderDraft, slot models.PatternSlot) error {
	if _, err := models.ParseDay(slot.Day); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := models.ParsePeriod(slot.Period); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if slot.Mode != models.SessionModeOnline && slot.Room == "" {
		return appErrors.Clone(appErrors.ErrValidation, "offline sessions require a room")
	}
	if draft.HasPatternSlot(slot.Day, slot.Period) {
		return appErrors.Clone(appErrors.ErrValidation, "slot is already part of the weekly pattern")
	}
	if len(draft.Pattern) >= draft.Program.PeriodPerWeek {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d periods can be configured per week", draft.Program.PeriodPerWeek))
	}

	if len(draft.SelectedWeeks) > 0 {
		scope, err := s.commitments.ListForTutor(ctx, draft.TutorID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor commitments")
		}
		for _, week := range draft.SelectedWeeks {
			if hit := s.detector.Find(scope, week, slot.Day, slot.Period, draft.ClassID); hit != nil {
				if s.metrics != nil {
					s.metrics.ConflictDetected("builder")
				}
				return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("week %d: busy with %s at %s period %d", week, hit.ClassCode, models.DayName(slot.Day), slot.Period))
			}
		}
	}
	draft.Pattern = append(draft.Pattern, slot)
	return nil
}

// RemovePatternSlot drops one weekly slot from the pattern.
func (s *BuilderService) RemovePatternSlot(draft *BuilderDraft, day, period int) error {
	for i, slot := range draft.Pattern {
		if slot.Day == day && slot.Period == period {
			draft.Pattern = append(draft.Pattern[:i], draft.Pattern[i+1:]...)
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "slot is not part of the weekly pattern")
}

// Submit expands the weekly pattern across every selected week and replaces
// the class's base schedule. It refreshes the denormalized tutor assignment
// and recomputes the parent program's status from its sibling classes.
func (s *BuilderService) Submit(ctx context.Context, draft *BuilderDraft) ([]models.ScheduleRow, error) {
	if len(draft.SelectedWeeks) != draft.Program.NumberOfWeek {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("exactly %d weeks must be selected, got %d", draft.Program.NumberOfWeek, len(draft.SelectedWeeks)))
	}
	if len(draft.Pattern) != draft.Program.PeriodPerWeek {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("exactly %d periods must be configured per week, got %d", draft.Program.PeriodPerWeek, len(draft.Pattern)))
	}

	// Final clash check against a fresh snapshot; the draft checks were
	// best-effort against possibly stale scopes.
	scope, err := s.commitments.ListForTutor(ctx, draft.TutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor commitments")
	}
	for _, week := range draft.SelectedWeeks {
		for _, slot := range draft.Pattern {
			if hit := s.detector.Find(scope, week, slot.Day, slot.Period, draft.ClassID); hit != nil {
				if s.metrics != nil {
					s.metrics.ConflictDetected("builder")
				}
				return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("week %d: busy with %s at %s period %d", week, hit.ClassCode, models.DayName(slot.Day), slot.Period))
			}
		}
	}

	rows := ExpandPattern(draft.ClassID, draft.SelectedWeeks, draft.Pattern)
	if err := s.schedules.ReplaceForClass(ctx, draft.ClassID, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace base schedule")
	}
	if err := s.classes.UpdateTutorAssignment(ctx, draft.ClassID, draft.TutorID, draft.TutorName); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tutor assignment")
	}
	if err := s.refreshProgramStatus(ctx, draft.Program.ID); err != nil {
		s.logger.Sugar().Warnw("failed to refresh program status", "program_id", draft.Program.ID, "error", err)
	}
	return rows, nil
}

func (s *BuilderService) refreshProgramStatus(ctx context.Context, programID string) error {
	siblings, err := s.classes.ListByProgram(ctx, programID)
	if err != nil {
		return err
	}
	status := models.ProgramStatusUpcoming
	for _, class := range siblings {
		if class.TutorID != nil {
			status = models.ProgramStatusActive
			break
		}
	}
	return s.programs.UpdateStatus(ctx, programID, status)
}

// ExpandPattern materialises the recurring schedule: the same weekly pattern
// repeated in each selected week, ordered by (week, day, period).
func ExpandPattern(classID string, weeks []int, pattern []models.PatternSlot) []models.ScheduleRow {
	sortedWeeks := append([]int(nil), weeks...)
	sort.Ints(sortedWeeks)
	sortedPattern := append([]models.PatternSlot(nil), pattern...)
	sort.SliceStable(sortedPattern, func(i, j int) bool {
		if sortedPattern[i].Day != sortedPattern[j].Day {
			return sortedPattern[i].Day < sortedPattern[j].Day
		}
		return sortedPattern[i].Period < sortedPattern[j].Period
	})

	rows := make([]models.ScheduleRow, 0, len(sortedWeeks)*len(sortedPattern))
	for _, week := range sortedWeeks {
		for _, slot := range sortedPattern {
			rows = append(rows, models.ScheduleRow{
				ClassID: classID,
				Week:    week,
				Day:     slot.Day,
				Period:  slot.Period,
				Room:    slot.Room,
				Mode:    slot.Mode,
			})
		}
	}
	return rows
}

// preloadDraft rebuilds weeks and pattern from existing rows. The pattern is
// taken from the earliest selected week; rows repeat identically across weeks.
func preloadDraft(draft *BuilderDraft, rows []models.ScheduleRow) {
	if len(rows) == 0 {
		return
	}
	weekSet := make(map[int]bool)
	for _, row := range rows {
		weekSet[row.Week] = true
	}
	weeks := make([]int, 0, len(weekSet))
	for week := range weekSet {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)
	draft.SelectedWeeks = weeks

	first := weeks[0]
	for _, row := range rows {
		if row.Week != first {
			continue
		}
		draft.Pattern = append(draft.Pattern, models.PatternSlot{
			Day:    row.Day,
			Period: row.Period,
			Room:   row.Room,
			Mode:   row.Mode,
		})
	}
}
