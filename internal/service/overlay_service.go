package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

type overlayScheduleReader interface {
	ListByClassWeek(ctx context.Context, classID string, week int) ([]models.ScheduleRow, error)
}

type overlayMakeupStore interface {
	ListByClassWeek(ctx context.Context, classID string, week int) ([]models.MakeupRecord, error)
	OverlayVersion(ctx context.Context, classID string, week int) (int, error)
	ApplyDiff(ctx context.Context, classID string, week, expectedVersion int, toInsert, toDelete []models.MakeupRecord) error
}

type tutorCommitmentReader interface {
	ListForTutor(ctx context.Context, tutorID string) ([]models.Commitment, error)
}

type overlayClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type overlayProgramReader interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

type enrolledStudentReader interface {
	ListStudentUserIDs(ctx context.Context, classID string) ([]string, error)
}

type notifier interface {
	Notify(ctx context.Context, userIDs []string, title, message string) error
}

type schedulingMetrics interface {
	ConflictDetected(component string)
	OverlaySaved(result string)
}

// OverlaySaveResult summarises a persisted overlay edit.
type OverlaySaveResult struct {
	Inserted int      `json:"inserted"`
	Deleted  int      `json:"deleted"`
	Version  int      `json:"version"`
	Changes  []string `json:"changes"`
}

// OverlayService is the makeup/cancellation engine: it applies week-specific
// exception drafts on top of the base recurring schedule, computes effective
// schedules and persists only the delta between draft and database.
type OverlayService struct {
	schedules   overlayScheduleReader
	makeups     overlayMakeupStore
	commitments tutorCommitmentReader
	classes     overlayClassReader
	programs    overlayProgramReader
	enrollments enrolledStudentReader
	notifier    notifier
	detector    ConflictDetector
	metrics     schedulingMetrics
	logger      *zap.Logger
}

// NewOverlayService wires the overlay engine dependencies.
func NewOverlayService(
	schedules overlayScheduleReader,
	makeups overlayMakeupStore,
	commitments tutorCommitmentReader,
	classes overlayClassReader,
	programs overlayProgramReader,
	enrollments enrolledStudentReader,
	notifier notifier,
	metrics schedulingMetrics,
	logger *zap.Logger,
) *OverlayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverlayService{
		schedules:   schedules,
		makeups:     makeups,
		commitments: commitments,
		classes:     classes,
		programs:    programs,
		enrollments: enrollments,
		notifier:    notifier,
		detector:    NewConflictDetector(),
		metrics:     metrics,
		logger:      logger,
	}
}

// NewDraft loads the persisted exception set for one (class, week) so the
// tutor edits from current state. The week must fall inside the class
// program's range. The returned version is the concurrency token Save
// expects back.
func (s *OverlayService) NewDraft(ctx context.Context, tutorID, classID string, week int) (*models.OverlayDraft, int, error) {
	class, err := s.loadOwnedClass(ctx, tutorID, classID)
	if err != nil {
		return nil, 0, err
	}
	program, err := s.programs.FindByID(ctx, class.ProgramID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if _, err := models.ParseWeek(week, program.StartWeek, program.EndWeek); err != nil {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	records, err := s.makeups.ListByClassWeek(ctx, class.ID, week)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load makeup records")
	}
	version, err := s.makeups.OverlayVersion(ctx, class.ID, week)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overlay version")
	}
	return &models.OverlayDraft{ClassID: classID, Week: week, Records: records}, version, nil
}

// EffectiveSchedule computes the schedule actually taught for one (class,
// week): base rows with exceptions applied. A nil draft uses the persisted
// exception set. Cancelled slots stay in the view tagged CANCELLED so callers
// can render them inert. The computation is pure and idempotent.
func (s *OverlayService) EffectiveSchedule(ctx context.Context, classID string, week int, draft *models.OverlayDraft) ([]models.EffectiveSlot, error) {
	rows, err := s.schedules.ListByClassWeek(ctx, classID, week)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load base schedule")
	}
	records := []models.MakeupRecord(nil)
	if draft != nil {
		records = draft.Records
	} else {
		records, err = s.makeups.ListByClassWeek(ctx, classID, week)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load makeup records")
		}
	}
	return applyOverlay(classID, week, rows, records), nil
}

// AddMakeup transitions an EMPTY coordinate to MAKEUP by appending an ADDED
// record to the draft. Rejected when the coordinate still holds a surviving
// session of the class itself, or when another class of the tutor occupies it.
func (s *OverlayService) AddMakeup(ctx context.Context, tutorID string, draft *models.OverlayDraft, day, period int, room string, mode models.SessionMode) error {
	if _, err := models.ParseDay(day); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := models.ParsePeriod(period); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if mode != models.SessionModeOnline && room == "" {
		return appErrors.Clone(appErrors.ErrValidation, "offline makeup sessions require a room")
	}
	if draft.Find(day, period, models.MakeupTypeAdded) != nil {
		return appErrors.Clone(appErrors.ErrValidation, "a makeup session already occupies this slot")
	}

	rows, err := s.schedules.ListByClassWeek(ctx, draft.ClassID, draft.Week)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load base schedule")
	}
	for _, row := range rows {
		if row.Day == day && row.Period == period && draft.Find(day, period, models.MakeupTypeRemoved) == nil {
			return appErrors.Clone(appErrors.ErrValidation, "slot already holds a scheduled session, cancel it first")
		}
	}

	scope, err := s.commitments.ListForTutor(ctx, tutorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor commitments")
	}
	if hit := s.detector.Find(scope, draft.Week, day, period, draft.ClassID); hit != nil {
		if s.metrics != nil {
			s.metrics.ConflictDetected("overlay")
		}
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("busy with %s at %s period %d", hit.ClassCode, models.DayName(day), period))
	}

	record := models.MakeupRecord{Day: day, Period: period, Type: models.MakeupTypeAdded, Room: &room, Mode: &mode}
	draft.Add(record)
	return nil
}

// CancelSession transitions NORMAL to CANCELLED by adding a REMOVED record.
// Cancelling one's own session needs no conflict check.
func (s *OverlayService) CancelSession(ctx context.Context, draft *models.OverlayDraft, day, period int) error {
	if draft.Find(day, period, models.MakeupTypeRemoved) != nil {
		return appErrors.Clone(appErrors.ErrValidation, "session is already cancelled")
	}
	rows, err := s.schedules.ListByClassWeek(ctx, draft.ClassID, draft.Week)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load base schedule")
	}
	for _, row := range rows {
		if row.Day == day && row.Period == period {
			draft.Add(models.MakeupRecord{Day: day, Period: period, Type: models.MakeupTypeRemoved})
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "no scheduled session at this slot")
}

// RestoreSession undoes a cancellation, CANCELLED back to NORMAL. A makeup
// added at the same coordinate blocks the restore: reviving the base session
// underneath it would put two live sessions on one slot.
func (s *OverlayService) RestoreSession(draft *models.OverlayDraft, day, period int) error {
	if draft.Find(day, period, models.MakeupTypeAdded) != nil {
		return appErrors.Clone(appErrors.ErrValidation, "a makeup session occupies this slot, remove it first")
	}
	if !draft.Remove(day, period, models.MakeupTypeRemoved) {
		return appErrors.Clone(appErrors.ErrValidation, "no cancelled session at this slot")
	}
	return nil
}

// RemoveMakeup undoes an added makeup, MAKEUP back to EMPTY.
func (s *OverlayService) RemoveMakeup(draft *models.OverlayDraft, day, period int) error {
	if !draft.Remove(day, period, models.MakeupTypeAdded) {
		return appErrors.Clone(appErrors.ErrValidation, "no makeup session at this slot")
	}
	return nil
}

// Save persists exactly the delta between the draft and the stored exception
// set, then notifies enrolled students with the net schedule change. The
// notification baseline is the currently persisted state (base rows plus the
// stored exception set), not the snapshot the draft opened from, so repeated
// edits collapse to the net difference against what students last saw. The
// draft is never cleared here; on failure the caller retries with the same
// draft.
func (s *OverlayService) Save(ctx context.Context, tutorID string, draft *models.OverlayDraft, expectedVersion int) (*OverlaySaveResult, error) {
	class, err := s.loadOwnedClass(ctx, tutorID, draft.ClassID)
	if err != nil {
		return nil, err
	}

	rows, err := s.schedules.ListByClassWeek(ctx, draft.ClassID, draft.Week)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load base schedule")
	}
	dbSet, err := s.makeups.ListByClassWeek(ctx, draft.ClassID, draft.Week)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load makeup records")
	}

	// A flattened scope of this class alone must hold at most one live
	// commitment per coordinate; a doubled coordinate means the draft carries
	// an added record over a surviving base session.
	stamped := make([]models.MakeupRecord, len(draft.Records))
	for i, rec := range draft.Records {
		rec.ClassID = draft.ClassID
		rec.Week = draft.Week
		stamped[i] = rec
	}
	occupied := make(map[[3]int]bool)
	for _, c := range BuildScope([]models.Class{*class}, rows, stamped) {
		key := [3]int{c.Week, c.Day, c.Period}
		if occupied[key] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("two sessions occupy %s period %d, cancel one first", models.DayName(c.Day), c.Period))
		}
		occupied[key] = true
	}

	// Added coordinates are re-checked against a fresh scope at save time;
	// another tutor may have claimed the slot since the draft transition.
	scope, err := s.commitments.ListForTutor(ctx, tutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor commitments")
	}
	persisted := make(map[models.OverlayKey]bool, len(dbSet))
	for _, rec := range dbSet {
		persisted[rec.Key()] = true
	}
	for _, rec := range draft.Records {
		if rec.Type != models.MakeupTypeAdded || persisted[rec.Key()] {
			continue
		}
		if hit := s.detector.Find(scope, draft.Week, rec.Day, rec.Period, draft.ClassID); hit != nil {
			if s.metrics != nil {
				s.metrics.ConflictDetected("overlay")
			}
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("busy with %s at %s period %d", hit.ClassCode, models.DayName(rec.Day), rec.Period))
		}
	}

	toInsert, toDelete := diffOverlay(draft.Records, dbSet)
	if err := s.makeups.ApplyDiff(ctx, draft.ClassID, draft.Week, expectedVersion, toInsert, toDelete); err != nil {
		if s.metrics != nil {
			if appErrors.IsStale(err) {
				s.metrics.OverlaySaved("stale")
			} else {
				s.metrics.OverlaySaved("error")
			}
		}
		if appErrors.IsStale(err) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist overlay changes")
	}
	if s.metrics != nil {
		s.metrics.OverlaySaved("ok")
	}

	changes := NotificationDiff(
		applyOverlay(draft.ClassID, draft.Week, rows, dbSet),
		applyOverlay(draft.ClassID, draft.Week, rows, draft.Records),
	)
	if len(changes) > 0 {
		s.notifyStudents(ctx, class, draft.Week, changes)
	}

	return &OverlaySaveResult{
		Inserted: len(toInsert),
		Deleted:  len(toDelete),
		Version:  expectedVersion + 1,
		Changes:  changes,
	}, nil
}

func (s *OverlayService) loadOwnedClass(ctx context.Context, tutorID, classID string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if !class.AssignedTo(tutorID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class is not assigned to you")
	}
	return class, nil
}

func (s *OverlayService) notifyStudents(ctx context.Context, class *models.Class, week int, changes []string) {
	if s.notifier == nil || s.enrollments == nil {
		return
	}
	userIDs, err := s.enrollments.ListStudentUserIDs(ctx, class.ID)
	if err != nil {
		s.logger.Sugar().Warnw("failed to resolve notification recipients", "class_id", class.ID, "error", err)
		return
	}
	if len(userIDs) == 0 {
		return
	}
	title := fmt.Sprintf("Schedule update for %s (week %d)", class.Code, week)
	if err := s.notifier.Notify(ctx, userIDs, title, strings.Join(changes, "\n")); err != nil {
		s.logger.Sugar().Warnw("failed to dispatch schedule notification", "class_id", class.ID, "error", err)
	}
}

// applyOverlay computes effective slots: base rows negated by REMOVED records
// stay in the view as CANCELLED, ADDED records append as MAKEUP.
func applyOverlay(classID string, week int, rows []models.ScheduleRow, records []models.MakeupRecord) []models.EffectiveSlot {
	removed := make(map[[2]int]bool)
	for _, rec := range records {
		if rec.Type == models.MakeupTypeRemoved {
			removed[[2]int{rec.Day, rec.Period}] = true
		}
	}

	slots := make([]models.EffectiveSlot, 0, len(rows))
	for _, row := range rows {
		status := models.SlotStatusNormal
		if removed[[2]int{row.Day, row.Period}] {
			status = models.SlotStatusCancelled
		}
		slots = append(slots, models.EffectiveSlot{
			ClassID: classID,
			Week:    week,
			Day:     row.Day,
			Period:  row.Period,
			Room:    row.Room,
			Mode:    row.Mode,
			Status:  status,
		})
	}
	for _, rec := range records {
		if rec.Type != models.MakeupTypeAdded {
			continue
		}
		room := ""
		if rec.Room != nil {
			room = *rec.Room
		}
		mode := models.SessionModeOffline
		if rec.Mode != nil {
			mode = *rec.Mode
		}
		slots = append(slots, models.EffectiveSlot{
			ClassID: classID,
			Week:    week,
			Day:     rec.Day,
			Period:  rec.Period,
			Room:    room,
			Mode:    mode,
			Status:  models.SlotStatusMakeup,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].Period < slots[j].Period
	})
	return slots
}

// diffOverlay computes the minimal persistence delta matched by
// (day, period, type): draft-only records insert, database-only records delete.
func diffOverlay(draftSet, dbSet []models.MakeupRecord) (toInsert, toDelete []models.MakeupRecord) {
	inDraft := make(map[models.OverlayKey]bool, len(draftSet))
	for _, rec := range draftSet {
		inDraft[rec.Key()] = true
	}
	inDB := make(map[models.OverlayKey]bool, len(dbSet))
	for _, rec := range dbSet {
		inDB[rec.Key()] = true
	}

	for _, rec := range draftSet {
		if !inDB[rec.Key()] {
			toInsert = append(toInsert, rec)
		}
	}
	for _, rec := range dbSet {
		if !inDraft[rec.Key()] {
			toDelete = append(toDelete, rec)
		}
	}
	return toInsert, toDelete
}

// NotificationDiff reports the net effect of an edit: slots taught after the
// edit but not before read as additions, the reverse as removals. A cancel
// plus re-add at a different room therefore reads as one remove and one add at
// the same day/period, not two unrelated events.
func NotificationDiff(original, updated []models.EffectiveSlot) []string {
	type taughtSlot struct {
		Day    int
		Period int
		Label  string
	}
	collect := func(slots []models.EffectiveSlot) map[taughtSlot]bool {
		out := make(map[taughtSlot]bool)
		for _, slot := range slots {
			if slot.Status == models.SlotStatusCancelled {
				continue
			}
			out[taughtSlot{Day: slot.Day, Period: slot.Period, Label: models.RoomLabel(slot.Mode, slot.Room)}] = true
		}
		return out
	}
	before := collect(original)
	after := collect(updated)

	var removedSlots, addedSlots []taughtSlot
	for slot := range before {
		if !after[slot] {
			removedSlots = append(removedSlots, slot)
		}
	}
	for slot := range after {
		if !before[slot] {
			addedSlots = append(addedSlots, slot)
		}
	}
	byCoordinate := func(slots []taughtSlot) func(int, int) bool {
		return func(i, j int) bool {
			if slots[i].Day != slots[j].Day {
				return slots[i].Day < slots[j].Day
			}
			if slots[i].Period != slots[j].Period {
				return slots[i].Period < slots[j].Period
			}
			return slots[i].Label < slots[j].Label
		}
	}
	sort.Slice(removedSlots, byCoordinate(removedSlots))
	sort.Slice(addedSlots, byCoordinate(addedSlots))

	changes := make([]string, 0, len(removedSlots)+len(addedSlots))
	for _, slot := range removedSlots {
		changes = append(changes, fmt.Sprintf("[-] Removed: %s Period %d (%s)", models.DayName(slot.Day), slot.Period, slot.Label))
	}
	for _, slot := range addedSlots {
		changes = append(changes, fmt.Sprintf("[+] Added: %s Period %d (%s)", models.DayName(slot.Day), slot.Period, slot.Label))
	}
	return changes
}
