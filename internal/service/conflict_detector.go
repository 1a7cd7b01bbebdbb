package service

import (
	"sort"

	"github.com/campusops/course-reg-api/internal/models"
)

// ConflictDetector answers whether a (week, day, period) coordinate is already
// committed inside a caller-supplied scope. It is pure: no I/O, no caching,
// the scope is always a snapshot fetched immediately before use.
type ConflictDetector struct{}

// NewConflictDetector constructs a detector.
func NewConflictDetector() ConflictDetector {
	return ConflictDetector{}
}

// Find returns the first commitment occupying the coordinate, skipping
// commitments of excludeClassID so a tutor editing their own class never
// blocks on their own sessions. Nil means the coordinate is free.
func (ConflictDetector) Find(scope []models.Commitment, week, day, period int, excludeClassID string) *models.Commitment {
	for i := range scope {
		c := &scope[i]
		if c.ClassID == excludeClassID {
			continue
		}
		if c.Week == week && c.Day == day && c.Period == period {
			return c
		}
	}
	return nil
}

// FindRoom returns the first commitment holding the room at the coordinate.
// week nil matches any week. A commitment belonging to the requesting tutor's
// own class of the same code never blocks, so a tutor reusing their own room
// across weeks is not rejected.
func (ConflictDetector) FindRoom(scope []models.Commitment, week *int, day, period int, room, tutorID, ownClassCode string) *models.Commitment {
	for i := range scope {
		c := &scope[i]
		if week != nil && c.Week != *week {
			continue
		}
		if c.Day != day || c.Period != period || c.Room != room {
			continue
		}
		if c.TutorID == tutorID && c.ClassCode == ownClassCode {
			continue
		}
		return c
	}
	return nil
}

// BuildScope flattens base rows and exception records into commitments: rows
// negated by a REMOVED record drop out, ADDED records join in. This is the
// effective-schedule computation applied across all classes of a scope. The
// result is sorted by (week, day, period) for stable first-match semantics.
func BuildScope(classes []models.Class, rows []models.ScheduleRow, records []models.MakeupRecord) []models.Commitment {
	classByID := make(map[string]*models.Class, len(classes))
	for i := range classes {
		classByID[classes[i].ID] = &classes[i]
	}

	removed := make(map[string]map[[3]int]bool)
	for _, rec := range records {
		if rec.Type != models.MakeupTypeRemoved {
			continue
		}
		if removed[rec.ClassID] == nil {
			removed[rec.ClassID] = make(map[[3]int]bool)
		}
		removed[rec.ClassID][[3]int{rec.Week, rec.Day, rec.Period}] = true
	}

	var scope []models.Commitment
	appendCommitment := func(classID string, week, day, period int, room string) {
		class := classByID[classID]
		if class == nil || class.TutorID == nil {
			return
		}
		scope = append(scope, models.Commitment{
			ClassID:   classID,
			ClassCode: class.Code,
			TutorID:   *class.TutorID,
			Week:      week,
			Day:       day,
			Period:    period,
			Room:      room,
		})
	}

	for _, row := range rows {
		if removed[row.ClassID][[3]int{row.Week, row.Day, row.Period}] {
			continue
		}
		appendCommitment(row.ClassID, row.Week, row.Day, row.Period, row.Room)
	}
	for _, rec := range records {
		if rec.Type != models.MakeupTypeAdded {
			continue
		}
		room := ""
		if rec.Room != nil {
			room = *rec.Room
		}
		appendCommitment(rec.ClassID, rec.Week, rec.Day, rec.Period, room)
	}

	sort.SliceStable(scope, func(i, j int) bool {
		if scope[i].Week != scope[j].Week {
			return scope[i].Week < scope[j].Week
		}
		if scope[i].Day != scope[j].Day {
			return scope[i].Day < scope[j].Day
		}
		return scope[i].Period < scope[j].Period
	})
	return scope
}
