package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/course-reg-api/internal/models"
)

func strPtr(s string) *string { return &s }

func modePtr(m models.SessionMode) *models.SessionMode { return &m }

func TestConflictDetectorFind(t *testing.T) {
	scope := []models.Commitment{
		{ClassID: "c1", ClassCode: "ENG-01", TutorID: "t1", Week: 35, Day: 2, Period: 3, Room: "R1"},
		{ClassID: "c2", ClassCode: "ENG-02", TutorID: "t1", Week: 35, Day: 2, Period: 4, Room: "R2"},
	}
	detector := NewConflictDetector()

	hit := detector.Find(scope, 35, 2, 3, "")
	require.NotNil(t, hit)
	assert.Equal(t, "ENG-01", hit.ClassCode)

	assert.Nil(t, detector.Find(scope, 35, 2, 5, ""))
	assert.Nil(t, detector.Find(scope, 36, 2, 3, ""))
}

func TestConflictDetectorFindSkipsExcludedClass(t *testing.T) {
	scope := []models.Commitment{
		{ClassID: "c1", ClassCode: "ENG-01", TutorID: "t1", Week: 35, Day: 2, Period: 3},
	}
	detector := NewConflictDetector()

	assert.Nil(t, detector.Find(scope, 35, 2, 3, "c1"))
}

func TestConflictDetectorSymmetry(t *testing.T) {
	// If A conflicts with B's commitment, B conflicts with A's at the same
	// coordinate regardless of evaluation order.
	a := models.Commitment{ClassID: "c1", ClassCode: "ENG-01", TutorID: "t1", Week: 35, Day: 1, Period: 1}
	b := models.Commitment{ClassID: "c2", ClassCode: "ENG-02", TutorID: "t1", Week: 35, Day: 1, Period: 1}
	detector := NewConflictDetector()

	hitForA := detector.Find([]models.Commitment{b}, 35, 1, 1, "c1")
	hitForB := detector.Find([]models.Commitment{a}, 35, 1, 1, "c2")
	require.NotNil(t, hitForA)
	require.NotNil(t, hitForB)
	assert.Equal(t, "c2", hitForA.ClassID)
	assert.Equal(t, "c1", hitForB.ClassID)
}

func TestConflictDetectorFindRoom(t *testing.T) {
	scope := []models.Commitment{
		{ClassID: "c1", ClassCode: "ENG-01", TutorID: "t1", Week: 35, Day: 2, Period: 3, Room: "A1-101"},
	}
	detector := NewConflictDetector()
	week := 35

	hit := detector.FindRoom(scope, &week, 2, 3, "A1-101", "t2", "ENG-02")
	require.NotNil(t, hit)
	assert.Equal(t, "ENG-01", hit.ClassCode)

	// Own class of the same code never blocks.
	assert.Nil(t, detector.FindRoom(scope, &week, 2, 3, "A1-101", "t1", "ENG-01"))

	// Different room or coordinate is free.
	assert.Nil(t, detector.FindRoom(scope, &week, 2, 3, "A1-102", "t2", "ENG-02"))
	assert.Nil(t, detector.FindRoom(scope, &week, 2, 4, "A1-101", "t2", "ENG-02"))

	// week nil matches any week.
	other := 36
	assert.Nil(t, detector.FindRoom(scope, &other, 2, 3, "A1-101", "t2", "ENG-02"))
	assert.NotNil(t, detector.FindRoom(scope, nil, 2, 3, "A1-101", "t2", "ENG-02"))
}

func TestBuildScopeAppliesOverlay(t *testing.T) {
	classes := []models.Class{
		{ID: "c1", Code: "ENG-01", TutorID: strPtr("t1")},
		{ID: "c2", Code: "ENG-02"},
	}
	rows := []models.ScheduleRow{
		{ClassID: "c1", Week: 35, Day: 1, Period: 1, Room: "R1", Mode: models.SessionModeOffline},
		{ClassID: "c1", Week: 35, Day: 2, Period: 3, Room: "R1", Mode: models.SessionModeOffline},
		{ClassID: "c2", Week: 35, Day: 3, Period: 1, Room: "R2", Mode: models.SessionModeOffline},
	}
	records := []models.MakeupRecord{
		{ClassID: "c1", Week: 35, Day: 2, Period: 3, Type: models.MakeupTypeRemoved},
		{ClassID: "c1", Week: 35, Day: 4, Period: 5, Type: models.MakeupTypeAdded, Room: strPtr("R3"), Mode: modePtr(models.SessionModeOffline)},
	}

	scope := BuildScope(classes, rows, records)

	// The cancelled row drops out, the makeup joins in and the unassigned
	// class contributes nothing.
	require.Len(t, scope, 2)
	assert.Equal(t, 1, scope[0].Day)
	assert.Equal(t, 4, scope[1].Day)
	assert.Equal(t, "R3", scope[1].Room)
}
