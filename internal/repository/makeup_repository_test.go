package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

func TestMakeupRepositoryListByClassWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMakeupRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "week", "day", "period", "type", "room", "mode", "created_at"}).
		AddRow("m1", "c1", 35, 2, 3, "REMOVED", nil, nil, time.Now()).
		AddRow("m2", "c1", 35, 5, 6, "ADDED", "R2", "OFFLINE", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, class_id, week, day, period, type, room, mode, created_at FROM makeup_records WHERE class_id = $1 AND week = $2 ORDER BY day, period, type")).
		WithArgs("c1", 35).
		WillReturnRows(rows)

	records, err := repo.ListByClassWeek(context.Background(), "c1", 35)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.MakeupTypeRemoved, records[0].Type)
	assert.Nil(t, records[0].Room)
	require.NotNil(t, records[1].Room)
	assert.Equal(t, "R2", *records[1].Room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeupRepositoryOverlayVersionDefaultsToZero(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMakeupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM overlay_versions WHERE class_id = $1 AND week = $2")).
		WithArgs("c1", 35).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	version, err := repo.OverlayVersion(context.Background(), "c1", 35)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeupRepositoryApplyDiff(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMakeupRepository(db)

	room := "R2"
	mode := models.SessionModeOffline

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO overlay_versions").
		WithArgs("c1", 35, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM makeup_records WHERE class_id = $1 AND week = $2 AND day = $3 AND period = $4 AND type = $5")).
		WithArgs("c1", 35, 2, 3, models.MakeupTypeRemoved).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO makeup_records").
		WithArgs(sqlmock.AnyArg(), "c1", 35, 5, 6, models.MakeupTypeAdded, &room, &mode, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ApplyDiff(context.Background(), "c1", 35, 3,
		[]models.MakeupRecord{{Day: 5, Period: 6, Type: models.MakeupTypeAdded, Room: &room, Mode: &mode}},
		[]models.MakeupRecord{{Day: 2, Period: 3, Type: models.MakeupTypeRemoved}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMakeupRepositoryApplyDiffStaleVersion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMakeupRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO overlay_versions").
		WithArgs("c1", 35, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ApplyDiff(context.Background(), "c1", 35, 2,
		[]models.MakeupRecord{{Day: 5, Period: 6, Type: models.MakeupTypeAdded}}, nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsStale(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
