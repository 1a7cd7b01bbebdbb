package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/course-reg-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRowRepositoryListByClassWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRowRepository(db)

	rows := sqlmock.NewRows([]string{"id", "class_id", "week", "day", "period", "room", "mode", "created_at", "updated_at"}).
		AddRow("r1", "c1", 35, 2, 3, "A1-101", "OFFLINE", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, class_id, week, day, period, room, mode, created_at, updated_at FROM schedule_rows WHERE class_id = $1 AND week = $2 ORDER BY day, period")).
		WithArgs("c1", 35).
		WillReturnRows(rows)

	result, err := repo.ListByClassWeek(context.Background(), "c1", 35)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 2, result[0].Day)
	assert.Equal(t, models.SessionModeOffline, result[0].Mode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRowRepositoryReplaceForClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRowRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_rows WHERE class_id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO schedule_rows").
		WithArgs(sqlmock.AnyArg(), "c1", 35, 1, 1, "A1-101", models.SessionModeOffline, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO schedule_rows").
		WithArgs(sqlmock.AnyArg(), "c1", 36, 1, 1, "A1-101", models.SessionModeOffline, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.ReplaceForClass(context.Background(), "c1", []models.ScheduleRow{
		{Week: 35, Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline},
		{Week: 36, Day: 1, Period: 1, Room: "A1-101", Mode: models.SessionModeOffline},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRowRepositoryReplaceForClassEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRowRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_rows WHERE class_id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.ReplaceForClass(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
