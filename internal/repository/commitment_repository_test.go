package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"class_id", "class_code", "tutor_id", "week", "day", "period", "room"})
}

func TestCommitmentRepositoryListForTutor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommitmentRepository(db)

	rows := commitmentRows().
		AddRow("c1", "ENG-01", "t1", 35, 1, 1, "A1-101").
		AddRow("c2", "ENG-02", "t1", 35, 2, 3, "")
	mock.ExpectQuery("SELECT c.id AS class_id, c.code AS class_code, c.tutor_id AS tutor_id").
		WithArgs("t1").
		WillReturnRows(rows)

	commitments, err := repo.ListForTutor(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, commitments, 2)
	assert.Equal(t, "ENG-01", commitments[0].ClassCode)
	assert.Equal(t, "", commitments[1].Room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitmentRepositoryListAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommitmentRepository(db)

	week := 35
	rows := commitmentRows().
		AddRow("c1", "ENG-01", "t1", 35, 2, 3, "A1-101")
	mock.ExpectQuery("SELECT c.id AS class_id, c.code AS class_code, c.tutor_id AS tutor_id").
		WithArgs(2, 3, &week).
		WillReturnRows(rows)

	commitments, err := repo.ListAt(context.Background(), &week, 2, 3)
	require.NoError(t, err)
	require.Len(t, commitments, 1)
	assert.Equal(t, "A1-101", commitments[0].Room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitmentRepositoryListAtAnyWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommitmentRepository(db)

	rows := commitmentRows().
		AddRow("c1", "ENG-01", "t1", 35, 2, 3, "A1-101").
		AddRow("c1", "ENG-01", "t1", 36, 2, 3, "A1-101")
	mock.ExpectQuery("SELECT c.id AS class_id, c.code AS class_code, c.tutor_id AS tutor_id").
		WithArgs(2, 3, nil).
		WillReturnRows(rows)

	commitments, err := repo.ListAt(context.Background(), nil, 2, 3)
	require.NoError(t, err)
	assert.Len(t, commitments, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
