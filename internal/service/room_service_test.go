package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
)

type mockRoomCatalog struct {
	rooms []models.Room
}

func (m *mockRoomCatalog) Catalog(ctx context.Context) ([]models.Room, error) {
	return m.rooms, nil
}

type mockCoordinateCommitments struct {
	scope []models.Commitment
}

func (m *mockCoordinateCommitments) ListAt(ctx context.Context, week *int, day, period int) ([]models.Commitment, error) {
	return m.scope, nil
}

func TestRoomServiceListAvailability(t *testing.T) {
	catalog := &mockRoomCatalog{rooms: []models.Room{
		{ID: "r1", Building: "A", Floor: 1, Name: "A1-101"},
		{ID: "r2", Building: "A", Floor: 1, Name: "A1-102"},
	}}
	commitments := &mockCoordinateCommitments{scope: []models.Commitment{
		{ClassID: "c2", ClassCode: "ENG-02", TutorID: "t2", Week: 35, Day: 2, Period: 3, Room: "A1-101"},
	}}
	svc := NewRoomService(catalog, commitments, zap.NewNop())
	week := 35

	availability, err := svc.ListAvailability(context.Background(), "t1", "ENG-01", &week, 2, 3)
	require.NoError(t, err)
	require.Len(t, availability, 2)

	assert.True(t, availability[0].Taken)
	require.NotNil(t, availability[0].OccupiedBy)
	assert.Equal(t, "ENG-02", availability[0].OccupiedBy.ClassCode)

	assert.False(t, availability[1].Taken)
	assert.Nil(t, availability[1].OccupiedBy)
}

func TestRoomServiceOwnClassKeepsRoomAvailable(t *testing.T) {
	catalog := &mockRoomCatalog{rooms: []models.Room{{ID: "r1", Name: "A1-101"}}}
	commitments := &mockCoordinateCommitments{scope: []models.Commitment{
		{ClassID: "c1", ClassCode: "ENG-01", TutorID: "t1", Week: 35, Day: 2, Period: 3, Room: "A1-101"},
	}}
	svc := NewRoomService(catalog, commitments, zap.NewNop())
	week := 35

	availability, err := svc.ListAvailability(context.Background(), "t1", "ENG-01", &week, 2, 3)
	require.NoError(t, err)
	require.Len(t, availability, 1)
	assert.False(t, availability[0].Taken)
}

func TestRoomServiceValidatesCoordinate(t *testing.T) {
	svc := NewRoomService(&mockRoomCatalog{}, &mockCoordinateCommitments{}, zap.NewNop())

	_, err := svc.ListAvailability(context.Background(), "t1", "ENG-01", nil, 0, 1)
	require.Error(t, err)
	_, err = svc.ListAvailability(context.Background(), "t1", "ENG-01", nil, 1, 13)
	require.Error(t, err)
}
