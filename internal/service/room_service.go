package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

type roomCatalogReader interface {
	Catalog(ctx context.Context) ([]models.Room, error)
}

type coordinateCommitmentReader interface {
	ListAt(ctx context.Context, week *int, day, period int) ([]models.Commitment, error)
}

// RoomService partitions the room catalog into available and taken rooms for
// a target coordinate. Selecting a taken room is the UI's job to prevent; the
// partition carries who occupies each taken room so it can explain itself.
type RoomService struct {
	rooms       roomCatalogReader
	commitments coordinateCommitmentReader
	detector    ConflictDetector
	logger      *zap.Logger
}

// NewRoomService wires the room selection dependencies.
func NewRoomService(rooms roomCatalogReader, commitments coordinateCommitmentReader, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{rooms: rooms, commitments: commitments, detector: NewConflictDetector(), logger: logger}
}

// ListAvailability reports each catalog room's state at (week|any, day,
// period). A room held by the requesting tutor's own class of the same code
// stays available, so a tutor reusing their room across weeks is never blocked.
func (s *RoomService) ListAvailability(ctx context.Context, tutorID, ownClassCode string, week *int, day, period int) ([]models.RoomAvailability, error) {
	if _, err := models.ParseDay(day); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := models.ParsePeriod(period); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	catalog, err := s.rooms.Catalog(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room catalog")
	}
	scope, err := s.commitments.ListAt(ctx, week, day, period)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load commitments")
	}

	availability := make([]models.RoomAvailability, 0, len(catalog))
	for _, room := range catalog {
		entry := models.RoomAvailability{Room: room}
		if hit := s.detector.FindRoom(scope, week, day, period, room.Name, tutorID, ownClassCode); hit != nil {
			entry.Taken = true
			entry.OccupiedBy = hit
		}
		availability = append(availability, entry)
	}
	return availability, nil
}
