package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

const roomCatalogCacheKey = "rooms:catalog"

// RoomRepository serves the static building/floor/room catalog, cached in
// Redis since the catalog only changes between terms.
type RoomRepository struct {
	db       *sqlx.DB
	cache    *CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB, cache *CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *RoomRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomRepository{db: db, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Catalog returns every room ordered by building, floor and name.
func (r *RoomRepository) Catalog(ctx context.Context) ([]models.Room, error) {
	if r.cache != nil {
		var cached []models.Room
		err := r.cache.Get(ctx, roomCatalogCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			r.logger.Sugar().Warnw("room catalog cache read failed", "error", err)
		}
	}

	const query = `SELECT id, building, floor, name FROM rooms ORDER BY building, floor, name`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, roomCatalogCacheKey, rooms, r.cacheTTL); err != nil {
			r.logger.Sugar().Warnw("room catalog cache write failed", "error", err)
		}
	}
	return rooms, nil
}
