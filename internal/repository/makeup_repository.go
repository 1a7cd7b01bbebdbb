package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/course-reg-api/internal/models"
	appErrors "github.com/campusops/course-reg-api/pkg/errors"
)

// MakeupRepository persists week-specific exception records and the
// per-(class,week) overlay version used for optimistic concurrency.
type MakeupRepository struct {
	db *sqlx.DB
}

// NewMakeupRepository creates a new makeup repository.
func NewMakeupRepository(db *sqlx.DB) *MakeupRepository {
	return &MakeupRepository{db: db}
}

const makeupColumns = "id, class_id, week, day, period, type, room, mode, created_at"

// ListByClass returns every exception record of a class.
func (r *MakeupRepository) ListByClass(ctx context.Context, classID string) ([]models.MakeupRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM makeup_records WHERE class_id = $1 ORDER BY week, day, period", makeupColumns)
	var records []models.MakeupRecord
	if err := r.db.SelectContext(ctx, &records, query, classID); err != nil {
		return nil, fmt.Errorf("list makeup records: %w", err)
	}
	return records, nil
}

// ListByClassWeek returns the persisted exception set for one (class, week).
func (r *MakeupRepository) ListByClassWeek(ctx context.Context, classID string, week int) ([]models.MakeupRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM makeup_records WHERE class_id = $1 AND week = $2 ORDER BY day, period, type", makeupColumns)
	var records []models.MakeupRecord
	if err := r.db.SelectContext(ctx, &records, query, classID, week); err != nil {
		return nil, fmt.Errorf("list makeup records for week: %w", err)
	}
	return records, nil
}

// OverlayVersion returns the current version counter for a (class, week).
// A week that was never saved has version 0.
func (r *MakeupRepository) OverlayVersion(ctx context.Context, classID string, week int) (int, error) {
	var version int
	err := r.db.GetContext(ctx, &version, "SELECT version FROM overlay_versions WHERE class_id = $1 AND week = $2", classID, week)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get overlay version: %w", err)
	}
	return version, nil
}

// ApplyDiff inserts and deletes exception records for one (class, week) in a
// single transaction, guarded by the overlay version counter. A version
// mismatch means another session saved in between; the caller must re-read.
func (r *MakeupRepository) ApplyDiff(ctx context.Context, classID string, week, expectedVersion int, toInsert, toDelete []models.MakeupRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin overlay diff: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const bump = `INSERT INTO overlay_versions (class_id, week, version) VALUES ($1, $2, 1)
		ON CONFLICT (class_id, week) DO UPDATE SET version = overlay_versions.version + 1
		WHERE overlay_versions.version = $3`
	res, err := tx.ExecContext(ctx, bump, classID, week, expectedVersion)
	if err != nil {
		return fmt.Errorf("bump overlay version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bump overlay version result: %w", err)
	}
	if affected == 0 {
		err = appErrors.Clone(appErrors.ErrStaleData, "overlay changed since it was read, re-fetch before saving")
		return err
	}

	for _, record := range toDelete {
		if _, err = tx.ExecContext(ctx,
			"DELETE FROM makeup_records WHERE class_id = $1 AND week = $2 AND day = $3 AND period = $4 AND type = $5",
			classID, week, record.Day, record.Period, record.Type); err != nil {
			return fmt.Errorf("delete makeup record: %w", err)
		}
	}

	const insert = `INSERT INTO makeup_records (id, class_id, week, day, period, type, room, mode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now().UTC()
	for _, record := range toInsert {
		id := record.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, insert, id, classID, week, record.Day, record.Period, record.Type, record.Room, record.Mode, now); err != nil {
			return fmt.Errorf("insert makeup record: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit overlay diff: %w", err)
	}
	return nil
}
