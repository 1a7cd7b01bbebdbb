package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/course-reg-api/internal/models"
)

// ScheduleRowRepository persists base recurring schedule rows.
type ScheduleRowRepository struct {
	db *sqlx.DB
}

// NewScheduleRowRepository creates a new schedule row repository.
func NewScheduleRowRepository(db *sqlx.DB) *ScheduleRowRepository {
	return &ScheduleRowRepository{db: db}
}

const scheduleRowColumns = "id, class_id, week, day, period, room, mode, created_at, updated_at"

// ListByClass returns every base row of a class ordered by coordinate.
func (r *ScheduleRowRepository) ListByClass(ctx context.Context, classID string) ([]models.ScheduleRow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_rows WHERE class_id = $1 ORDER BY week, day, period", scheduleRowColumns)
	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("list schedule rows: %w", err)
	}
	return rows, nil
}

// ListByClassWeek returns the base rows of a class for one week.
func (r *ScheduleRowRepository) ListByClassWeek(ctx context.Context, classID string, week int) ([]models.ScheduleRow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_rows WHERE class_id = $1 AND week = $2 ORDER BY day, period", scheduleRowColumns)
	var rows []models.ScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, classID, week); err != nil {
		return nil, fmt.Errorf("list schedule rows for week: %w", err)
	}
	return rows, nil
}

// ReplaceForClass swaps the class's full base schedule in one transaction.
// The recurring builder always re-submits the whole set, rows never mutate in place.
func (r *ScheduleRowRepository) ReplaceForClass(ctx context.Context, classID string, rows []models.ScheduleRow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule rows: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM schedule_rows WHERE class_id = $1", classID); err != nil {
		return fmt.Errorf("delete schedule rows: %w", err)
	}

	const insert = `INSERT INTO schedule_rows (id, class_id, week, day, period, room, mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now().UTC()
	for i := range rows {
		row := &rows[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		row.ClassID = classID
		if _, err = tx.ExecContext(ctx, insert, row.ID, classID, row.Week, row.Day, row.Period, row.Room, row.Mode, now, now); err != nil {
			return fmt.Errorf("insert schedule row: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace schedule rows: %w", err)
	}
	return nil
}
