package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/course-reg-api/internal/models"
)

// AttendanceRepository reads per-session attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByStudentWeek returns a student's attendance rows for one class week.
func (r *AttendanceRepository) ListByStudentWeek(ctx context.Context, classID, studentUserID string, week int) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, class_id, student_user_id, week, day, period, present, created_at
		FROM attendance_records
		WHERE class_id = $1 AND student_user_id = $2 AND week = $3
		ORDER BY day, period`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, classID, studentUserID, week); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}
