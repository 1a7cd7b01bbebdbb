package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/course-reg-api/internal/models"
)

// EnrollmentRepository resolves enrolled students for notification fan-out.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListStudentUserIDs returns the user ids of actively enrolled students.
func (r *EnrollmentRepository) ListStudentUserIDs(ctx context.Context, classID string) ([]string, error) {
	const query = `SELECT student_user_id FROM enrollments WHERE class_id = $1 AND status = $2 ORDER BY student_user_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, classID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}
	return ids, nil
}
