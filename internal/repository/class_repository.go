package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/course-reg-api/internal/models"
)

// ClassRepository provides persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = "id, code, program_id, tutor_id, tutor_name, created_at, updated_at"

// FindByID loads a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListByProgram returns the sibling classes of a program.
func (r *ClassRepository) ListByProgram(ctx context.Context, programID string) ([]models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE program_id = $1 ORDER BY code", classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, programID); err != nil {
		return nil, fmt.Errorf("list classes by program: %w", err)
	}
	return classes, nil
}

// UpdateTutorAssignment refreshes the denormalized tutor fields on a class.
func (r *ClassRepository) UpdateTutorAssignment(ctx context.Context, classID, tutorID, tutorName string) error {
	const query = `UPDATE classes SET tutor_id = $2, tutor_name = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, classID, tutorID, tutorName, time.Now().UTC()); err != nil {
		return fmt.Errorf("update tutor assignment: %w", err)
	}
	return nil
}
