package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/course-reg-api/internal/models"
)

// ProgramRepository provides persistence for programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository creates a new program repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// FindByID loads a program by id.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	const query = `SELECT id, name, start_week, end_week, number_of_week, period_per_week, status, created_at, updated_at
		FROM programs WHERE id = $1`
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// UpdateStatus sets the derived active/upcoming status.
func (r *ProgramRepository) UpdateStatus(ctx context.Context, id string, status models.ProgramStatus) error {
	const query = `UPDATE programs SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update program status: %w", err)
	}
	return nil
}
