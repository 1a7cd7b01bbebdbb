package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/course-reg-api/internal/models"
)

// CommitmentRepository produces flattened commitment rows: a class's base
// schedule minus REMOVED exceptions, plus ADDED exceptions. The flattening
// happens in SQL so detector scopes are one query away.
type CommitmentRepository struct {
	db *sqlx.DB
}

// NewCommitmentRepository creates a new commitment repository.
func NewCommitmentRepository(db *sqlx.DB) *CommitmentRepository {
	return &CommitmentRepository{db: db}
}

// ListForTutor returns all commitments across every class of a tutor, in
// stable (week, day, period) order.
func (r *CommitmentRepository) ListForTutor(ctx context.Context, tutorID string) ([]models.Commitment, error) {
	const query = `
		SELECT c.id AS class_id, c.code AS class_code, c.tutor_id AS tutor_id,
		       s.week AS week, s.day AS day, s.period AS period, s.room AS room
		FROM schedule_rows s
		JOIN classes c ON c.id = s.class_id
		WHERE c.tutor_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM makeup_records m
			WHERE m.class_id = s.class_id AND m.week = s.week
			  AND m.day = s.day AND m.period = s.period AND m.type = 'REMOVED')
		UNION ALL
		SELECT c.id AS class_id, c.code AS class_code, c.tutor_id AS tutor_id,
		       m.week AS week, m.day AS day, m.period AS period, COALESCE(m.room, '') AS room
		FROM makeup_records m
		JOIN classes c ON c.id = m.class_id
		WHERE c.tutor_id = $1 AND m.type = 'ADDED'
		ORDER BY week, day, period`
	var commitments []models.Commitment
	if err := r.db.SelectContext(ctx, &commitments, query, tutorID); err != nil {
		return nil, fmt.Errorf("list commitments for tutor: %w", err)
	}
	return commitments, nil
}

// ListAt returns every tutor's commitments at one (day, period) coordinate,
// optionally narrowed to a single week. Used for room availability.
func (r *CommitmentRepository) ListAt(ctx context.Context, week *int, day, period int) ([]models.Commitment, error) {
	const query = `
		SELECT c.id AS class_id, c.code AS class_code, c.tutor_id AS tutor_id,
		       s.week AS week, s.day AS day, s.period AS period, s.room AS room
		FROM schedule_rows s
		JOIN classes c ON c.id = s.class_id
		WHERE c.tutor_id IS NOT NULL AND s.day = $1 AND s.period = $2
		  AND ($3::int IS NULL OR s.week = $3)
		  AND NOT EXISTS (
			SELECT 1 FROM makeup_records m
			WHERE m.class_id = s.class_id AND m.week = s.week
			  AND m.day = s.day AND m.period = s.period AND m.type = 'REMOVED')
		UNION ALL
		SELECT c.id AS class_id, c.code AS class_code, c.tutor_id AS tutor_id,
		       m.week AS week, m.day AS day, m.period AS period, COALESCE(m.room, '') AS room
		FROM makeup_records m
		JOIN classes c ON c.id = m.class_id
		WHERE c.tutor_id IS NOT NULL AND m.day = $1 AND m.period = $2
		  AND ($3::int IS NULL OR m.week = $3)
		  AND m.type = 'ADDED'
		ORDER BY week, day, period`
	var commitments []models.Commitment
	if err := r.db.SelectContext(ctx, &commitments, query, day, period, week); err != nil {
		return nil, fmt.Errorf("list commitments at coordinate: %w", err)
	}
	return commitments, nil
}
