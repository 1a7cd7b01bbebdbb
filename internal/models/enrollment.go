package models

import "time"

// EnrollmentStatus is the lifecycle state of a student's enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusWithdrawn EnrollmentStatus = "WITHDRAWN"
)

// Enrollment links a student account to a class. The scheduling core only
// reads it to resolve notification recipients.
type Enrollment struct {
	ID            string           `db:"id" json:"id"`
	ClassID       string           `db:"class_id" json:"class_id"`
	StudentUserID string           `db:"student_user_id" json:"student_user_id"`
	Status        EnrollmentStatus `db:"status" json:"status"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
}
