package models

import "time"

// ProgramStatus reflects whether any class of the program has an assigned tutor.
type ProgramStatus string

const (
	ProgramStatusUpcoming ProgramStatus = "UPCOMING"
	ProgramStatusActive   ProgramStatus = "ACTIVE"
)

// Program declares the scheduling quotas a tutor must satisfy: how many weeks
// to pick inside [StartWeek, EndWeek] and how many periods each selected week.
type Program struct {
	ID            string        `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	StartWeek     int           `db:"start_week" json:"start_week"`
	EndWeek       int           `db:"end_week" json:"end_week"`
	NumberOfWeek  int           `db:"number_of_week" json:"number_of_week"`
	PeriodPerWeek int           `db:"period_per_week" json:"period_per_week"`
	Status        ProgramStatus `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Class is one teachable section of a program. Tutor assignment fields are
// denormalized and refreshed when a recurring schedule is submitted.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	ProgramID string    `db:"program_id" json:"program_id"`
	TutorID   *string   `db:"tutor_id" json:"tutor_id,omitempty"`
	TutorName *string   `db:"tutor_name" json:"tutor_name,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AssignedTo reports whether the class is currently owned by the given tutor.
func (c *Class) AssignedTo(tutorID string) bool {
	return c.TutorID != nil && *c.TutorID == tutorID
}
