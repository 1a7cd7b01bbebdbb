package models

import "time"

// AttendanceRecord marks presence for one student at one concrete session.
type AttendanceRecord struct {
	ID            string    `db:"id" json:"id"`
	ClassID       string    `db:"class_id" json:"class_id"`
	StudentUserID string    `db:"student_user_id" json:"student_user_id"`
	Week          int       `db:"week" json:"week"`
	Day           int       `db:"day" json:"day"`
	Period        int       `db:"period" json:"period"`
	Present       bool      `db:"present" json:"present"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// WeekAttendancePolicy decides how per-week attendance is derived from
// per-session attendance.
type WeekAttendancePolicy string

const (
	// WeekAttendanceAll counts a week attended only when every taught session
	// in the week was attended.
	WeekAttendanceAll WeekAttendancePolicy = "all"
	// WeekAttendanceAny counts a week attended when at least one session was.
	WeekAttendanceAny WeekAttendancePolicy = "any"
)
