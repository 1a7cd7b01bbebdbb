package models

import "time"

// SessionMode distinguishes online from on-site sessions.
type SessionMode string

const (
	SessionModeOnline  SessionMode = "ONLINE"
	SessionModeOffline SessionMode = "OFFLINE"
)

// ScheduleRow is one concrete base session of a class's recurring schedule.
// The full row set for a class is replaced whenever the tutor re-submits.
type ScheduleRow struct {
	ID        string      `db:"id" json:"id"`
	ClassID   string      `db:"class_id" json:"class_id"`
	Week      int         `db:"week" json:"week"`
	Day       int         `db:"day" json:"day"`
	Period    int         `db:"period" json:"period"`
	Room      string      `db:"room" json:"room"`
	Mode      SessionMode `db:"mode" json:"mode"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// PatternSlot is one weekly slot of a recurring pattern before expansion across weeks.
type PatternSlot struct {
	Day    int         `json:"day"`
	Period int         `json:"period"`
	Room   string      `json:"room"`
	Mode   SessionMode `json:"mode"`
}

// RoomLabel renders the room for human-readable messages. Online sessions carry no room.
func RoomLabel(mode SessionMode, room string) string {
	if mode == SessionModeOnline || room == "" {
		return "Online"
	}
	return "Room " + room
}
