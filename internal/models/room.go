package models

// Room is one bookable room in the static catalog.
type Room struct {
	ID       string `db:"id" json:"id"`
	Building string `db:"building" json:"building"`
	Floor    int    `db:"floor" json:"floor"`
	Name     string `db:"name" json:"name"`
}

// RoomAvailability reports whether a room is free at a target coordinate and,
// when taken, who occupies it.
type RoomAvailability struct {
	Room       Room        `json:"room"`
	Taken      bool        `json:"taken"`
	OccupiedBy *Commitment `json:"occupied_by,omitempty"`
}
