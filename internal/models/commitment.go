package models

// Commitment is an occupied (week,day,period,room) coordinate derived by
// flattening a class's base schedule with its persisted exceptions. It is the
// unit the conflict detector scans.
type Commitment struct {
	ClassID   string `db:"class_id" json:"class_id"`
	ClassCode string `db:"class_code" json:"class_code"`
	TutorID   string `db:"tutor_id" json:"tutor_id"`
	Week      int    `db:"week" json:"week"`
	Day       int    `db:"day" json:"day"`
	Period    int    `db:"period" json:"period"`
	Room      string `db:"room" json:"room"`
}
