package models

import "time"

// MakeupType tags an overlay record as an ad-hoc addition or a cancellation.
type MakeupType string

const (
	MakeupTypeAdded   MakeupType = "ADDED"
	MakeupTypeRemoved MakeupType = "REMOVED"
)

// MakeupRecord is a week-specific exception overlaid on the base schedule.
// REMOVED records negate one (week,day,period) coordinate and carry no room or
// mode; ADDED records always carry both.
type MakeupRecord struct {
	ID        string       `db:"id" json:"id"`
	ClassID   string       `db:"class_id" json:"class_id"`
	Week      int          `db:"week" json:"week"`
	Day       int          `db:"day" json:"day"`
	Period    int          `db:"period" json:"period"`
	Type      MakeupType   `db:"type" json:"type"`
	Room      *string      `db:"room" json:"room,omitempty"`
	Mode      *SessionMode `db:"mode" json:"mode,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// OverlayKey identifies an overlay record inside one (class, week) by its
// coordinate and type. The persistence diff matches records on this key.
type OverlayKey struct {
	Day    int
	Period int
	Type   MakeupType
}

// Key returns the diff key of the record.
func (m MakeupRecord) Key() OverlayKey {
	return OverlayKey{Day: m.Day, Period: m.Period, Type: m.Type}
}

// SlotStatus tags how an effective slot came to be.
type SlotStatus string

const (
	SlotStatusNormal    SlotStatus = "NORMAL"
	SlotStatusCancelled SlotStatus = "CANCELLED"
	SlotStatusMakeup    SlotStatus = "MAKEUP"
)

// EffectiveSlot is the computed, never persisted view of one session for one
// (class, week): the base schedule with exceptions applied. CANCELLED slots are
// kept in the view so callers can render them inert.
type EffectiveSlot struct {
	ClassID string      `json:"class_id"`
	Week    int         `json:"week"`
	Day     int         `json:"day"`
	Period  int         `json:"period"`
	Room    string      `json:"room"`
	Mode    SessionMode `json:"mode"`
	Status  SlotStatus  `json:"status"`
}

// OverlayDraft holds the in-memory exception set for one (class, week) while a
// tutor edits. Nothing touches the database until the draft is saved.
type OverlayDraft struct {
	ClassID string         `json:"class_id"`
	Week    int            `json:"week"`
	Records []MakeupRecord `json:"records"`
}

// Find returns the draft record at the coordinate with the given type, or nil.
func (d *OverlayDraft) Find(day, period int, typ MakeupType) *MakeupRecord {
	for i := range d.Records {
		r := &d.Records[i]
		if r.Day == day && r.Period == period && r.Type == typ {
			return r
		}
	}
	return nil
}

// Add appends a record to the draft.
func (d *OverlayDraft) Add(record MakeupRecord) {
	record.ClassID = d.ClassID
	record.Week = d.Week
	d.Records = append(d.Records, record)
}

// Remove deletes the record at the coordinate with the given type.
// It reports whether a record was removed.
func (d *OverlayDraft) Remove(day, period int, typ MakeupType) bool {
	for i := range d.Records {
		r := d.Records[i]
		if r.Day == day && r.Period == period && r.Type == typ {
			d.Records = append(d.Records[:i], d.Records[i+1:]...)
			return true
		}
	}
	return false
}
