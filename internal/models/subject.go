package models

import "time"

// Subject represents an academic subject.
type Subject struct {
	ID              string    `db:"id" json:"id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	RoomRequirement *RoomType `db:"room_requirement" json:"roomRequirement,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// RequiresSpecialRoom reports whether the subject carries a room-type tag.
func (s Subject) RequiresSpecialRoom() bool {
	return s.RoomRequirement != nil && *s.RoomRequirement != ""
}
