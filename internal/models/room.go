package models

import "time"

// RoomType categorises rooms for requirement matching.
type RoomType string

const (
	RoomTypeClassroom    RoomType = "CLASSROOM"
	RoomTypeLab          RoomType = "LAB"
	RoomTypeComputerRoom RoomType = "COMPUTER_ROOM"
	RoomTypeGym          RoomType = "GYM"
	RoomTypeAuditorium   RoomType = "AUDITORIUM"
	RoomTypeLibrary      RoomType = "LIBRARY"
)

// Room represents a physical teaching space.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      RoomType  `db:"type" json:"type"`
	Capacity  int       `db:"capacity" json:"capacity"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
