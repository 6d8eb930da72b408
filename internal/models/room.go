package models

import "time"

// Room types with a dedicated daily rate. Any other type is billed at the default rate.
const (
	RoomTypeICU     = "ICU"
	RoomTypePrivate = "Private"
	RoomTypeWard    = "Ward"
)

// Room represents a hospital room that admitted patients are assigned to
type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    int       `gorm:"not null;uniqueIndex" json:"number"`
	Type      string    `gorm:"size:30;not null" json:"type"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "rooms"
}

// RoomWithOccupancy includes the number of currently admitted patients
type RoomWithOccupancy struct {
	Room
	Occupants int64 `json:"occupants"`
}

// HasSpace reports whether another patient can be admitted to the room
func (r RoomWithOccupancy) HasSpace() bool {
	return r.Occupants < int64(r.Capacity)
}
