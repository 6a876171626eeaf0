package models

import (
	"gorm.io/gorm"
)

// Room status values. Status is the single source of truth for whether a
// room may accept new check-ins or guest orders.
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusCleaning    = "cleaning"
	RoomStatusMaintenance = "maintenance"
)

type Room struct {
	gorm.Model

	HotelID    uint   `gorm:"column:hotel_id;index:idx_hotel_room,unique" json:"hotel_id"`
	RoomNumber string `gorm:"column:room_number;index:idx_hotel_room,unique;type:varchar(50)" json:"room_number"`
	Floor      string `gorm:"type:varchar(10)" json:"floor"`

	Status      string `gorm:"size:32;default:'available'" json:"status"`
	Description string `gorm:"type:text" json:"description"`

	Hotel Hotel `gorm:"foreignKey:HotelID" json:"-"`
}

// AcceptsCheckIn reports whether a front-desk check-in may proceed against
// this room's current status. Occupied rooms are handled separately (the
// caller needs the conflicting booking for the error payload).
func (r *Room) AcceptsCheckIn() bool {
	return r.Status == RoomStatusAvailable || r.Status == RoomStatusOccupied
}
