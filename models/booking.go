package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking status values. A booking is "active" iff status is checked_in.
const (
	BookingStatusCheckedIn  = "checked_in"
	BookingStatusCheckedOut = "checked_out"
)

// Payment status values shared by bookings and orders.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HotelID uint `gorm:"index;column:hotel_id" json:"hotel_id"`
	RoomID  uint `gorm:"index;column:room_id" json:"room_id"`

	// ActiveRoomID mirrors RoomID while the booking is checked in and is
	// cleared at check-out. The unique index turns two concurrent
	// check-ins on the same room into a duplicate-key error instead of a
	// second active booking (MySQL has no partial unique indexes).
	ActiveRoomID *uint `gorm:"column:active_room_id;uniqueIndex" json:"-"`

	GuestID    *uint  `gorm:"index;column:guest_id" json:"guest_id,omitempty"`
	GuestName  string `gorm:"size:255;column:guest_name" json:"guest_name"`
	GuestEmail string `gorm:"size:150;column:guest_email" json:"guest_email,omitempty"`
	GuestPhone string `gorm:"size:50;column:guest_phone" json:"guest_phone,omitempty"`

	CheckInDate  time.Time `gorm:"column:check_in_date" json:"check_in_date"`
	CheckOutDate time.Time `gorm:"column:check_out_date" json:"check_out_date"`

	Status          string  `gorm:"size:32;column:status" json:"status"`
	TotalAmount     float64 `gorm:"column:total_amount" json:"total_amount"`
	PaymentStatus   string  `gorm:"size:32;column:payment_status;default:'pending'" json:"payment_status"`
	SpecialRequests string  `gorm:"type:text;column:special_requests" json:"special_requests,omitempty"`

	CreatedBy uint `gorm:"column:created_by" json:"created_by"`

	Room  Room   `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Guest *Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
}

// IsActive reports whether the booking still occupies its room.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusCheckedIn
}
