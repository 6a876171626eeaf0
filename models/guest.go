package models

import (
	"time"

	"gorm.io/gorm"
)

// Guest is the person record resolved (or created) at check-in. Bookings
// reference it but keep their own snapshot of name/contact fields, so a
// later guest edit never rewrites booking history.
type Guest struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HotelID  uint   `gorm:"index;column:hotel_id" json:"hotel_id"`
	FullName string `gorm:"size:255" json:"full_name"`
	Email    string `gorm:"size:150" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`
}
