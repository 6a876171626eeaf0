package models

import (
	"gorm.io/gorm"
)

// Staff is a hotel employee account. The resolved staff id feeds audit
// fields (booking created_by, adjustment adjusted_by).
type Staff struct {
	gorm.Model

	HotelID  uint   `gorm:"index;column:hotel_id" json:"hotel_id"`
	FullName string `gorm:"size:255;column:full_name" json:"full_name"`
	Username string `gorm:"size:150;uniqueIndex" json:"username"`
	Password string `gorm:"size:255" json:"-"`
	Role     string `gorm:"size:64;default:'receptionist'" json:"role"`
}
