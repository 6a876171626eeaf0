package models

import "time"

// Hotel is the tenant record. Timezone is an IANA name used to resolve the
// hotel-local date for check-in validation and promotion windows.
type Hotel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Email     string    `gorm:"size:150" json:"email"`
	Timezone  string    `gorm:"size:64;default:'UTC'" json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location resolves the hotel's timezone, falling back to UTC when the
// value is empty or not a valid IANA name.
func (h *Hotel) Location() *time.Location {
	if h == nil || h.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
