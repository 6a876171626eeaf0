package models

import "time"

// FolioAdjustment is the append-only settlement audit trail. Rows are
// inserted exactly once per settle/correction action and never updated or
// deleted; "the current adjustment" for a booking is its newest row.
type FolioAdjustment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BookingID uint `gorm:"index;column:booking_id" json:"booking_id"`

	SubtotalAmount float64 `gorm:"column:subtotal_amount" json:"subtotal_amount"`
	TaxAmount      float64 `gorm:"column:tax_amount" json:"tax_amount"`
	FinalAmount    float64 `gorm:"column:final_amount" json:"final_amount"`

	PosReceiptNumber string `gorm:"size:64;column:pos_receipt_number" json:"pos_receipt_number,omitempty"`
	Notes            string `gorm:"type:text" json:"notes,omitempty"`

	AdjustedBy uint `gorm:"column:adjusted_by" json:"adjusted_by"`
}

// Folio is computed on read, never stored: the booking joined with every
// non-deleted order that references it.
type Folio struct {
	BookingID     uint             `json:"booking_id"`
	Booking       Booking          `json:"booking"`
	Orders        []Order          `json:"orders"`
	TotalAmount   float64          `json:"total_amount"`
	PaymentStatus string           `json:"payment_status"`
	Adjustment    *FolioAdjustment `json:"adjustment,omitempty"`
}
