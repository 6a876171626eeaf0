package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion discount types.
const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

// Promotion applies a discount to guest orders. ServiceType scopes it to a
// single service ("" means hotel-wide). StartTime/EndTime are optional
// "HH:MM" bounds (inclusive) within each day of the date range, e.g. a
// happy hour running 16:00-18:00.
type Promotion struct {
	gorm.Model

	HotelID     uint   `gorm:"index;column:hotel_id" json:"hotel_id"`
	Name        string `gorm:"size:255" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	DiscountType      string   `gorm:"size:32;column:discount_type" json:"discount_type"`
	DiscountValue     float64  `gorm:"type:decimal(10,2);column:discount_value" json:"discount_value"`
	MaxDiscountAmount *float64 `gorm:"type:decimal(10,2);column:max_discount_amount" json:"max_discount_amount,omitempty"`
	MinOrderAmount    *float64 `gorm:"type:decimal(10,2);column:min_order_amount" json:"min_order_amount,omitempty"`

	ServiceType string `gorm:"size:32;column:service_type" json:"service_type,omitempty"`

	StartDate time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date" json:"end_date"`
	StartTime string    `gorm:"size:5;column:start_time" json:"start_time,omitempty"`
	EndTime   string    `gorm:"size:5;column:end_time" json:"end_time,omitempty"`

	Active bool `gorm:"column:active;default:true" json:"active"`

	ItemDiscounts []PromotionItemDiscount `gorm:"foreignKey:PromotionID" json:"item_discounts,omitempty"`
}

// PromotionItemDiscount overrides the parent promotion for one menu item,
// keyed by (service_id, item_name). Item-level overrides win over
// service-scoped and hotel-wide promotions.
type PromotionItemDiscount struct {
	gorm.Model

	PromotionID uint   `gorm:"index;column:promotion_id" json:"promotion_id"`
	ServiceID   uint   `gorm:"index;column:service_id" json:"service_id"`
	ItemName    string `gorm:"size:255;column:item_name" json:"item_name"`

	DiscountType      string   `gorm:"size:32;column:discount_type" json:"discount_type"`
	DiscountValue     float64  `gorm:"type:decimal(10,2);column:discount_value" json:"discount_value"`
	MaxDiscountAmount *float64 `gorm:"type:decimal(10,2);column:max_discount_amount" json:"max_discount_amount,omitempty"`
}
