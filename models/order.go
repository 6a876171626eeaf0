package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order status values for the kitchen/staff workflow.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Service types routed to departments.
const (
	ServiceTypeFood     = "food"
	ServiceTypeBeverage = "beverage"
	ServiceTypeSpa      = "spa"
	ServiceTypeLaundry  = "laundry"
	ServiceTypeMinibar  = "minibar"
)

// OrderItem is the line-item snapshot embedded in an order. Prices are
// captured at submission time; later menu edits don't touch past orders.
type OrderItem struct {
	ItemID      uint    `json:"item_id"`
	ServiceID   uint    `json:"service_id,omitempty"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	ServiceType string  `json:"service_type,omitempty"`
	Department  string  `json:"department,omitempty"`
}

type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	HotelID   uint `gorm:"index;column:hotel_id" json:"hotel_id"`
	RoomID    uint `gorm:"index;column:room_id" json:"room_id"`
	BookingID uint `gorm:"index;column:booking_id" json:"booking_id"`

	OrderNumber string `gorm:"size:64;column:order_number;uniqueIndex" json:"order_number"`
	OrderType   string `gorm:"size:32;column:order_type" json:"order_type"`
	RoomNumber  string `gorm:"size:50;column:room_number" json:"room_number"`
	GuestPhone  string `gorm:"size:50;column:guest_phone" json:"guest_phone"`

	Items datatypes.JSON `gorm:"column:items" json:"items"`

	Subtotal       float64 `gorm:"column:subtotal" json:"subtotal"`
	DiscountAmount float64 `gorm:"column:discount_amount" json:"discount_amount"`
	TaxAmount      float64 `gorm:"column:tax_amount" json:"tax_amount"`
	TotalAmount    float64 `gorm:"column:total_amount" json:"total_amount"`

	PaymentStatus string `gorm:"size:32;column:payment_status;default:'pending'" json:"payment_status"`
	Status        string `gorm:"size:32;column:status;default:'pending'" json:"status"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

// OrderItems decodes the embedded items snapshot. A corrupt snapshot
// returns an empty slice plus the unmarshal error.
func (o *Order) OrderItems() ([]OrderItem, error) {
	var items []OrderItem
	if len(o.Items) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems encodes the line items into the JSON column.
func (o *Order) SetItems(items []OrderItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.Items = datatypes.JSON(raw)
	return nil
}

// DepartmentFor maps a service type onto the department that fulfils it.
// Unknown types route to the front desk so nothing is silently dropped.
func DepartmentFor(serviceType string) string {
	switch serviceType {
	case ServiceTypeFood:
		return "kitchen"
	case ServiceTypeBeverage, ServiceTypeMinibar:
		return "bar"
	case ServiceTypeSpa:
		return "spa"
	case ServiceTypeLaundry:
		return "housekeeping"
	default:
		return "front_desk"
	}
}
