// services/order_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hotelops-backend/models"
	"hotelops-backend/notifications"
	"hotelops-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// duplicateWindow is how long a resubmitted identical payload is treated
// as the same order. It absorbs naive client-side retries only; it is not
// a general idempotency key.
const duplicateWindow = 5 * time.Second

// OrderService admits guest-submitted orders against the room/booking
// state and runs the kitchen/staff status workflow.
type OrderService struct {
	DB         *gorm.DB
	Promotions *PromotionService
	Notifier   *notifications.Dispatcher
}

func NewOrderService(db *gorm.DB, promotions *PromotionService, notifier *notifications.Dispatcher) *OrderService {
	return &OrderService{DB: db, Promotions: promotions, Notifier: notifier}
}

// OrderItemInput is one cart line as submitted by the guest.
type OrderItemInput struct {
	ItemID      uint    `json:"item_id"`
	ServiceID   uint    `json:"service_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	ServiceType string  `json:"service_type"`
}

// SubmitOrderInput is the guest submission. Total is the client's stated
// cart total; when present it must agree with the server-priced one.
type SubmitOrderInput struct {
	HotelID    uint
	RoomNumber string
	GuestPhone string
	OrderType  string
	Items      []OrderItemInput
	Total      *float64
}

// SubmitOrderResult carries the created (or deduplicated) order.
type SubmitOrderResult struct {
	Order     models.Order `json:"order"`
	Duplicate bool         `json:"duplicate"`
}

// validTransitions is the staff status workflow. Delivered and cancelled
// are terminal.
var validTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:     {models.OrderStatusDelivered, models.OrderStatusCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func validateItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return opErr(CodeInvalidInput, "order must contain at least one item", nil)
	}
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return opErr(CodeInvalidInput, fmt.Sprintf("item %d has no name", i), it)
		}
		if it.Quantity <= 0 {
			return opErr(CodeInvalidInput, fmt.Sprintf("item %q has non-positive quantity", it.Name), it)
		}
		if it.UnitPrice < 0 {
			return opErr(CodeInvalidInput, fmt.Sprintf("item %q has negative price", it.Name), it)
		}
	}
	return nil
}

func fingerprintOf(items []OrderItemInput) string {
	fp := make([]utils.FingerprintItem, 0, len(items))
	for _, it := range items {
		fp = append(fp, utils.FingerprintItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return utils.CartFingerprint(fp)
}

func orderFingerprint(o *models.Order) string {
	items, err := o.OrderItems()
	if err != nil {
		return ""
	}
	fp := make([]utils.FingerprintItem, 0, len(items))
	for _, it := range items {
		fp = append(fp, utils.FingerprintItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return utils.CartFingerprint(fp)
}

func amountsEqual(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}

// SubmitOrder validates a guest order against room/booking state, prices
// it through the promotion engine, suppresses 5-second duplicates, and
// persists it. Validation fails fast with a distinct reason code per
// branch.
func (s *OrderService) SubmitOrder(input SubmitOrderInput) (*SubmitOrderResult, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	var hotel models.Hotel
	if err := s.DB.First(&hotel, input.HotelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeHotelNotFound, "hotel not found", map[string]uint{"hotel_id": input.HotelID})
		}
		return nil, fmt.Errorf("db error loading hotel %d: %w", input.HotelID, err)
	}
	loc := hotel.Location()

	// 1. Room exists.
	var room models.Room
	err := s.DB.
		Where("hotel_id = ? AND room_number = ?", input.HotelID, strings.TrimSpace(input.RoomNumber)).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeRoomNotFound, "room not found",
				map[string]interface{}{"hotel_id": input.HotelID, "room_number": input.RoomNumber})
		}
		return nil, fmt.Errorf("db error loading room %s: %w", input.RoomNumber, err)
	}

	// 2. Not in maintenance.
	if room.Status == models.RoomStatusMaintenance {
		return nil, opErr(CodeRoomInMaintenance, "room is under maintenance", snapshotRoom(&room))
	}

	// 3. Occupied (a guest must be checked in to order).
	if room.Status != models.RoomStatusOccupied {
		return nil, opErr(CodeRoomNotCheckedIn, "room has no checked-in guest", snapshotRoom(&room))
	}

	// 4. Active booking exists.
	var booking models.Booking
	err = s.DB.
		Where("room_id = ? AND status = ?", room.ID, models.BookingStatusCheckedIn).
		Order("id DESC").
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeNoActiveBooking, "no active booking for this room", snapshotRoom(&room))
		}
		return nil, fmt.Errorf("db error loading active booking for room %d: %w", room.ID, err)
	}

	// 5. Booking not expired (hotel-local date).
	today := localToday(loc)
	checkOutDay := time.Date(booking.CheckOutDate.Year(), booking.CheckOutDate.Month(),
		booking.CheckOutDate.Day(), 0, 0, 0, 0, loc)
	if checkOutDay.Before(today) {
		return nil, opErr(CodeBookingExpired, "booking check-out date has passed", map[string]string{
			"check_out_date": booking.CheckOutDate.Format("2006-01-02"),
			"today":          today.Format("2006-01-02"),
		})
	}

	// 6. Phone is mandatory and must match the booking.
	if strings.TrimSpace(input.GuestPhone) == "" {
		return nil, opErr(CodePhoneRequired, "guest phone is required", nil)
	}
	if !utils.MatchPhone(input.GuestPhone, booking.GuestPhone) {
		return nil, opErr(CodePhoneMismatch, "phone does not match the booking",
			map[string]string{"submitted": input.GuestPhone})
	}

	normalizedPhone := utils.NormalizePhone(input.GuestPhone)

	// Price the cart before the duplicate check so the computed total is
	// comparable with stored orders.
	cartItems := make([]DiscountItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, it := range input.Items {
		lineTotal := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		lt, _ := lineTotal.Round(2).Float64()
		cartItems = append(cartItems, DiscountItem{
			ItemID:      it.ItemID,
			ServiceID:   it.ServiceID,
			Name:        it.Name,
			Price:       lt,
			ServiceType: it.ServiceType,
		})
	}
	pricing := s.Promotions.PriceCartAt(input.HotelID, cartItems, time.Now().In(loc))

	sub, _ := subtotal.Round(2).Float64()
	total, _ := subtotal.Sub(decimal.NewFromFloat(pricing.DiscountTotal)).Round(2).Float64()

	// A client-stated total that disagrees with the server-priced one
	// means stale menu prices or a tampered payload; never store it.
	if input.Total != nil && !amountsEqual(*input.Total, total) {
		return nil, opErr(CodeInvalidInput, "submitted total does not match the priced cart",
			map[string]float64{"submitted": *input.Total, "computed": total})
	}

	// Duplicate suppression: same hotel+booking+room+phone within the
	// window, identical item fingerprint, identical total.
	fingerprint := fingerprintOf(input.Items)
	since := time.Now().Add(-duplicateWindow)
	var recent []models.Order
	err = s.DB.
		Where("hotel_id = ? AND booking_id = ? AND room_number = ? AND guest_phone = ? AND created_at >= ?",
			input.HotelID, booking.ID, room.RoomNumber, normalizedPhone, since).
		Find(&recent).Error
	if err != nil {
		// A broken duplicate check must not reject a valid order.
		log.Printf("warning: duplicate-order lookup failed: %v", err)
	}
	for i := range recent {
		if orderFingerprint(&recent[i]) == fingerprint && amountsEqual(recent[i].TotalAmount, total) {
			return &SubmitOrderResult{Order: recent[i], Duplicate: true}, nil
		}
	}

	snapshot := make([]models.OrderItem, 0, len(input.Items))
	for i, it := range input.Items {
		snapshot = append(snapshot, models.OrderItem{
			ItemID:      it.ItemID,
			ServiceID:   it.ServiceID,
			Name:        strings.TrimSpace(it.Name),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  cartItems[i].Price,
			ServiceType: it.ServiceType,
			Department:  models.DepartmentFor(it.ServiceType),
		})
	}

	order := models.Order{
		HotelID:        input.HotelID,
		RoomID:         room.ID,
		BookingID:      booking.ID,
		OrderNumber:    newOrderNumber(),
		OrderType:      strings.TrimSpace(input.OrderType),
		RoomNumber:     room.RoomNumber,
		GuestPhone:     normalizedPhone,
		Subtotal:       sub,
		DiscountAmount: pricing.DiscountTotal,
		TaxAmount:      0,
		TotalAmount:    total,
		PaymentStatus:  models.PaymentStatusPending,
		Status:         models.OrderStatusPending,
	}
	if err := order.SetItems(snapshot); err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	if err := s.DB.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.notifyOrder(&order)

	return &SubmitOrderResult{Order: order, Duplicate: false}, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *OrderService) notifyOrder(order *models.Order) {
	if s.Notifier == nil || order.GuestPhone == "" {
		return
	}
	s.Notifier.Dispatch(notifications.Message{
		Channel:   "sms",
		Recipient: order.GuestPhone,
		Template:  notifications.TemplateOrderConfirmation,
		Variables: map[string]string{
			"order_number": order.OrderNumber,
			"room_number":  order.RoomNumber,
			"total_amount": fmt.Sprintf("%.2f", order.TotalAmount),
		},
	})
}

// UpdateOrderStatus applies a staff workflow transition.
func (s *OrderService) UpdateOrderStatus(orderID uint, newStatus string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeOrderNotFound, "order not found", map[string]uint{"order_id": orderID})
		}
		return nil, fmt.Errorf("db error loading order %d: %w", orderID, err)
	}

	if !canTransition(order.Status, newStatus) {
		return nil, opErr(CodeInvalidTransition,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, newStatus),
			map[string]string{"from": order.Status, "to": newStatus})
	}

	if err := s.DB.Model(&order).Update("status", newStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}
	order.Status = newStatus
	return &order, nil
}

// GetOrder loads one order.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeOrderNotFound, "order not found", map[string]uint{"order_id": orderID})
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// ListOrders returns a hotel's orders, optionally filtered by status,
// newest first.
func (s *OrderService) ListOrders(hotelID uint, status string) ([]models.Order, error) {
	q := s.DB.Where("hotel_id = ?", hotelID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Order
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return list, nil
}
