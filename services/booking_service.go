// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"hotelops-backend/models"
	"hotelops-backend/notifications"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// BookingService owns the room/booking lifecycle: front-desk check-in and
// check-out, plus the occupancy invariant between the two.
type BookingService struct {
	DB       *gorm.DB
	Notifier *notifications.Dispatcher
}

func NewBookingService(db *gorm.DB, notifier *notifications.Dispatcher) *BookingService {
	return &BookingService{DB: db, Notifier: notifier}
}

// CheckInInput carries the front-desk check-in form. Dates are "2006-01-02"
// strings (RFC3339 accepted as a fallback, time part ignored).
type CheckInInput struct {
	HotelID         uint
	RoomNumber      string
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	CheckInDate     string
	CheckOutDate    string
	SpecialRequests string
	StaffID         uint
}

// CheckOutResult is the check-out response: the closed booking plus the
// unsettled-orders summary that becomes the folio balance.
type CheckOutResult struct {
	Booking       models.Booking `json:"booking"`
	PendingOrders []models.Order `json:"pending_orders"`
	PendingCount  int            `json:"pending_count"`
	PendingTotal  float64        `json:"pending_total"`
}

// roomSnapshot is the entity detail attached to room-state errors.
type roomSnapshot struct {
	RoomID     uint   `json:"room_id"`
	RoomNumber string `json:"room_number"`
	Status     string `json:"status"`
}

// conflictSnapshot is attached to room_occupied so the front desk can see
// who holds the room.
type conflictSnapshot struct {
	BookingID    uint      `json:"booking_id"`
	GuestName    string    `json:"guest_name"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
}

func snapshotRoom(room *models.Room) roomSnapshot {
	return roomSnapshot{RoomID: room.ID, RoomNumber: room.RoomNumber, Status: room.Status}
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// localToday truncates now to the hotel's local calendar day.
func localToday(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// isDuplicateKeyErr detects a unique-index violation across the drivers we
// run on (MySQL in production, sqlite in tests).
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

func (s *BookingService) hotelByID(hotelID uint) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := s.DB.First(&hotel, hotelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeHotelNotFound, "hotel not found", map[string]uint{"hotel_id": hotelID})
		}
		return nil, fmt.Errorf("db error loading hotel %d: %w", hotelID, err)
	}
	return &hotel, nil
}

func (s *BookingService) roomByNumber(hotelID uint, roomNumber string) (*models.Room, error) {
	var room models.Room
	err := s.DB.
		Where("hotel_id = ? AND room_number = ?", hotelID, strings.TrimSpace(roomNumber)).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeRoomNotFound, "room not found",
				map[string]interface{}{"hotel_id": hotelID, "room_number": roomNumber})
		}
		return nil, fmt.Errorf("db error loading room %s: %w", roomNumber, err)
	}
	return &room, nil
}

// activeBookingForRoom resolves the checked-in booking holding a room, if
// any. Resolution goes room -> booking, never the other way: the booking
// row is trusted over the room status flag.
func (s *BookingService) activeBookingForRoom(roomID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Where("room_id = ? AND status = ?", roomID, models.BookingStatusCheckedIn).
		Order("id DESC").
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error loading active booking for room %d: %w", roomID, err)
	}
	return &booking, nil
}

// resolveGuest finds a guest by phone (or email when no phone is given)
// and creates one when nothing matches. Best-effort: a lookup/create
// failure degrades to a booking without a guest link rather than blocking
// the check-in.
func (s *BookingService) resolveGuest(hotelID uint, name, email, phone string) *uint {
	var guest models.Guest
	q := s.DB.Where("hotel_id = ?", hotelID)
	switch {
	case strings.TrimSpace(phone) != "":
		q = q.Where("phone = ?", strings.TrimSpace(phone))
	case strings.TrimSpace(email) != "":
		q = q.Where("email = ?", strings.TrimSpace(email))
	default:
		q = q.Where("full_name = ?", strings.TrimSpace(name))
	}
	err := q.First(&guest).Error
	if err == nil {
		return &guest.ID
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("warning: guest lookup failed: %v", err)
		return nil
	}

	guest = models.Guest{
		HotelID:  hotelID,
		FullName: strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Phone:    strings.TrimSpace(phone),
	}
	if err := s.DB.Create(&guest).Error; err != nil {
		log.Printf("warning: guest create failed: %v", err)
		return nil
	}
	return &guest.ID
}

// CheckIn creates a checked-in booking for a room and flips the room to
// occupied. The bookings.active_room_id unique index closes the
// check-then-act race: a concurrent winner turns this insert into a
// duplicate-key error reported as room_occupied.
func (s *BookingService) CheckIn(input CheckInInput) (*models.Booking, error) {
	if strings.TrimSpace(input.GuestName) == "" {
		return nil, opErr(CodeInvalidInput, "guest name is required", nil)
	}

	hotel, err := s.hotelByID(input.HotelID)
	if err != nil {
		return nil, err
	}
	loc := hotel.Location()

	checkIn, err := parseDate(input.CheckInDate, loc)
	if err != nil {
		return nil, opErr(CodeInvalidDates, "invalid check_in_date",
			map[string]string{"check_in_date": input.CheckInDate})
	}
	checkOut, err := parseDate(input.CheckOutDate, loc)
	if err != nil {
		return nil, opErr(CodeInvalidDates, "invalid check_out_date",
			map[string]string{"check_out_date": input.CheckOutDate})
	}
	today := localToday(loc)
	if checkIn.Before(today) {
		return nil, opErr(CodeInvalidDates, "check_in_date is in the past",
			map[string]string{"check_in_date": input.CheckInDate, "today": today.Format("2006-01-02")})
	}
	if !checkOut.After(checkIn) {
		return nil, opErr(CodeInvalidDates, "check_out_date must be after check_in_date",
			map[string]string{"check_in_date": input.CheckInDate, "check_out_date": input.CheckOutDate})
	}

	room, err := s.roomByNumber(input.HotelID, input.RoomNumber)
	if err != nil {
		return nil, err
	}

	if room.Status == models.RoomStatusOccupied {
		existing, err := s.activeBookingForRoom(room.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, opErr(CodeRoomOccupied, "room already has an active booking", conflictSnapshot{
				BookingID:    existing.ID,
				GuestName:    existing.GuestName,
				CheckInDate:  existing.CheckInDate,
				CheckOutDate: existing.CheckOutDate,
			})
		}
		// Occupied flag with no active booking: drift. Check-in proceeds
		// and the room flip below restores consistency.
		log.Printf("warning: room %s (id=%d) flagged occupied with no active booking, proceeding with check-in",
			room.RoomNumber, room.ID)
	} else if !room.AcceptsCheckIn() {
		return nil, opErr(CodeRoomUnavailable, "room cannot accept check-ins", snapshotRoom(room))
	}

	guestID := s.resolveGuest(input.HotelID, input.GuestName, input.GuestEmail, input.GuestPhone)

	roomID := room.ID
	booking := models.Booking{
		HotelID:         input.HotelID,
		RoomID:          room.ID,
		ActiveRoomID:    &roomID,
		GuestID:         guestID,
		GuestName:       strings.TrimSpace(input.GuestName),
		GuestEmail:      strings.TrimSpace(input.GuestEmail),
		GuestPhone:      strings.TrimSpace(input.GuestPhone),
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Status:          models.BookingStatusCheckedIn,
		TotalAmount:     0,
		PaymentStatus:   models.PaymentStatusPending,
		SpecialRequests: strings.TrimSpace(input.SpecialRequests),
		CreatedBy:       input.StaffID,
	}

	if err := s.DB.Create(&booking).Error; err != nil {
		if isDuplicateKeyErr(err) {
			// Lost the race after our read: another check-in holds the
			// room. No conflict snapshot is available on this path.
			return nil, opErr(CodeRoomOccupied, "room already has an active booking", nil)
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// Room flip failure is logged, not rolled back: the booking row is the
	// source of truth and check-out self-heals the flag.
	if err := s.DB.Model(&models.Room{}).
		Where("id = ?", room.ID).
		Update("status", models.RoomStatusOccupied).Error; err != nil {
		log.Printf("warning: booking %d created but room %d status update failed: %v", booking.ID, room.ID, err)
	}

	s.notifyCheckIn(&booking, room)

	return &booking, nil
}

func (s *BookingService) notifyCheckIn(booking *models.Booking, room *models.Room) {
	if s.Notifier == nil {
		return
	}
	recipient, channel := booking.GuestPhone, "sms"
	if recipient == "" {
		recipient, channel = booking.GuestEmail, "email"
	}
	if recipient == "" {
		return
	}
	s.Notifier.Dispatch(notifications.Message{
		Channel:   channel,
		Recipient: recipient,
		Template:  notifications.TemplateCheckInWelcome,
		Variables: map[string]string{
			"guest_name":     booking.GuestName,
			"room_number":    room.RoomNumber,
			"check_out_date": booking.CheckOutDate.Format("2006-01-02"),
		},
	})
}

// CheckOut closes the active booking on a room, returns the room to
// available, and reports the unpaid orders left on the stay. Orders are
// not touched here; they stay payable until the folio is settled.
func (s *BookingService) CheckOut(hotelID uint, roomNumber string) (*CheckOutResult, error) {
	room, err := s.roomByNumber(hotelID, roomNumber)
	if err != nil {
		return nil, err
	}

	booking, err := s.activeBookingForRoom(room.ID)
	if err != nil {
		return nil, err
	}

	if booking == nil {
		if room.Status != models.RoomStatusOccupied {
			return nil, opErr(CodeNothingToCheckOut, "no active booking on this room", snapshotRoom(room))
		}
		// Drift: occupied flag, no booking. Self-heal the flag, then
		// still surface the inconsistency to the caller.
		if err := s.DB.Model(&models.Room{}).
			Where("id = ?", room.ID).
			Update("status", models.RoomStatusAvailable).Error; err != nil {
			log.Printf("warning: drift repair on room %d failed: %v", room.ID, err)
		}
		return nil, opErr(CodeInconsistentState,
			"room was flagged occupied with no active booking; room reset to available", snapshotRoom(room))
	}

	// An active booking wins over whatever the room flag says.
	updates := map[string]interface{}{
		"status":         models.BookingStatusCheckedOut,
		"active_room_id": nil,
	}
	if err := s.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to check out booking %d: %w", booking.ID, err)
	}
	booking.Status = models.BookingStatusCheckedOut
	booking.ActiveRoomID = nil

	if err := s.DB.Model(&models.Room{}).
		Where("id = ?", room.ID).
		Update("status", models.RoomStatusAvailable).Error; err != nil {
		log.Printf("warning: booking %d checked out but room %d status update failed: %v", booking.ID, room.ID, err)
	}

	var pending []models.Order
	if err := s.DB.
		Where("booking_id = ? AND room_id = ? AND payment_status = ?",
			booking.ID, room.ID, models.PaymentStatusPending).
		Order("id ASC").
		Find(&pending).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending orders for booking %d: %w", booking.ID, err)
	}

	total := 0.0
	for _, o := range pending {
		total += o.TotalAmount
	}

	s.notifyCheckOut(booking, len(pending), total)

	return &CheckOutResult{
		Booking:       *booking,
		PendingOrders: pending,
		PendingCount:  len(pending),
		PendingTotal:  total,
	}, nil
}

func (s *BookingService) notifyCheckOut(booking *models.Booking, pendingCount int, pendingTotal float64) {
	if s.Notifier == nil {
		return
	}
	recipient, channel := booking.GuestPhone, "sms"
	if recipient == "" {
		recipient, channel = booking.GuestEmail, "email"
	}
	if recipient == "" {
		return
	}
	s.Notifier.Dispatch(notifications.Message{
		Channel:   channel,
		Recipient: recipient,
		Template:  notifications.TemplateCheckOutFarewell,
		Variables: map[string]string{
			"guest_name":     booking.GuestName,
			"pending_orders": strconv.Itoa(pendingCount),
			"pending_total":  fmt.Sprintf("%.2f", pendingTotal),
		},
	})
}

// GetBooking loads one booking with its room and guest.
func (s *BookingService) GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").Preload("Guest").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeBookingNotFound, "booking not found", map[string]uint{"booking_id": bookingID})
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// ListBookings returns a hotel's bookings, newest first.
func (s *BookingService) ListBookings(hotelID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("Room").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}
