// services/room_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"hotelops-backend/models"

	"gorm.io/gorm"
)

// RoomService covers room CRUD plus the read-heavy dashboard aggregations.
// The aggregations fan out independent lookups concurrently and join in
// memory; they are eventually-consistent snapshots, never the basis for a
// subsequent write, so no mutual exclusion is needed.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

var roomStatuses = map[string]bool{
	models.RoomStatusAvailable:   true,
	models.RoomStatusOccupied:    true,
	models.RoomStatusCleaning:    true,
	models.RoomStatusMaintenance: true,
}

// CreateRoom stores a room, defaulting status to available.
func (s *RoomService) CreateRoom(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return opErr(CodeInvalidInput, "room_number is required", nil)
	}
	if room.HotelID == 0 {
		return opErr(CodeInvalidInput, "hotel_id is required", nil)
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	if !roomStatuses[room.Status] {
		return opErr(CodeInvalidInput, "unknown room status", map[string]string{"status": room.Status})
	}

	if err := s.DB.Create(room).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return opErr(CodeInvalidInput, "room number already exists",
				map[string]string{"room_number": room.RoomNumber})
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// ListRooms returns a hotel's rooms ordered by number.
func (s *RoomService) ListRooms(hotelID uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.
		Where("hotel_id = ?", hotelID).
		Order("room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	return rooms, nil
}

// SetRoomStatus is the manual reset path for cleaning/maintenance; the
// lifecycle never transitions into or out of those states on its own.
func (s *RoomService) SetRoomStatus(roomID uint, status string) (*models.Room, error) {
	if !roomStatuses[status] {
		return nil, opErr(CodeInvalidInput, "unknown room status", map[string]string{"status": status})
	}
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeRoomNotFound, "room not found", map[string]uint{"room_id": roomID})
		}
		return nil, fmt.Errorf("db error loading room %d: %w", roomID, err)
	}
	if err := s.DB.Model(&room).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update room %d status: %w", roomID, err)
	}
	room.Status = status
	return &room, nil
}

// RoomBoardEntry is one row of the front-desk board: the room, its active
// booking when occupied, and the count of open (undelivered, uncancelled)
// orders.
type RoomBoardEntry struct {
	Room       models.Room     `json:"room"`
	Booking    *models.Booking `json:"booking,omitempty"`
	OpenOrders int             `json:"open_orders"`
}

// RoomBoard builds the batch room view. Per-room lookups run concurrently;
// a failed lookup leaves that entry partial rather than failing the board.
func (s *RoomService) RoomBoard(hotelID uint) ([]RoomBoardEntry, error) {
	rooms, err := s.ListRooms(hotelID)
	if err != nil {
		return nil, err
	}

	entries := make([]RoomBoardEntry, len(rooms))
	var wg sync.WaitGroup
	for i := range rooms {
		entries[i].Room = rooms[i]
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomID := rooms[i].ID

			var booking models.Booking
			err := s.DB.
				Where("room_id = ? AND status = ?", roomID, models.BookingStatusCheckedIn).
				Order("id DESC").
				First(&booking).Error
			if err == nil {
				entries[i].Booking = &booking
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("warning: room board booking lookup failed for room %d: %v", roomID, err)
			}

			var open int64
			err = s.DB.Model(&models.Order{}).
				Where("room_id = ? AND status NOT IN ?", roomID,
					[]string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
				Count(&open).Error
			if err != nil {
				log.Printf("warning: room board order count failed for room %d: %v", roomID, err)
				return
			}
			entries[i].OpenOrders = int(open)
		}(i)
	}
	wg.Wait()

	return entries, nil
}

// DashboardStats is the staff dashboard summary.
type DashboardStats struct {
	RoomsByStatus  map[string]int64 `json:"rooms_by_status"`
	ActiveBookings int64            `json:"active_bookings"`
	OpenOrders     int64            `json:"open_orders"`
	UnsettledTotal float64          `json:"unsettled_total"`
}

// GetDashboardStats fans out the four independent counts concurrently.
func (s *RoomService) GetDashboardStats(hotelID uint) (*DashboardStats, error) {
	stats := &DashboardStats{RoomsByStatus: make(map[string]int64)}

	var wg sync.WaitGroup
	var mu sync.Mutex
	errs := make([]error, 0)

	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(4)

	go func() {
		defer wg.Done()
		type row struct {
			Status string
			N      int64
		}
		var rows []row
		err := s.DB.Model(&models.Room{}).
			Select("status, COUNT(*) AS n").
			Where("hotel_id = ?", hotelID).
			Group("status").
			Scan(&rows).Error
		if err != nil {
			fail(fmt.Errorf("room counts: %w", err))
			return
		}
		mu.Lock()
		for _, r := range rows {
			stats.RoomsByStatus[r.Status] = r.N
		}
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		err := s.DB.Model(&models.Booking{}).
			Where("hotel_id = ? AND status = ?", hotelID, models.BookingStatusCheckedIn).
			Count(&stats.ActiveBookings).Error
		if err != nil {
			fail(fmt.Errorf("active bookings: %w", err))
		}
	}()

	go func() {
		defer wg.Done()
		err := s.DB.Model(&models.Order{}).
			Where("hotel_id = ? AND status NOT IN ?", hotelID,
				[]string{models.OrderStatusDelivered, models.OrderStatusCancelled}).
			Count(&stats.OpenOrders).Error
		if err != nil {
			fail(fmt.Errorf("open orders: %w", err))
		}
	}()

	go func() {
		defer wg.Done()
		var total *float64
		err := s.DB.Model(&models.Order{}).
			Select("SUM(total_amount)").
			Where("hotel_id = ? AND payment_status = ?", hotelID, models.PaymentStatusPending).
			Scan(&total).Error
		if err != nil {
			fail(fmt.Errorf("unsettled total: %w", err))
			return
		}
		if total != nil {
			stats.UnsettledTotal = *total
		}
	}()

	wg.Wait()

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", errs[0])
	}
	return stats, nil
}
