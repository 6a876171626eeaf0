package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"hotelops-backend/config"
	"hotelops-backend/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database and applies the schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// seedHotel creates a hotel (UTC timezone) with one available room.
func seedHotel(t *testing.T, db *gorm.DB, roomNumber string) (models.Hotel, models.Room) {
	t.Helper()
	hotel := models.Hotel{Name: "Test Hotel", Timezone: "UTC"}
	if err := db.Create(&hotel).Error; err != nil {
		t.Fatalf("failed to seed hotel: %v", err)
	}
	room := models.Room{
		HotelID:    hotel.ID,
		RoomNumber: roomNumber,
		Status:     models.RoomStatusAvailable,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}
	return hotel, room
}

func dateString(daysFromNow int) string {
	return time.Now().UTC().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

// mustCheckIn runs a check-in that the test expects to succeed.
func mustCheckIn(t *testing.T, svc *BookingService, hotelID uint, roomNumber, guestName, phone string) *models.Booking {
	t.Helper()
	booking, err := svc.CheckIn(CheckInInput{
		HotelID:      hotelID,
		RoomNumber:   roomNumber,
		GuestName:    guestName,
		GuestPhone:   phone,
		CheckInDate:  dateString(0),
		CheckOutDate: dateString(1),
		StaffID:      1,
	})
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	return booking
}

// wantOpError asserts err is an OpError with the given code.
func wantOpError(t *testing.T, err error, code string) *OpError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	oe, ok := AsOpError(err)
	if !ok {
		t.Fatalf("expected OpError %s, got %v", code, err)
	}
	if oe.Code != code {
		t.Fatalf("expected code %s, got %s", code, oe.Code)
	}
	return oe
}
