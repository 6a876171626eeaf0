package services

import (
	"testing"

	"hotelops-backend/models"
)

func TestCreateRoomValidation(t *testing.T) {
	db := newTestDB(t)
	hotel, _ := seedHotel(t, db, "101")
	svc := NewRoomService(db)

	tests := []struct {
		name string
		room models.Room
	}{
		{"missing number", models.Room{HotelID: hotel.ID}},
		{"missing hotel", models.Room{RoomNumber: "201"}},
		{"unknown status", models.Room{HotelID: hotel.ID, RoomNumber: "201", Status: "haunted"}},
		{"duplicate number", models.Room{HotelID: hotel.ID, RoomNumber: "101"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := tt.room
			wantOpError(t, svc.CreateRoom(&room), CodeInvalidInput)
		})
	}

	room := models.Room{HotelID: hotel.ID, RoomNumber: " 202 "}
	if err := svc.CreateRoom(&room); err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	if room.RoomNumber != "202" {
		t.Errorf("room number not trimmed: %q", room.RoomNumber)
	}
	if room.Status != models.RoomStatusAvailable {
		t.Errorf("default status = %s, want available", room.Status)
	}
}

func TestSameRoomNumberAcrossHotels(t *testing.T) {
	db := newTestDB(t)
	seedHotel(t, db, "101")
	svc := NewRoomService(db)

	hotelB := models.Hotel{Name: "Second Hotel", Timezone: "UTC"}
	if err := db.Create(&hotelB).Error; err != nil {
		t.Fatal(err)
	}

	// The uniqueness constraint is per hotel, not global.
	if err := svc.CreateRoom(&models.Room{HotelID: hotelB.ID, RoomNumber: "101"}); err != nil {
		t.Fatalf("same number in another hotel rejected: %v", err)
	}
}

func TestSetRoomStatus(t *testing.T) {
	db := newTestDB(t)
	_, room := seedHotel(t, db, "101")
	svc := NewRoomService(db)

	updated, err := svc.SetRoomStatus(room.ID, models.RoomStatusCleaning)
	if err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if updated.Status != models.RoomStatusCleaning {
		t.Errorf("status = %s, want cleaning", updated.Status)
	}

	_, err = svc.SetRoomStatus(room.ID, "haunted")
	wantOpError(t, err, CodeInvalidInput)

	_, err = svc.SetRoomStatus(9999, models.RoomStatusAvailable)
	wantOpError(t, err, CodeRoomNotFound)
}

func TestRoomBoard(t *testing.T) {
	db := newTestDB(t)
	hotel, _ := seedHotel(t, db, "101")
	roomSvc := NewRoomService(db)
	for _, n := range []string{"102", "103"} {
		if err := roomSvc.CreateRoom(&models.Room{HotelID: hotel.ID, RoomNumber: n}); err != nil {
			t.Fatal(err)
		}
	}

	bookingSvc := NewBookingService(db, nil)
	mustCheckIn(t, bookingSvc, hotel.ID, "102", "Alice Smith", "+14155550123")

	orderSvc := NewOrderService(db, NewPromotionService(db), nil)
	placed, err := orderSvc.SubmitOrder(SubmitOrderInput{
		HotelID:    hotel.ID,
		RoomNumber: "102",
		GuestPhone: "+14155550123",
		Items:      []OrderItemInput{{ItemID: 1, Name: "Burger", Quantity: 1, UnitPrice: 10, ServiceType: models.ServiceTypeFood}},
	})
	if err != nil {
		t.Fatal(err)
	}

	board, err := roomSvc.RoomBoard(hotel.ID)
	if err != nil {
		t.Fatalf("room board failed: %v", err)
	}
	if len(board) != 3 {
		t.Fatalf("board has %d rooms, want 3", len(board))
	}

	byNumber := map[string]RoomBoardEntry{}
	for _, e := range board {
		byNumber[e.Room.RoomNumber] = e
	}

	occupied := byNumber["102"]
	if occupied.Booking == nil {
		t.Fatal("occupied room has no booking on the board")
	}
	if occupied.Booking.GuestName != "Alice Smith" {
		t.Errorf("board booking guest = %q, want Alice Smith", occupied.Booking.GuestName)
	}
	if occupied.OpenOrders != 1 {
		t.Errorf("occupied room open orders = %d, want 1", occupied.OpenOrders)
	}

	vacant := byNumber["103"]
	if vacant.Booking != nil || vacant.OpenOrders != 0 {
		t.Errorf("vacant room entry = %+v, want empty", vacant)
	}

	// Delivered orders drop off the open count.
	for _, status := range []string{models.OrderStatusPreparing, models.OrderStatusReady, models.OrderStatusDelivered} {
		if _, err := orderSvc.UpdateOrderStatus(placed.Order.ID, status); err != nil {
			t.Fatal(err)
		}
	}
	board, err = roomSvc.RoomBoard(hotel.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range board {
		if e.Room.RoomNumber == "102" && e.OpenOrders != 0 {
			t.Errorf("delivered order still counted as open: %d", e.OpenOrders)
		}
	}
}

func TestGetDashboardStats(t *testing.T) {
	db := newTestDB(t)
	hotel, _ := seedHotel(t, db, "101")
	roomSvc := NewRoomService(db)
	if err := roomSvc.CreateRoom(&models.Room{HotelID: hotel.ID, RoomNumber: "102"}); err != nil {
		t.Fatal(err)
	}

	bookingSvc := NewBookingService(db, nil)
	mustCheckIn(t, bookingSvc, hotel.ID, "101", "Alice Smith", "+14155550123")

	orderSvc := NewOrderService(db, NewPromotionService(db), nil)
	for _, price := range []float64{20, 15} {
		_, err := orderSvc.SubmitOrder(SubmitOrderInput{
			HotelID:    hotel.ID,
			RoomNumber: "101",
			GuestPhone: "+14155550123",
			Items: []OrderItemInput{
				{ItemID: uint(price), Name: "Dish", Quantity: 1, UnitPrice: price, ServiceType: models.ServiceTypeFood},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	stats, err := roomSvc.GetDashboardStats(hotel.ID)
	if err != nil {
		t.Fatalf("dashboard stats failed: %v", err)
	}
	if stats.RoomsByStatus[models.RoomStatusOccupied] != 1 {
		t.Errorf("occupied rooms = %d, want 1", stats.RoomsByStatus[models.RoomStatusOccupied])
	}
	if stats.RoomsByStatus[models.RoomStatusAvailable] != 1 {
		t.Errorf("available rooms = %d, want 1", stats.RoomsByStatus[models.RoomStatusAvailable])
	}
	if stats.ActiveBookings != 1 {
		t.Errorf("active bookings = %d, want 1", stats.ActiveBookings)
	}
	if stats.OpenOrders != 2 {
		t.Errorf("open orders = %d, want 2", stats.OpenOrders)
	}
	if stats.UnsettledTotal != 35 {
		t.Errorf("unsettled total = %v, want 35", stats.UnsettledTotal)
	}
}

func TestGetDashboardStatsEmptyHotel(t *testing.T) {
	db := newTestDB(t)
	hotel := models.Hotel{Name: "Empty Hotel", Timezone: "UTC"}
	if err := db.Create(&hotel).Error; err != nil {
		t.Fatal(err)
	}

	stats, err := NewRoomService(db).GetDashboardStats(hotel.ID)
	if err != nil {
		t.Fatalf("dashboard stats failed: %v", err)
	}
	if len(stats.RoomsByStatus) != 0 || stats.ActiveBookings != 0 ||
		stats.OpenOrders != 0 || stats.UnsettledTotal != 0 {
		t.Errorf("empty hotel stats = %+v, want zeros", stats)
	}
}
