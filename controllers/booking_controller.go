// controllers/booking_controller.go
package controllers

import (
	"net/http"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"

	"github.com/gin-gonic/gin"
)

type CheckInPayload struct {
	HotelID         uint   `json:"hotel_id" binding:"required"`
	RoomNumber      string `json:"room_number" binding:"required"`
	GuestName       string `json:"guest_name" binding:"required"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	CheckInDate     string `json:"check_in_date" binding:"required"`
	CheckOutDate    string `json:"check_out_date" binding:"required"`
	SpecialRequests string `json:"special_requests"`
}

type CheckOutPayload struct {
	HotelID    uint   `json:"hotel_id" binding:"required"`
	RoomNumber string `json:"room_number" binding:"required"`
}

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

// CheckIn handles POST /api/checkin.
func (bc *BookingController) CheckIn(c *gin.Context) {
	var payload CheckInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	booking, err := bc.BookingSvc.CheckIn(services.CheckInInput{
		HotelID:         payload.HotelID,
		RoomNumber:      payload.RoomNumber,
		GuestName:       payload.GuestName,
		GuestEmail:      payload.GuestEmail,
		GuestPhone:      payload.GuestPhone,
		CheckInDate:     payload.CheckInDate,
		CheckOutDate:    payload.CheckOutDate,
		SpecialRequests: payload.SpecialRequests,
		StaffID:         middleware.StaffID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// CheckOut handles POST /api/checkout.
func (bc *BookingController) CheckOut(c *gin.Context) {
	var payload CheckOutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	result, err := bc.BookingSvc.CheckOut(payload.HotelID, payload.RoomNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// GetBooking handles GET /api/bookings/:id.
func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.BookingSvc.GetBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ListBookings handles GET /api/bookings?hotel_id=.
func (bc *BookingController) ListBookings(c *gin.Context) {
	hotelID, ok := hotelIDQuery(c)
	if !ok {
		return
	}
	list, err := bc.BookingSvc.ListBookings(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
