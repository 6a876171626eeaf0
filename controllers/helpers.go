package controllers

import (
	"log"
	"net/http"
	"strconv"

	"hotelops-backend/services"
	"hotelops-backend/utils"

	"github.com/gin-gonic/gin"
)

// statusForCode maps service reason codes onto HTTP statuses. Anything
// unmapped is treated as a bad request.
var statusForCode = map[string]int{
	services.CodeRoomNotFound:      http.StatusNotFound,
	services.CodeBookingNotFound:   http.StatusNotFound,
	services.CodeOrderNotFound:     http.StatusNotFound,
	services.CodeHotelNotFound:     http.StatusNotFound,
	services.CodePromotionNotFound: http.StatusNotFound,
	services.CodeNothingToCheckOut: http.StatusNotFound,

	services.CodeRoomOccupied:      http.StatusConflict,
	services.CodeInconsistentState: http.StatusConflict,
	services.CodeInvalidTransition: http.StatusConflict,

	services.CodeRoomUnavailable:   http.StatusUnprocessableEntity,
	services.CodeRoomInMaintenance: http.StatusUnprocessableEntity,
	services.CodeRoomNotCheckedIn:  http.StatusUnprocessableEntity,
	services.CodeNoActiveBooking:   http.StatusUnprocessableEntity,
	services.CodeBookingExpired:    http.StatusUnprocessableEntity,
	services.CodePhoneMismatch:     http.StatusUnprocessableEntity,

	services.CodePhoneRequired: http.StatusBadRequest,
	services.CodeInvalidInput:  http.StatusBadRequest,
	services.CodeInvalidDates:  http.StatusBadRequest,
}

// respondServiceError turns a service error into a JSON response: coded
// failures keep their reason code and snapshot, anything else is a 500
// with the detail kept server-side.
func respondServiceError(c *gin.Context, err error) {
	if oe, ok := services.AsOpError(err); ok {
		status, found := statusForCode[oe.Code]
		if !found {
			status = http.StatusBadRequest
		}
		utils.JSONErrorCode(c, status, oe.Code, oe.Message, oe.Detail)
		return
	}
	log.Printf("internal error: %v", err)
	utils.JSONError(c, http.StatusInternalServerError, "internal error")
}

// hotelIDQuery parses the required hotel_id query parameter.
func hotelIDQuery(c *gin.Context) (uint, bool) {
	raw := c.Query("hotel_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "hotel_id query parameter is required")
		return 0, false
	}
	return uint(id), true
}

// uintParam parses a numeric path parameter.
func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
