package services

import "errors"

// Reason codes returned by core operations. Controllers map these onto
// HTTP statuses; the codes themselves are the stable contract.
const (
	CodeRoomNotFound      = "room_not_found"
	CodeRoomOccupied      = "room_occupied"
	CodeRoomUnavailable   = "room_unavailable"
	CodeRoomInMaintenance = "room_in_maintenance"
	CodeRoomNotCheckedIn  = "room_not_checked_in"

	CodeNoActiveBooking   = "no_active_booking"
	CodeBookingNotFound   = "booking_not_found"
	CodeBookingExpired    = "booking_expired"
	CodeNothingToCheckOut = "nothing_to_check_out"
	CodeInconsistentState = "inconsistent_state"

	CodePhoneRequired = "phone_required"
	CodePhoneMismatch = "phone_mismatch"

	CodeInvalidInput      = "invalid_input"
	CodeInvalidDates      = "invalid_dates"
	CodeInvalidTransition = "invalid_transition"
	CodeOrderNotFound     = "order_not_found"
	CodePromotionNotFound = "promotion_not_found"
	CodeHotelNotFound     = "hotel_not_found"
)

// OpError is a validation or consistency failure: a distinct reason code
// plus a snapshot of the offending entity, never a silently coerced value.
type OpError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

func (e *OpError) Error() string {
	return e.Code
}

func opErr(code, message string, detail interface{}) *OpError {
	return &OpError{Code: code, Message: message, Detail: detail}
}

// AsOpError unwraps an *OpError from err, if it carries one.
func AsOpError(err error) (*OpError, bool) {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
