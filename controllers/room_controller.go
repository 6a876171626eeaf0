// controllers/room_controller.go
package controllers

import (
	"net/http"

	"hotelops-backend/models"
	"hotelops-backend/services"
	"hotelops-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomPayload struct {
	HotelID     uint   `json:"hotel_id" binding:"required"`
	RoomNumber  string `json:"room_number" binding:"required"`
	Floor       string `json:"floor"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

type RoomStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// Create handles POST /api/rooms (staff).
func (rc *RoomController) Create(c *gin.Context) {
	var payload RoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	room := models.Room{
		HotelID:     payload.HotelID,
		RoomNumber:  payload.RoomNumber,
		Floor:       payload.Floor,
		Status:      payload.Status,
		Description: payload.Description,
	}
	if err := rc.RoomSvc.CreateRoom(&room); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// List handles GET /api/rooms?hotel_id=.
func (rc *RoomController) List(c *gin.Context) {
	hotelID, ok := hotelIDQuery(c)
	if !ok {
		return
	}
	rooms, err := rc.RoomSvc.ListRooms(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// SetStatus handles PATCH /api/rooms/:id/status (staff): the manual reset
// path for cleaning/maintenance.
func (rc *RoomController) SetStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var payload RoomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	room, err := rc.RoomSvc.SetRoomStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// Board handles GET /api/rooms/board?hotel_id= (staff dashboard).
func (rc *RoomController) Board(c *gin.Context) {
	hotelID, ok := hotelIDQuery(c)
	if !ok {
		return
	}
	board, err := rc.RoomSvc.RoomBoard(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, board)
}

// Dashboard handles GET /api/dashboard?hotel_id= (staff dashboard).
func (rc *RoomController) Dashboard(c *gin.Context) {
	hotelID, ok := hotelIDQuery(c)
	if !ok {
		return
	}
	stats, err := rc.RoomSvc.GetDashboardStats(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
