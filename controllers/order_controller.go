// controllers/order_controller.go
package controllers

import (
	"net/http"

	"hotelops-backend/services"
	"hotelops-backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderItemPayload struct {
	ItemID      uint    `json:"item_id" binding:"required"`
	ServiceID   uint    `json:"service_id"`
	Name        string  `json:"name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
	ServiceType string  `json:"service_type"`
}

type SubmitOrderPayload struct {
	HotelID    uint               `json:"hotel_id" binding:"required"`
	RoomNumber string             `json:"room_number" binding:"required"`
	GuestPhone string             `json:"guest_phone"`
	OrderType  string             `json:"order_type"`
	Items      []OrderItemPayload `json:"items" binding:"required"`
	Total      *float64           `json:"total"`
}

type OrderStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type OrderController struct {
	OrderSvc *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{OrderSvc: svc}
}

// SubmitOrder handles POST /api/orders (guest-facing).
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	var payload SubmitOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	items := make([]services.OrderItemInput, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, services.OrderItemInput{
			ItemID:      it.ItemID,
			ServiceID:   it.ServiceID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			ServiceType: it.ServiceType,
		})
	}

	result, err := oc.OrderSvc.SubmitOrder(services.SubmitOrderInput{
		HotelID:    payload.HotelID,
		RoomNumber: payload.RoomNumber,
		GuestPhone: payload.GuestPhone,
		OrderType:  payload.OrderType,
		Items:      items,
		Total:      payload.Total,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	utils.JSONSuccess(c, status, result)
}

// UpdateStatus handles PATCH /api/orders/:id/status (staff).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var payload OrderStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	order, err := oc.OrderSvc.UpdateOrderStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// GetOrder handles GET /api/orders/:id.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.OrderSvc.GetOrder(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, order)
}

// ListOrders handles GET /api/orders?hotel_id=&status=.
func (oc *OrderController) ListOrders(c *gin.Context) {
	hotelID, ok := hotelIDQuery(c)
	if !ok {
		return
	}
	list, err := oc.OrderSvc.ListOrders(hotelID, c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
