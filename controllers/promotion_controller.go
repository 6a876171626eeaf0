// controllers/promotion_controller.go
package controllers

import (
	"net/http"
	"time"

	"hotelops-backend/models"
	"hotelops-backend/services"
	"hotelops-backend/utils"

	"github.com/gin-gonic/gin"
)

type PromotionPayload struct {
	HotelID           uint     `json:"hotel_id" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	DiscountType      string   `json:"discount_type" binding:"required"`
	DiscountValue     float64  `json:"discount_value" binding:"required"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
	MinOrderAmount    *float64 `json:"min_order_amount"`
	ServiceType       string   `json:"service_type"`
	StartDate         string   `json:"start_date" binding:"required"`
	EndDate           string   `json:"end_date" binding:"required"`
	StartTime         string   `json:"start_time"`
	EndTime           string   `json:"end_time"`
}

type ItemDiscountPayload struct {
	ServiceID         uint     `json:"service_id" binding:"required"`
	ItemName          string   `json:"item_name" binding:"required"`
	DiscountType      string   `json:"discount_type" binding:"required"`
	DiscountValue     float64  `json:"discount_value" binding:"required"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
}

type PricePreviewPayload struct {
	HotelID uint               `json:"hotel_id" binding:"required"`
	Items   []PricePreviewItem `json:"items" binding:"required"`
}

type PricePreviewItem struct {
	ItemID      uint    `json:"item_id"`
	ServiceID   uint    `json:"service_id"`
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price"`
	ServiceType string  `json:"service_type"`
}

type PromotionController struct {
	PromotionSvc *services.PromotionService
}

func NewPromotionController(svc *services.PromotionService) *PromotionController {
	return &PromotionController{PromotionSvc: svc}
}

// Create handles POST /api/promotions (staff).
func (pc *PromotionController) Create(c *gin.Context) {
	var payload PromotionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	startDate, err := time.Parse("2006-01-02", payload.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_date")
		return
	}
	endDate, err := time.Parse("2006-01-02", payload.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end_date")
		return
	}

	promo := models.Promotion{
		HotelID:           payload.HotelID,
		Name:              payload.Name,
		Description:       payload.Description,
		DiscountType:      payload.DiscountType,
		DiscountValue:     payload.DiscountValue,
		MaxDiscountAmount: payload.MaxDiscountAmount,
		MinOrderAmount:    payload.MinOrderAmount,
		ServiceType:       payload.ServiceType,
		StartDate:         startDate,
		EndDate:           endDate,
		StartTime:         payload.StartTime,
		EndTime:           payload.EndTime,
		Active:            true,
	}
	if err := pc.PromotionSvc.CreatePromotion(&promo); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, promo)
}

// AddItemDiscount handles POST /api/promotions/:id/items (staff).
func (pc *PromotionController) AddItemDiscount(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var payload ItemDiscountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	override := models.PromotionItemDiscount{
		PromotionID:       id,
		ServiceID:         payload.ServiceID,
		ItemName:          payload.ItemName,
		DiscountType:      payload.DiscountType,
		DiscountValue:     payload.DiscountValue,
		MaxDiscountAmount: payload.MaxDiscountAmount,
	}
	if err := pc.PromotionSvc.AddItemDiscount(&override); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, override)
}

// List handles GET /api/promotions?hotel_id=.
func (pc *PromotionController) List(c *gin.Context) {
	hotelID, ok := hotelIDQuery(c)
	if !ok {
		return
	}
	list, err := pc.PromotionSvc.ListPromotions(hotelID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// Deactivate handles DELETE /api/promotions/:id (staff).
func (pc *PromotionController) Deactivate(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := pc.PromotionSvc.DeactivatePromotion(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deactivated": id})
}

// PricePreview handles POST /api/pricing/preview (guest-facing): runs the
// cart through the promotion engine without admitting an order.
func (pc *PromotionController) PricePreview(c *gin.Context) {
	var payload PricePreviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	items := make([]services.DiscountItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, services.DiscountItem{
			ItemID:      it.ItemID,
			ServiceID:   it.ServiceID,
			Name:        it.Name,
			Price:       it.Price,
			ServiceType: it.ServiceType,
		})
	}

	pricing := pc.PromotionSvc.PriceCart(payload.HotelID, items)
	utils.JSONSuccess(c, http.StatusOK, pricing)
}
