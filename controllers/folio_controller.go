// controllers/folio_controller.go
package controllers

import (
	"net/http"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettlePayload struct {
	SubtotalAmount   *float64 `json:"subtotal_amount"`
	TaxAmount        *float64 `json:"tax_amount"`
	FinalAmount      *float64 `json:"final_amount"`
	PosReceiptNumber string   `json:"pos_receipt_number"`
	Notes            string   `json:"notes"`
}

type FolioController struct {
	FolioSvc *services.FolioService
}

func NewFolioController(svc *services.FolioService) *FolioController {
	return &FolioController{FolioSvc: svc}
}

// GetFolio handles GET /api/folios/:bookingId.
func (fc *FolioController) GetFolio(c *gin.Context) {
	bookingID, ok := uintParam(c, "bookingId")
	if !ok {
		return
	}
	folio, err := fc.FolioSvc.GetFolio(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, folio)
}

func settleInputFrom(c *gin.Context, payload SettlePayload) services.SettleInput {
	return services.SettleInput{
		SubtotalAmount:   payload.SubtotalAmount,
		TaxAmount:        payload.TaxAmount,
		FinalAmount:      payload.FinalAmount,
		PosReceiptNumber: payload.PosReceiptNumber,
		Notes:            payload.Notes,
		StaffID:          middleware.StaffID(c),
	}
}

// Settle handles POST /api/folios/:bookingId/settle (staff).
func (fc *FolioController) Settle(c *gin.Context) {
	bookingID, ok := uintParam(c, "bookingId")
	if !ok {
		return
	}
	var payload SettlePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	result, err := fc.FolioSvc.MarkFolioPaid(bookingID, settleInputFrom(c, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// Correct handles POST /api/folios/:bookingId/adjustments (staff): appends
// a replacement adjustment row without touching the audit history.
func (fc *FolioController) Correct(c *gin.Context) {
	bookingID, ok := uintParam(c, "bookingId")
	if !ok {
		return
	}
	var payload SettlePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	adj, err := fc.FolioSvc.CorrectAdjustment(bookingID, settleInputFrom(c, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, adj)
}
