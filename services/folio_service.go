// services/folio_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"hotelops-backend/models"

	"gorm.io/gorm"
)

// FolioService aggregates a booking's orders into a settleable folio and
// records the settlement audit trail.
type FolioService struct {
	DB *gorm.DB
}

func NewFolioService(db *gorm.DB) *FolioService {
	return &FolioService{DB: db}
}

// SettleInput carries the settlement figures. The caller (typically a POS
// integration) supplies the authoritative numbers; this module records
// them exactly and computes no tax itself. All three amounts are required
// pointers so an omitted field is a validation error, never a silent zero.
type SettleInput struct {
	SubtotalAmount   *float64
	TaxAmount        *float64
	FinalAmount      *float64
	PosReceiptNumber string
	Notes            string
	StaffID          uint
}

// SettleResult reports how many orders moved to paid plus the persisted
// adjustment (nil when the folio had no orders, or when the audit write
// failed after the orders were already marked).
type SettleResult struct {
	OrdersMarked int64                   `json:"orders_marked"`
	Adjustment   *models.FolioAdjustment `json:"adjustment,omitempty"`
}

func (s *FolioService) bookingByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeBookingNotFound, "booking not found", map[string]uint{"booking_id": bookingID})
		}
		return nil, fmt.Errorf("db error loading booking %d: %w", bookingID, err)
	}
	return &booking, nil
}

// latestAdjustment returns the booking's newest adjustment row, nil when
// none exists.
func (s *FolioService) latestAdjustment(bookingID uint) (*models.FolioAdjustment, error) {
	var adj models.FolioAdjustment
	err := s.DB.
		Where("booking_id = ?", bookingID).
		Order("id DESC").
		First(&adj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error loading adjustment for booking %d: %w", bookingID, err)
	}
	return &adj, nil
}

// GetFolio joins a booking with every non-deleted order referencing it.
// The folio's payment status is paid only when every order is paid; a mix
// surfaces as pending. An orderless folio reads as paid: nothing is owed.
func (s *FolioService) GetFolio(bookingID uint) (*models.Folio, error) {
	booking, err := s.bookingByID(bookingID)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := s.DB.
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders for booking %d: %w", bookingID, err)
	}

	total := 0.0
	status := models.PaymentStatusPaid
	for _, o := range orders {
		total += o.TotalAmount
		if o.PaymentStatus != models.PaymentStatusPaid {
			status = models.PaymentStatusPending
		}
	}

	adj, err := s.latestAdjustment(bookingID)
	if err != nil {
		return nil, err
	}

	return &models.Folio{
		BookingID:     bookingID,
		Booking:       *booking,
		Orders:        orders,
		TotalAmount:   total,
		PaymentStatus: status,
		Adjustment:    adj,
	}, nil
}

func validateSettleInput(input SettleInput) error {
	if input.SubtotalAmount == nil {
		return opErr(CodeInvalidInput, "subtotal_amount is required", nil)
	}
	if input.FinalAmount == nil {
		return opErr(CodeInvalidInput, "final_amount is required", nil)
	}
	if input.TaxAmount == nil {
		return opErr(CodeInvalidInput, "tax_amount is required", nil)
	}
	if *input.TaxAmount < 0 {
		return opErr(CodeInvalidInput, "tax_amount must be non-negative",
			map[string]float64{"tax_amount": *input.TaxAmount})
	}
	return nil
}

// MarkFolioPaid marks every order in the folio paid and appends one
// adjustment row with the supplied figures. A folio with zero orders is a
// no-op success. The adjustment write is a secondary audit write: its
// failure is logged, never escalated, because the orders are already paid
// at the data level.
func (s *FolioService) MarkFolioPaid(bookingID uint, input SettleInput) (*SettleResult, error) {
	if err := validateSettleInput(input); err != nil {
		return nil, err
	}

	booking, err := s.bookingByID(bookingID)
	if err != nil {
		return nil, err
	}

	var orderCount int64
	if err := s.DB.Model(&models.Order{}).
		Where("booking_id = ?", bookingID).
		Count(&orderCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders for booking %d: %w", bookingID, err)
	}
	if orderCount == 0 {
		return &SettleResult{OrdersMarked: 0}, nil
	}

	res := s.DB.Model(&models.Order{}).
		Where("booking_id = ? AND payment_status <> ?", bookingID, models.PaymentStatusPaid).
		Update("payment_status", models.PaymentStatusPaid)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark orders paid for booking %d: %w", bookingID, res.Error)
	}

	adj := &models.FolioAdjustment{
		BookingID:        bookingID,
		SubtotalAmount:   *input.SubtotalAmount,
		TaxAmount:        *input.TaxAmount,
		FinalAmount:      *input.FinalAmount,
		PosReceiptNumber: input.PosReceiptNumber,
		Notes:            input.Notes,
		AdjustedBy:       input.StaffID,
	}
	if err := s.DB.Create(adj).Error; err != nil {
		log.Printf("warning: orders for booking %d marked paid but adjustment write failed: %v", bookingID, err)
		adj = nil
	}

	// Secondary write: reflect the settlement on the booking row.
	if err := s.DB.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"total_amount":   *input.FinalAmount,
		}).Error; err != nil {
		log.Printf("warning: failed to update booking %d after settlement: %v", booking.ID, err)
	}

	return &SettleResult{OrdersMarked: res.RowsAffected, Adjustment: adj}, nil
}

// CorrectAdjustment appends a replacement adjustment row. The previous
// rows stay untouched; display always resolves the newest row, so the
// correction supersedes without rewriting history.
func (s *FolioService) CorrectAdjustment(bookingID uint, input SettleInput) (*models.FolioAdjustment, error) {
	if err := validateSettleInput(input); err != nil {
		return nil, err
	}

	if _, err := s.bookingByID(bookingID); err != nil {
		return nil, err
	}

	prev, err := s.latestAdjustment(bookingID)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, opErr(CodeInvalidInput, "booking has no adjustment to correct",
			map[string]uint{"booking_id": bookingID})
	}

	adj := &models.FolioAdjustment{
		BookingID:        bookingID,
		SubtotalAmount:   *input.SubtotalAmount,
		TaxAmount:        *input.TaxAmount,
		FinalAmount:      *input.FinalAmount,
		PosReceiptNumber: input.PosReceiptNumber,
		Notes:            input.Notes,
		AdjustedBy:       input.StaffID,
	}
	if err := s.DB.Create(adj).Error; err != nil {
		return nil, fmt.Errorf("failed to create correction for booking %d: %w", bookingID, err)
	}
	return adj, nil
}
