// services/promotion_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"hotelops-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromotionService computes per-item discounts and minimum-order
// eligibility. Pricing is fail-open: a lookup error on one item degrades
// that item to zero discount instead of blocking the cart.
type PromotionService struct {
	DB *gorm.DB
}

func NewPromotionService(db *gorm.DB) *PromotionService {
	return &PromotionService{DB: db}
}

// DiscountItem is one cart line as seen by the pricing engine.
type DiscountItem struct {
	ItemID      uint    `json:"item_id"`
	ServiceID   uint    `json:"service_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"` // line price the discount applies to
	ServiceType string  `json:"service_type"`
}

// DiscountResult is the discount decided for a single line.
type DiscountResult struct {
	DiscountAmount float64 `json:"discount_amount"`
	PromotionID    uint    `json:"promotion_id,omitempty"`
	DiscountType   string  `json:"discount_type,omitempty"`
}

// MinimumOrderResult reports whether a subtotal clears its applicable
// minimum-order threshold.
type MinimumOrderResult struct {
	MeetsMinimum   bool     `json:"meets_minimum"`
	PromotionID    *uint    `json:"promotion_id,omitempty"`
	MinOrderAmount *float64 `json:"min_order_amount,omitempty"`
	ServiceType    string   `json:"service_type,omitempty"`
}

// CartPricing is the full cart evaluation: per-line discounts plus the
// minimum-order gate. When any service type in a mixed cart misses its
// minimum, every line's discount is zeroed and BlockedBy names the
// threshold that failed.
type CartPricing struct {
	Lines         []DiscountResult    `json:"lines"`
	DiscountTotal float64             `json:"discount_total"`
	MeetsMinimum  bool                `json:"meets_minimum"`
	BlockedBy     *MinimumOrderResult `json:"blocked_by,omitempty"`
}

func normalizeItemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// promotionActiveAt reports whether a promotion applies at the given
// hotel-local instant: within the date range and, when set, within the
// daily time window. All bounds are inclusive. A window with start after
// end spans midnight.
func promotionActiveAt(p *models.Promotion, at time.Time) bool {
	if !p.Active {
		return false
	}
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	startDay := time.Date(p.StartDate.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, at.Location())
	endDay := time.Date(p.EndDate.Year(), p.EndDate.Month(), p.EndDate.Day(), 0, 0, 0, 0, at.Location())
	if day.Before(startDay) || day.After(endDay) {
		return false
	}

	if p.StartTime == "" || p.EndTime == "" {
		return true
	}
	start, ok1 := parseClock(p.StartTime)
	end, ok2 := parseClock(p.EndTime)
	if !ok1 || !ok2 {
		// Unparseable window: treat as all-day rather than dropping the
		// promotion (fail-open).
		return true
	}
	minute := at.Hour()*60 + at.Minute()
	if start <= end {
		return minute >= start && minute <= end
	}
	return minute >= start || minute <= end
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// discountFor computes the money amount for one rule against a price.
// Percentage discounts are capped by maxAmount when present; fixed-amount
// discounts never exceed the price itself.
func discountFor(discountType string, value float64, maxAmount *float64, price float64) float64 {
	p := decimal.NewFromFloat(price)
	v := decimal.NewFromFloat(value)
	var d decimal.Decimal

	switch discountType {
	case models.DiscountTypePercentage:
		d = p.Mul(v).Div(decimal.NewFromInt(100))
		if maxAmount != nil {
			limit := decimal.NewFromFloat(*maxAmount)
			if d.GreaterThan(limit) {
				d = limit
			}
		}
	case models.DiscountTypeFixedAmount:
		d = v
		if d.GreaterThan(p) {
			d = p
		}
	default:
		return 0
	}

	if d.IsNegative() {
		return 0
	}
	f, _ := d.Round(2).Float64()
	return f
}

// hotelNow resolves the current hotel-local time; UTC when the hotel row
// is missing.
func (s *PromotionService) hotelNow(hotelID uint) time.Time {
	var hotel models.Hotel
	if err := s.DB.First(&hotel, hotelID).Error; err != nil {
		return time.Now().UTC()
	}
	return time.Now().In(hotel.Location())
}

// CalculateDiscount finds the best-matching active promotion for one cart
// line at the current hotel-local time.
func (s *PromotionService) CalculateDiscount(hotelID uint, item DiscountItem) DiscountResult {
	return s.CalculateDiscountAt(hotelID, item, s.hotelNow(hotelID))
}

// CalculateDiscountAt is CalculateDiscount with an explicit evaluation
// instant. Precedence: item-level override, then service-type scope, then
// hotel-wide; within a tier the largest computed discount wins.
func (s *PromotionService) CalculateDiscountAt(hotelID uint, item DiscountItem, at time.Time) DiscountResult {
	// Tier 1: item-level overrides keyed by (service_id, item name).
	var overrides []models.PromotionItemDiscount
	err := s.DB.
		Joins("JOIN promotions ON promotions.id = promotion_item_discounts.promotion_id AND promotions.deleted_at IS NULL").
		Where("promotions.hotel_id = ?", hotelID).
		Where("promotion_item_discounts.service_id = ?", item.ServiceID).
		Where("LOWER(promotion_item_discounts.item_name) = ?", normalizeItemName(item.Name)).
		Find(&overrides).Error
	if err != nil {
		log.Printf("warning: item discount lookup failed for %q: %v", item.Name, err)
		return DiscountResult{}
	}
	if len(overrides) > 0 {
		best := DiscountResult{}
		for i := range overrides {
			var promo models.Promotion
			if err := s.DB.First(&promo, overrides[i].PromotionID).Error; err != nil {
				continue
			}
			if !promotionActiveAt(&promo, at) {
				continue
			}
			amount := discountFor(overrides[i].DiscountType, overrides[i].DiscountValue,
				overrides[i].MaxDiscountAmount, item.Price)
			if amount > best.DiscountAmount {
				best = DiscountResult{
					DiscountAmount: amount,
					PromotionID:    promo.ID,
					DiscountType:   overrides[i].DiscountType,
				}
			}
		}
		if best.PromotionID != 0 {
			return best
		}
		// Overrides exist but none is active right now: fall through to
		// the promotion tiers.
	}

	// Tier 2 then 3: service-type scope, then hotel-wide.
	scopes := []string{item.ServiceType, ""}
	if item.ServiceType == "" {
		scopes = []string{""}
	}
	for _, scope := range scopes {
		var promos []models.Promotion
		err := s.DB.
			Where("hotel_id = ? AND service_type = ?", hotelID, scope).
			Find(&promos).Error
		if err != nil {
			log.Printf("warning: promotion lookup failed (scope=%q): %v", scope, err)
			return DiscountResult{}
		}
		best := DiscountResult{}
		for i := range promos {
			if !promotionActiveAt(&promos[i], at) {
				continue
			}
			amount := discountFor(promos[i].DiscountType, promos[i].DiscountValue,
				promos[i].MaxDiscountAmount, item.Price)
			if amount > best.DiscountAmount {
				best = DiscountResult{
					DiscountAmount: amount,
					PromotionID:    promos[i].ID,
					DiscountType:   promos[i].DiscountType,
				}
			}
		}
		if best.PromotionID != 0 {
			return best
		}
	}

	return DiscountResult{}
}

// CheckMinimumOrder evaluates a subtotal against the minimum-order
// threshold applicable to a service type (scoped promotion first, then
// hotel-wide). No applicable minimum means the check passes.
func (s *PromotionService) CheckMinimumOrder(hotelID uint, subtotal float64, serviceType string) MinimumOrderResult {
	return s.CheckMinimumOrderAt(hotelID, subtotal, serviceType, s.hotelNow(hotelID))
}

func (s *PromotionService) CheckMinimumOrderAt(hotelID uint, subtotal float64, serviceType string, at time.Time) MinimumOrderResult {
	scopes := []string{serviceType, ""}
	if serviceType == "" {
		scopes = []string{""}
	}
	for _, scope := range scopes {
		var promos []models.Promotion
		err := s.DB.
			Where("hotel_id = ? AND service_type = ? AND min_order_amount IS NOT NULL", hotelID, scope).
			Find(&promos).Error
		if err != nil {
			log.Printf("warning: minimum-order lookup failed (scope=%q): %v", scope, err)
			return MinimumOrderResult{MeetsMinimum: true, ServiceType: serviceType}
		}
		for i := range promos {
			if !promotionActiveAt(&promos[i], at) || promos[i].MinOrderAmount == nil {
				continue
			}
			result := MinimumOrderResult{
				PromotionID:    &promos[i].ID,
				MinOrderAmount: promos[i].MinOrderAmount,
				ServiceType:    serviceType,
				MeetsMinimum:   subtotal >= *promos[i].MinOrderAmount,
			}
			return result
		}
	}
	return MinimumOrderResult{MeetsMinimum: true, ServiceType: serviceType}
}

// PriceCart runs the full pricing pass over a cart: per-line discounts,
// then the minimum-order gate. Single service type: the whole-cart
// subtotal is measured. Mixed service types: each type's own subtotal is
// measured against its own minimum, and one failure zeroes the discounts
// of the entire cart, not just that type's. No service type present: the
// minimum check is skipped.
func (s *PromotionService) PriceCart(hotelID uint, items []DiscountItem) CartPricing {
	return s.PriceCartAt(hotelID, items, s.hotelNow(hotelID))
}

func (s *PromotionService) PriceCartAt(hotelID uint, items []DiscountItem, at time.Time) CartPricing {
	pricing := CartPricing{
		Lines:        make([]DiscountResult, len(items)),
		MeetsMinimum: true,
	}

	total := decimal.Zero
	for i := range items {
		line := s.CalculateDiscountAt(hotelID, items[i], at)
		pricing.Lines[i] = line
		total = total.Add(decimal.NewFromFloat(line.DiscountAmount))
	}

	// Subtotals per service type; lines without one don't participate in
	// the minimum check.
	typeSubtotals := map[string]float64{}
	cartSubtotal := 0.0
	for i := range items {
		cartSubtotal += items[i].Price
		if items[i].ServiceType != "" {
			typeSubtotals[items[i].ServiceType] += items[i].Price
		}
	}

	switch len(typeSubtotals) {
	case 0:
		// no service types: full discounts apply
	case 1:
		for st := range typeSubtotals {
			check := s.CheckMinimumOrderAt(hotelID, cartSubtotal, st, at)
			if !check.MeetsMinimum {
				pricing.MeetsMinimum = false
				pricing.BlockedBy = &check
			}
		}
	default:
		for st, sub := range typeSubtotals {
			check := s.CheckMinimumOrderAt(hotelID, sub, st, at)
			if !check.MeetsMinimum {
				pricing.MeetsMinimum = false
				pricing.BlockedBy = &check
				break
			}
		}
	}

	if !pricing.MeetsMinimum {
		for i := range pricing.Lines {
			pricing.Lines[i] = DiscountResult{}
		}
		pricing.DiscountTotal = 0
		return pricing
	}

	f, _ := total.Round(2).Float64()
	pricing.DiscountTotal = f
	return pricing
}

// CreatePromotion validates and stores a promotion.
func (s *PromotionService) CreatePromotion(promo *models.Promotion) error {
	if promo.HotelID == 0 {
		return opErr(CodeInvalidInput, "hotel_id is required", nil)
	}
	if promo.DiscountType != models.DiscountTypePercentage && promo.DiscountType != models.DiscountTypeFixedAmount {
		return opErr(CodeInvalidInput, "discount_type must be percentage or fixed_amount",
			map[string]string{"discount_type": promo.DiscountType})
	}
	if promo.DiscountValue <= 0 {
		return opErr(CodeInvalidInput, "discount_value must be positive", nil)
	}
	if promo.EndDate.Before(promo.StartDate) {
		return opErr(CodeInvalidDates, "end_date is before start_date", nil)
	}
	if err := s.DB.Create(promo).Error; err != nil {
		return fmt.Errorf("failed to create promotion: %w", err)
	}
	return nil
}

// AddItemDiscount attaches an item-level override to a promotion.
func (s *PromotionService) AddItemDiscount(override *models.PromotionItemDiscount) error {
	var promo models.Promotion
	if err := s.DB.First(&promo, override.PromotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return opErr(CodePromotionNotFound, "promotion not found",
				map[string]uint{"promotion_id": override.PromotionID})
		}
		return fmt.Errorf("db error loading promotion: %w", err)
	}
	override.ItemName = strings.TrimSpace(override.ItemName)
	if override.ItemName == "" {
		return opErr(CodeInvalidInput, "item_name is required", nil)
	}
	if err := s.DB.Create(override).Error; err != nil {
		return fmt.Errorf("failed to create item discount: %w", err)
	}
	return nil
}

// ListPromotions returns a hotel's promotions, newest first.
func (s *PromotionService) ListPromotions(hotelID uint) ([]models.Promotion, error) {
	var list []models.Promotion
	if err := s.DB.
		Preload("ItemDiscounts").
		Where("hotel_id = ?", hotelID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve promotions: %w", err)
	}
	return list, nil
}

// DeactivatePromotion turns a promotion off without deleting its history.
func (s *PromotionService) DeactivatePromotion(promotionID uint) error {
	res := s.DB.Model(&models.Promotion{}).Where("id = ?", promotionID).Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate promotion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return opErr(CodePromotionNotFound, "promotion not found", map[string]uint{"promotion_id": promotionID})
	}
	return nil
}
