package services

import (
	"testing"
	"time"

	"hotelops-backend/models"
)

func newPromoFixture(t *testing.T) (*PromotionService, models.Hotel) {
	t.Helper()
	db := newTestDB(t)
	hotel, _ := seedHotel(t, db, "101")
	return NewPromotionService(db), hotel
}

func makePromotion(t *testing.T, svc *PromotionService, promo models.Promotion) models.Promotion {
	t.Helper()
	promo.StartDate = time.Now().UTC().AddDate(0, 0, -1)
	promo.EndDate = time.Now().UTC().AddDate(0, 0, 1)
	promo.Active = true
	if err := svc.CreatePromotion(&promo); err != nil {
		t.Fatalf("failed to create promotion: %v", err)
	}
	return promo
}

func TestDiscountForAmounts(t *testing.T) {
	five := 5.0
	tests := []struct {
		name         string
		discountType string
		value        float64
		maxAmount    *float64
		price        float64
		want         float64
	}{
		{"percentage", models.DiscountTypePercentage, 20, nil, 50, 10},
		{"percentage capped", models.DiscountTypePercentage, 20, &five, 50, 5},
		{"percentage under cap", models.DiscountTypePercentage, 5, &five, 50, 2.5},
		{"fixed amount", models.DiscountTypeFixedAmount, 3, nil, 50, 3},
		{"fixed exceeds price", models.DiscountTypeFixedAmount, 80, nil, 50, 50},
		{"unknown type", "buy_one_get_one", 20, nil, 50, 0},
		{"negative value", models.DiscountTypeFixedAmount, -2, nil, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := discountFor(tt.discountType, tt.value, tt.maxAmount, tt.price)
			if got != tt.want {
				t.Errorf("discountFor(%s, %v, price=%v) = %v, want %v",
					tt.discountType, tt.value, tt.price, got, tt.want)
			}
		})
	}
}

func TestCalculateDiscountPrecedence(t *testing.T) {
	svc, hotel := newPromoFixture(t)

	hotelWide := makePromotion(t, svc, models.Promotion{
		HotelID:       hotel.ID,
		Name:          "Everything 5%",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 5,
	})
	typeScoped := makePromotion(t, svc, models.Promotion{
		HotelID:       hotel.ID,
		Name:          "Food 10%",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 10,
		ServiceType:   models.ServiceTypeFood,
	})
	itemPromo := makePromotion(t, svc, models.Promotion{
		HotelID:       hotel.ID,
		Name:          "Burger Deal",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 1,
	})
	if err := svc.AddItemDiscount(&models.PromotionItemDiscount{
		PromotionID:   itemPromo.ID,
		ServiceID:     10,
		ItemName:      "Burger",
		DiscountType:  models.DiscountTypeFixedAmount,
		DiscountValue: 2,
	}); err != nil {
		t.Fatalf("failed to add item discount: %v", err)
	}

	now := time.Now().UTC()

	// Item-level override wins even when a larger scoped discount exists.
	// Name matching is case-insensitive.
	got := svc.CalculateDiscountAt(hotel.ID, DiscountItem{
		ServiceID: 10, Name: "  burger ", Price: 50, ServiceType: models.ServiceTypeFood,
	}, now)
	if got.DiscountAmount != 2 || got.PromotionID != itemPromo.ID {
		t.Errorf("item override: got %+v, want amount 2 from promotion %d", got, itemPromo.ID)
	}

	// No override for this item: the service-type scope applies.
	got = svc.CalculateDiscountAt(hotel.ID, DiscountItem{
		ServiceID: 10, Name: "Fries", Price: 50, ServiceType: models.ServiceTypeFood,
	}, now)
	if got.DiscountAmount != 5 || got.PromotionID != typeScoped.ID {
		t.Errorf("type scope: got %+v, want amount 5 from promotion %d", got, typeScoped.ID)
	}

	// A service type with no scoped promotion falls back hotel-wide.
	got = svc.CalculateDiscountAt(hotel.ID, DiscountItem{
		Name: "Massage", Price: 100, ServiceType: models.ServiceTypeSpa,
	}, now)
	if got.DiscountAmount != 5 || got.PromotionID != hotelWide.ID {
		t.Errorf("hotel-wide fallback: got %+v, want amount 5 from promotion %d", got, hotelWide.ID)
	}
}

func TestCalculateDiscountInactivePaths(t *testing.T) {
	svc, hotel := newPromoFixture(t)
	now := time.Now().UTC()

	// No promotions at all.
	got := svc.CalculateDiscountAt(hotel.ID, DiscountItem{Name: "Burger", Price: 50}, now)
	if got.DiscountAmount != 0 || got.PromotionID != 0 {
		t.Errorf("no promotions: got %+v, want zero result", got)
	}

	// Deactivated promotion is ignored.
	promo := makePromotion(t, svc, models.Promotion{
		HotelID:       hotel.ID,
		Name:          "Ended",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
	})
	if err := svc.DeactivatePromotion(promo.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	got = svc.CalculateDiscountAt(hotel.ID, DiscountItem{Name: "Burger", Price: 50}, now)
	if got.DiscountAmount != 0 {
		t.Errorf("deactivated promotion still applied: %+v", got)
	}

	// Out of date range.
	expired := models.Promotion{
		HotelID:       hotel.ID,
		Name:          "Last Month",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
		StartDate:     now.AddDate(0, -1, 0),
		EndDate:       now.AddDate(0, 0, -2),
		Active:        true,
	}
	if err := svc.CreatePromotion(&expired); err != nil {
		t.Fatal(err)
	}
	got = svc.CalculateDiscountAt(hotel.ID, DiscountItem{Name: "Burger", Price: 50}, now)
	if got.DiscountAmount != 0 {
		t.Errorf("expired promotion still applied: %+v", got)
	}
}

func TestPromotionTimeOfDayWindow(t *testing.T) {
	happyHour := models.Promotion{
		Active:    true,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		StartTime: "16:00",
		EndTime:   "18:00",
	}
	overnight := happyHour
	overnight.StartTime = "22:00"
	overnight.EndTime = "02:00"
	allDay := happyHour
	allDay.StartTime = ""
	allDay.EndTime = ""
	badClock := happyHour
	badClock.StartTime = "25:99"

	at := func(hour, min int) time.Time {
		return time.Date(2026, 6, 15, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		promo *models.Promotion
		at    time.Time
		want  bool
	}{
		{"before window", &happyHour, at(15, 59), false},
		{"start inclusive", &happyHour, at(16, 0), true},
		{"inside window", &happyHour, at(17, 30), true},
		{"end inclusive", &happyHour, at(18, 0), true},
		{"after window", &happyHour, at(18, 1), false},
		{"overnight late side", &overnight, at(23, 30), true},
		{"overnight early side", &overnight, at(1, 30), true},
		{"overnight midday", &overnight, at(12, 0), false},
		{"no window all day", &allDay, at(3, 0), true},
		{"unparseable window treated all day", &badClock, at(3, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := promotionActiveAt(tt.promo, tt.at); got != tt.want {
				t.Errorf("promotionActiveAt(%s) = %v, want %v", tt.at.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestCheckMinimumOrder(t *testing.T) {
	svc, hotel := newPromoFixture(t)
	minFood := 25.0
	makePromotion(t, svc, models.Promotion{
		HotelID:        hotel.ID,
		Name:           "Food deal",
		DiscountType:   models.DiscountTypePercentage,
		DiscountValue:  10,
		ServiceType:    models.ServiceTypeFood,
		MinOrderAmount: &minFood,
	})
	now := time.Now().UTC()

	if res := svc.CheckMinimumOrderAt(hotel.ID, 30, models.ServiceTypeFood, now); !res.MeetsMinimum {
		t.Errorf("subtotal 30 against minimum 25 failed: %+v", res)
	}
	if res := svc.CheckMinimumOrderAt(hotel.ID, 25, models.ServiceTypeFood, now); !res.MeetsMinimum {
		t.Errorf("subtotal equal to minimum should pass: %+v", res)
	}
	res := svc.CheckMinimumOrderAt(hotel.ID, 20, models.ServiceTypeFood, now)
	if res.MeetsMinimum {
		t.Errorf("subtotal 20 against minimum 25 passed: %+v", res)
	}
	if res.MinOrderAmount == nil || *res.MinOrderAmount != 25 {
		t.Errorf("failing check should report the threshold: %+v", res)
	}

	// No applicable minimum for this type and none hotel-wide.
	if res := svc.CheckMinimumOrderAt(hotel.ID, 1, models.ServiceTypeSpa, now); !res.MeetsMinimum {
		t.Errorf("type without minimum should pass: %+v", res)
	}
}

func TestPriceCartSingleTypeUsesWholeSubtotal(t *testing.T) {
	svc, hotel := newPromoFixture(t)
	minFood := 25.0
	makePromotion(t, svc, models.Promotion{
		HotelID:        hotel.ID,
		Name:           "Food deal",
		DiscountType:   models.DiscountTypePercentage,
		DiscountValue:  10,
		ServiceType:    models.ServiceTypeFood,
		MinOrderAmount: &minFood,
	})
	now := time.Now().UTC()

	// Two food lines of 15 each: cart subtotal 30 clears the minimum even
	// though each line alone would not.
	cart := []DiscountItem{
		{Name: "Burger", Price: 15, ServiceType: models.ServiceTypeFood},
		{Name: "Pasta", Price: 15, ServiceType: models.ServiceTypeFood},
	}
	pricing := svc.PriceCartAt(hotel.ID, cart, now)
	if !pricing.MeetsMinimum {
		t.Fatalf("single-type cart subtotal 30 blocked: %+v", pricing.BlockedBy)
	}
	if pricing.DiscountTotal != 3 {
		t.Errorf("discount total = %v, want 3 (10%% of 30)", pricing.DiscountTotal)
	}
}

func TestPriceCartMixedTypeFailureZeroesEverything(t *testing.T) {
	svc, hotel := newPromoFixture(t)
	minFood := 25.0
	makePromotion(t, svc, models.Promotion{
		HotelID:        hotel.ID,
		Name:           "Food deal",
		DiscountType:   models.DiscountTypePercentage,
		DiscountValue:  10,
		ServiceType:    models.ServiceTypeFood,
		MinOrderAmount: &minFood,
	})
	makePromotion(t, svc, models.Promotion{
		HotelID:       hotel.ID,
		Name:          "Spa deal",
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
		ServiceType:   models.ServiceTypeSpa,
	})
	now := time.Now().UTC()

	// The food subtotal (10) misses its minimum; the spa line's own
	// discount is forfeited with it.
	cart := []DiscountItem{
		{Name: "Burger", Price: 10, ServiceType: models.ServiceTypeFood},
		{Name: "Massage", Price: 100, ServiceType: models.ServiceTypeSpa},
	}
	pricing := svc.PriceCartAt(hotel.ID, cart, now)
	if pricing.MeetsMinimum {
		t.Fatal("mixed cart with failing food minimum passed")
	}
	if pricing.BlockedBy == nil || pricing.BlockedBy.ServiceType != models.ServiceTypeFood {
		t.Errorf("blocked by = %+v, want food minimum", pricing.BlockedBy)
	}
	if pricing.DiscountTotal != 0 {
		t.Errorf("discount total = %v, want 0 when any minimum fails", pricing.DiscountTotal)
	}
	for i, line := range pricing.Lines {
		if line.DiscountAmount != 0 {
			t.Errorf("line %d discount = %v, want 0", i, line.DiscountAmount)
		}
	}

	// Raising the food subtotal restores every discount.
	cart[0].Price = 30
	pricing = svc.PriceCartAt(hotel.ID, cart, now)
	if !pricing.MeetsMinimum {
		t.Fatalf("mixed cart with passing minimums blocked: %+v", pricing.BlockedBy)
	}
	if pricing.DiscountTotal != 23 {
		t.Errorf("discount total = %v, want 23 (3 food + 20 spa)", pricing.DiscountTotal)
	}
}

func TestPriceCartNoServiceTypeSkipsMinimum(t *testing.T) {
	svc, hotel := newPromoFixture(t)
	minAll := 100.0
	makePromotion(t, svc, models.Promotion{
		HotelID:        hotel.ID,
		Name:           "Big spender",
		DiscountType:   models.DiscountTypePercentage,
		DiscountValue:  10,
		MinOrderAmount: &minAll,
	})
	now := time.Now().UTC()

	pricing := svc.PriceCartAt(hotel.ID, []DiscountItem{{Name: "Misc", Price: 5}}, now)
	if !pricing.MeetsMinimum {
		t.Fatalf("typeless cart was gated by a minimum: %+v", pricing.BlockedBy)
	}
	if pricing.DiscountTotal != 0.5 {
		t.Errorf("discount total = %v, want 0.5", pricing.DiscountTotal)
	}
}

func TestCreatePromotionValidation(t *testing.T) {
	svc, hotel := newPromoFixture(t)
	now := time.Now().UTC()

	tests := []struct {
		name  string
		promo models.Promotion
		code  string
	}{
		{
			"missing hotel",
			models.Promotion{DiscountType: models.DiscountTypePercentage, DiscountValue: 10, StartDate: now, EndDate: now},
			CodeInvalidInput,
		},
		{
			"bad discount type",
			models.Promotion{HotelID: hotel.ID, DiscountType: "bogo", DiscountValue: 10, StartDate: now, EndDate: now},
			CodeInvalidInput,
		},
		{
			"zero value",
			models.Promotion{HotelID: hotel.ID, DiscountType: models.DiscountTypePercentage, StartDate: now, EndDate: now},
			CodeInvalidInput,
		},
		{
			"reversed dates",
			models.Promotion{HotelID: hotel.ID, DiscountType: models.DiscountTypePercentage, DiscountValue: 10,
				StartDate: now, EndDate: now.AddDate(0, 0, -1)},
			CodeInvalidDates,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := tt.promo
			wantOpError(t, svc.CreatePromotion(&promo), tt.code)
		})
	}

	wantOpError(t, svc.AddItemDiscount(&models.PromotionItemDiscount{PromotionID: 9999, ItemName: "Burger"}),
		CodePromotionNotFound)
	wantOpError(t, svc.DeactivatePromotion(9999), CodePromotionNotFound)
}
