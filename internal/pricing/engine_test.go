package pricing

import (
	"testing"
	"time"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-08-29 is a Saturday.
var saturdayShow = time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)

func weekendRule(id, priority int, multiplier string) domain.PricingRule {
	m := decimal.RequireFromString(multiplier)
	return domain.PricingRule{
		ID:         id,
		Type:       domain.RuleTypeDayType,
		Priority:   priority,
		IsActive:   true,
		Multiplier: &m,
		Condition:  domain.DayTypeCondition{Days: []time.Weekday{time.Saturday, time.Sunday}},
	}
}

func flatDiscountRule(id, priority int, discount string) domain.PricingRule {
	d := decimal.RequireFromString(discount)
	return domain.PricingRule{
		ID:           id,
		Type:         domain.RuleTypeFlatDiscount,
		Priority:     priority,
		IsActive:     true,
		FlatDiscount: &d,
		Condition:    domain.FlatDiscountCondition{},
	}
}

func testShow(startTime time.Time) *domain.ShowtimePricingContext {
	return &domain.ShowtimePricingContext{
		ShowtimeID: 42,
		MovieID:    7,
		StartTime:  startTime,
		TierPrices: map[string]decimal.Decimal{},
	}
}

func TestPriceSeat_RuleOrderFollowsPriority(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)}

	tests := []struct {
		name           string
		rules          []domain.PricingRule
		wantAfterRules string
	}{
		{
			name: "multiplier before flat discount",
			rules: []domain.PricingRule{
				weekendRule(1, 1, "1.2"),
				flatDiscountRule(2, 2, "20"),
			},
			wantAfterRules: "160", // 150*1.2 - 20
		},
		{
			name: "flat discount before multiplier",
			rules: []domain.PricingRule{
				flatDiscountRule(2, 1, "20"),
				weekendRule(1, 2, "1.2"),
			},
			wantAfterRules: "156", // (150-20)*1.2
		},
		{
			name: "equal priority breaks ties by rule id",
			rules: []domain.PricingRule{
				flatDiscountRule(9, 1, "20"),
				weekendRule(3, 1, "1.2"),
			},
			wantAfterRules: "160", // id 3 runs first
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown := PriceSeat(seat, testShow(saturdayShow), tt.rules, domain.MembershipTierNone)

			assert.True(t, breakdown.AfterRules.Equal(decimal.RequireFromString(tt.wantAfterRules)),
				"afterRules = %s, want %s", breakdown.AfterRules, tt.wantAfterRules)
		})
	}
}

func TestPriceSeat_MembershipDiscount(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)}
	rules := []domain.PricingRule{
		weekendRule(1, 1, "1.2"),
		flatDiscountRule(2, 2, "20"),
	}

	breakdown := PriceSeat(seat, testShow(saturdayShow), rules, domain.MembershipTierGold)

	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(160)))
	assert.True(t, breakdown.AfterMembership.Equal(decimal.NewFromInt(144)), "afterMembership = %s", breakdown.AfterMembership)
	assert.True(t, breakdown.Final.Equal(decimal.NewFromInt(144)))
}

func TestPriceSeat_DayTypeRuleSkippedOnWeekday(t *testing.T) {
	// 2026-08-26 is a Wednesday.
	wednesdayShow := time.Date(2026, 8, 26, 20, 0, 0, 0, time.UTC)
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)}

	breakdown := PriceSeat(seat, testShow(wednesdayShow), []domain.PricingRule{weekendRule(1, 1, "1.2")}, domain.MembershipTierNone)

	assert.Empty(t, breakdown.AppliedRules)
	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(150)))
}

func TestPriceSeat_InactiveAndExpiredRulesSkipped(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)}

	inactive := weekendRule(1, 1, "1.2")
	inactive.IsActive = false

	expired := flatDiscountRule(2, 2, "20")
	expiredAt := saturdayShow.AddDate(0, 0, -7)
	expired.ValidUntil = &expiredAt

	notYetValid := flatDiscountRule(3, 3, "10")
	validFrom := saturdayShow.AddDate(0, 0, 7)
	notYetValid.ValidFrom = &validFrom

	breakdown := PriceSeat(seat, testShow(saturdayShow), []domain.PricingRule{inactive, expired, notYetValid}, domain.MembershipTierNone)

	assert.Empty(t, breakdown.AppliedRules)
	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(150)))
}

func TestPriceSeat_ValidityWindowComparesDatesNotInstants(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)}

	// Expires at midnight on the show date; a 20:00 show must still match.
	rule := weekendRule(1, 1, "1.2")
	until := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	rule.ValidUntil = &until

	breakdown := PriceSeat(seat, testShow(saturdayShow), []domain.PricingRule{rule}, domain.MembershipTierNone)

	require.Len(t, breakdown.AppliedRules, 1)
	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(180)))
}

func TestPriceSeat_TierPriceOverridesBasePrice(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "premium", BasePrice: decimal.NewFromInt(150)}

	show := testShow(saturdayShow)
	show.TierPrices["PREMIUM"] = decimal.NewFromInt(200)

	breakdown := PriceSeat(seat, show, nil, domain.MembershipTierNone)

	assert.True(t, breakdown.BasePrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, breakdown.Final.Equal(decimal.NewFromInt(200)))
}

func TestPriceSeat_SeatCategoryRuleMatchesCaseInsensitively(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "Premium", BasePrice: decimal.NewFromInt(100)}

	m := decimal.RequireFromString("1.5")
	rule := domain.PricingRule{
		ID:         1,
		Type:       domain.RuleTypeSeatCategory,
		Priority:   1,
		IsActive:   true,
		Multiplier: &m,
		Condition:  domain.SeatCategoryCondition{Category: "PREMIUM"},
	}

	breakdown := PriceSeat(seat, testShow(saturdayShow), []domain.PricingRule{rule}, domain.MembershipTierNone)

	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(150)))
}

func TestPriceSeat_DemandSurgeUsesShowtimeThreshold(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(100)}

	m := decimal.RequireFromString("1.25")
	surge := domain.PricingRule{
		ID:         1,
		Type:       domain.RuleTypeDemandSurge,
		Priority:   1,
		IsActive:   true,
		Multiplier: &m,
		Condition:  domain.DemandSurgeCondition{},
	}

	show := testShow(saturdayShow)
	show.SurgeThreshold = 80

	show.OccupancyPercent = 79
	breakdown := PriceSeat(seat, show, []domain.PricingRule{surge}, domain.MembershipTierNone)
	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(100)))

	show.OccupancyPercent = 80
	breakdown = PriceSeat(seat, show, []domain.PricingRule{surge}, domain.MembershipTierNone)
	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(125)))
}

func TestPriceSeat_PopularityRuleUsesMinScore(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(100)}

	m := decimal.RequireFromString("1.1")
	rule := domain.PricingRule{
		ID:         1,
		Type:       domain.RuleTypePopularity,
		Priority:   1,
		IsActive:   true,
		Multiplier: &m,
		Condition:  domain.PopularityCondition{MinScore: 8.5},
	}

	show := testShow(saturdayShow)
	show.PopularityScore = 8.4
	breakdown := PriceSeat(seat, show, []domain.PricingRule{rule}, domain.MembershipTierNone)
	assert.Empty(t, breakdown.AppliedRules)

	show.PopularityScore = 8.5
	breakdown = PriceSeat(seat, show, []domain.PricingRule{rule}, domain.MembershipTierNone)
	require.Len(t, breakdown.AppliedRules, 1)
	assert.True(t, breakdown.AfterRules.Equal(decimal.NewFromInt(110)))
}

func TestPriceSeat_FinalPriceNeverBelowFloor(t *testing.T) {
	seat := domain.Seat{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(5)}

	breakdown := PriceSeat(seat, testShow(saturdayShow), []domain.PricingRule{flatDiscountRule(1, 1, "50")}, domain.MembershipTierNone)

	// Clamped at zero mid-evaluation, then floored at the minimum seat price.
	assert.True(t, breakdown.AfterRules.Equal(decimal.Zero))
	assert.True(t, breakdown.Final.Equal(decimal.NewFromInt(1)), "final = %s", breakdown.Final)
}

func TestPriceOrder_SumsSeatFinalsAndAppliesCoupon(t *testing.T) {
	show := testShow(saturdayShow)
	show.Seats = []domain.Seat{
		{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)},
		{ID: 6, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)},
	}

	rules := []domain.PricingRule{
		weekendRule(1, 1, "1.2"),
		flatDiscountRule(2, 2, "20"),
	}

	minOrder := decimal.NewFromInt(100)
	coupon := &domain.Coupon{
		ID:            1,
		Code:          "SAVE10",
		DiscountType:  domain.DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(10),
		MinOrderValue: &minOrder,
		IsActive:      true,
	}

	order := PriceOrder(OrderInput{
		Show:          show,
		Rules:         rules,
		Tier:          domain.MembershipTierGold,
		Coupon:        coupon,
		PaymentMethod: domain.PaymentMethodWallet,
	})

	require.Len(t, order.Seats, 2)
	// Two GOLD seats at 144.00 each.
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(288)), "subtotal = %s", order.Subtotal)

	require.NotNil(t, order.Coupon)
	assert.True(t, order.Coupon.Applied)
	assert.True(t, order.Coupon.Discount.Equal(decimal.RequireFromString("28.80")), "discount = %s", order.Coupon.Discount)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("259.20")), "total = %s", order.Total)
}

func TestPriceOrder_RejectedCouponLeavesTotalUntouched(t *testing.T) {
	show := testShow(saturdayShow)
	show.Seats = []domain.Seat{
		{ID: 5, Category: "STANDARD", BasePrice: decimal.NewFromInt(150)},
	}

	minOrder := decimal.NewFromInt(500)
	coupon := &domain.Coupon{
		ID:            1,
		Code:          "BIGSPENDER",
		DiscountType:  domain.DiscountTypePercent,
		DiscountValue: decimal.NewFromInt(10),
		MinOrderValue: &minOrder,
		IsActive:      true,
	}

	order := PriceOrder(OrderInput{
		Show:   show,
		Coupon: coupon,
		Tier:   domain.MembershipTierNone,
	})

	require.NotNil(t, order.Coupon)
	assert.False(t, order.Coupon.Applied)
	assert.Equal(t, domain.CouponRejectionBelowMinOrder, order.Coupon.Reason)
	assert.True(t, order.Total.Equal(order.Subtotal))
}
