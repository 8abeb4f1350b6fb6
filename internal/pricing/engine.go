// Package pricing is the deterministic quote engine. Everything in here is a
// pure function over loaded inputs: the same seats, rules, membership tier
// and coupon always produce the same breakdown, at quote time and again at
// confirmation time.
package pricing

import (
	"sort"
	"strings"
	"time"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	minSeatPrice = decimal.NewFromInt(1)
	oneHundred   = decimal.NewFromInt(100)
)

// PriceSeat computes one seat's price in fixed stage order: tier/base price,
// rule evaluation in ascending (priority, id) order, membership discount,
// then rounding. Never reorder the stages; each one feeds the next.
func PriceSeat(
	seat domain.Seat,
	show *domain.ShowtimePricingContext,
	rules []domain.PricingRule,
	tier domain.MembershipTier) domain.SeatBreakdown {

	basePrice := seat.BasePrice
	if tierPrice, ok := show.TierPrices[strings.ToUpper(seat.Category)]; ok {
		basePrice = tierPrice
	}

	breakdown := domain.SeatBreakdown{
		SeatID:    seat.ID,
		Category:  seat.Category,
		BasePrice: basePrice,
	}

	price := basePrice

	for _, rule := range sortRules(rules) {
		if !ruleApplies(rule, seat, show) {
			continue
		}

		switch {
		case rule.Multiplier != nil:
			price = price.Mul(*rule.Multiplier)
		case rule.FlatDiscount != nil:
			price = price.Sub(*rule.FlatDiscount)
		}

		if price.IsNegative() {
			price = decimal.Zero
		}

		breakdown.AppliedRules = append(breakdown.AppliedRules, domain.AppliedRule{
			RuleID:     rule.ID,
			Type:       rule.Type,
			PriceAfter: price,
		})
	}

	breakdown.AfterRules = price

	discount := tier.DiscountPercent()
	if discount.IsPositive() {
		price = price.Mul(oneHundred.Sub(discount)).Div(oneHundred)
	}

	breakdown.AfterMembership = price

	final := price.Round(2)
	if final.LessThan(minSeatPrice) {
		final = minSeatPrice
	}

	breakdown.Final = final

	return breakdown
}

// OrderInput bundles the per-order inputs evaluated on top of the per-seat
// results. The coupon is optional.
type OrderInput struct {
	Show          *domain.ShowtimePricingContext
	Rules         []domain.PricingRule
	Tier          domain.MembershipTier
	Coupon        *domain.Coupon
	PaymentMethod domain.PaymentMethod
}

// PriceOrder prices every requested seat, sums the per-seat finals into the
// subtotal, and applies the coupon at order level. Minimum-order and
// percentage coupons must see the aggregate, so the discount is never
// distributed back to individual seats.
func PriceOrder(in OrderInput) domain.OrderBreakdown {
	order := domain.OrderBreakdown{
		Seats:    make([]domain.SeatBreakdown, 0, len(in.Show.Seats)),
		Subtotal: decimal.Zero,
	}

	for _, seat := range in.Show.Seats {
		seatBreakdown := PriceSeat(seat, in.Show, in.Rules, in.Tier)
		order.Seats = append(order.Seats, seatBreakdown)
		order.Subtotal = order.Subtotal.Add(seatBreakdown.Final)
	}

	order.Total = order.Subtotal

	if in.Coupon != nil {
		outcome := ApplyCoupon(in.Coupon, CouponOrder{
			Show:          in.Show,
			Subtotal:      order.Subtotal,
			PaymentMethod: in.PaymentMethod,
		})

		order.Coupon = &outcome
		order.Total = order.Subtotal.Sub(outcome.Discount).Round(2)
	}

	return order
}

// sortRules returns a copy ordered by ascending (priority, id). The engine
// respects caller-supplied priorities, never a hardcoded type order.
func sortRules(rules []domain.PricingRule) []domain.PricingRule {
	sorted := make([]domain.PricingRule, len(rules))
	copy(sorted, rules)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})

	return sorted
}

func ruleApplies(rule domain.PricingRule, seat domain.Seat, show *domain.ShowtimePricingContext) bool {
	if !rule.IsActive {
		return false
	}

	showDate := dateOnly(show.StartTime)
	if rule.ValidFrom != nil && showDate.Before(dateOnly(*rule.ValidFrom)) {
		return false
	}
	if rule.ValidUntil != nil && showDate.After(dateOnly(*rule.ValidUntil)) {
		return false
	}

	switch cond := rule.Condition.(type) {
	case domain.DayTypeCondition:
		weekday := show.StartTime.Weekday()
		for _, day := range cond.Days {
			if day == weekday {
				return true
			}
		}
		return false
	case domain.PopularityCondition:
		return show.PopularityScore >= cond.MinScore
	case domain.SeatCategoryCondition:
		return strings.EqualFold(seat.Category, cond.Category)
	case domain.DemandSurgeCondition:
		return show.OccupancyPercent >= show.SurgeThreshold
	case domain.FlatDiscountCondition:
		return true
	default:
		return false
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
