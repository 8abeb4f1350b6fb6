package pricing

import (
	"strings"
	"time"

	"github.com/erencelik/ticketline/internal/domain"
	"github.com/shopspring/decimal"
)

// CouponOrder is the order-level view a coupon is validated against.
type CouponOrder struct {
	Show          *domain.ShowtimePricingContext
	Subtotal      decimal.Decimal
	PaymentMethod domain.PaymentMethod
}

// ValidateCoupon runs the validation guards in their fixed order and returns
// the first failing reason, or CouponRejectionNone when every guard passes.
func ValidateCoupon(coupon *domain.Coupon, order CouponOrder) domain.CouponRejection {
	now := time.Now()

	if !coupon.IsActive {
		return domain.CouponRejectionInactive
	}

	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return domain.CouponRejectionNotYetValid
	}

	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return domain.CouponRejectionExpired
	}

	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return domain.CouponRejectionMaxUses
	}

	if coupon.MaxUsesPerUser != nil && coupon.ActorUsedCount >= *coupon.MaxUsesPerUser {
		return domain.CouponRejectionPerUserLimit
	}

	if coupon.MinOrderValue != nil && order.Subtotal.LessThan(*coupon.MinOrderValue) {
		return domain.CouponRejectionBelowMinOrder
	}

	if coupon.MovieID != nil && *coupon.MovieID != order.Show.MovieID {
		return domain.CouponRejectionWrongMovie
	}

	if coupon.ShowtimeID != nil && *coupon.ShowtimeID != order.Show.ShowtimeID {
		return domain.CouponRejectionWrongShowtime
	}

	// A category-restricted coupon is eligible when any requested seat
	// matches; the discount still applies to the full order total.
	if coupon.SeatCategory != nil && !anySeatMatchesCategory(order.Show.Seats, *coupon.SeatCategory) {
		return domain.CouponRejectionWrongCategory
	}

	if coupon.PaymentMethod != nil && *coupon.PaymentMethod != order.PaymentMethod {
		return domain.CouponRejectionWrongPayMethod
	}

	return domain.CouponRejectionNone
}

// ApplyCoupon validates the coupon and computes the order-level discount,
// capped at the order total so the final price never goes negative.
func ApplyCoupon(coupon *domain.Coupon, order CouponOrder) domain.CouponOutcome {
	outcome := domain.CouponOutcome{
		Code:     coupon.Code,
		Discount: decimal.Zero,
	}

	if reason := ValidateCoupon(coupon, order); reason != domain.CouponRejectionNone {
		outcome.Reason = reason
		return outcome
	}

	var discount decimal.Decimal

	switch coupon.DiscountType {
	case domain.DiscountTypePercent:
		discount = order.Subtotal.Mul(coupon.DiscountValue).Div(oneHundred)
	case domain.DiscountTypeFlat:
		discount = coupon.DiscountValue
	}

	if discount.GreaterThan(order.Subtotal) {
		discount = order.Subtotal
	}

	outcome.Applied = true
	outcome.Discount = discount.Round(2)

	return outcome
}

func anySeatMatchesCategory(seats []domain.Seat, category string) bool {
	for _, seat := range seats {
		if strings.EqualFold(seat.Category, category) {
			return true
		}
	}

	return false
}
