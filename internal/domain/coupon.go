package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercent DiscountType = "PERCENT"
	DiscountTypeFlat    DiscountType = "FLAT"
)

// CouponRejection identifies the first failing validation guard. Guards are
// evaluated in a fixed order; an empty rejection means the coupon applies.
type CouponRejection string

const (
	CouponRejectionNone           CouponRejection = ""
	CouponRejectionNotFound       CouponRejection = "COUPON_NOT_FOUND"
	CouponRejectionInactive       CouponRejection = "COUPON_INACTIVE"
	CouponRejectionNotYetValid    CouponRejection = "COUPON_NOT_YET_VALID"
	CouponRejectionExpired        CouponRejection = "COUPON_EXPIRED"
	CouponRejectionMaxUses        CouponRejection = "COUPON_MAX_USES_EXHAUSTED"
	CouponRejectionPerUserLimit   CouponRejection = "COUPON_USER_LIMIT_EXHAUSTED"
	CouponRejectionBelowMinOrder  CouponRejection = "ORDER_BELOW_MINIMUM"
	CouponRejectionWrongMovie     CouponRejection = "COUPON_WRONG_MOVIE"
	CouponRejectionWrongShowtime  CouponRejection = "COUPON_WRONG_SHOWTIME"
	CouponRejectionWrongCategory  CouponRejection = "COUPON_WRONG_SEAT_CATEGORY"
	CouponRejectionWrongPayMethod CouponRejection = "COUPON_WRONG_PAYMENT_METHOD"
)

type Coupon struct {
	ID             int
	Code           string
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	MinOrderValue  *decimal.Decimal
	MaxUses        *int
	MaxUsesPerUser *int
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	IsActive       bool

	// Scope restrictions; nil means unrestricted.
	MovieID       *int
	ShowtimeID    *int
	SeatCategory  *string
	PaymentMethod *PaymentMethod

	// Usage counters, read fresh at quote time.
	UsedCount      int
	ActorUsedCount int
}

type CouponOutcome struct {
	Code     string          `json:"code"`
	Applied  bool            `json:"applied"`
	Reason   CouponRejection `json:"reason,omitempty"`
	Discount decimal.Decimal `json:"discount"`
}
