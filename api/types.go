// Package api holds the request and response shapes of the HTTP surface.
// These are wire contracts; internal domain types are mapped into them at
// the handler boundary.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type CreateHoldRequest struct {
	SeatIdList []int `json:"seatIds" validate:"required,min=1,max=10,unique,dive,min=1"`
}

type HoldResponse struct {
	ShowtimeId    int       `json:"showtimeId"`
	SeatIds       []int     `json:"seatIds"`
	HoldExpiresAt time.Time `json:"holdExpiresAt"`
	HoldSeconds   int       `json:"holdSeconds"`
}

type ReleaseHoldRequest struct {
	SeatIdList []int `json:"seatIds" validate:"required,min=1,max=10,unique,dive,min=1"`
}

type QuoteRequest struct {
	SeatIdList    []int   `json:"seatIds" validate:"required,min=1,max=10,unique,dive,min=1"`
	CouponCode    *string `json:"couponCode,omitempty" validate:"omitempty,min=3,max=32"`
	PaymentMethod *string `json:"paymentMethod,omitempty" validate:"omitempty,payment_method"`
}

type AppliedRule struct {
	RuleId     int             `json:"ruleId"`
	Type       string          `json:"type"`
	PriceAfter decimal.Decimal `json:"priceAfter"`
}

type SeatQuote struct {
	SeatId          int             `json:"seatId"`
	Category        string          `json:"category"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	AppliedRules    []AppliedRule   `json:"appliedRules,omitempty"`
	AfterRules      decimal.Decimal `json:"afterRules"`
	AfterMembership decimal.Decimal `json:"afterMembership"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
}

type CouponOutcome struct {
	Code     string          `json:"code"`
	Applied  bool            `json:"applied"`
	Reason   string          `json:"reason,omitempty"`
	Discount decimal.Decimal `json:"discount"`
}

type QuoteResponse struct {
	ShowtimeId        int             `json:"showtimeId"`
	Seats             []SeatQuote     `json:"seats"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Coupon            *CouponOutcome  `json:"coupon,omitempty"`
	Total             decimal.Decimal `json:"total"`
	CalculationTimeMs int64           `json:"calculationTimeMs"`
}

type CheckoutRequest struct {
	ShowtimeId    int             `json:"showtimeId" validate:"required,min=1"`
	SeatIdList    []int           `json:"seatIds" validate:"required,min=1,max=10,unique,dive,min=1"`
	TotalAmount   decimal.Decimal `json:"totalAmount" validate:"required"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,payment_method"`
	TrackingId    string          `json:"trackingId" validate:"required,uuid4"`
}

type CheckoutResponse struct {
	TrackingId string  `json:"trackingId"`
	Status     string  `json:"status"`
	PaymentUrl *string `json:"paymentUrl,omitempty"`
}

type BookingResponse struct {
	TrackingId  string          `json:"trackingId"`
	BookingId   int             `json:"bookingId"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Seat struct {
	Id        int             `json:"id"`
	Row       int             `json:"row"`
	Column    int             `json:"column"`
	Category  string          `json:"category"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Available bool            `json:"available"`
}

type SeatRow struct {
	Row   int    `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	HallId     int       `json:"hallId"`
	HallName   string    `json:"hallName"`
	MovieTitle string    `json:"movieTitle"`
	StartTime  time.Time `json:"startTime"`
	SeatRows   []SeatRow `json:"seatRows"`
}

type HealthCheckResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Version     string `json:"version"`
}
