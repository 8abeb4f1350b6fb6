package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/erencelik/ticketline/api"
	"github.com/erencelik/ticketline/internal/domain"
	"github.com/erencelik/ticketline/internal/pricing"
	"github.com/shopspring/decimal"
)

// CreateQuoteHandler computes a price breakdown for the requested seats. It
// is read-only: no hold is required and repeated calls never mutate lock TTLs
// or usage counters.
func (app *Application) CreateQuoteHandler(
	w http.ResponseWriter,
	r *http.Request,
	showtimeID int) {

	logger := app.contextGetLogger(r)
	actorID := app.contextGetActorId(r)

	var req api.QuoteRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	show, err := app.showtimeRepo.GetPricingContext(r.Context(), showtimeID, req.SeatIdList)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	rules, err := app.pricingRepo.GetActiveRules(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	tier, err := app.actorRepo.GetMembershipTier(r.Context(), actorID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	paymentMethod := domain.PaymentMethodWallet
	if req.PaymentMethod != nil {
		paymentMethod = domain.PaymentMethod(*req.PaymentMethod)
	}

	input := pricing.OrderInput{
		Show:          show,
		Rules:         rules,
		Tier:          tier,
		PaymentMethod: paymentMethod,
	}

	var unknownCoupon *domain.CouponOutcome

	if req.CouponCode != nil {
		coupon, err := app.pricingRepo.GetCouponByCode(r.Context(), *req.CouponCode, actorID)
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Info("quote requested with unknown coupon code", "coupon_code", *req.CouponCode)
			unknownCoupon = &domain.CouponOutcome{
				Code:     *req.CouponCode,
				Reason:   domain.CouponRejectionNotFound,
				Discount: decimal.Zero,
			}
		case err != nil:
			app.serverErrorResponse(w, r, err)
			return
		default:
			input.Coupon = coupon
		}
	}

	start := time.Now()
	order := pricing.PriceOrder(input)
	elapsed := time.Since(start)

	if unknownCoupon != nil {
		order.Coupon = unknownCoupon
	}

	resp := toQuoteResponse(showtimeID, order, elapsed)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toQuoteResponse(showtimeID int, order domain.OrderBreakdown, elapsed time.Duration) api.QuoteResponse {
	resp := api.QuoteResponse{
		ShowtimeId:        showtimeID,
		Seats:             make([]api.SeatQuote, 0, len(order.Seats)),
		Subtotal:          order.Subtotal,
		Total:             order.Total,
		CalculationTimeMs: elapsed.Milliseconds(),
	}

	for _, seat := range order.Seats {
		seatQuote := api.SeatQuote{
			SeatId:          seat.SeatID,
			Category:        seat.Category,
			BasePrice:       seat.BasePrice,
			AfterRules:      seat.AfterRules,
			AfterMembership: seat.AfterMembership,
			FinalPrice:      seat.Final,
		}

		for _, rule := range seat.AppliedRules {
			seatQuote.AppliedRules = append(seatQuote.AppliedRules, api.AppliedRule{
				RuleId:     rule.RuleID,
				Type:       string(rule.Type),
				PriceAfter: rule.PriceAfter,
			})
		}

		resp.Seats = append(resp.Seats, seatQuote)
	}

	if order.Coupon != nil {
		resp.Coupon = &api.CouponOutcome{
			Code:     order.Coupon.Code,
			Applied:  order.Coupon.Applied,
			Reason:   string(order.Coupon.Reason),
			Discount: order.Coupon.Discount,
		}
	}

	return resp
}
