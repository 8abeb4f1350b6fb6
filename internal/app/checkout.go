package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/erencelik/ticketline/api"
	"github.com/erencelik/ticketline/internal/domain"
	"github.com/erencelik/ticketline/internal/pipeline"
)

// ConfirmCheckoutHandler re-validates the caller's hold, fast-fails on an
// underfunded wallet, and enqueues the reservation for the pipeline. It
// returns 202 with the tracking id without waiting for the booking to commit.
func (app *Application) ConfirmCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	actorID := app.contextGetActorId(r)

	var req api.CheckoutRequest

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

	held, err := app.locker.Validate(r.Context(), req.ShowtimeId, req.SeatIdList, actorID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !held {
		logger.Info("checkout rejected, hold invalid", "showtime_id", req.ShowtimeId, "tracking_id", req.TrackingId)
		app.editConflictResponseWithErr(w, r, domain.ErrHoldExpired)
		return
	}

	paymentMethod := domain.PaymentMethod(req.PaymentMethod)

	// Fast-fail before any event is produced. The authoritative balance check
	// still runs inside the booking transaction.
	if paymentMethod == domain.PaymentMethodWallet {
		wallet, err := app.walletRepo.GetByActorID(r.Context(), actorID)
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			app.serverErrorResponse(w, r, err)
			return
		}

		if wallet == nil || wallet.Balance.LessThan(req.TotalAmount) {
			app.paymentRequiredResponse(w, r, domain.ErrInsufficientBalance)
			return
		}
	}

	resp := api.CheckoutResponse{
		TrackingId: req.TrackingId,
		Status:     "processing",
	}

	if paymentMethod == domain.PaymentMethodCard {
		description := fmt.Sprintf("Showtime %d, %d seat(s)", req.ShowtimeId, len(req.SeatIdList))

		session, err := app.paymentProvider.CreateCheckoutSession(req.TrackingId, actorID, description, req.TotalAmount)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		resp.PaymentUrl = &session.URL
	}

	reservation := domain.ReservationRequest{
		ActorID:       actorID,
		ShowtimeID:    req.ShowtimeId,
		SeatIDs:       req.SeatIdList,
		TotalAmount:   req.TotalAmount,
		TrackingID:    req.TrackingId,
		PaymentMethod: paymentMethod,
	}

	err = app.publisher.PublishReservationRequest(r.Context(), reservation)
	if err != nil {
		// Degraded mode: run the pipeline's own routine inline so every guard
		// (hold validity, balance, seat conflict) stays identical.
		logger.Warn("event transport unavailable, processing reservation synchronously", "error", err)

		switch result := app.processor.Process(r.Context(), reservation); result {
		case pipeline.ResultCommitted:
			if paymentMethod == domain.PaymentMethodWallet {
				resp.Status = string(domain.BookingStatusConfirmed)
			} else {
				resp.Status = string(domain.BookingStatusPending)
			}
		case pipeline.ResultRejected:
			app.editConflictResponseWithErr(w, r, fmt.Errorf("reservation rejected"))
			return
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("reservation processing failed"))
			return
		}
	}

	err = app.writeJSON(w, http.StatusAccepted, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
