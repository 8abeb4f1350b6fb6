package app

import (
	"errors"
	"net/http"

	"github.com/erencelik/ticketline/api"
	"github.com/erencelik/ticketline/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	actorID := app.contextGetActorId(r)

	trackingID, err := parseTrackingID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetByTrackingID(r.Context(), trackingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	// Bookings are visible only to the actor who made them. A foreign
	// tracking id looks identical to a missing one.
	if booking.ActorID != actorID {
		app.notFoundResponse(w, r)
		return
	}

	resp := api.BookingResponse{
		TrackingId:  booking.TrackingID,
		BookingId:   booking.ID,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelBookingHandler flips a pending or confirmed booking to cancelled,
// frees its seats, and refunds wallet payments.
func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	actorID := app.contextGetActorId(r)

	trackingID, err := parseTrackingID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Cancel(r.Context(), trackingID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrBookingNotCancellable):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	logger.Info("booking cancelled", "tracking_id", trackingID)

	w.WriteHeader(http.StatusNoContent)
}

func parseTrackingID(r *http.Request) (string, error) {
	trackingID := chi.URLParam(r, "trackingId")

	if _, err := uuid.Parse(trackingID); err != nil {
		return "", errors.New("tracking ID must be a valid UUID")
	}

	return trackingID, nil
}
