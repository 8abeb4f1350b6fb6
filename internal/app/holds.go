package app

import (
	"net/http"
	"time"

	"github.com/erencelik/ticketline/api"
	"github.com/erencelik/ticketline/internal/domain"
	"github.com/erencelik/ticketline/internal/lock"
)

func (app *Application) CreateHoldHandler(
	w http.ResponseWriter,
	r *http.Request,
	showtimeID int) {

	logger := app.contextGetLogger(r)
	actorID := app.contextGetActorId(r)

	var req api.CreateHoldRequest

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

	acquired, err := app.locker.Acquire(r.Context(), showtimeID, req.SeatIdList, actorID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !acquired {
		logger.Info("seat hold conflict", "showtime_id", showtimeID, "seat_ids", req.SeatIdList)
		app.editConflictResponseWithErr(w, r, domain.ErrSeatAlreadyHeld)
		return
	}

	resp := api.HoldResponse{
		ShowtimeId:    showtimeID,
		SeatIds:       req.SeatIdList,
		HoldExpiresAt: time.Now().Add(lock.HoldTTL),
		HoldSeconds:   int(lock.HoldTTL.Seconds()),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ReleaseHoldHandler(
	w http.ResponseWriter,
	r *http.Request,
	showtimeID int) {

	actorID := app.contextGetActorId(r)

	var req api.ReleaseHoldRequest

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

	// Releasing seats that are not held, or held by someone else, is a no-op.
	err = app.locker.Release(r.Context(), showtimeID, req.SeatIdList, actorID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
