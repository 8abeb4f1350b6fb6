package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erencelik/ticketline/api"
	"github.com/erencelik/ticketline/internal/domain"
)

func (app *Application) GetSeatMapByShowtime(
	w http.ResponseWriter,
	r *http.Request,
	showtimeID int) {

	logger := app.contextGetLogger(r)

	showtimeSeats, err := app.showtimeRepo.GetSeatMap(r.Context(), showtimeID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(showtimeSeats.Seats) == 0 {
		logger.Warn("seat map not found for showtime", "showtime_id", showtimeID)
		app.notFoundResponse(w, r)
		return
	}

	err = app.updateSeatAvailability(r.Context(), showtimeID, showtimeSeats)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toSeatMapResponse(showtimeSeats)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateSeatAvailability overlays live holds and committed tickets onto the
// static seat map. A seat is unavailable when either source claims it.
func (app *Application) updateSeatAvailability(ctx context.Context, showtimeID int, showtimeSeats *domain.ShowtimeSeats) error {
	heldSeatIds, err := app.locker.HeldSeats(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("failed to get held seats from lock store: %w", err)
	}

	tickets, err := app.bookingRepo.GetTicketsByShowtime(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("failed to get ticketed seats from DB: %w", err)
	}

	unavailableSeats := make(map[int]bool)

	for _, seatId := range heldSeatIds {
		unavailableSeats[seatId] = true
	}

	for _, ticket := range tickets {
		unavailableSeats[ticket.SeatID] = true
	}

	for i := range showtimeSeats.Seats {
		if unavailableSeats[showtimeSeats.Seats[i].ID] {
			showtimeSeats.Seats[i].Available = false
		}
	}

	return nil
}

func toSeatMapResponse(showtimeSeats *domain.ShowtimeSeats) api.SeatMapResponse {
	return api.SeatMapResponse{
		ShowtimeId: showtimeSeats.ShowtimeID,
		HallId:     showtimeSeats.HallID,
		HallName:   showtimeSeats.HallName,
		MovieTitle: showtimeSeats.MovieTitle,
		StartTime:  showtimeSeats.StartTime,
		SeatRows:   toSeatRows(showtimeSeats.Seats),
	}
}

func toSeatRows(seats []domain.Seat) []api.SeatRow {
	// Seats are pre-sorted by Row,Col (ascending).
	// This allows us to process them in a single pass without additional sorting or mapping.

	var seatRows []api.SeatRow
	currentRow := api.SeatRow{Row: seats[0].Row}

	for _, v := range seats {
		if v.Row != currentRow.Row {
			seatRows = append(seatRows, currentRow)
			currentRow = api.SeatRow{Row: v.Row}
		}

		currentRow.Seats = append(currentRow.Seats, api.Seat{
			Id:        v.ID,
			Row:       v.Row,
			Column:    v.Col,
			Category:  v.Category,
			BasePrice: v.BasePrice,
			Available: v.Available,
		})
	}

	seatRows = append(seatRows, currentRow)

	return seatRows
}
