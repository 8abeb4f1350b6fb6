package app

import (
	"net/http"

	"github.com/erencelik/ticketline/api"
)

func (app *Application) HealthcheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthCheckResponse{
		Status:      "UP",
		Environment: app.config.Env,
		Version:     version,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
