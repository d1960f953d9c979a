package controllers

import (
	"net/http"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/app"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/dtos"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{
		app: app,
	}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	// Check database connectivity
	if err := c.app.DB.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("Database unreachable")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInfrastructure,
			"Database unreachable",
			nil,
			err,
		)
		return
	}

	resp := dtos.HealthCheckResponse{
		Status:      "OK",
		Revocations: c.app.Revocations.HealthCheck(r.Context()),
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// RevocationStatsHandler reports blacklist size and memory use.
func (c *HealthController) RevocationStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := c.app.Revocations.Stats(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
