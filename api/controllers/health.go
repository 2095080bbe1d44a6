package controllers

import (
	"net/http"

	"github.com/crewcast/shootflow-backend/api/responses"
	"github.com/crewcast/shootflow-backend/pkg/config"
	"github.com/crewcast/shootflow-backend/pkg/db"
	pkgerrors "github.com/crewcast/shootflow-backend/pkg/errors"
	"github.com/crewcast/shootflow-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shootflow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shootflow-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
