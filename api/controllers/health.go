package controllers

import (
	"net/http"

	"github.com/artorders/artorders-backend/api/responses"
	"github.com/artorders/artorders-backend/pkg/config"
	"github.com/artorders/artorders-backend/pkg/db"
	pkgerrors "github.com/artorders/artorders-backend/pkg/errors"
	"github.com/artorders/artorders-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ArtOrders-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the backing stores answer pings.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ArtOrders-Env", cfg.App.Env)

		checks := map[string]db.Pinger{
			"database": database,
			"redis":    cache,
		}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
