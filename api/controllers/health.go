package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/furnora-labs/furnora-backend/api/responses"
	"github.com/furnora-labs/furnora-backend/pkg/config"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
	"github.com/furnora-labs/furnora-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Furnora-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers ok only when every backing dependency responds.
func HealthReady(cfg *config.Config, db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Furnora-Env", cfg.App.Env)

		var err error
		if db != nil {
			err = multierr.Append(err, db.Ping(r.Context()))
		}
		if cache != nil {
			err = multierr.Append(err, cache.Ping(r.Context()))
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
