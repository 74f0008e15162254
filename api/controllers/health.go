package controllers

import (
	"net/http"

	"github.com/rohanmahajan/furnimart-backend/api/responses"
	"github.com/rohanmahajan/furnimart-backend/pkg/config"
	"github.com/rohanmahajan/furnimart-backend/pkg/db"
	"github.com/rohanmahajan/furnimart-backend/pkg/logger"
	pkgredis "github.com/rohanmahajan/furnimart-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Furnimart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the database and cache before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cacheP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Furnimart-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				healthy = false
				checks["database"] = "down"
				if logg != nil {
					logg.Error(r.Context(), "database readiness check failed", err)
				}
			} else {
				checks["database"] = "up"
			}
		}

		if cacheP != nil {
			if err := cacheP.Ping(r.Context()); err != nil {
				healthy = false
				checks["redis"] = "down"
				if logg != nil {
					logg.Error(r.Context(), "redis readiness check failed", err)
				}
			} else {
				checks["redis"] = "up"
			}
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
