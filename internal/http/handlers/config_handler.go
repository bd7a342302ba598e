package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"aquamon/internal/repository"
)

// NewConfigHandler returns the GET /config/{device_id} handler. A device
// without a provisioned config row is a 404, not a default-filled object.
func NewConfigHandler(svc telemetryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := deviceIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid device id")
			return
		}

		cfg, err := svc.Config(r.Context(), deviceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "config not found")
				return
			}
			logger.Error("failed to fetch config",
				zap.Int64("device_id", deviceID), zap.Error(err))
			writeError(w, statusForError(err), "failed to fetch config")
			return
		}

		writeJSON(w, http.StatusOK, cfg)
	}
}
