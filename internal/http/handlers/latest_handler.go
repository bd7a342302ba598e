package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"aquamon/internal/repository"
)

// NewLatestHandler returns the GET /measurement/{device_id} handler serving
// the most recent raw reading.
func NewLatestHandler(svc telemetryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := deviceIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid device id")
			return
		}

		m, err := svc.Latest(r.Context(), deviceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusNotFound, "no measurements for device")
				return
			}
			logger.Error("failed to fetch latest measurement",
				zap.Int64("device_id", deviceID), zap.Error(err))
			writeError(w, statusForError(err), "failed to fetch measurement")
			return
		}

		writeJSON(w, http.StatusOK, m)
	}
}
