package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"aquamon/internal/service"
)

// NewIngestHandler returns the POST /measurement/{device_id} handler. The
// response body is the device's current operating config, read fresh after
// the write: the device's report doubles as its command channel.
func NewIngestHandler(svc telemetryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := deviceIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid device id")
			return
		}

		var input service.MeasurementInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		cfg, err := svc.Ingest(r.Context(), deviceID, input)
		if err != nil {
			if errors.Is(err, service.ErrValidation) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("failed to ingest measurement",
				zap.Int64("device_id", deviceID), zap.Error(err))
			writeError(w, statusForError(err), "failed to store measurement")
			return
		}

		writeJSON(w, http.StatusOK, cfg)
	}
}
