package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// NewHistoryHandler returns the GET /history/{device_id} handler. The n
// query parameter defaults to the configured maximum and is capped
// server-side; buckets come back newest first.
func NewHistoryHandler(svc telemetryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deviceID, err := deviceIDParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid device id")
			return
		}

		n := 0
		if raw := r.URL.Query().Get("n"); raw != "" {
			n, err = strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid n parameter")
				return
			}
		}

		points, err := svc.History(r.Context(), deviceID, n)
		if err != nil {
			logger.Error("failed to fetch history",
				zap.Int64("device_id", deviceID), zap.Error(err))
			writeError(w, statusForError(err), "failed to fetch history")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"measurements": points,
		})
	}
}
