package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"aquamon/internal/models"
	"aquamon/internal/repository"
	"aquamon/internal/service"
)

// telemetryService is the surface handlers need; satisfied by
// *service.TelemetryService.
type telemetryService interface {
	Ingest(ctx context.Context, deviceID int64, in service.MeasurementInput) (models.DeviceConfig, error)
	Latest(ctx context.Context, deviceID int64) (models.Measurement, error)
	History(ctx context.Context, deviceID int64, n int) ([]models.TempMeasurement, error)
	Config(ctx context.Context, deviceID int64) (models.DeviceConfig, error)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func deviceIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "device_id"), 10, 64)
}

// statusForError maps store and service error kinds to response statuses.
// Anything unrecognized is a generic server error; the request fails in
// isolation and the process keeps serving.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
