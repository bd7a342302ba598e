package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"aquamon/internal/config"
	"aquamon/internal/models"
	"aquamon/internal/repository"
)

// ErrValidation marks a malformed or incomplete measurement payload.
var ErrValidation = errors.New("invalid measurement")

// MeasurementInput is the device-reported payload. Pointer fields distinguish
// absent from zero-valued; all fields are required.
type MeasurementInput struct {
	Time   *string  `json:"time"`
	Temp   *float64 `json:"temp"`
	Heater *bool    `json:"heater"`
	Light  *bool    `json:"light"`
	Pump   *bool    `json:"pump"`
	Uptime *float64 `json:"uptime"`
}

func (in MeasurementInput) toMeasurement(deviceID int64) (models.Measurement, error) {
	required := []struct {
		name    string
		present bool
	}{
		{"time", in.Time != nil},
		{"temp", in.Temp != nil},
		{"heater", in.Heater != nil},
		{"light", in.Light != nil},
		{"pump", in.Pump != nil},
		{"uptime", in.Uptime != nil},
	}
	for _, field := range required {
		if !field.present {
			return models.Measurement{}, fmt.Errorf("%w: missing field %q", ErrValidation, field.name)
		}
	}

	ts, err := time.Parse(time.RFC3339, *in.Time)
	if err != nil {
		return models.Measurement{}, fmt.Errorf("%w: unparseable time %q", ErrValidation, *in.Time)
	}

	return models.Measurement{
		DeviceID: deviceID,
		Time:     ts,
		Temp:     *in.Temp,
		Heater:   *in.Heater,
		Light:    *in.Light,
		Pump:     *in.Pump,
		Uptime:   *in.Uptime,
	}, nil
}

type measurementStore interface {
	Insert(ctx context.Context, m *models.Measurement) error
	InsertIfAbsent(ctx context.Context, m *models.Measurement) error
	Latest(ctx context.Context, deviceID int64) (models.Measurement, error)
	History(ctx context.Context, deviceID int64, limit int) ([]models.TempMeasurement, error)
}

type configStore interface {
	Get(ctx context.Context, deviceID int64) (models.DeviceConfig, error)
}

// LatestCache is the optional live-status cache; nil disables it.
type LatestCache interface {
	SetLatest(ctx context.Context, m models.Measurement) error
	GetLatest(ctx context.Context, deviceID int64) (models.Measurement, bool, error)
}

// TelemetryService handles measurement ingestion and dashboard reads.
type TelemetryService struct {
	measurements    measurementStore
	configs         configStore
	cache           LatestCache
	duplicatePolicy string
	maxHistory      int
	logger          *zap.Logger
}

// NewTelemetryService returns service instance. Cache may be nil.
func NewTelemetryService(measurements measurementStore, configs configStore, cache LatestCache, cfg *config.Config, logger *zap.Logger) *TelemetryService {
	return &TelemetryService{
		measurements:    measurements,
		configs:         configs,
		cache:           cache,
		duplicatePolicy: cfg.Ingest.DuplicatePolicy,
		maxHistory:      cfg.History.MaxPoints,
		logger:          logger,
	}
}

// Ingest validates and persists one reading, then returns the device's
// current operating config as the implicit command channel back to the
// device. A device without a provisioned config row gets the compiled-in
// defaults so a successful write never turns into a failed report.
func (s *TelemetryService) Ingest(ctx context.Context, deviceID int64, in MeasurementInput) (models.DeviceConfig, error) {
	m, err := in.toMeasurement(deviceID)
	if err != nil {
		return models.DeviceConfig{}, err
	}

	if s.duplicatePolicy == config.DuplicateDrop {
		err = s.measurements.InsertIfAbsent(ctx, &m)
	} else {
		err = s.measurements.Insert(ctx, &m)
	}
	if err != nil {
		return models.DeviceConfig{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, m); err != nil {
			s.logger.Warn("failed to cache latest reading",
				zap.Int64("device_id", deviceID), zap.Error(err))
		}
	}

	cfg, err := s.configs.Get(ctx, deviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultDeviceConfig(deviceID), nil
	}
	if err != nil {
		return models.DeviceConfig{}, err
	}
	return cfg, nil
}

// Latest returns the device's most recent reading, preferring the cache.
func (s *TelemetryService) Latest(ctx context.Context, deviceID int64) (models.Measurement, error) {
	if s.cache != nil {
		m, ok, err := s.cache.GetLatest(ctx, deviceID)
		if err != nil {
			s.logger.Warn("latest cache read failed",
				zap.Int64("device_id", deviceID), zap.Error(err))
		} else if ok {
			return m, nil
		}
	}
	return s.measurements.Latest(ctx, deviceID)
}

// History returns up to n minute-bucketed averaged readings, newest first.
// n defaults to the configured maximum when unset and is capped server-side
// regardless of what the caller requests.
func (s *TelemetryService) History(ctx context.Context, deviceID int64, n int) ([]models.TempMeasurement, error) {
	if n <= 0 || n > s.maxHistory {
		n = s.maxHistory
	}
	return s.measurements.History(ctx, deviceID, n)
}

// Config returns the device's provisioned config, or the store's not-found
// error. Unlike ingestion responses, dashboard reads do not fall back to
// defaults.
func (s *TelemetryService) Config(ctx context.Context, deviceID int64) (models.DeviceConfig, error) {
	return s.configs.Get(ctx, deviceID)
}
