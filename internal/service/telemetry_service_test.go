package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aquamon/internal/config"
	"aquamon/internal/models"
	"aquamon/internal/repository"
)

type fakeMeasurementStore struct {
	inserted       []models.Measurement
	insertedUnique []models.Measurement
	insertErr      error

	latest    models.Measurement
	latestErr error

	history     []models.TempMeasurement
	historyErr  error
	historyArgs []int
}

func (f *fakeMeasurementStore) Insert(_ context.Context, m *models.Measurement) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *m)
	return nil
}

func (f *fakeMeasurementStore) InsertIfAbsent(_ context.Context, m *models.Measurement) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.insertedUnique = append(f.insertedUnique, *m)
	return nil
}

func (f *fakeMeasurementStore) Latest(context.Context, int64) (models.Measurement, error) {
	return f.latest, f.latestErr
}

func (f *fakeMeasurementStore) History(_ context.Context, _ int64, limit int) ([]models.TempMeasurement, error) {
	f.historyArgs = append(f.historyArgs, limit)
	return f.history, f.historyErr
}

type fakeConfigStore struct {
	cfg models.DeviceConfig
	err error
}

func (f *fakeConfigStore) Get(context.Context, int64) (models.DeviceConfig, error) {
	return f.cfg, f.err
}

type fakeCache struct {
	stored []models.Measurement
	setErr error

	cached models.Measurement
	hit    bool
	getErr error
}

func (f *fakeCache) SetLatest(_ context.Context, m models.Measurement) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.stored = append(f.stored, m)
	return nil
}

func (f *fakeCache) GetLatest(context.Context, int64) (models.Measurement, bool, error) {
	return f.cached, f.hit, f.getErr
}

func serviceConfig(policy string) *config.Config {
	return &config.Config{
		Ingest:  config.IngestConfig{DuplicatePolicy: policy},
		History: config.HistoryConfig{MaxPoints: 200},
	}
}

func validInput() MeasurementInput {
	ts := "2024-01-01T10:00:00+00:00"
	temp := 24.5
	heater := true
	light := false
	pump := true
	uptime := 120.0
	return MeasurementInput{Time: &ts, Temp: &temp, Heater: &heater, Light: &light, Pump: &pump, Uptime: &uptime}
}

func Test_Ingest_Valid(t *testing.T) {
	store := &fakeMeasurementStore{}
	configs := &fakeConfigStore{cfg: models.DeviceConfig{DeviceID: 42, Temp: 26.0}}
	svc := NewTelemetryService(store, configs, nil, serviceConfig(config.DuplicateAllow), zap.NewNop())

	cfg, err := svc.Ingest(context.Background(), 42, validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.DeviceID)
	assert.Equal(t, 26.0, cfg.Temp)

	require.Len(t, store.inserted, 1)
	m := store.inserted[0]
	assert.Equal(t, int64(42), m.DeviceID)
	assert.Equal(t, 24.5, m.Temp)
	assert.True(t, m.Heater)
	assert.False(t, m.Light)
	assert.True(t, m.Pump)
	assert.Equal(t, 120.0, m.Uptime)
	assert.True(t, m.Time.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.Empty(t, store.insertedUnique)
}

func Test_Ingest_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*MeasurementInput)
	}{
		{"missing time", func(in *MeasurementInput) { in.Time = nil }},
		{"missing temp", func(in *MeasurementInput) { in.Temp = nil }},
		{"missing heater", func(in *MeasurementInput) { in.Heater = nil }},
		{"missing light", func(in *MeasurementInput) { in.Light = nil }},
		{"missing pump", func(in *MeasurementInput) { in.Pump = nil }},
		{"missing uptime", func(in *MeasurementInput) { in.Uptime = nil }},
		{"unparseable time", func(in *MeasurementInput) {
			bad := "yesterday at noon"
			in.Time = &bad
		}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeMeasurementStore{}
			svc := NewTelemetryService(store, &fakeConfigStore{}, nil, serviceConfig(config.DuplicateAllow), zap.NewNop())

			in := validInput()
			tt.mutate(&in)

			_, err := svc.Ingest(context.Background(), 1, in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, store.inserted, "no row may be stored for an invalid payload")
		})
	}
}

func Test_Ingest_DuplicateDropPolicy(t *testing.T) {
	store := &fakeMeasurementStore{}
	configs := &fakeConfigStore{cfg: models.DeviceConfig{DeviceID: 1}}
	svc := NewTelemetryService(store, configs, nil, serviceConfig(config.DuplicateDrop), zap.NewNop())

	_, err := svc.Ingest(context.Background(), 1, validInput())
	require.NoError(t, err)
	assert.Empty(t, store.inserted)
	assert.Len(t, store.insertedUnique, 1)
}

func Test_Ingest_ConfigFallback(t *testing.T) {
	store := &fakeMeasurementStore{}
	configs := &fakeConfigStore{err: repository.ErrNotFound}
	svc := NewTelemetryService(store, configs, nil, serviceConfig(config.DuplicateAllow), zap.NewNop())

	cfg, err := svc.Ingest(context.Background(), 7, validInput())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDeviceConfig(7), cfg)
	assert.Len(t, store.inserted, 1, "write must succeed even without a config row")
}

func Test_Ingest_StorageError(t *testing.T) {
	boom := errors.New("connection refused")
	store := &fakeMeasurementStore{insertErr: boom}
	svc := NewTelemetryService(store, &fakeConfigStore{}, nil, serviceConfig(config.DuplicateAllow), zap.NewNop())

	_, err := svc.Ingest(context.Background(), 1, validInput())
	require.ErrorIs(t, err, boom)
}

func Test_Ingest_CacheWriteThrough(t *testing.T) {
	store := &fakeMeasurementStore{}
	cache := &fakeCache{}
	configs := &fakeConfigStore{cfg: models.DeviceConfig{DeviceID: 1}}
	svc := NewTelemetryService(store, configs, cache, serviceConfig(config.DuplicateAllow), zap.NewNop())

	_, err := svc.Ingest(context.Background(), 1, validInput())
	require.NoError(t, err)
	require.Len(t, cache.stored, 1)
	assert.Equal(t, 24.5, cache.stored[0].Temp)
}

func Test_Ingest_CacheFailureIsNotFatal(t *testing.T) {
	store := &fakeMeasurementStore{}
	cache := &fakeCache{setErr: errors.New("redis down")}
	configs := &fakeConfigStore{cfg: models.DeviceConfig{DeviceID: 1}}
	svc := NewTelemetryService(store, configs, cache, serviceConfig(config.DuplicateAllow), zap.NewNop())

	_, err := svc.Ingest(context.Background(), 1, validInput())
	require.NoError(t, err)
	assert.Len(t, store.inserted, 1)
}

func Test_Latest_CachePreferred(t *testing.T) {
	cached := models.Measurement{DeviceID: 1, Temp: 23.0}
	store := &fakeMeasurementStore{latest: models.Measurement{DeviceID: 1, Temp: 99.0}}
	cache := &fakeCache{cached: cached, hit: true}
	svc := NewTelemetryService(store, &fakeConfigStore{}, cache, serviceConfig(config.DuplicateAllow), zap.NewNop())

	m, err := svc.Latest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, cached, m)
}

func Test_Latest_CacheMissFallsBack(t *testing.T) {
	stored := models.Measurement{DeviceID: 1, Temp: 21.0}
	store := &fakeMeasurementStore{latest: stored}
	svc := NewTelemetryService(store, &fakeConfigStore{}, &fakeCache{}, serviceConfig(config.DuplicateAllow), zap.NewNop())

	m, err := svc.Latest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, stored, m)
}

func Test_Latest_CacheErrorFallsBack(t *testing.T) {
	stored := models.Measurement{DeviceID: 1, Temp: 21.0}
	store := &fakeMeasurementStore{latest: stored}
	cache := &fakeCache{getErr: errors.New("redis down")}
	svc := NewTelemetryService(store, &fakeConfigStore{}, cache, serviceConfig(config.DuplicateAllow), zap.NewNop())

	m, err := svc.Latest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, stored, m)
}

func Test_Latest_NotFound(t *testing.T) {
	store := &fakeMeasurementStore{latestErr: repository.ErrNotFound}
	svc := NewTelemetryService(store, &fakeConfigStore{}, nil, serviceConfig(config.DuplicateAllow), zap.NewNop())

	_, err := svc.Latest(context.Background(), 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func Test_History_Clamps(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		expected  int
	}{
		{"default when unset", 0, 200},
		{"default when negative", -3, 200},
		{"capped at maximum", 500, 200},
		{"passes small values", 5, 5},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeMeasurementStore{}
			svc := NewTelemetryService(store, &fakeConfigStore{}, nil, serviceConfig(config.DuplicateAllow), zap.NewNop())

			_, err := svc.History(context.Background(), 1, tt.requested)
			require.NoError(t, err)
			require.Len(t, store.historyArgs, 1)
			assert.Equal(t, tt.expected, store.historyArgs[0])
		})
	}
}

func Test_Config_NoDefaultFallback(t *testing.T) {
	configs := &fakeConfigStore{err: repository.ErrNotFound}
	svc := NewTelemetryService(&fakeMeasurementStore{}, configs, nil, serviceConfig(config.DuplicateAllow), zap.NewNop())

	_, err := svc.Config(context.Background(), 9)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
