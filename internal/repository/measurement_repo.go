package repository

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"aquamon/internal/models"
)

const defaultQueryTimeout = 5 * time.Second

// MeasurementRepository persists raw device readings and serves derived
// history buckets. Every operation runs a single statement under a bounded
// deadline so pool waits never queue indefinitely.
type MeasurementRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewMeasurementRepository returns repository.
func NewMeasurementRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *MeasurementRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &MeasurementRepository{pool: pool, timeout: queryTimeout}
}

// Insert stores one reading. Duplicate timestamps are accepted as separate
// rows.
func (r *MeasurementRepository) Insert(ctx context.Context, m *models.Measurement) error {
	const fn = "MeasurementRepository:Insert"
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO measurements (device_id, time, temp, heater, light, pump, uptime)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.DeviceID, m.Time, m.Temp, m.Heater, m.Light, m.Pump, m.Uptime)
	if err != nil {
		return wrapStorage(fn, ErrInsertFailed, err)
	}
	return nil
}

// InsertIfAbsent stores one reading unless a row with the same device and
// timestamp already exists. Single atomic statement.
func (r *MeasurementRepository) InsertIfAbsent(ctx context.Context, m *models.Measurement) error {
	const fn = "MeasurementRepository:InsertIfAbsent"
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO measurements (device_id, time, temp, heater, light, pump, uptime)
		SELECT $1, $2, $3, $4, $5, $6, $7
		WHERE NOT EXISTS (
			SELECT 1 FROM measurements WHERE device_id = $1 AND time = $2
		)
	`, m.DeviceID, m.Time, m.Temp, m.Heater, m.Light, m.Pump, m.Uptime)
	if err != nil {
		return wrapStorage(fn, ErrInsertFailed, err)
	}
	return nil
}

// Latest returns the most recent reading for a device, or ErrNotFound.
func (r *MeasurementRepository) Latest(ctx context.Context, deviceID int64) (models.Measurement, error) {
	const fn = "MeasurementRepository:Latest"
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var m models.Measurement
	err := pgxscan.Get(ctx, r.pool, &m, `
		SELECT device_id, time, temp, heater, light, pump, uptime
		FROM measurements
		WHERE device_id = $1
		ORDER BY time DESC
		LIMIT 1
	`, deviceID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return models.Measurement{}, ErrNotFound
		}
		return models.Measurement{}, wrapStorage(fn, ErrSelectFailed, err)
	}
	return m, nil
}

// History returns up to limit minute-bucketed averaged readings, newest
// bucket first. Each bucket's temp is the average of every raw reading whose
// timestamp truncates to that minute.
func (r *MeasurementRepository) History(ctx context.Context, deviceID int64, limit int) ([]models.TempMeasurement, error) {
	const fn = "MeasurementRepository:History"
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	points := make([]models.TempMeasurement, 0, limit)
	err := pgxscan.Select(ctx, r.pool, &points, `
		SELECT date_trunc('minute', time) AS time, AVG(temp) AS temp
		FROM measurements
		WHERE device_id = $1
		GROUP BY date_trunc('minute', time)
		ORDER BY time DESC
		LIMIT $2
	`, deviceID, limit)
	if err != nil {
		return nil, wrapStorage(fn, ErrSelectFailed, err)
	}
	return points, nil
}
