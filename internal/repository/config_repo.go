package repository

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"aquamon/internal/models"
)

// ConfigRepository reads per-device operating configuration. The table is
// provisioned externally; this service exposes no write surface for it.
type ConfigRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewConfigRepository returns repository.
func NewConfigRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *ConfigRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &ConfigRepository{pool: pool, timeout: queryTimeout}
}

// Get returns the device's config row, or ErrNotFound. Absence is not
// papered over with defaults here; the caller decides the fallback.
func (r *ConfigRepository) Get(ctx context.Context, deviceID int64) (models.DeviceConfig, error) {
	const fn = "ConfigRepository:Get"
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cfg models.DeviceConfig
	err := pgxscan.Get(ctx, r.pool, &cfg, `
		SELECT device_id, temp, temp_tolerance, light_start, light_end, pump_start, pump_end
		FROM config
		WHERE device_id = $1
	`, deviceID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return models.DeviceConfig{}, ErrNotFound
		}
		return models.DeviceConfig{}, wrapStorage(fn, ErrSelectFailed, err)
	}
	return cfg, nil
}
