package models

// Operating parameter defaults, mirrored by the config table's column
// defaults.
const (
	DefaultTargetTemp    = 25.0
	DefaultTempTolerance = 0.5
	DefaultLightStart    = "09:00"
	DefaultLightEnd      = "21:00"
	DefaultPumpStart     = "00:00"
	DefaultPumpEnd       = "23:59"
)

// DeviceConfig holds per-device operating parameters. Provisioned by an
// administrative process; this service only reads it.
type DeviceConfig struct {
	DeviceID      int64   `db:"device_id" json:"device_id"`
	Temp          float64 `db:"temp" json:"temp"`
	TempTolerance float64 `db:"temp_tolerance" json:"temp_tolerance"`
	LightStart    string  `db:"light_start" json:"light_start"`
	LightEnd      string  `db:"light_end" json:"light_end"`
	PumpStart     string  `db:"pump_start" json:"pump_start"`
	PumpEnd       string  `db:"pump_end" json:"pump_end"`
}

// DefaultDeviceConfig returns the compiled-in operating parameters for a
// device that has no provisioned config row.
func DefaultDeviceConfig(deviceID int64) DeviceConfig {
	return DeviceConfig{
		DeviceID:      deviceID,
		Temp:          DefaultTargetTemp,
		TempTolerance: DefaultTempTolerance,
		LightStart:    DefaultLightStart,
		LightEnd:      DefaultLightEnd,
		PumpStart:     DefaultPumpStart,
		PumpEnd:       DefaultPumpEnd,
	}
}
