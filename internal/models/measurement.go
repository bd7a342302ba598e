package models

import "time"

// Measurement is a single sensor reading reported by a device. Readings are
// append-only; duplicate timestamps from the same device are legal rows.
type Measurement struct {
	DeviceID int64     `db:"device_id" json:"device_id"`
	Time     time.Time `db:"time" json:"time"`
	Temp     float64   `db:"temp" json:"temp"`
	Heater   bool      `db:"heater" json:"heater"`
	Light    bool      `db:"light" json:"light"`
	Pump     bool      `db:"pump" json:"pump"`
	Uptime   float64   `db:"uptime" json:"uptime"`
}

// TempMeasurement is a reduced history point: readings averaged over a
// one-minute bucket. Computed on read, never persisted.
type TempMeasurement struct {
	Time time.Time `db:"time" json:"time"`
	Temp float64   `db:"temp" json:"temp"`
}
