package domain

import "time"

// Station is a plant as reported by a third-party solar cloud
// (HopeCloud station or FusionSolar plant).
type Station struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	CapacityKW   float64   `json:"capacity_kw"`
	Status       string    `json:"status,omitempty"`
	Address      string    `json:"address,omitempty"`
	GridTime     time.Time `json:"grid_time,omitzero"`
	LastReportAt time.Time `json:"last_report_at,omitzero"`
}

// StationRealtime is the live production snapshot of a station.
type StationRealtime struct {
	StationCode     string    `json:"station_code"`
	PowerKW         float64   `json:"power_kw"`
	DailyEnergyKWh  float64   `json:"daily_energy_kwh"`
	MonthEnergyKWh  float64   `json:"month_energy_kwh"`
	YearEnergyKWh   float64   `json:"year_energy_kwh"`
	TotalEnergyKWh  float64   `json:"total_energy_kwh"`
	IncomeToday     float64   `json:"income_today,omitempty"`
	CollectedAt     time.Time `json:"collected_at"`
	InverterCount   int       `json:"inverter_count,omitempty"`
	OfflineDevices  int       `json:"offline_devices,omitempty"`
	AlarmingDevices int       `json:"alarming_devices,omitempty"`
}

// StationDevice is a device as reported by the third-party cloud, before it is
// reconciled into a local Device record by a backend sync.
type StationDevice struct {
	StationCode  string    `json:"station_code"`
	SerialNumber string    `json:"serial_number"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind,omitempty"`
	Model        string    `json:"model,omitempty"`
	Online       bool      `json:"online"`
	LastSeenAt   time.Time `json:"last_seen_at,omitzero"`
}

// Alarm is an active device or station alarm on the third-party cloud.
type Alarm struct {
	StationCode string    `json:"station_code"`
	DeviceSN    string    `json:"device_sn,omitempty"`
	Level       string    `json:"level"`
	Message     string    `json:"message"`
	RaisedAt    time.Time `json:"raised_at"`
}

// MetricSample is one raw time-series entry as delivered by the integration
// endpoints. Timestamps arrive as strings in provider-specific layouts and
// values may be missing for gaps in collection.
type MetricSample struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

// SeriesPoint is a normalized, chart-ready sample. Gaps are filled with zero
// values so consumers can render dense axes without their own hole patching.
type SeriesPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// SyncResult reports the outcome of a backend-side synchronization run.
type SyncResult struct {
	Synced    int       `json:"synced"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	StartedAt time.Time `json:"started_at,omitzero"`
	Message   string    `json:"message,omitempty"`
}
