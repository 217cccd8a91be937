package domain

import "time"

// SiteStatus mirrors the backend's operational status of a plant.
type SiteStatus string

const (
	SiteStatusOnline      SiteStatus = "ONLINE"
	SiteStatusOffline     SiteStatus = "OFFLINE"
	SiteStatusFaulty      SiteStatus = "FAULTY"
	SiteStatusMaintenance SiteStatus = "MAINTENANCE"
)

// Site represents a solar plant registered in the ERP.
type Site struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Address      string     `json:"address,omitempty"`
	Latitude     float64    `json:"latitude,omitempty"`
	Longitude    float64    `json:"longitude,omitempty"`
	CapacityKW   float64    `json:"capacity_kw"`
	Status       SiteStatus `json:"status"`
	OwnerID      int64      `json:"owner_id,omitempty"`
	ExternalID   string     `json:"external_id,omitempty"`
	Provider     string     `json:"provider,omitempty"` // "hopecloud" or "fusionsolar"
	CommissionAt *time.Time `json:"commissioned_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SitePatch carries partial site updates.
type SitePatch struct {
	Name       *string     `json:"name,omitempty"`
	Address    *string     `json:"address,omitempty"`
	CapacityKW *float64    `json:"capacity_kw,omitempty"`
	Status     *SiteStatus `json:"status,omitempty"`
	OwnerID    *int64      `json:"owner_id,omitempty"`
}

// Device represents an inverter, logger or meter attached to a site.
type Device struct {
	ID           int64     `json:"id"`
	SiteID       int64     `json:"site_id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"` // "inverter", "logger", "meter"
	SerialNumber string    `json:"serial_number"`
	Model        string    `json:"model,omitempty"`
	Vendor       string    `json:"vendor,omitempty"`
	ExternalID   string    `json:"external_id,omitempty"`
	Online       bool      `json:"online"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DevicePatch carries partial device updates.
type DevicePatch struct {
	Name   *string `json:"name,omitempty"`
	Kind   *string `json:"kind,omitempty"`
	Model  *string `json:"model,omitempty"`
	SiteID *int64  `json:"site_id,omitempty"`
}
