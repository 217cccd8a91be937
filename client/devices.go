package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/solarops/solar-console/domain"
)

const devicesBase = "/api/devices"

// DeviceService wraps the device CRUD resource.
type DeviceService struct {
	c *Client
}

// List returns devices, optionally restricted to one site.
func (s *DeviceService) List(ctx context.Context, siteID int64) ([]domain.Device, error) {
	query := url.Values{}
	if siteID > 0 {
		query.Set("site_id", strconv.FormatInt(siteID, 10))
	}
	var devices []domain.Device
	if err := s.c.do(ctx, http.MethodGet, devicesBase, query, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Get fetches a device by id.
func (s *DeviceService) Get(ctx context.Context, id int64) (*domain.Device, error) {
	var device domain.Device
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", devicesBase, id), nil, nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// Create registers a new device.
func (s *DeviceService) Create(ctx context.Context, device domain.Device) (*domain.Device, error) {
	var created domain.Device
	if err := s.c.do(ctx, http.MethodPost, devicesBase, nil, device, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial update to a device.
func (s *DeviceService) Update(ctx context.Context, id int64, patch domain.DevicePatch) (*domain.Device, error) {
	var updated domain.Device
	if err := s.c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", devicesBase, id), nil, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a device.
func (s *DeviceService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", devicesBase, id), nil, nil, nil)
}
