package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/solarops/solar-console/domain"
)

const sitesBase = "/api/sites"

// SiteService wraps the site CRUD resource.
type SiteService struct {
	c *Client
}

// List returns all sites, optionally filtered by status.
func (s *SiteService) List(ctx context.Context, status domain.SiteStatus) ([]domain.Site, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	var sites []domain.Site
	if err := s.c.do(ctx, http.MethodGet, sitesBase, query, nil, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// Get fetches a site by id.
func (s *SiteService) Get(ctx context.Context, id int64) (*domain.Site, error) {
	var site domain.Site
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", sitesBase, id), nil, nil, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

// Create registers a new site.
func (s *SiteService) Create(ctx context.Context, site domain.Site) (*domain.Site, error) {
	var created domain.Site
	if err := s.c.do(ctx, http.MethodPost, sitesBase, nil, site, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial update to a site.
func (s *SiteService) Update(ctx context.Context, id int64, patch domain.SitePatch) (*domain.Site, error) {
	var updated domain.Site
	if err := s.c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", sitesBase, id), nil, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a site.
func (s *SiteService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", sitesBase, id), nil, nil, nil)
}
