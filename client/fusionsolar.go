package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/solarops/solar-console/domain"
)

const (
	fusionSolarBase    = "/api/fusionsolar"
	fusionSolarReadTTL = 5 * time.Minute
)

// FusionSolarService wraps the FusionSolar integration surface. FusionSolar
// rate-limits aggressively, so KPI reads are cached longer than HopeCloud's.
type FusionSolarService struct {
	c      *Client
	series *ttlcache.Cache[string, []domain.SeriesPoint]
}

func newFusionSolarService(c *Client) *FusionSolarService {
	series := ttlcache.New(
		ttlcache.WithTTL[string, []domain.SeriesPoint](fusionSolarReadTTL),
		ttlcache.WithDisableTouchOnHit[string, []domain.SeriesPoint](),
	)
	go series.Start()
	return &FusionSolarService{c: c, series: series}
}

// Close stops the cache cleanup goroutine.
func (s *FusionSolarService) Close() {
	s.series.Stop()
}

// Plants lists the plants bound to the FusionSolar account.
func (s *FusionSolarService) Plants(ctx context.Context) ([]domain.Station, error) {
	var plants []domain.Station
	if err := s.c.do(ctx, http.MethodGet, fusionSolarBase+"/plants", nil, nil, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// PlantRealtime returns the live KPI snapshot of one plant.
func (s *FusionSolarService) PlantRealtime(ctx context.Context, code string) (*domain.StationRealtime, error) {
	var rt domain.StationRealtime
	path := fmt.Sprintf("%s/plants/%s/realtime", fusionSolarBase, url.PathEscape(code))
	if err := s.c.do(ctx, http.MethodGet, path, nil, nil, &rt); err != nil {
		return nil, err
	}
	return &rt, nil
}

// PlantKPISeries returns the normalized production series of a plant for the
// selected granularity and anchor date. Results are cached per plant/range.
func (s *FusionSolarService) PlantKPISeries(ctx context.Context, code string, granularity Granularity, anchor time.Time) ([]domain.SeriesPoint, error) {
	key := fmt.Sprintf("%s|%s|%s", code, granularity, anchor.Format("2006-01-02"))
	if item := s.series.Get(key); item != nil {
		return item.Value(), nil
	}

	query := url.Values{}
	query.Set("range", string(granularity))
	query.Set("date", anchor.Format("2006-01-02"))

	var samples []domain.MetricSample
	path := fmt.Sprintf("%s/plants/%s/kpi", fusionSolarBase, url.PathEscape(code))
	if err := s.c.do(ctx, http.MethodGet, path, query, nil, &samples); err != nil {
		return nil, err
	}

	points, err := NormalizeSeries(granularity, anchor, samples)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize fusionsolar series for plant %s: %w", code, err)
	}
	s.series.Set(key, points, ttlcache.DefaultTTL)
	return points, nil
}

// SyncPlants triggers a backend-side plant synchronization.
func (s *FusionSolarService) SyncPlants(ctx context.Context) (*domain.SyncResult, error) {
	var result domain.SyncResult
	if err := s.c.do(ctx, http.MethodPost, fusionSolarBase+"/sync/plants", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
