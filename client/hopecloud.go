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
	hopeCloudBase = "/api/hopecloud"

	// Read responses from the integration endpoints are memoized briefly;
	// the upstream cloud itself only refreshes every few minutes.
	hopeCloudReadTTL = 2 * time.Minute
)

// HopeCloudService wraps the HopeCloud integration surface: station and
// device reads, time-series queries reshaped into chart-ready points, and
// fire-and-await sync triggers executed by the backend.
type HopeCloudService struct {
	c        *Client
	stations *ttlcache.Cache[string, []domain.Station]
	series   *ttlcache.Cache[string, []domain.SeriesPoint]
}

func newHopeCloudService(c *Client) *HopeCloudService {
	stations := ttlcache.New(
		ttlcache.WithTTL[string, []domain.Station](hopeCloudReadTTL),
		ttlcache.WithDisableTouchOnHit[string, []domain.Station](),
	)
	series := ttlcache.New(
		ttlcache.WithTTL[string, []domain.SeriesPoint](hopeCloudReadTTL),
		ttlcache.WithDisableTouchOnHit[string, []domain.SeriesPoint](),
	)
	go stations.Start()
	go series.Start()

	return &HopeCloudService{c: c, stations: stations, series: series}
}

// Close stops the cache cleanup goroutines.
func (s *HopeCloudService) Close() {
	s.stations.Stop()
	s.series.Stop()
}

// Stations lists the stations known to HopeCloud. Responses are cached.
func (s *HopeCloudService) Stations(ctx context.Context) ([]domain.Station, error) {
	if item := s.stations.Get("stations"); item != nil {
		return item.Value(), nil
	}
	var stations []domain.Station
	if err := s.c.do(ctx, http.MethodGet, hopeCloudBase+"/stations", nil, nil, &stations); err != nil {
		return nil, err
	}
	s.stations.Set("stations", stations, ttlcache.DefaultTTL)
	return stations, nil
}

// StationRealtime returns the live production snapshot of one station.
// Realtime reads are never cached.
func (s *HopeCloudService) StationRealtime(ctx context.Context, code string) (*domain.StationRealtime, error) {
	var rt domain.StationRealtime
	path := fmt.Sprintf("%s/stations/%s/realtime", hopeCloudBase, url.PathEscape(code))
	if err := s.c.do(ctx, http.MethodGet, path, nil, nil, &rt); err != nil {
		return nil, err
	}
	return &rt, nil
}

// StationSeries returns the production series of a station for the tab/range
// combination selected in the console: hourly points over a day, daily points
// over a month, or monthly points over a year. The sparse provider payload is
// normalized into a dense series; results are cached per station and range.
func (s *HopeCloudService) StationSeries(ctx context.Context, code string, granularity Granularity, anchor time.Time) ([]domain.SeriesPoint, error) {
	key := fmt.Sprintf("%s|%s|%s", code, granularity, anchor.Format("2006-01-02"))
	if item := s.series.Get(key); item != nil {
		return item.Value(), nil
	}

	query := url.Values{}
	query.Set("range", string(granularity))
	query.Set("date", anchor.Format("2006-01-02"))

	var samples []domain.MetricSample
	path := fmt.Sprintf("%s/stations/%s/series", hopeCloudBase, url.PathEscape(code))
	if err := s.c.do(ctx, http.MethodGet, path, query, nil, &samples); err != nil {
		return nil, err
	}

	points, err := NormalizeSeries(granularity, anchor, samples)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize hopecloud series for station %s: %w", code, err)
	}
	s.series.Set(key, points, ttlcache.DefaultTTL)
	return points, nil
}

// StationDevices lists the devices of a station as HopeCloud reports them.
func (s *HopeCloudService) StationDevices(ctx context.Context, code string) ([]domain.StationDevice, error) {
	var devices []domain.StationDevice
	path := fmt.Sprintf("%s/stations/%s/devices", hopeCloudBase, url.PathEscape(code))
	if err := s.c.do(ctx, http.MethodGet, path, nil, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Alarms lists the currently active alarms across all stations.
func (s *HopeCloudService) Alarms(ctx context.Context) ([]domain.Alarm, error) {
	var alarms []domain.Alarm
	if err := s.c.do(ctx, http.MethodGet, hopeCloudBase+"/alarms", nil, nil, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

// SyncStations triggers a backend-side station synchronization and awaits its
// summary. The heavy lifting happens in the backend; this is a plain POST.
func (s *HopeCloudService) SyncStations(ctx context.Context) (*domain.SyncResult, error) {
	var result domain.SyncResult
	if err := s.c.do(ctx, http.MethodPost, hopeCloudBase+"/sync/stations", nil, nil, &result); err != nil {
		return nil, err
	}
	s.stations.DeleteAll()
	return &result, nil
}

// SyncDevices triggers a backend-side device synchronization.
func (s *HopeCloudService) SyncDevices(ctx context.Context) (*domain.SyncResult, error) {
	var result domain.SyncResult
	if err := s.c.do(ctx, http.MethodPost, hopeCloudBase+"/sync/devices", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
