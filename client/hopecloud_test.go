package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/domain"
)

func TestHopeCloudService_StationsAreCached(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/hopecloud/stations", r.URL.Path)
		hits.Add(1)
		json.NewEncoder(w).Encode([]domain.Station{{Code: "HC-001", Name: "North Field", CapacityKW: 450}})
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)
	t.Cleanup(c.HopeCloud().Close)

	for range 3 {
		stations, err := c.HopeCloud().Stations(context.Background())
		require.NoError(t, err)
		require.Len(t, stations, 1)
		assert.Equal(t, "HC-001", stations[0].Code)
	}
	assert.EqualValues(t, 1, hits.Load(), "repeated reads are served from the cache")
}

func TestHopeCloudService_SyncStationsInvalidatesCache(t *testing.T) {
	var stationHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/hopecloud/stations", func(w http.ResponseWriter, r *http.Request) {
		stationHits.Add(1)
		json.NewEncoder(w).Encode([]domain.Station{{Code: "HC-001"}})
	})
	mux.HandleFunc("POST /api/hopecloud/sync/stations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.SyncResult{Synced: 4, Message: "stations synchronized"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)
	t.Cleanup(c.HopeCloud().Close)

	_, err = c.HopeCloud().Stations(context.Background())
	require.NoError(t, err)

	result, err := c.HopeCloud().SyncStations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Synced)

	_, err = c.HopeCloud().Stations(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stationHits.Load(), "sync invalidates the station cache")
}

func TestHopeCloudService_StationSeriesNormalizesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/api/hopecloud/stations/HC-001/series", r.URL.Path)
		require.Equal(t, "day", r.URL.Query().Get("range"))
		json.NewEncoder(w).Encode([]domain.MetricSample{
			{Time: "2026-08-15 09:00", Value: fval(12.5)},
		})
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, credstore.NewMemStore())
	require.NoError(t, err)
	t.Cleanup(c.HopeCloud().Close)

	anchor := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	for range 2 {
		points, err := c.HopeCloud().StationSeries(context.Background(), "HC-001", GranularityDay, anchor)
		require.NoError(t, err)
		require.Len(t, points, 24)
		assert.Equal(t, 12.5, points[9].Value)
	}
	assert.EqualValues(t, 1, hits.Load())
}
