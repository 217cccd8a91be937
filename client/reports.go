package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/solarops/solar-console/domain"
)

const reportsBase = "/api/reports"

// ReportService wraps the report resource. Generation and PDF rendering are
// backend concerns; this client only requests, lists and deletes.
type ReportService struct {
	c *Client
}

// List returns reports, optionally restricted to one site.
func (s *ReportService) List(ctx context.Context, siteID int64) ([]domain.Report, error) {
	query := url.Values{}
	if siteID > 0 {
		query.Set("site_id", strconv.FormatInt(siteID, 10))
	}
	var reports []domain.Report
	if err := s.c.do(ctx, http.MethodGet, reportsBase, query, nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Get fetches a report by id.
func (s *ReportService) Get(ctx context.Context, id int64) (*domain.Report, error) {
	var report domain.Report
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", reportsBase, id), nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Request asks the backend to generate a new report.
func (s *ReportService) Request(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	var report domain.Report
	if err := s.c.do(ctx, http.MethodPost, reportsBase, nil, req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", reportsBase, id), nil, nil, nil)
}

// NotificationService wraps the notification resource.
type NotificationService struct {
	c *Client
}

// List returns the calling user's notifications.
func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	query := url.Values{}
	if unreadOnly {
		query.Set("unread", "true")
	}
	var notes []domain.Notification
	if err := s.c.do(ctx, http.MethodGet, "/api/notifications", query, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), nil, nil, nil)
}
