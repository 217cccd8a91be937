// Package client is the REST SDK for the solar-plant ERP backend. It wraps
// the HTTP wire contract of the dashboard: user/session endpoints, domain
// CRUD resources and the HopeCloud/FusionSolar integration surface.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/solarops/solar-console/credstore"
	apierrors "github.com/solarops/solar-console/errors"
)

const refreshPath = "/api/users/refresh"

// Client is the base REST client. All service clients share one Client and
// therefore one Transport, credential store and connection pool.
type Client struct {
	baseURL string
	http    *http.Client
	creds   credstore.Store

	users       *UserService
	sites       *SiteService
	devices     *DeviceService
	academy     *AcademyService
	reports     *ReportService
	notes       *NotificationService
	hopeCloud   *HopeCloudService
	fusionSolar *FusionSolarService
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. The client's transport
// is still wrapped with the authorizing Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the backend at baseURL, authorized from creds.
func New(baseURL string, creds credstore.Store, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Transport = NewTransport(creds, c.baseURL+refreshPath, c.http.Transport)

	c.users = &UserService{c: c}
	c.sites = &SiteService{c: c}
	c.devices = &DeviceService{c: c}
	c.academy = &AcademyService{c: c}
	c.reports = &ReportService{c: c}
	c.notes = &NotificationService{c: c}
	c.hopeCloud = newHopeCloudService(c)
	c.fusionSolar = newFusionSolarService(c)
	return c, nil
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Users returns the user/session service client.
func (c *Client) Users() *UserService { return c.users }

// Sites returns the site resource client.
func (c *Client) Sites() *SiteService { return c.sites }

// Devices returns the device resource client.
func (c *Client) Devices() *DeviceService { return c.devices }

// Academy returns the courses/students/groups resource client.
func (c *Client) Academy() *AcademyService { return c.academy }

// Reports returns the report resource client.
func (c *Client) Reports() *ReportService { return c.reports }

// Notifications returns the notification resource client.
func (c *Client) Notifications() *NotificationService { return c.notes }

// HopeCloud returns the HopeCloud integration client.
func (c *Client) HopeCloud() *HopeCloudService { return c.hopeCloud }

// FusionSolar returns the FusionSolar integration client.
func (c *Client) FusionSolar() *FusionSolarService { return c.fusionSolar }

// do executes one JSON request against the backend. A non-2xx response is
// decoded into *apierrors.APIError. When out is non-nil the response body is
// decoded into it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// doWithToken is do with an explicit bearer token overriding the persisted
// one. It is used right after a token-issuing call, before the fragment has
// been persisted.
func (c *Client) doWithToken(ctx context.Context, token, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// decodeAPIError maps a non-2xx response onto *apierrors.APIError, keeping
// the backend-supplied message when the body carries the JSON error envelope.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &apierrors.APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Description == "" && apiErr.Code == "" {
		apiErr.Description = strings.TrimSpace(string(body))
		if apiErr.Description == "" {
			apiErr.Description = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}
