package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/solarops/solar-console/credstore"
	"github.com/solarops/solar-console/domain"
	apierrors "github.com/solarops/solar-console/errors"
)

// Transport is an http.RoundTripper that authorizes outbound requests from the
// persisted credential fragment and transparently recovers from token expiry.
//
// On a 401 response for a request whose bearer token came from the store, it
// calls the refresh endpoint directly against persisted storage, saves the new
// token, and resubmits the original request exactly once. A second 401, or a
// failed refresh, terminates the session: the fragment is cleared and the
// error wraps apierrors.ErrSessionExpired so the top-level caller can decide
// to redirect. The transport itself never redirects.
//
// Concurrent requests that each receive a 401 each trigger their own refresh
// call; refreshes are intentionally not coalesced.
type Transport struct {
	base       http.RoundTripper
	creds      credstore.Store
	refreshURL string
}

// NewTransport creates a Transport over base (http.DefaultTransport when nil).
func NewTransport(creds credstore.Store, refreshURL string, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, creds: creds, refreshURL: refreshURL}
}

// attempt is one submission of a request through the transport. The retried
// flag is carried explicitly per request, never shared between requests, so
// each concurrent request has its own single retry budget.
type attempt struct {
	req       *http.Request
	fromStore bool
	retried   bool
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	creds, err := t.creds.Load()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load credentials, sending request unauthenticated")
		creds = credstore.Credentials{}
	}

	cur := attempt{req: t.decorate(req, creds.AccessToken)}
	// A caller-supplied Authorization header is left untouched and is not
	// eligible for the refresh retry.
	cur.fromStore = req.Header.Get("Authorization") == "" && creds.AccessToken != ""

	for {
		resp, err := t.base.RoundTrip(cur.req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized || !cur.fromStore || cur.retried {
			return resp, nil
		}
		if req.Body != nil && req.GetBody == nil {
			// The body cannot be replayed; surface the 401 as-is.
			return resp, nil
		}
		resp.Body.Close()

		token, err := t.refreshAccessToken(cur.req.Context(), creds)
		if err != nil {
			if clearErr := t.creds.Clear(); clearErr != nil {
				log.Error().Err(clearErr).Msg("failed to clear credentials after refresh failure")
			}
			return nil, fmt.Errorf("token refresh failed: %w: %w", apierrors.ErrSessionExpired, err)
		}

		creds.AccessToken = token
		if err := t.creds.Save(creds); err != nil {
			log.Error().Err(err).Msg("failed to persist refreshed access token")
		}

		retry, err := rewind(req)
		if err != nil {
			return nil, fmt.Errorf("cannot resubmit request after refresh: %w", err)
		}
		cur = attempt{req: t.decorate(retry, token), fromStore: true, retried: true}
		log.Debug().Str("url", req.URL.Path).Msg("resubmitting request with refreshed token")
	}
}

// decorate clones the request and attaches the bearer token and a request id.
// An Authorization header already present on the request wins.
func (t *Transport) decorate(req *http.Request, token string) *http.Request {
	r := req.Clone(req.Context())
	if r.Header.Get("Authorization") == "" && token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	if r.Header.Get("X-Request-Id") == "" {
		r.Header.Set("X-Request-Id", uuid.NewString())
	}
	return r
}

// rewind rebuilds a request with a fresh body so it can be submitted again.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	// Force re-authorization with the refreshed token.
	r.Header.Del("Authorization")
	return r, nil
}

// refreshAccessToken exchanges the current credentials for a new access token.
// This path operates purely against persisted storage; it shares nothing with
// the session store's own RefreshToken operation.
func (t *Transport) refreshAccessToken(ctx context.Context, creds credstore.Credentials) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(nil))
	if err != nil {
		return "", fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("refresh endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var grant domain.TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", fmt.Errorf("refresh response did not contain an access token")
	}
	return grant.AccessToken, nil
}

var _ http.RoundTripper = (*Transport)(nil)
