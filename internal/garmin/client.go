//
// Copyright (C) 2025 garmin-mcp-poke authors.  All rights reserved.
//
// garmin-mcp-poke is licensed under the Apache License Version 2.0.
//
//

// Package garmin implements an authenticated client for the Garmin Connect
// web API. Authentication accepts either a pre-generated token store
// (GARMINTOKENS_BASE64) or email/password credentials; tool packages call
// the typed endpoint wrappers in endpoints.go.
package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/theol0403/garmin-mcp-poke/log"
)

const (
	defaultBaseURL = "https://connectapi.garmin.com"

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	mobileUserAgent  = "com.garmin.android.apps.connectmobile"

	defaultTimeout = 30 * time.Second

	maxRetries     = 2
	initialBackoff = 500 * time.Millisecond
)

// Config carries the authentication material and connection knobs for Dial.
type Config struct {
	// TokenStoreBase64 is the preferred credential: a base64 JSON token
	// store. When set, Email/Password are ignored.
	TokenStoreBase64 string
	// Email and Password drive the SSO credential flow (no MFA support).
	Email    string
	Password string
	// BaseURL overrides the Garmin Connect API origin, mainly for tests.
	BaseURL string
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is an authenticated Garmin Connect API client. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	tokens *TokenStore

	consumerOnce  sync.Once
	oauthConsumer *oauthConsumer
	consumerErr   error

	profileOnce sync.Once
	profileErr  error
	displayName string
	profileID   int64
}

// APIError is returned for non-2xx responses from the Garmin API.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("garmin api: %s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("garmin api: %s: status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Dial authenticates against Garmin Connect and returns a ready client.
// Token store authentication is tried first, then credentials.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	switch {
	case cfg.TokenStoreBase64 != "":
		store, err := DecodeTokenStore(cfg.TokenStoreBase64)
		if err != nil {
			return nil, fmt.Errorf("GARMINTOKENS_BASE64: %w", err)
		}
		c.tokens = store
		log.Info("Authenticating to Garmin Connect with stored tokens")
		if store.OAuth2.ExpiresWithin(refreshWindow) {
			if err := c.ensureFresh(ctx); err != nil {
				return nil, fmt.Errorf("stored tokens rejected "+
					"(regenerate GARMINTOKENS_BASE64): %w", err)
			}
		}
	case cfg.Email != "" && cfg.Password != "":
		log.Info("Authenticating to Garmin Connect with credentials")
		store, err := c.login(ctx, cfg.Email, cfg.Password)
		if err != nil {
			return nil, err
		}
		c.tokens = store
	default:
		return nil, fmt.Errorf("no Garmin credentials configured: set " +
			"GARMINTOKENS_BASE64 or GARMIN_EMAIL and GARMIN_PASSWORD")
	}
	return c, nil
}

// NewWithTokens builds a client around an existing token store without any
// network round trip. Used by tests.
func NewWithTokens(store *TokenStore, baseURL string, httpClient *http.Client) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     store,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return c
}

// ExportTokens returns the current token store in base64 form, so callers
// can persist refreshed tokens.
func (c *Client) ExportTokens() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.Encode()
}

// do executes one authenticated request and returns the response body.
// Transient failures (429 and 5xx) are retried with exponential backoff.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}

	rawURL := c.baseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		req.Header.Set("Authorization", c.tokens.OAuth2.Authorization())
		c.mu.Unlock()
		req.Header.Set("User-Agent", mobileUserAgent)
		req.Header.Set("X-Request-ID", uuid.NewString())
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.Debugf("garmin request failed (attempt %d): %v", attempt+1, err)
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
				return nil, nil
			}
			return data, nil
		case resp.StatusCode == http.StatusUnauthorized:
			// Force a refresh and retry once; stale bearer tokens show up
			// as 401 even before their nominal expiry.
			c.mu.Lock()
			if c.tokens.OAuth2 != nil {
				c.tokens.OAuth2.ExpiresAt = 0
			}
			c.mu.Unlock()
			if err := c.ensureFresh(ctx); err != nil {
				return nil, err
			}
			lastErr = &APIError{StatusCode: resp.StatusCode, Path: path}
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = &APIError{StatusCode: resp.StatusCode, Path: path, Body: trim(data)}
			log.Debugf("garmin request retryable status %d (attempt %d)",
				resp.StatusCode, attempt+1)
		default:
			return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Body: trim(data)}
		}
	}
	return nil, lastErr
}

func trim(body []byte) string {
	const max = 512
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}

// getJSON performs an authenticated GET and returns the raw JSON payload.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// postJSON performs an authenticated POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	} else {
		body = []byte("{}")
	}
	data, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// putJSON performs an authenticated PUT with an optional JSON body.
func (c *Client) putJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	data, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// delete performs an authenticated DELETE.
func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// ensureProfile lazily loads the social profile; several endpoints are
// keyed by display name or profile number rather than the bearer identity.
func (c *Client) ensureProfile(ctx context.Context) error {
	c.profileOnce.Do(func() {
		raw, err := c.getJSON(ctx, "/userprofile-service/socialProfile", nil)
		if err != nil {
			c.profileErr = fmt.Errorf("load social profile: %w", err)
			return
		}
		res := gjson.ParseBytes(raw)
		c.displayName = res.Get("displayName").String()
		c.profileID = res.Get("profileId").Int()
		if c.displayName == "" {
			c.profileErr = fmt.Errorf("social profile has no display name")
		}
	})
	return c.profileErr
}

// DisplayName returns the account's display name (an opaque UUID-ish key
// used in wellness endpoint paths).
func (c *Client) DisplayName(ctx context.Context) (string, error) {
	if err := c.ensureProfile(ctx); err != nil {
		return "", err
	}
	return c.displayName, nil
}

// ProfileID returns the numeric profile identifier from the social profile.
func (c *Client) ProfileID(ctx context.Context) (int64, error) {
	if err := c.ensureProfile(ctx); err != nil {
		return 0, err
	}
	return c.profileID, nil
}
