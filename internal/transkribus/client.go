// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transkribus is a small client for the Transkribus REST API:
// login, collection listing, document manifests, uploads, and page
// transcript updates.
package transkribus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/transkribus-batch/internal/httputil"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "transkribus-batch/0.1"
	sessionCookie    = "JSESSIONID"
)

// Client holds one authenticated session for the duration of a run.
// It is not safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	creds     types.Credentials
	http      *http.Client

	token  string
	logins int
}

// NewClient validates cfg and returns a client that has not yet logged in.
// When hc is nil a client with cfg.Timeout is created. Missing credentials
// yield ErrConfiguration.
func NewClient(cfg types.Config, hc *http.Client) (*Client, error) {
	if cfg.Credentials.User == "" {
		return nil, fmt.Errorf("%w: Transkribus user is not set (TRANSKRIBUS_USER)", ErrConfiguration)
	}
	if cfg.Credentials.Password == "" {
		return nil, fmt.Errorf("%w: Transkribus password is not set (TRANSKRIBUS_PASSWORD)", ErrConfiguration)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL %q: %v", ErrConfiguration, baseURL, err)
	}

	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		creds:     cfg.Credentials,
		http:      hc,
	}, nil
}

// Token returns the current session token, or "" before the first login.
func (c *Client) Token() string {
	return c.token
}

// Logins returns how many successful logins this client has performed.
func (c *Client) Logins() int {
	return c.logins
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// send issues an authenticated request. The body is held in memory so the
// request can be rebuilt once if the server reports the session expired.
func (c *Client) send(ctx context.Context, method, rawURL string, body []byte, contentType string) (*http.Response, error) {
	if c.token == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.sendOnce(ctx, method, rawURL, body, contentType)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Session expired: log in again and repeat this call once.
	httputil.Discard(resp)
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c.sendOnce(ctx, method, rawURL, body, contentType)
}

func (c *Client) sendOnce(ctx context.Context, method, rawURL string, body []byte, contentType string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cookie", sessionCookie+"="+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	return resp, nil
}
