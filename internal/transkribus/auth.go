// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transkribus

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/transkribus-batch/internal/httputil"
)

// loginResponse captures the session id from the trpUserLogin reply.
type loginResponse struct {
	SessionID string `xml:"sessionId"`
}

// Login exchanges the configured credentials for a session token and
// stores it on the client. It replaces any previous token.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{
		"user": {c.creds.User},
		"pw":   {c.creds.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("auth", "login"), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return wrap(ErrAuthentication, "login", err)
	}
	defer httputil.Discard(resp)

	if err := httputil.CheckStatus(resp, "login", ErrAuthentication); err != nil {
		return err
	}

	var lr loginResponse
	if err := xml.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return wrap(ErrAuthentication, "login", fmt.Errorf("parsing login response: %w", err))
	}
	token := strings.TrimSpace(lr.SessionID)
	if token == "" {
		return fmt.Errorf("login: %w: response has no sessionId", ErrAuthentication)
	}

	c.token = token
	c.logins++
	return nil
}
