// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the remote API calls.
package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxErrorBody caps how much of a failed response body is kept for
// reporting. Tests may lower it.
var MaxErrorBody int64 = 4096

// StatusError reports a response whose status code was not the one the
// caller expected. Kind classifies the failure so callers can match it
// with errors.Is.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	Kind       error
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d - %s", e.Op, e.StatusCode, e.Body)
}

// Unwrap returns Kind.
func (e *StatusError) Unwrap() error {
	return e.Kind
}

// CheckStatus returns nil when resp has status 200. Otherwise it reads up
// to MaxErrorBody bytes of the body and returns a *StatusError. The body
// is not closed; the caller still owns it.
func CheckStatus(resp *http.Response, op string, kind error) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
		Kind:       kind,
	}
}

// Discard drains and closes a response body so the connection can be
// reused.
func Discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
