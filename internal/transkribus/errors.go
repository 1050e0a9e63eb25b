// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transkribus

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Client wraps the kind of the
// operation that failed. When that operation could not log in, the error
// wraps ErrAuthentication as well, so callers match both with errors.Is and
// treat ErrAuthentication as fatal to the run.
var (
	// ErrConfiguration means credentials or settings are missing. It is
	// returned before any network call.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthentication means the login exchange did not yield a session.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRemoteQuery means a collection listing or document manifest
	// could not be fetched.
	ErrRemoteQuery = errors.New("remote query failed")

	// ErrUploadCreation means the server refused to create an upload container.
	ErrUploadCreation = errors.New("upload creation failed")

	// ErrPageSubmission means one page could not be attached to an upload.
	ErrPageSubmission = errors.New("page submission failed")

	// ErrPageUpdate means the transcript of one page could not be replaced.
	ErrPageUpdate = errors.New("page update failed")
)

// wrap attaches a failure kind to an error that did not come from a status
// check (transport errors, unreadable files, bad replies).
func wrap(kind error, op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
