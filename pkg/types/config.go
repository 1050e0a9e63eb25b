// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultBaseURL is the Transkribus REST root used when no base_url is configured.
const DefaultBaseURL = "https://transkribus.eu/TrpServer/rest"

// HTTPConfig holds shared HTTP settings used for every call to the remote API.
type HTTPConfig struct {
	// Timeout bounds each HTTP request, including reading the response body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "transkribus-batch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Credentials are the login name and password for one Transkribus account.
// Password is never serialized.
type Credentials struct {
	User     string `json:"user" yaml:"user"`
	Password string `json:"-" yaml:"-"`
}

// Complete reports whether both fields are non-empty.
func (c Credentials) Complete() bool {
	return c.User != "" && c.Password != ""
}

// Config holds everything a run needs to talk to Transkribus.
type Config struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the REST root, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url"`

	Credentials Credentials `json:"credentials" yaml:"credentials"`
}

// BatchConfig holds settings shared by the upload and update stages.
type BatchConfig struct {
	// BaseDir contains one subdirectory per document.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// CollectionID is the remote collection that receives or owns the documents.
	CollectionID string `json:"collection_id" yaml:"collection_id"`

	// DryRun scans and reports without calling the remote API (upload only).
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}
