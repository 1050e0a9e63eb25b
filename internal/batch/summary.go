// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the upload and update workflows over a directory of
// documents. Both workflows are sequential: one remote call at a time,
// failures below the document level are reported and counted, and only
// authentication or listing failures stop the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transkribus-batch/internal/transkribus"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// Failure records one reported problem. PageNr is 0 for document-level
// failures.
type Failure struct {
	Document string `yaml:"document"`
	PageNr   int    `yaml:"page_nr,omitempty"`
	Error    string `yaml:"error"`
}

// Summary holds the outcome of one batch run.
type Summary struct {
	Mode         string `yaml:"mode"`
	CollectionID string `yaml:"collection_id"`
	BaseDir      string `yaml:"base_dir"`

	// Documents counts documents whose pages were attempted.
	Documents int `yaml:"documents"`
	Skipped   int `yaml:"skipped"`
	Failed    int `yaml:"failed"`

	PagesDone    int `yaml:"pages_done"`
	PagesSkipped int `yaml:"pages_skipped"`
	PagesFailed  int `yaml:"pages_failed"`

	Failures []Failure `yaml:"failures,omitempty"`
}

// HasFailures reports whether any document failed or any page failed or
// was skipped. Skipped documents are not counted: an upload directory with
// no pages left has nothing to do, and an update document without a
// matching local directory and marker (missing or mismatched metadata.xml,
// or a title unusable as a directory name) exists only remotely.
func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.PagesFailed > 0 || s.PagesSkipped > 0
}

// TotalPages returns the number of pages considered.
func (s Summary) TotalPages() int {
	return s.PagesDone + s.PagesSkipped + s.PagesFailed
}

func (s *Summary) fail(doc string, pageNr int, err error) {
	s.Failures = append(s.Failures, Failure{Document: doc, PageNr: pageNr, Error: err.Error()})
}

func (s Summary) print(w io.Writer, verb string) {
	fmt.Fprintf(w, "\nBatch summary: %d documents (%d skipped, %d failed); pages: %d %s, %d skipped, %d failed\n",
		s.Documents, s.Skipped, s.Failed, s.PagesDone, verb, s.PagesSkipped, s.PagesFailed)
}

// WriteReport writes s as YAML to path.
func WriteReport(path string, s Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// fatal reports whether err must stop the whole run. A per-request
// timeout is not fatal; cancellation of the run context is.
func fatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, transkribus.ErrAuthentication) ||
		errors.Is(err, transkribus.ErrConfiguration)
}

func checkBatchConfig(cfg types.BatchConfig) error {
	if cfg.BaseDir == "" {
		return fmt.Errorf("%w: base directory is empty", transkribus.ErrConfiguration)
	}
	if cfg.CollectionID == "" {
		return fmt.Errorf("%w: collection id is empty", transkribus.ErrConfiguration)
	}
	return nil
}
