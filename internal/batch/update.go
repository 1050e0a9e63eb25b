// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/transkribus-batch/internal/scan"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// Updater reads a collection and replaces page transcripts in it.
// *transkribus.Client implements it.
type Updater interface {
	ListDocuments(ctx context.Context, collID string) ([]types.Document, error)
	GetFullDocument(ctx context.Context, collID string, docID int) (*types.FullDocument, error)
	UpdatePageXML(ctx context.Context, collID string, docID, pageNr int, pageXML []byte, status types.PageStatus, overwrite bool) error
}

// UpdateBatch pushes local PageXML files into the documents of
// cfg.CollectionID. A remote document is only touched when
// cfg.BaseDir/<title>/metadata.xml names the same docId. Failing to list
// the collection stops the run; everything below is reported and counted.
func UpdateBatch(ctx context.Context, api Updater, cfg types.BatchConfig, w io.Writer) (Summary, error) {
	summary := Summary{Mode: "update", CollectionID: cfg.CollectionID, BaseDir: cfg.BaseDir}
	if err := checkBatchConfig(cfg); err != nil {
		return summary, err
	}

	docs, err := api.ListDocuments(ctx, cfg.CollectionID)
	if err != nil {
		return summary, err
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		docDir, err := confirmDocument(cfg.BaseDir, doc)
		if err != nil {
			fmt.Fprintf(w, "skipped: %s (%v)\n", doc.Title, err)
			summary.Skipped++
			summary.fail(doc.Title, 0, err)
			continue
		}

		fmt.Fprintf(w, "Updating document %s with ID %d\n", doc.Title, doc.DocID)
		if err := UpdateDocument(ctx, api, cfg.CollectionID, doc, docDir, w, &summary); err != nil {
			if fatal(ctx, err) {
				summary.print(w, "updated")
				return summary, err
			}
			fmt.Fprintf(w, "failed:  %s (%v)\n", doc.Title, err)
			summary.Failed++
			summary.fail(doc.Title, 0, err)
			continue
		}
		summary.Documents++
	}

	summary.print(w, "updated")
	return summary, nil
}

// confirmDocument returns the local directory for doc after checking that
// its metadata marker names doc.DocID.
func confirmDocument(baseDir string, doc types.Document) (string, error) {
	title := doc.Title
	if title == "" || title == "." || title == ".." || strings.ContainsAny(title, `/\`) {
		return "", fmt.Errorf("title %q cannot be used as a directory name", title)
	}
	docDir := filepath.Join(baseDir, title)

	markerID, err := scan.ReadMarkerDocID(docDir)
	if err != nil {
		if errors.Is(err, scan.ErrNoMarker) {
			return "", fmt.Errorf("could not find %s; was the document exported from Transkribus?", scan.MarkerFile)
		}
		return "", err
	}
	if markerID != strconv.Itoa(doc.DocID) {
		return "", fmt.Errorf("metadata docId %q does not match document %d", markerID, doc.DocID)
	}
	return docDir, nil
}

// UpdateDocument replaces the transcript of every page of doc that has a
// matching local PageXML file in docDir/page. Pages are sent with status
// IN_PROGRESS and overwrite enabled. The returned error covers the
// manifest fetch and fatal failures only.
func UpdateDocument(ctx context.Context, api Updater, collID string, doc types.Document, docDir string, w io.Writer, summary *Summary) error {
	full, err := api.GetFullDocument(ctx, collID, doc.DocID)
	if err != nil {
		return err
	}

	for _, page := range full.Pages() {
		if err := ctx.Err(); err != nil {
			return err
		}

		xmlPath, err := scan.FindPageXML(docDir, page.ImgFileName)
		if err != nil {
			fmt.Fprintf(w, "  page %d: no matching PageXML found in %s (%v)\n", page.PageNr, doc.Title, err)
			summary.PagesSkipped++
			summary.fail(doc.Title, page.PageNr, err)
			continue
		}

		content, err := os.ReadFile(xmlPath)
		if err == nil && len(content) == 0 {
			err = fmt.Errorf("%s is empty", xmlPath)
		}
		if err != nil {
			fmt.Fprintf(w, "  page %d: failed to load XML content (%v)\n", page.PageNr, err)
			summary.PagesSkipped++
			summary.fail(doc.Title, page.PageNr, err)
			continue
		}

		if err := api.UpdatePageXML(ctx, collID, doc.DocID, page.PageNr, content, types.StatusInProgress, true); err != nil {
			if fatal(ctx, err) {
				return err
			}
			fmt.Fprintf(w, "  page %d: failed to update XML: %v\n", page.PageNr, err)
			summary.PagesFailed++
			summary.fail(doc.Title, page.PageNr, err)
			continue
		}
		fmt.Fprintf(w, "  page %d XML updated (%s)\n", page.PageNr, filepath.Base(xmlPath))
		summary.PagesDone++
	}
	return nil
}
