// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/transkribus-batch/internal/scan"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// scanBaseDir is replaced in tests.
var scanBaseDir = scan.ScanBaseDir

// Uploader creates upload containers and attaches pages to them.
// *transkribus.Client implements it.
type Uploader interface {
	CreateUpload(ctx context.Context, collID, title string, pages []types.PageRecord) (string, error)
	UploadPage(ctx context.Context, uploadID string, page types.PageRecord, imgPath, xmlPath string) error
}

// UploadBatch uploads every document directory under cfg.BaseDir into
// cfg.CollectionID. Each directory becomes one upload container titled
// with the directory name. Directories without pages are skipped without
// a remote call; unreadable ones are reported as failed. The returned
// error is non-nil only when the run had to stop: unreadable base
// directory, authentication failure, or cancellation.
func UploadBatch(ctx context.Context, api Uploader, cfg types.BatchConfig, w io.Writer) (Summary, error) {
	summary := Summary{Mode: "upload", CollectionID: cfg.CollectionID, BaseDir: cfg.BaseDir}
	if err := checkBatchConfig(cfg); err != nil {
		return summary, err
	}

	docs, err := scanBaseDir(cfg.BaseDir)
	if err != nil {
		return summary, err
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fmt.Fprintf(w, "Processing directory %s...\n", doc.Name)
		if doc.Err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", doc.Name, doc.Err)
			summary.Failed++
			summary.fail(doc.Name, 0, doc.Err)
			continue
		}
		if len(doc.Pages) == 0 {
			fmt.Fprintf(w, "skipped: %s (no pages to upload)\n", doc.Name)
			summary.Skipped++
			continue
		}

		if cfg.DryRun {
			printPlan(w, doc)
			summary.Documents++
			continue
		}

		if err := UploadDocument(ctx, api, cfg.CollectionID, doc, w, &summary); err != nil {
			if fatal(ctx, err) {
				summary.print(w, "uploaded")
				return summary, err
			}
			fmt.Fprintf(w, "failed:  %s (%v)\n", doc.Name, err)
			summary.Failed++
			summary.fail(doc.Name, 0, err)
			continue
		}
		summary.Documents++
	}

	summary.print(w, "uploaded")
	return summary, nil
}

// UploadDocument creates one upload container for doc and submits its
// pages in page order. A page whose PageXML is missing is skipped and its
// image is never opened. Page failures are reported and counted in
// summary; the returned error covers container creation and fatal
// failures only.
func UploadDocument(ctx context.Context, api Uploader, collID string, doc scan.DocumentDir, w io.Writer, summary *Summary) error {
	uploadID, err := api.CreateUpload(ctx, collID, doc.Name, doc.Pages)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "created upload %s for %s (%d pages)\n", uploadID, doc.Name, len(doc.Pages))

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		xmlPath := doc.XMLPath(page)
		if _, err := os.Stat(xmlPath); err != nil {
			fmt.Fprintf(w, "  page %d: XML file not found: %s\n", page.PageNr, xmlPath)
			summary.PagesSkipped++
			summary.fail(doc.Name, page.PageNr, fmt.Errorf("XML file not found: %s", xmlPath))
			continue
		}

		if err := api.UploadPage(ctx, uploadID, page, doc.ImagePath(page), xmlPath); err != nil {
			if fatal(ctx, err) {
				return err
			}
			fmt.Fprintf(w, "  page %d: failed to upload: %v\n", page.PageNr, err)
			summary.PagesFailed++
			summary.fail(doc.Name, page.PageNr, err)
			continue
		}
		fmt.Fprintf(w, "  page %d uploaded (%s)\n", page.PageNr, page.FileName)
		summary.PagesDone++
	}
	return nil
}

func printPlan(w io.Writer, doc scan.DocumentDir) {
	for _, page := range doc.Pages {
		xml := page.PageXMLName
		if _, err := os.Stat(doc.XMLPath(page)); err != nil {
			xml += " (missing)"
		}
		fmt.Fprintf(w, "  page %d: %s + %s\n", page.PageNr, page.FileName, xml)
	}
}
