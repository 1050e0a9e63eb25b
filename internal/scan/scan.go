// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan reads the local document tree: one subdirectory per
// document holding page images, a page/ directory of PageXML files, and
// an optional metadata.xml marker.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/transkribus-batch/pkg/types"
)

const (
	// PageDir is the per-document subdirectory holding PageXML files.
	PageDir = "page"

	// MarkerFile names the metadata marker written by a Transkribus export.
	MarkerFile = "metadata.xml"

	doneSuffix = ".done"
	imageExt   = ".jpg"
	pageXMLExt = ".xml"
)

// DocumentDir is one document directory and the pages found in it.
type DocumentDir struct {
	// Name is the directory base name, used as the document title.
	Name string
	Path string

	// Pages are sorted by PageNr, which runs 1..len(Pages).
	Pages []types.PageRecord

	// Err is set when the directory could not be read; Pages is then empty.
	Err error
}

// readDir lists a directory. Tests replace it to simulate unreadable
// directories, which os.ReadDir cannot produce when running as root.
var readDir = os.ReadDir

// ImagePath returns the path of a page image.
func (d DocumentDir) ImagePath(p types.PageRecord) string {
	return filepath.Join(d.Path, p.FileName)
}

// XMLPath returns where the PageXML for a page is expected.
func (d DocumentDir) XMLPath(p types.PageRecord) string {
	return filepath.Join(d.Path, PageDir, p.PageXMLName)
}

// ScanBaseDir scans every immediate subdirectory of baseDir except page/,
// in lexicographic order. Plain files in baseDir are ignored. Only an
// unreadable baseDir is an error; a document directory that cannot be
// read is returned with Err set so callers can report it and go on.
func ScanBaseDir(baseDir string) ([]DocumentDir, error) {
	entries, err := readDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("reading base directory %s: %w", baseDir, err)
	}

	var docs []DocumentDir
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == PageDir {
			continue
		}
		dir := filepath.Join(baseDir, entry.Name())
		doc, err := ScanDocument(dir)
		if err != nil {
			doc = DocumentDir{Name: entry.Name(), Path: dir, Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ScanDocument lists the page images of one document directory. Files
// ending in .done are ignored; the rest must have a .jpg extension in any
// case. The extension is whatever follows the last dot, so a file named
// just ".jpg" counts as an image with an empty base name. Pages are
// numbered from 1 in lexicographic file name order.
func ScanDocument(dir string) (DocumentDir, error) {
	entries, err := readDir(dir)
	if err != nil {
		return DocumentDir{}, fmt.Errorf("reading document directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, doneSuffix) {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), imageExt) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	doc := DocumentDir{
		Name: filepath.Base(dir),
		Path: dir,
	}
	for i, name := range names {
		doc.Pages = append(doc.Pages, types.PageRecord{
			FileName:    name,
			PageNr:      i + 1,
			PageXMLName: strings.TrimSuffix(name, filepath.Ext(name)) + pageXMLExt,
		})
	}
	return doc, nil
}
