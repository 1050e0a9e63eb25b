// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoMarker is returned when a document directory has no metadata.xml.
var ErrNoMarker = errors.New("no metadata.xml")

// marker reads the docId element directly under the root element,
// whatever the root is called.
type marker struct {
	DocID string `xml:"docId"`
}

// ReadMarkerDocID returns the document id recorded in docDir/metadata.xml.
// The id is returned as written, trimmed of surrounding space. A marker
// without a docId yields "" and no error.
func ReadMarkerDocID(docDir string) (string, error) {
	path := filepath.Join(docDir, MarkerFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w in %s", ErrNoMarker, docDir)
		}
		return "", err
	}
	defer f.Close()

	var m marker
	if err := xml.NewDecoder(f).Decode(&m); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return strings.TrimSpace(m.DocID), nil
}
