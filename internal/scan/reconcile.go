// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNoMatch is returned when no PageXML file matches a remote page.
var ErrNoMatch = errors.New("no matching PageXML")

// ErrAmbiguousMatch is returned when more than one PageXML file matches.
var ErrAmbiguousMatch = errors.New("ambiguous PageXML match")

// AmbiguousMatchError lists every candidate for one remote image.
type AmbiguousMatchError struct {
	ImgFileName string
	Candidates  []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s: %s matches %s", ErrAmbiguousMatch, e.ImgFileName, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousMatchError) Unwrap() error {
	return ErrAmbiguousMatch
}

// numberPrefix is the page-number prefix exports put in front of file names.
var numberPrefix = regexp.MustCompile(`^[0-9]+_`)

// NormalizeName strips a leading run of ASCII digits 0-9 followed by one
// underscore. "0007_folio12" becomes "folio12"; names without the prefix
// are returned unchanged. Digits from other scripts, such as "٣" or "３",
// do not form a prefix.
func NormalizeName(name string) string {
	return numberPrefix.ReplaceAllString(name, "")
}

// baseName returns name without its final extension.
func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// MatchPageXML returns the entry of names that is the PageXML for the
// remote image imgFileName. A candidate must have the extension .xml
// exactly, and its normalized base name must equal the image base name.
// Comparison is case-sensitive. Candidates are checked in lexicographic
// order; more than one match is an *AmbiguousMatchError.
func MatchPageXML(imgFileName string, names []string) (string, error) {
	want := baseName(imgFileName)

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var matches []string
	for _, name := range sorted {
		if filepath.Ext(name) != pageXMLExt {
			continue
		}
		if NormalizeName(baseName(name)) == want {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w for %s", ErrNoMatch, imgFileName)
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousMatchError{ImgFileName: imgFileName, Candidates: matches}
	}
}

// FindPageXML looks in docDir/page for the PageXML of imgFileName and
// returns its path.
func FindPageXML(docDir, imgFileName string) (string, error) {
	pageDir := filepath.Join(docDir, PageDir)
	entries, err := os.ReadDir(pageDir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pageDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	name, err := MatchPageXML(imgFileName, names)
	if err != nil {
		return "", err
	}
	return filepath.Join(pageDir, name), nil
}
