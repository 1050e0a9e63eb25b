// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transkribus-batch/internal/scan"
	"github.com/pdiddy/transkribus-batch/internal/transkribus"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// newUploadTree builds two documents: "Book A" with three pages (one of
// them done, one missing its XML) and "Book B" with one page.
func newUploadTree(t *testing.T) string {
	t.Helper()
	base := t.TempDir()

	writeFile(t, filepath.Join(base, "Book A", "001_a.jpg"), "img-a")
	writeFile(t, filepath.Join(base, "Book A", "002_b.jpg"), "img-b")
	writeFile(t, filepath.Join(base, "Book A", "003_c.jpg"), "img-c")
	writeFile(t, filepath.Join(base, "Book A", "000_x.jpg.done"), "")
	writeFile(t, filepath.Join(base, "Book A", "page", "001_a.xml"), "<a/>")
	writeFile(t, filepath.Join(base, "Book A", "page", "003_c.xml"), "<c/>")

	writeFile(t, filepath.Join(base, "Book B", "p1.JPG"), "img-p1")
	writeFile(t, filepath.Join(base, "Book B", "page", "p1.xml"), "<p1/>")
	return base
}

func TestUploadBatch(t *testing.T) {
	srv, client := newServerAndClient(t)
	base := newUploadTree(t)

	var out bytes.Buffer
	summary, err := UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: base, CollectionID: testColl}, &out)
	require.NoError(t, err)

	uploads := srv.Uploads()
	require.Len(t, uploads, 2)

	a := uploads[0]
	assert.Equal(t, "Book A", a.Title)
	assert.Equal(t, testColl, a.CollectionID)
	assert.Equal(t, []types.PageRecord{
		{FileName: "001_a.jpg", PageNr: 1, PageXMLName: "001_a.xml"},
		{FileName: "002_b.jpg", PageNr: 2, PageXMLName: "002_b.xml"},
		{FileName: "003_c.jpg", PageNr: 3, PageXMLName: "003_c.xml"},
	}, a.Pages)
	require.Len(t, a.Received, 2)
	assert.Equal(t, "001_a.jpg", a.Received[0].ImgName)
	assert.Equal(t, "<a/>", a.Received[0].XMLBody)
	assert.Equal(t, "003_c.jpg", a.Received[1].ImgName)

	assert.Equal(t, "Book B", uploads[1].Title)
	require.Len(t, uploads[1].Received, 1)

	assert.Equal(t, 2, summary.Documents)
	assert.Equal(t, 3, summary.PagesDone)
	assert.Equal(t, 1, summary.PagesSkipped)
	assert.Equal(t, 0, summary.PagesFailed)
	assert.True(t, summary.HasFailures())
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "Book A", summary.Failures[0].Document)
	assert.Equal(t, 2, summary.Failures[0].PageNr)

	// One session for the whole run.
	assert.Equal(t, 1, srv.Logins())

	assert.Contains(t, out.String(), "Processing directory Book A...")
	assert.Contains(t, out.String(), "page 2: XML file not found")
	assert.Contains(t, out.String(), "Batch summary: 2 documents")
}

func TestUploadBatch_PageFailureDoesNotStopDocument(t *testing.T) {
	srv, client := newServerAndClient(t)
	base := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(base, "Doc", name+".jpg"), name)
		writeFile(t, filepath.Join(base, "Doc", "page", name+".xml"), "<"+name+"/>")
	}
	srv.PageStatus["a.jpg"] = http.StatusInternalServerError

	var out bytes.Buffer
	summary, err := UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: base, CollectionID: testColl}, &out)
	require.NoError(t, err)

	received := srv.Uploads()[0].Received
	require.Len(t, received, 2)
	assert.Equal(t, "b.jpg", received[0].ImgName)
	assert.Equal(t, "c.jpg", received[1].ImgName)
	assert.Equal(t, 1, summary.PagesFailed)
	assert.Equal(t, 2, summary.PagesDone)
	assert.Contains(t, out.String(), "page 1: failed to upload")
}

func TestUploadBatch_EmptyDocumentMakesNoCall(t *testing.T) {
	srv, client := newServerAndClient(t)
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "Done Book", "a.jpg.done"), "")
	writeFile(t, filepath.Join(base, "Done Book", "notes.txt"), "")

	var out bytes.Buffer
	summary, err := UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: base, CollectionID: testColl}, &out)
	require.NoError(t, err)

	assert.Empty(t, srv.Requests())
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Documents)
	assert.False(t, summary.HasFailures())
}

func TestUploadBatch_CreationFailureAbortsDocumentOnly(t *testing.T) {
	srv, client := newServerAndClient(t)
	base := newUploadTree(t)
	srv.CreateStatus = http.StatusBadRequest

	var out bytes.Buffer
	summary, err := UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: base, CollectionID: testColl}, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 0, summary.TotalPages())
	assert.Contains(t, out.String(), "failed:  Book A")
	assert.Contains(t, out.String(), "failed:  Book B")
}

func TestUploadBatch_AuthenticationIsFatal(t *testing.T) {
	srv, _ := newServerAndClient(t)
	client, err := transkribus.NewClient(types.Config{
		BaseURL:     srv.BaseURL(),
		Credentials: types.Credentials{User: testUser, Password: "wrong"},
	}, srv.Client())
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: newUploadTree(t), CollectionID: testColl}, &out)
	assert.ErrorIs(t, err, transkribus.ErrAuthentication)
	assert.Empty(t, srv.Uploads())
}

func TestUploadBatch_UnreadableDocumentContinues(t *testing.T) {
	srv, client := newServerAndClient(t)
	base := newUploadTree(t)

	orig := scanBaseDir
	scanBaseDir = func(dir string) ([]scan.DocumentDir, error) {
		docs, err := orig(dir)
		if err != nil {
			return nil, err
		}
		for i := range docs {
			if docs[i].Name == "Book A" {
				docs[i].Pages = nil
				docs[i].Err = &fs.PathError{Op: "open", Path: docs[i].Path, Err: fs.ErrPermission}
			}
		}
		return docs, nil
	}
	t.Cleanup(func() { scanBaseDir = orig })

	var out bytes.Buffer
	summary, err := UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: base, CollectionID: testColl}, &out)
	require.NoError(t, err)

	uploads := srv.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "Book B", uploads[0].Title)

	assert.Equal(t, 1, summary.Documents)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.PagesDone)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "Book A", summary.Failures[0].Document)
	assert.True(t, summary.HasFailures())
	assert.Contains(t, out.String(), "failed:  Book A (")
}

func TestUploadBatch_DryRun(t *testing.T) {
	srv, client := newServerAndClient(t)
	base := newUploadTree(t)

	var out bytes.Buffer
	summary, err := UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: base, CollectionID: testColl, DryRun: true}, &out)
	require.NoError(t, err)

	assert.Empty(t, srv.Requests())
	assert.Equal(t, 2, summary.Documents)
	assert.Contains(t, out.String(), "page 2: 002_b.jpg + 002_b.xml (missing)")
	assert.Contains(t, out.String(), "page 1: p1.JPG + p1.xml\n")
}

func TestUploadBatch_InvalidConfig(t *testing.T) {
	_, client := newServerAndClient(t)

	_, err := UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: t.TempDir()}, &bytes.Buffer{})
	assert.ErrorIs(t, err, transkribus.ErrConfiguration)

	_, err = UploadBatch(context.Background(), client, types.BatchConfig{BaseDir: filepath.Join(t.TempDir(), "missing"), CollectionID: "1"}, &bytes.Buffer{})
	assert.Error(t, err)
}

// recordingUploader captures calls without any network.
type recordingUploader struct {
	created   []string
	submitted []types.PageRecord
	cancel    context.CancelFunc
}

func (r *recordingUploader) CreateUpload(_ context.Context, _, title string, _ []types.PageRecord) (string, error) {
	r.created = append(r.created, title)
	return "u1", nil
}

func (r *recordingUploader) UploadPage(_ context.Context, _ string, page types.PageRecord, _, _ string) error {
	r.submitted = append(r.submitted, page)
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

func TestUploadDocument_MissingXMLIsNotSubmitted(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "Doc", "a.jpg"), "a")
	writeFile(t, filepath.Join(base, "Doc", "b.jpg"), "b")
	writeFile(t, filepath.Join(base, "Doc", "page", "b.xml"), "<b/>")

	api := &recordingUploader{}
	summary, err := UploadBatch(context.Background(), api, types.BatchConfig{BaseDir: base, CollectionID: "1"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Doc"}, api.created)
	require.Len(t, api.submitted, 1)
	assert.Equal(t, "b.jpg", api.submitted[0].FileName)
	assert.Equal(t, 1, summary.PagesSkipped)
}

func TestUploadBatch_Cancelled(t *testing.T) {
	base := t.TempDir()
	for _, doc := range []string{"A", "B"} {
		for _, name := range []string{"1", "2"} {
			writeFile(t, filepath.Join(base, doc, name+".jpg"), name)
			writeFile(t, filepath.Join(base, doc, "page", name+".xml"), "<x/>")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &recordingUploader{cancel: cancel}

	_, err := UploadBatch(ctx, api, types.BatchConfig{BaseDir: base, CollectionID: "1"}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, api.submitted, 1)
	assert.Equal(t, []string{"A"}, api.created)
}
