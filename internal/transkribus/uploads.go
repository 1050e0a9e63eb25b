// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transkribus

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/pdiddy/transkribus-batch/internal/httputil"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

type uploadRequest struct {
	MD struct {
		Title string `json:"title"`
	} `json:"md"`
	PageList struct {
		Pages []types.PageRecord `json:"pages"`
	} `json:"pageList"`
}

// uploadResponse captures the id from the trpUpload reply.
type uploadResponse struct {
	UploadID string `xml:"uploadId"`
}

// CreateUpload registers a new upload container in collID for a document
// titled title with the given pages, and returns its id.
func (c *Client) CreateUpload(ctx context.Context, collID, title string, pages []types.PageRecord) (string, error) {
	op := fmt.Sprintf("creating upload for %q", title)

	var body uploadRequest
	body.MD.Title = title
	body.PageList.Pages = pages
	data, err := json.Marshal(body)
	if err != nil {
		return "", wrap(ErrUploadCreation, op, err)
	}

	rawURL := c.endpoint("uploads") + "?" + url.Values{"collId": {collID}}.Encode()
	resp, err := c.send(ctx, http.MethodPost, rawURL, data, "application/json")
	if err != nil {
		return "", wrap(ErrUploadCreation, op, err)
	}
	defer httputil.Discard(resp)

	if err := httputil.CheckStatus(resp, op, ErrUploadCreation); err != nil {
		return "", err
	}

	var ur uploadResponse
	if err := xml.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", wrap(ErrUploadCreation, op, fmt.Errorf("parsing response: %w", err))
	}
	id := strings.TrimSpace(ur.UploadID)
	if id == "" {
		return "", fmt.Errorf("%s: %w: response has no uploadId", op, ErrUploadCreation)
	}
	return id, nil
}

// UploadPage attaches one page image, and its PageXML when xmlPath is not
// empty, to an upload container. Both files are read into the request
// body and closed before the request is sent.
func (c *Client) UploadPage(ctx context.Context, uploadID string, page types.PageRecord, imgPath, xmlPath string) error {
	op := fmt.Sprintf("uploading page %d", page.PageNr)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := addFormFile(mw, "img", page.FileName, imgPath); err != nil {
		return wrap(ErrPageSubmission, op, err)
	}
	if xmlPath != "" {
		if err := addFormFile(mw, "xml", page.PageXMLName, xmlPath); err != nil {
			return wrap(ErrPageSubmission, op, err)
		}
	}
	if err := mw.Close(); err != nil {
		return wrap(ErrPageSubmission, op, err)
	}

	resp, err := c.send(ctx, http.MethodPut, c.endpoint("uploads", uploadID), buf.Bytes(), mw.FormDataContentType())
	if err != nil {
		return wrap(ErrPageSubmission, op, err)
	}
	defer httputil.Discard(resp)

	return httputil.CheckStatus(resp, op, ErrPageSubmission)
}

func addFormFile(mw *multipart.Writer, field, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
