// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transkribus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pdiddy/transkribus-batch/internal/httputil"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// ListDocuments returns the documents of a collection in server order.
func (c *Client) ListDocuments(ctx context.Context, collID string) ([]types.Document, error) {
	op := fmt.Sprintf("listing collection %s", collID)

	resp, err := c.send(ctx, http.MethodGet, c.endpoint("collections", collID, "list"), nil, "")
	if err != nil {
		return nil, wrap(ErrRemoteQuery, op, err)
	}
	defer httputil.Discard(resp)

	if err := httputil.CheckStatus(resp, op, ErrRemoteQuery); err != nil {
		return nil, err
	}

	var docs []types.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, wrap(ErrRemoteQuery, op, fmt.Errorf("parsing response: %w", err))
	}
	return docs, nil
}

// GetFullDocument returns the metadata and page manifest of one document.
func (c *Client) GetFullDocument(ctx context.Context, collID string, docID int) (*types.FullDocument, error) {
	op := fmt.Sprintf("fetching document %d", docID)

	rawURL := c.endpoint("collections", collID, strconv.Itoa(docID), "fulldoc")
	resp, err := c.send(ctx, http.MethodGet, rawURL, nil, "")
	if err != nil {
		return nil, wrap(ErrRemoteQuery, op, err)
	}
	defer httputil.Discard(resp)

	if err := httputil.CheckStatus(resp, op, ErrRemoteQuery); err != nil {
		return nil, err
	}

	var doc types.FullDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, wrap(ErrRemoteQuery, op, fmt.Errorf("parsing response: %w", err))
	}
	return &doc, nil
}
