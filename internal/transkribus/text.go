// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transkribus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/transkribus-batch/internal/httputil"
	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// UpdatePageXML stores pageXML as the new transcript of one page.
func (c *Client) UpdatePageXML(ctx context.Context, collID string, docID, pageNr int, pageXML []byte, status types.PageStatus, overwrite bool) error {
	op := fmt.Sprintf("updating page %d of document %d", pageNr, docID)

	params := url.Values{
		"status":    {string(status)},
		"overwrite": {strconv.FormatBool(overwrite)},
	}
	rawURL := c.endpoint("collections", collID, strconv.Itoa(docID), strconv.Itoa(pageNr), "text") + "?" + params.Encode()

	resp, err := c.send(ctx, http.MethodPost, rawURL, pageXML, "application/xml")
	if err != nil {
		return wrap(ErrPageUpdate, op, err)
	}
	defer httputil.Discard(resp)

	return httputil.CheckStatus(resp, op, ErrPageUpdate)
}
