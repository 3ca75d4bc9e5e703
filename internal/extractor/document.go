package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"interviewlens/internal/model"
)

// maxDocumentBytes caps how much of a CV or question sheet is read.
const maxDocumentBytes = 1 << 20

// DocumentClient fetches candidate documents (CV, question sheets) over HTTP.
// Documents only enrich the scoring context, so callers treat failures as
// degradation rather than hard errors.
type DocumentClient struct {
	httpClient *http.Client
}

// NewDocumentClient creates a new document fetcher.
func NewDocumentClient() *DocumentClient {
	return &DocumentClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads a document and returns its text, truncated to a sane size.
func (c *DocumentClient) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &model.ExtractionError{Source: "document", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &model.ExtractionError{Source: "document", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &model.ExtractionError{
			Source: "document",
			Err:    fmt.Errorf("fetch %s: status %d", url, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", &model.ExtractionError{Source: "document", Err: err}
	}
	return string(body), nil
}
