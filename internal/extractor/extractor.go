package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"interviewlens/internal/model"
)

// Extractor produces one modality's signal samples for a recording.
type Extractor interface {
	// Source names the modality, used in degradation reports and logs.
	Source() string
	// Extract analyzes the media at mediaURL and returns timestamped samples.
	Extract(ctx context.Context, mediaURL string) ([]model.SignalSample, error)
}

// Transcriber turns a recording into timed utterances.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (*model.Transcript, error)
}

// sidecarClient is the shared HTTP plumbing for the analysis sidecar services.
// Each sidecar exposes POST /analyze taking a media URL and returning JSON.
type sidecarClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

func newSidecarClient(name, baseURL string) sidecarClient {
	return sidecarClient{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

type analyzeRequest struct {
	MediaURL string `json:"media_url"`
}

// post sends the analyze request and decodes the JSON response into out.
// Retries transport failures and 5xx with exponential backoff; 4xx is final.
func (c *sidecarClient) post(ctx context.Context, path string, mediaURL string, out interface{}) error {
	url := c.baseURL + path
	payload, err := json.Marshal(analyzeRequest{MediaURL: mediaURL})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * c.retryDelay
			log.Printf("[%s] Retry %d/%d for %s in %v", c.name, attempt, c.maxRetries, path, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("%s returned %d: %s", c.name, resp.StatusCode, string(body))
			continue
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("%s returned %d: %s", c.name, resp.StatusCode, string(body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse %s response: %w", c.name, err)
		}
		return nil
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
