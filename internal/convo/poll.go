package convo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/convive/convive/internal/logging"
)

// StatusPending is the sentinel the poller retries on.
const StatusPending = "PENDING"

const (
	pollMaxRetries = 3
	pollRetryDelay = 500 * time.Millisecond
)

// StatusPoller reads the externally recorded RSVP status for a room from the
// event backend, retrying a bounded number of times while it stays pending.
type StatusPoller struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewStatusPoller creates a poller against the given backend base URL.
func NewStatusPoller(baseURL string) *StatusPoller {
	return &StatusPoller{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retryDelay: pollRetryDelay,
	}
}

// Poll fetches the invitation status for a room. While the observed status is
// the pending sentinel it retries up to 3 times with a fixed delay; any other
// status returns immediately. Fetch errors fail open to pending rather than
// propagating.
func (p *StatusPoller) Poll(ctx context.Context, roomID string) string {
	status := p.fetch(ctx, roomID)
	for attempt := 0; attempt < pollMaxRetries && status == StatusPending; attempt++ {
		select {
		case <-ctx.Done():
			return status
		case <-time.After(p.retryDelay):
		}
		status = p.fetch(ctx, roomID)
	}
	return status
}

func (p *StatusPoller) fetch(ctx context.Context, roomID string) string {
	url := fmt.Sprintf("%s/api/v1/invite/room/%s/status", p.baseURL, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return StatusPending
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logging.Warnf("status poll failed for room %s: %v", roomID, err)
		return StatusPending
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StatusPending
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return StatusPending
	}
	if body.Status == "" {
		return StatusPending
	}
	return body.Status
}
