package convo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newPollBackend(t *testing.T, statuses []string, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := *calls
		*calls++
		status := statuses[len(statuses)-1]
		if i < len(statuses) {
			status = statuses[i]
		}
		fmt.Fprintf(w, `{"status":%q}`, status)
	}))
}

func TestPollStopsOnNonPending(t *testing.T) {
	calls := 0
	srv := newPollBackend(t, []string{"PENDING", "PENDING", "ACCEPTED"}, &calls)
	defer srv.Close()

	p := NewStatusPoller(srv.URL)
	p.retryDelay = 5 * time.Millisecond

	got := p.Poll(context.Background(), "room-1")
	if got != "ACCEPTED" {
		t.Errorf("Poll = %q, want ACCEPTED", got)
	}
	if calls != 3 {
		t.Errorf("backend called %d times, want 3", calls)
	}
}

func TestPollExhaustsRetries(t *testing.T) {
	calls := 0
	srv := newPollBackend(t, []string{"PENDING"}, &calls)
	defer srv.Close()

	p := NewStatusPoller(srv.URL)
	p.retryDelay = 5 * time.Millisecond

	got := p.Poll(context.Background(), "room-1")
	if got != StatusPending {
		t.Errorf("Poll = %q, want PENDING", got)
	}
	if calls != 4 {
		t.Errorf("backend called %d times, want 4 (initial + 3 retries)", calls)
	}
}

func TestPollImmediateStatus(t *testing.T) {
	calls := 0
	srv := newPollBackend(t, []string{"DECLINED"}, &calls)
	defer srv.Close()

	p := NewStatusPoller(srv.URL)
	p.retryDelay = 5 * time.Millisecond

	if got := p.Poll(context.Background(), "room-1"); got != "DECLINED" {
		t.Errorf("Poll = %q, want DECLINED", got)
	}
	if calls != 1 {
		t.Errorf("backend called %d times, want 1", calls)
	}
}

func TestPollFailsOpenToPending(t *testing.T) {
	// Unreachable backend: every attempt errors and is treated as pending.
	p := NewStatusPoller("http://127.0.0.1:1")
	p.retryDelay = time.Millisecond
	p.httpClient.Timeout = 100 * time.Millisecond

	if got := p.Poll(context.Background(), "room-1"); got != StatusPending {
		t.Errorf("Poll = %q, want PENDING on network failure", got)
	}
}
