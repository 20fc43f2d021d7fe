package convo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/convive/convive/internal/logging"
)

// ErrorKind is the closed set of pipeline failure categories.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"  // malformed input, not a gate rejection
	KindUpstream    ErrorKind = "upstream"    // model call or backend HTTP failure
	KindPersistence ErrorKind = "persistence" // memory store read/write failure
)

// PipelineError tags a failure with its category.
type PipelineError struct {
	Kind ErrorKind
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one message pipeline. Handled is false when the
// gate skipped the message (a normal outcome, not an error).
type Result struct {
	Handled bool    `json:"handled"`
	Record  *Record `json:"record,omitempty"`
	Err     *PipelineError
}

// OK reports whether the pipeline ran without failure.
func (r Result) OK() bool {
	return r.Err == nil
}

// Pipeline runs Gate -> Extract -> Merge -> status push -> Persist for one
// message. Every failure is caught here and converted to a tagged Result;
// nothing escapes to the HTTP layer as a panic or raw error.
type Pipeline struct {
	gate       Gate
	extractor  *Extractor
	store      *StateStore
	baseURL    string // event backend for the respond push
	httpClient *http.Client
	now        func() time.Time
}

// NewPipeline wires the pipeline components together. baseURL is the event
// backend the RSVP decision is pushed to.
func NewPipeline(agentID string, extractor *Extractor, store *StateStore, baseURL string) *Pipeline {
	return &Pipeline{
		gate:       Gate{AgentID: agentID},
		extractor:  extractor,
		store:      store,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

// Process runs one message through the pipeline to completion.
func (p *Pipeline) Process(ctx context.Context, msg Message) Result {
	if msg.RoomID == "" {
		return Result{Err: &PipelineError{Kind: KindValidation, Err: fmt.Errorf("message has no room")}}
	}

	if !p.gate.Accept(msg) {
		return Result{Handled: false}
	}

	prev, err := p.store.Load(ctx, msg.RoomID)
	if err != nil {
		logging.Errorf("room %s: load state: %v", msg.RoomID, err)
		return Result{Err: &PipelineError{Kind: KindPersistence, Err: err}}
	}

	extraction, err := p.extractor.Extract(ctx, prev, msg)
	if err != nil {
		logging.Errorf("room %s: extraction: %v", msg.RoomID, err)
		return Result{Err: &PipelineError{Kind: KindUpstream, Err: err}}
	}

	next := Merge(prev, extraction.Fields, p.now())

	// A newly extracted RSVP decision is pushed to the event backend before
	// the state write; if the push fails the memory write is skipped so the
	// stored state never runs ahead of the invitation row.
	if f := extraction.Fields.RSVPStatus; f != nil && next.RSVPStatus != "" {
		if err := p.pushStatus(ctx, msg.RoomID, next.RSVPStatus); err != nil {
			logging.Errorf("room %s: status push: %v", msg.RoomID, err)
			return Result{Err: &PipelineError{Kind: KindUpstream, Err: err}}
		}
	}

	if err := p.store.Save(ctx, msg.RoomID, &next); err != nil {
		logging.Errorf("room %s: save state: %v", msg.RoomID, err)
		return Result{Err: &PipelineError{Kind: KindPersistence, Err: err}}
	}

	return Result{Handled: true, Record: &next}
}

// pushStatus POSTs the derived decision to the room respond endpoint, in the
// conversation vocabulary; the endpoint owns the mapping to the invitation enum.
func (p *Pipeline) pushStatus(ctx context.Context, roomID, status string) error {
	payload, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/invite/room/%s/respond", p.baseURL, roomID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("respond call failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("respond call returned %d", resp.StatusCode)
	}
	return nil
}
