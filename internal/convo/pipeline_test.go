package convo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/convive/convive/internal/ai"
	"github.com/convive/convive/internal/db"
)

// fakeProvider returns a canned response (or error) for every completion.
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) ID() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, _ *ai.Request) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakeMemories is an in-memory MemoryStore.
type fakeMemories struct {
	mu      sync.Mutex
	nextID  int
	records map[string]db.Memory // id -> memory
	failGet bool
	failPut bool
}

func newFakeMemories() *fakeMemories {
	return &fakeMemories{records: make(map[string]db.Memory)}
}

func (f *fakeMemories) GetMemories(_ context.Context, roomID string, window int) ([]db.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errors.New("store down")
	}
	var out []db.Memory
	for _, m := range f.records {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > window {
		out = out[:window]
	}
	return out, nil
}

func (f *fakeMemories) CreateMemory(_ context.Context, m *db.Memory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return errors.New("store down")
	}
	f.nextID++
	m.ID = fmt.Sprintf("%08d", f.nextID)
	f.records[m.ID] = *m
	return nil
}

func (f *fakeMemories) RemoveMemory(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	return nil
}

func (f *fakeMemories) count(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.records {
		if m.RoomID == roomID {
			n++
		}
	}
	return n
}

const attendingResponse = `{
	"fields": {"rsvpStatus": {"value": "attending", "override": true}},
	"context": {"implicit": false, "requires_confirmation": false, "references_previous": false}
}`

func TestPipelineAcceptFlow(t *testing.T) {
	var pushedBody map[string]string
	var pushedPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushedPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&pushedBody)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer backend.Close()

	mem := newFakeMemories()
	provider := &fakeProvider{response: attendingResponse}
	p := NewPipeline(testAgentID, NewExtractor(provider), NewStateStore(mem), backend.URL)

	res := p.Process(context.Background(), Message{
		RoomID: "room-7",
		Sender: "guest",
		Origin: "sms",
		Text:   "Yes, I'd love to attend the dinner!",
	})

	if !res.OK() || !res.Handled {
		t.Fatalf("pipeline failed: %+v", res.Err)
	}
	if res.Record.RSVPStatus != RSVPAttending {
		t.Errorf("RSVPStatus = %q, want attending", res.Record.RSVPStatus)
	}
	if res.Record.IsComplete {
		t.Error("record without name/location must not be complete")
	}
	if pushedPath != "/api/v1/invite/room/room-7/respond" {
		t.Errorf("push path = %s", pushedPath)
	}
	if pushedBody["status"] != "attending" {
		t.Errorf("pushed status = %q, want attending", pushedBody["status"])
	}

	// State was persisted.
	stored, err := NewStateStore(mem).Load(context.Background(), "room-7")
	if err != nil || stored == nil {
		t.Fatalf("state not persisted: %v", err)
	}
	if stored.RSVPStatus != RSVPAttending {
		t.Errorf("stored RSVPStatus = %q", stored.RSVPStatus)
	}
}

func TestPipelineGateSkip(t *testing.T) {
	provider := &fakeProvider{response: attendingResponse}
	p := NewPipeline(testAgentID, NewExtractor(provider), NewStateStore(newFakeMemories()), "http://unused")

	res := p.Process(context.Background(), Message{
		RoomID: "room-7", Sender: "guest", Origin: "sms", Text: "ok",
	})

	if !res.OK() {
		t.Fatalf("gate skip is not an error: %+v", res.Err)
	}
	if res.Handled {
		t.Error("gated message must not be handled")
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for a gated message", provider.calls)
	}
}

func TestPipelineExtractionFailureLeavesState(t *testing.T) {
	mem := newFakeMemories()
	store := NewStateStore(mem)
	if err := store.Save(context.Background(), "room-7", &Record{Name: "John"}); err != nil {
		t.Fatal(err)
	}

	provider := &fakeProvider{response: "I could not parse that message, sorry!"}
	p := NewPipeline(testAgentID, NewExtractor(provider), store, "http://unused")

	res := p.Process(context.Background(), Message{
		RoomID: "room-7", Sender: "guest", Origin: "sms", Text: "yes I will come",
	})

	if res.OK() {
		t.Fatal("unparseable extraction should fail the pipeline")
	}
	if res.Err.Kind != KindUpstream {
		t.Errorf("kind = %s, want upstream", res.Err.Kind)
	}

	stored, _ := store.Load(context.Background(), "room-7")
	if stored == nil || stored.Name != "John" {
		t.Error("failed extraction must not mutate stored state")
	}
}

func TestPipelineMissingFieldsKeyFails(t *testing.T) {
	provider := &fakeProvider{response: `{"context": {"implicit": false}}`}
	p := NewPipeline(testAgentID, NewExtractor(provider), NewStateStore(newFakeMemories()), "http://unused")

	res := p.Process(context.Background(), Message{
		RoomID: "room-7", Sender: "guest", Origin: "sms", Text: "yes I will come",
	})
	if res.OK() {
		t.Fatal("missing fields key must be a hard failure")
	}
}

func TestPipelinePushFailureSkipsWrite(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer backend.Close()

	mem := newFakeMemories()
	provider := &fakeProvider{response: attendingResponse}
	p := NewPipeline(testAgentID, NewExtractor(provider), NewStateStore(mem), backend.URL)

	res := p.Process(context.Background(), Message{
		RoomID: "room-7", Sender: "guest", Origin: "sms", Text: "yes I will come",
	})

	if res.OK() {
		t.Fatal("failed status push should fail the pipeline")
	}
	if res.Err.Kind != KindUpstream {
		t.Errorf("kind = %s, want upstream", res.Err.Kind)
	}
	if mem.count("room-7") != 0 {
		t.Error("memory write must be skipped when the status push fails")
	}
}

func TestPipelineStoreFailureIsPersistence(t *testing.T) {
	mem := newFakeMemories()
	mem.failGet = true
	p := NewPipeline(testAgentID, NewExtractor(&fakeProvider{response: attendingResponse}), NewStateStore(mem), "http://unused")

	res := p.Process(context.Background(), Message{
		RoomID: "room-7", Sender: "guest", Origin: "sms", Text: "yes I will come",
	})
	if res.OK() || res.Err.Kind != KindPersistence {
		t.Fatalf("want persistence failure, got %+v", res.Err)
	}
}

func TestPipelinePriorStateScenario(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer backend.Close()

	mem := newFakeMemories()
	store := NewStateStore(mem)
	if err := store.Save(context.Background(), "room-7", &Record{Name: "John", Location: "Seattle"}); err != nil {
		t.Fatal(err)
	}

	declined := `{"fields": {"rsvpStatus": {"value": "declined", "override": true}}, "context": {}}`
	p := NewPipeline(testAgentID, NewExtractor(&fakeProvider{response: declined}), store, backend.URL)

	res := p.Process(context.Background(), Message{
		RoomID: "room-7", Sender: "guest", Origin: "sms", Text: "sadly I cannot make it",
	})

	if !res.OK() || !res.Handled {
		t.Fatalf("pipeline failed: %+v", res.Err)
	}
	rec := res.Record
	if rec.Name != "John" || rec.Location != "Seattle" || rec.RSVPStatus != RSVPDeclined {
		t.Errorf("unexpected merged record: %+v", rec)
	}
	if !rec.IsComplete {
		t.Error("record should be complete after the declined RSVP")
	}
}

func TestStateStoreReplacesOldState(t *testing.T) {
	mem := newFakeMemories()
	store := NewStateStore(mem)
	ctx := context.Background()

	if err := store.Save(ctx, "room-1", &Record{Name: "Ada"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, "room-1", &Record{Name: "Ada", Location: "London"}); err != nil {
		t.Fatal(err)
	}

	if n := mem.count("room-1"); n != 1 {
		t.Errorf("save must replace old state, found %d memories", n)
	}
	rec, err := store.Load(ctx, "room-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Location != "London" {
		t.Errorf("loaded stale record: %+v", rec)
	}
}
