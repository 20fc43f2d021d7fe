package convo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/convive/convive/internal/ai"
)

// recordingProvider keeps the prompt of the last completion request so tests
// can assert what the extractor sends upstream.
type recordingProvider struct {
	response   string
	lastPrompt string
}

func (r *recordingProvider) ID() string { return "recording" }

func (r *recordingProvider) Complete(_ context.Context, req *ai.Request) (string, error) {
	if len(req.Messages) > 0 {
		r.lastPrompt = req.Messages[len(req.Messages)-1].Content
	}
	return r.response, nil
}

func TestExtractParsesJSONWithSurroundingProse(t *testing.T) {
	provider := &fakeProvider{response: `Sure! Here is what I found:
{
  "fields": {
    "name": {"value": "John", "override": false},
    "rsvpStatus": {"value": "attending", "override": true}
  },
  "context": {"implicit": false, "requires_confirmation": false, "references_previous": false}
}
Let me know if you need anything else.`}

	e := NewExtractor(provider)
	result, err := e.Extract(context.Background(), nil, Message{Text: "I'm John and I'll be there"})
	require.NoError(t, err)
	require.NotNil(t, result.Fields)
	require.NotNil(t, result.Fields.Name)
	require.Equal(t, "John", result.Fields.Name.Value)
	require.NotNil(t, result.Fields.RSVPStatus)
	require.Equal(t, "attending", result.Fields.RSVPStatus.Value)
	require.True(t, result.Fields.RSVPStatus.Override)
}

func TestExtractFailsOnUnparseableResponse(t *testing.T) {
	e := NewExtractor(&fakeProvider{response: "I'm not sure what you mean."})
	_, err := e.Extract(context.Background(), nil, Message{Text: "yes I will come"})
	require.Error(t, err)
}

func TestExtractFailsWithoutFieldsKey(t *testing.T) {
	e := NewExtractor(&fakeProvider{response: `{"context": {"implicit": true}}`})
	_, err := e.Extract(context.Background(), nil, Message{Text: "yes I will come"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing fields")
}

func TestExtractIncludesPriorRecordInPrompt(t *testing.T) {
	provider := &recordingProvider{response: `{"fields": {}, "context": {}}`}
	e := NewExtractor(provider)
	prev := &Record{Name: "Ada", Location: "London"}

	_, err := e.Extract(context.Background(), prev, Message{Text: "I work as an engineer"})
	require.NoError(t, err)
	require.Contains(t, provider.lastPrompt, "Ada")
	require.Contains(t, provider.lastPrompt, "London")
	require.Contains(t, provider.lastPrompt, "I work as an engineer")
}
