package convo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/convive/convive/internal/ai"
)

// extractionPrompt is the fixed instruction template for the field extractor.
// The model must answer with bare JSON; anything else is treated as failure.
const extractionPrompt = `You are reading one guest's messages about a dinner invitation.
Extract any of the following attributes that the LATEST message states or clearly implies:

- "name": the guest's name
- "location": where the guest lives or is based
- "occupation": what the guest does for work
- "rsvpStatus": "attending" if the guest is accepting the invitation, "declined" if refusing

Return a JSON object shaped exactly like:
{
  "fields": {
    "<attribute>": { "value": "<string>", "override": <boolean> }
  },
  "context": {
    "implicit": <boolean>,
    "requires_confirmation": <boolean>,
    "references_previous": <boolean>
  }
}

Include only attributes the message actually supports. Set "override" to true
when the message should replace a previously stated value. Respond ONLY with
valid JSON, no other text.`

// Extractor turns free-form chat text into structured fields via the model.
type Extractor struct {
	provider ai.Provider
}

// NewExtractor creates a field extractor backed by the given provider.
func NewExtractor(provider ai.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract renders the conversation into a prompt, calls the model, and parses
// the response. A parse failure or a response without a "fields" key is a hard
// failure: the caller aborts with no state change.
func (e *Extractor) Extract(ctx context.Context, prev *Record, msg Message) (*ExtractionResult, error) {
	var conv strings.Builder
	if prev != nil {
		known, _ := json.Marshal(prev)
		fmt.Fprintf(&conv, "Previously known about this guest: %s\n\n", known)
	}
	fmt.Fprintf(&conv, "Latest message from guest: %s", msg.Text)

	text, err := e.provider.Complete(ctx, &ai.Request{
		System:   extractionPrompt,
		Messages: []ai.Message{{Role: "user", Content: conv.String()}},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	// Tolerate prose around the JSON (models do this despite instructions).
	responseText := strings.TrimSpace(text)
	jsonStart := strings.Index(responseText, "{")
	jsonEnd := strings.LastIndex(responseText, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		responseText = responseText[jsonStart : jsonEnd+1]
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(responseText), &result); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	if result.Fields == nil {
		return nil, fmt.Errorf("extraction response missing fields")
	}
	return &result, nil
}
