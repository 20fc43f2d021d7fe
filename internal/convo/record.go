// Package convo implements the conversational RSVP pipeline: a keyword gate,
// a model-backed field extractor, a merge of extracted fields into per-room
// state, and a room-keyed persistence adapter.
package convo

import (
	"strings"
	"time"
)

// RSVP statuses in the conversation vocabulary. The invitation tables use a
// separate uppercase enum; the two are mapped only at the respond endpoint.
const (
	RSVPAttending = "attending"
	RSVPDeclined  = "declined"
)

// Record is the accumulated state of one guest conversation, stored as JSON
// in the room's memory stream.
type Record struct {
	Name        string    `json:"name,omitempty"`
	Location    string    `json:"location,omitempty"`
	Occupation  string    `json:"occupation,omitempty"`
	RSVPStatus  string    `json:"rsvpStatus,omitempty"`
	IsComplete  bool      `json:"isComplete"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ExtractedField is one attribute pulled out of a message by the model.
// Override is carried through from the extraction schema but the merge does
// not branch on it: any non-empty value replaces the prior one.
type ExtractedField struct {
	Value    string `json:"value"`
	Override bool   `json:"override"`
}

// ExtractedFields is the fixed set of attributes the extractor may produce.
type ExtractedFields struct {
	Name       *ExtractedField `json:"name,omitempty"`
	Location   *ExtractedField `json:"location,omitempty"`
	Occupation *ExtractedField `json:"occupation,omitempty"`
	RSVPStatus *ExtractedField `json:"rsvpStatus,omitempty"`
}

// ExtractionContext is produced by the model but not consulted by the merge.
type ExtractionContext struct {
	Implicit             bool `json:"implicit"`
	RequiresConfirmation bool `json:"requires_confirmation"`
	ReferencesPrevious   bool `json:"references_previous"`
}

// ExtractionResult is the parsed model output. A nil Fields means the model
// response was unusable and the pipeline must abort without touching state.
type ExtractionResult struct {
	Fields  *ExtractedFields  `json:"fields"`
	Context ExtractionContext `json:"context"`
}

// Merge combines previously stored state with newly extracted fields and
// returns the next record. prev may be nil for a room's first extraction.
// Each extracted value is applied only when non-empty after trimming, so an
// empty extraction never clobbers known state.
func Merge(prev *Record, fields *ExtractedFields, now time.Time) Record {
	var next Record
	if prev != nil {
		next = *prev
	}

	if fields != nil {
		applyField(&next.Name, fields.Name)
		applyField(&next.Location, fields.Location)
		applyField(&next.Occupation, fields.Occupation)
		applyField(&next.RSVPStatus, fields.RSVPStatus)
	}

	next.IsComplete = recomputeComplete(&next)
	next.LastUpdated = now
	return next
}

func applyField(dst *string, f *ExtractedField) {
	if f == nil {
		return
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return
	}
	*dst = v
}

// recomputeComplete reports whether every required attribute (name, RSVP
// status, location) is present and non-empty after trimming.
func recomputeComplete(r *Record) bool {
	return strings.TrimSpace(r.Name) != "" &&
		strings.TrimSpace(r.RSVPStatus) != "" &&
		strings.TrimSpace(r.Location) != ""
}
