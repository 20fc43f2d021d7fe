package convo

import (
	"testing"
	"time"
)

func field(value string) *ExtractedField {
	return &ExtractedField{Value: value, Override: true}
}

func TestMergeCompleteness(t *testing.T) {
	now := time.Now()

	full := Record{Name: "John", Location: "Seattle", RSVPStatus: RSVPAttending}

	tests := []struct {
		name string
		rec  Record
		want bool
	}{
		{"all present", full, true},
		{"missing name", Record{Location: "Seattle", RSVPStatus: RSVPAttending}, false},
		{"missing location", Record{Name: "John", RSVPStatus: RSVPAttending}, false},
		{"missing rsvp", Record{Name: "John", Location: "Seattle"}, false},
		{"whitespace name", Record{Name: "  ", Location: "Seattle", RSVPStatus: RSVPAttending}, false},
	}

	for _, tt := range tests {
		got := Merge(&tt.rec, &ExtractedFields{}, now)
		if got.IsComplete != tt.want {
			t.Errorf("%s: IsComplete = %v, want %v", tt.name, got.IsComplete, tt.want)
		}
	}

	// Occupation does not count toward completeness.
	withOcc := Record{Name: "John", Location: "Seattle", RSVPStatus: RSVPAttending, Occupation: ""}
	if got := Merge(&withOcc, &ExtractedFields{}, now); !got.IsComplete {
		t.Error("occupation must not be required for completeness")
	}
}

func TestMergeIdempotent(t *testing.T) {
	now := time.Now()
	prev := Record{Name: "John"}
	fields := &ExtractedFields{
		Location:   field("Seattle"),
		RSVPStatus: field(RSVPAttending),
	}

	once := Merge(&prev, fields, now)
	twice := Merge(&once, fields, now)

	if once != twice {
		t.Errorf("applying the same fields twice changed the record: %+v vs %+v", once, twice)
	}
}

func TestMergeEmptyValueDoesNotOverwrite(t *testing.T) {
	now := time.Now()
	prev := Record{Name: "John", Location: "Seattle"}

	got := Merge(&prev, &ExtractedFields{
		Name:     field(""),
		Location: field("   "),
	}, now)

	if got.Name != "John" {
		t.Errorf("empty extraction overwrote name: %q", got.Name)
	}
	if got.Location != "Seattle" {
		t.Errorf("whitespace extraction overwrote location: %q", got.Location)
	}
}

func TestMergeTrimsValues(t *testing.T) {
	got := Merge(nil, &ExtractedFields{Name: field("  Ada  ")}, time.Now())
	if got.Name != "Ada" {
		t.Errorf("value should be stored trimmed, got %q", got.Name)
	}
}

func TestMergeNilPrevious(t *testing.T) {
	now := time.Now()
	got := Merge(nil, &ExtractedFields{RSVPStatus: field(RSVPAttending)}, now)

	if got.RSVPStatus != RSVPAttending {
		t.Errorf("RSVPStatus = %q, want attending", got.RSVPStatus)
	}
	if got.IsComplete {
		t.Error("record with only RSVP must not be complete")
	}
	if !got.LastUpdated.Equal(now) {
		t.Error("LastUpdated should be stamped with now")
	}
}

func TestMergeCompletesRecord(t *testing.T) {
	// Prior record has name and location; a declined RSVP completes it.
	prev := Record{Name: "John", Location: "Seattle"}
	got := Merge(&prev, &ExtractedFields{RSVPStatus: field(RSVPDeclined)}, time.Now())

	if got.Name != "John" || got.Location != "Seattle" {
		t.Errorf("merge lost prior fields: %+v", got)
	}
	if got.RSVPStatus != RSVPDeclined {
		t.Errorf("RSVPStatus = %q, want declined", got.RSVPStatus)
	}
	if !got.IsComplete {
		t.Error("record with name, location, and RSVP should be complete")
	}
}
