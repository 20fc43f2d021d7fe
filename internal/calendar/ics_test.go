package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/convive/convive/internal/db"
)

func TestEncodeICS(t *testing.T) {
	event := &db.Event{
		ID:          "ev-1",
		Title:       "Taco Night",
		Description: "Bring a side dish",
		Location:    "12 Main St",
		StartsAt:    time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
	}
	host := &db.User{Name: "Sam", Phone: "+15551230000"}

	data, err := EncodeICS(event, host)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:ev-1@convive",
		"SUMMARY:Taco Night",
		"LOCATION:12 Main St",
		"END:VEVENT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ics output missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeICSWithoutHost(t *testing.T) {
	event := &db.Event{
		ID:       "ev-2",
		Title:    "Potluck",
		StartsAt: time.Date(2026, 10, 1, 18, 30, 0, 0, time.UTC),
	}
	data, err := EncodeICS(event, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "ORGANIZER") {
		t.Error("ics output has an organizer without a host")
	}
}
