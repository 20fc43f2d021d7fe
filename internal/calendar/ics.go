package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/convive/convive/internal/db"
)

// EncodeICS renders an event as an iCalendar file a guest can import into
// any calendar app. host may be nil when the host account no longer exists.
func EncodeICS(event *db.Event, host *db.User) ([]byte, error) {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, event.ID+"@convive")
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.StartsAt)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.StartsAt.Add(defaultDuration))

	if event.Description != "" {
		ve.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}
	if host != nil && host.Name != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.Params.Set(ical.ParamCommonName, host.Name)
		p.SetText("tel:" + host.Phone)
		ve.Props.Add(p)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//convive//EN")
	cal.Children = append(cal.Children, ve)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode ics: %w", err)
	}
	return buf.Bytes(), nil
}
