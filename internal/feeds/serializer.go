package feeds

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/preston-bernstein/league-ics/internal/domain/calendar"
)

const (
	productID     = "-//league-ics//EN"
	propCalName   = "X-WR-CALNAME"
	propCalTZ     = "X-WR-TIMEZONE"
	feedExtension = ".ics"
)

// Filename returns the published file name for a slug.
func Filename(slug string) string {
	return slug + feedExtension
}

// Serialize renders the feed as iCalendar text, including a VTIMEZONE for the feed's
// zone. Output depends only on the feed: DTSTAMP is taken from each event's start
// rather than the clock, so an unchanged schedule produces byte-identical files.
func Serialize(feed calendar.Feed, slug string) ([]byte, string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")
	if feed.Name != "" {
		setExtensionText(cal.Component, propCalName, feed.Name)
	}
	loc, err := feedLocation(feed.Timezone)
	if err != nil {
		return nil, "", err
	}
	setExtensionText(cal.Component, propCalTZ, loc.String())

	starts := make([]time.Time, 0, len(feed.Events))
	for _, ev := range feed.Events {
		starts = append(starts, ev.Start)
	}
	cal.Children = append(cal.Children, timezoneComponent(loc, starts))
	for _, ev := range feed.Events {
		cal.Children = append(cal.Children, eventComponent(ev).Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, "", fmt.Errorf("encode feed %q: %w", slug, err)
	}
	return buf.Bytes(), Filename(slug), nil
}

func feedLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("feed timezone %q: %w", name, err)
	}
	return loc, nil
}

// setExtensionText writes an escaped TEXT value for an X- property. go-ical knows
// no default type for X- names and would otherwise emit ";VALUE=TEXT".
func setExtensionText(comp *ical.Component, name, text string) {
	prop := ical.NewProp(name)
	prop.SetText(text)
	prop.Params.Del(ical.ParamValue)
	comp.Props.Set(prop)
}

func eventComponent(ev calendar.Event) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, ev.UID)
	event.Props.SetDateTime(ical.PropDateTimeStamp, ev.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, ev.Start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, ev.End)
	event.Props.SetText(ical.PropSummary, ev.Title)
	event.Props.SetText(ical.PropLocation, ev.Location)
	if ev.Description != "" {
		event.Props.SetText(ical.PropDescription, ev.Description)
	}
	return event
}
