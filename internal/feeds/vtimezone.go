package feeds

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"
)

const (
	compTimezone     = "VTIMEZONE"
	compStandard     = "STANDARD"
	compDaylight     = "DAYLIGHT"
	propTZID         = "TZID"
	propTZName       = "TZNAME"
	propTZOffsetFrom = "TZOFFSETFROM"
	propTZOffsetTo   = "TZOFFSETTO"
	localDateTime    = "20060102T150405"
)

type observance struct {
	at       time.Time
	from, to int
	name     string
	dst      bool
}

// timezoneComponent describes loc as a VTIMEZONE with one observance per offset change
// in the calendar years spanned by events. Only the events' years are scanned, so the
// component is a function of the feed alone.
func timezoneComponent(loc *time.Location, events []time.Time) *ical.Component {
	comp := ical.NewComponent(compTimezone)
	comp.Props.SetText(propTZID, loc.String())

	for _, o := range observances(loc, events) {
		kind := compStandard
		if o.dst {
			kind = compDaylight
		}
		child := ical.NewComponent(kind)
		setRaw(child, ical.PropDateTimeStart, o.at.In(time.FixedZone("", o.from)).Format(localDateTime))
		setRaw(child, propTZOffsetFrom, formatOffset(o.from))
		setRaw(child, propTZOffsetTo, formatOffset(o.to))
		if o.name != "" {
			child.Props.SetText(propTZName, o.name)
		}
		comp.Children = append(comp.Children, child)
	}
	return comp
}

func observances(loc *time.Location, events []time.Time) []observance {
	from, to := yearSpan(loc, events)
	name, offset := from.Zone()
	out := []observance{{at: from, from: offset, to: offset, name: name, dst: from.IsDST()}}

	prev := from
	for day := from.Add(24 * time.Hour); !prev.After(to); day = day.Add(24 * time.Hour) {
		if _, off := day.Zone(); off != offset {
			at := firstWithOffset(loc, prev, day, off)
			name, _ := at.Zone()
			out = append(out, observance{at: at, from: offset, to: off, name: name, dst: at.IsDST()})
			offset = off
		}
		prev = day
	}
	return out
}

// yearSpan returns Jan 1 of the earliest event year and Jan 1 of the year after the
// latest, both in loc. An empty feed spans 1970.
func yearSpan(loc *time.Location, events []time.Time) (time.Time, time.Time) {
	first, last := 1970, 1970
	for i, t := range events {
		y := t.In(loc).Year()
		if i == 0 || y < first {
			first = y
		}
		if i == 0 || y > last {
			last = y
		}
	}
	return time.Date(first, 1, 1, 0, 0, 0, 0, loc), time.Date(last+1, 1, 1, 0, 0, 0, 0, loc)
}

// firstWithOffset bisects (lo, hi] to the second for the first instant reporting offset.
func firstWithOffset(loc *time.Location, lo, hi time.Time, offset int) time.Time {
	lo, hi = lo.In(loc), hi.In(loc)
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2).Truncate(time.Second)
		if _, off := mid.Zone(); off == offset {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, (seconds%3600)/60)
}

func setRaw(comp *ical.Component, name, value string) {
	prop := ical.NewProp(name)
	prop.Value = value
	comp.Props.Set(prop)
}
