package core

import (
	"sort"
	"time"
)

// WeekObservation is one sparse (week number, date) pair taken from the
// sales-week records. Date may be nil when the source row carries no date.
type WeekObservation struct {
	WeekNumber int        `json:"week_number"`
	Date       *time.Time `json:"date,omitempty"`
}

// YearSegment is a contiguous run of week numbers whose resolved dates fall in
// the same calendar year. Used by the aggregator for period filtering.
type YearSegment struct {
	Year      int `json:"year"`
	StartWeek int `json:"start_week"`
	EndWeek   int `json:"end_week"`
}

// WeekCalendar maps planning week numbers to week-start dates and back.
// Weeks without a recorded date are interpolated at exact 7-day multiples from
// the anchor, the first observation (by week number) that carries a valid date.
type WeekCalendar struct {
	anchorWeek int
	anchorDate time.Time
	hasAnchor  bool

	dates map[int]time.Time

	minWeek  int
	maxWeek  int
	hasWeeks bool
}

// BuildWeekCalendar constructs a calendar from sparse observations.
// Observations are sorted by week number; the first valid date becomes the
// anchor. Duplicate week numbers keep the first valid date seen.
func BuildWeekCalendar(observations []WeekObservation) *WeekCalendar {
	sorted := make([]WeekObservation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].WeekNumber < sorted[j].WeekNumber })

	cal := &WeekCalendar{dates: make(map[int]time.Time)}
	for _, obs := range sorted {
		if !cal.hasWeeks || obs.WeekNumber < cal.minWeek {
			cal.minWeek = obs.WeekNumber
		}
		if !cal.hasWeeks || obs.WeekNumber > cal.maxWeek {
			cal.maxWeek = obs.WeekNumber
		}
		cal.hasWeeks = true

		if obs.Date == nil || obs.Date.IsZero() {
			continue
		}
		day := dayUTC(*obs.Date)
		if _, seen := cal.dates[obs.WeekNumber]; !seen {
			cal.dates[obs.WeekNumber] = day
		}
		if !cal.hasAnchor {
			cal.anchorWeek = obs.WeekNumber
			cal.anchorDate = day
			cal.hasAnchor = true
		}
	}
	return cal
}

// Bounds returns the lowest and highest week numbers observed.
// ok is false when the calendar was built from no observations.
func (c *WeekCalendar) Bounds() (minWeek, maxWeek int, ok bool) {
	return c.minWeek, c.maxWeek, c.hasWeeks
}

// DateForWeek returns the week-start date for a week number: the recorded date
// when one exists, otherwise the anchor-based interpolation. ok is false when
// no anchor exists and the week has no recorded date.
func (c *WeekCalendar) DateForWeek(week int) (time.Time, bool) {
	if d, found := c.dates[week]; found {
		return d, true
	}
	if !c.hasAnchor {
		return time.Time{}, false
	}
	return c.anchorDate.AddDate(0, 0, 7*(week-c.anchorWeek)), true
}

// WeekForDate inverts DateForWeek by floor division from the anchor.
// ok is false when no anchor exists or the implied week falls outside the
// observed [min, max] range.
func (c *WeekCalendar) WeekForDate(d time.Time) (int, bool) {
	if !c.hasAnchor || !c.hasWeeks {
		return 0, false
	}
	days := int(dayUTC(d).Sub(c.anchorDate).Hours() / 24)
	weeks := days / 7
	if days < 0 && days%7 != 0 {
		weeks--
	}
	week := c.anchorWeek + weeks
	if week < c.minWeek || week > c.maxWeek {
		return 0, false
	}
	return week, true
}

// YearSegments groups consecutive week numbers by the calendar year of their
// resolved date, yielding contiguous [start, end] ranges per year. Weeks whose
// date cannot be resolved are skipped and break the current run.
func (c *WeekCalendar) YearSegments() []YearSegment {
	if !c.hasWeeks {
		return nil
	}
	var segments []YearSegment
	open := false
	for week := c.minWeek; week <= c.maxWeek; week++ {
		date, ok := c.DateForWeek(week)
		if !ok {
			open = false
			continue
		}
		year := date.Year()
		if open && segments[len(segments)-1].Year == year {
			segments[len(segments)-1].EndWeek = week
			continue
		}
		segments = append(segments, YearSegment{Year: year, StartWeek: week, EndWeek: week})
		open = true
	}
	return segments
}

// dayUTC truncates a timestamp to midnight UTC. All calendar math runs on
// day-resolution UTC dates.
func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
