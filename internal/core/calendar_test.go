package core_test

import (
	"testing"
	"time"

	"github.com/progami/ecom-os-sub001/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestWeekCalendar_Interpolation(t *testing.T) {
	// Weeks 3 and 5 recorded; everything else interpolates from the week-3 anchor.
	cal := core.BuildWeekCalendar([]core.WeekObservation{
		{WeekNumber: 5, Date: datePtr(2025, time.February, 3)},
		{WeekNumber: 3, Date: datePtr(2025, time.January, 20)},
		{WeekNumber: 1},
		{WeekNumber: 8},
	})

	tests := []struct {
		name string
		week int
		want time.Time
	}{
		{"recorded anchor week", 3, date(2025, time.January, 20)},
		{"recorded later week", 5, date(2025, time.February, 3)},
		{"interpolated before anchor", 1, date(2025, time.January, 6)},
		{"interpolated after anchor", 8, date(2025, time.February, 24)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cal.DateForWeek(tt.week)
			if !ok {
				t.Fatalf("DateForWeek(%d) returned ok=false", tt.week)
			}
			if !got.Equal(tt.want) {
				t.Errorf("DateForWeek(%d) = %s, want %s", tt.week, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}

	minWeek, maxWeek, ok := cal.Bounds()
	if !ok || minWeek != 1 || maxWeek != 8 {
		t.Errorf("Bounds() = (%d, %d, %v), want (1, 8, true)", minWeek, maxWeek, ok)
	}
}

func TestWeekCalendar_AnchorIsFirstValidDate(t *testing.T) {
	// Week 2 has no date; the anchor must be week 4 even though week 2 sorts first.
	cal := core.BuildWeekCalendar([]core.WeekObservation{
		{WeekNumber: 4, Date: datePtr(2025, time.March, 3)},
		{WeekNumber: 2},
	})

	got, ok := cal.DateForWeek(2)
	if !ok {
		t.Fatal("DateForWeek(2) returned ok=false")
	}
	if want := date(2025, time.February, 17); !got.Equal(want) {
		t.Errorf("DateForWeek(2) = %s, want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestWeekCalendar_NoAnchor(t *testing.T) {
	cal := core.BuildWeekCalendar([]core.WeekObservation{
		{WeekNumber: 1},
		{WeekNumber: 2},
	})

	if _, ok := cal.DateForWeek(1); ok {
		t.Error("DateForWeek should fail without an anchor")
	}
	if _, ok := cal.WeekForDate(date(2025, time.January, 6)); ok {
		t.Error("WeekForDate should fail without an anchor")
	}
	if segs := cal.YearSegments(); segs != nil {
		t.Errorf("YearSegments() = %v, want nil", segs)
	}
}

func TestWeekCalendar_Empty(t *testing.T) {
	cal := core.BuildWeekCalendar(nil)
	if _, _, ok := cal.Bounds(); ok {
		t.Error("Bounds() should report no weeks for an empty calendar")
	}
	if _, ok := cal.DateForWeek(1); ok {
		t.Error("DateForWeek should fail on an empty calendar")
	}
}

func TestWeekCalendar_WeekForDate(t *testing.T) {
	cal := core.BuildWeekCalendar([]core.WeekObservation{
		{WeekNumber: 10, Date: datePtr(2025, time.March, 10)},
		{WeekNumber: 14},
		{WeekNumber: 8},
	})

	tests := []struct {
		name   string
		date   time.Time
		want   int
		wantOK bool
	}{
		{"anchor date itself", date(2025, time.March, 10), 10, true},
		{"mid-week maps to its week", date(2025, time.March, 13), 10, true},
		{"next week boundary", date(2025, time.March, 17), 11, true},
		{"before anchor", date(2025, time.March, 5), 9, true},
		{"lowest observed week", date(2025, time.February, 24), 8, true},
		{"below range", date(2025, time.February, 17), 0, false},
		{"above range", date(2025, time.April, 14), 0, false},
		{"timestamp inside week", date(2025, time.March, 11).Add(17 * time.Hour), 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cal.WeekForDate(tt.date)
			if ok != tt.wantOK {
				t.Fatalf("WeekForDate(%s) ok = %v, want %v", tt.date.Format("2006-01-02"), ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("WeekForDate(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestWeekCalendar_RoundTrip(t *testing.T) {
	cal := core.BuildWeekCalendar([]core.WeekObservation{
		{WeekNumber: 1, Date: datePtr(2025, time.January, 6)},
		{WeekNumber: 52},
	})
	for week := 1; week <= 52; week++ {
		d, ok := cal.DateForWeek(week)
		if !ok {
			t.Fatalf("DateForWeek(%d) returned ok=false", week)
		}
		back, ok := cal.WeekForDate(d)
		if !ok || back != week {
			t.Fatalf("WeekForDate(DateForWeek(%d)) = (%d, %v)", week, back, ok)
		}
	}
}

func TestWeekCalendar_YearSegments(t *testing.T) {
	// Weeks 50..54 of a calendar anchored so the year flips between weeks 52 and 53.
	cal := core.BuildWeekCalendar([]core.WeekObservation{
		{WeekNumber: 50, Date: datePtr(2025, time.December, 8)},
		{WeekNumber: 54},
	})

	segs := cal.YearSegments()
	want := []core.YearSegment{
		{Year: 2025, StartWeek: 50, EndWeek: 53},
		{Year: 2026, StartWeek: 54, EndWeek: 54},
	}
	if len(segs) != len(want) {
		t.Fatalf("YearSegments() = %v, want %v", segs, want)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, segs[i], want[i])
		}
	}
}
