package board

import (
	"github.com/neuron-e/boukii-admin-panel-sub000/pkg/timeutil"
)

// View selects which grid geometry the layout computes.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// minBlockWidth is the width used when a clamped interval collapses to
// zero or negative minutes; the block still has to be visible and
// clickable.
const minBlockWidth = 4.0

// Rect is a positioned block. Left and Width are pixels; Top and Height
// are pixels for month view and lane percentages for day and week views.
type Rect struct {
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Layout converts times of day into grid coordinates. The visible range
// and pixel constants come from configuration; inputs outside the visible
// range are truncated, never rejected.
type Layout struct {
	RangeStart      int // minutes since midnight
	RangeEnd        int
	DayPxPerMin     float64
	WeekColumnWidth float64
	MonthRowHeight  float64
}

// NewLayout builds a Layout from HH:mm range bounds. A bad or empty range
// falls back to 08:00-18:00.
func NewLayout(rangeStart, rangeEnd string, dayPxPerMin, weekColumnWidth, monthRowHeight float64) Layout {
	start, err1 := timeutil.MinutesOfDay(rangeStart)
	end, err2 := timeutil.MinutesOfDay(rangeEnd)
	if err1 != nil || err2 != nil || end <= start {
		start, end = 8*60, 18*60
	}
	return Layout{
		RangeStart:      start,
		RangeEnd:        end,
		DayPxPerMin:     dayPxPerMin,
		WeekColumnWidth: weekColumnWidth,
		MonthRowHeight:  monthRowHeight,
	}
}

// visibleMinutes is the length of the configured hour range.
func (l Layout) visibleMinutes() int {
	return l.RangeEnd - l.RangeStart
}

// weekPxPerMin derives the week-view minute scale from the narrower week
// column.
func (l Layout) weekPxPerMin() float64 {
	return l.WeekColumnWidth / float64(l.visibleMinutes())
}

// clampSpan parses the two time-of-day strings and clamps them to the
// visible range. Unparseable values clamp to the range bound.
func (l Layout) clampSpan(hourStart, hourEnd string) (int, int) {
	start, err := timeutil.MinutesOfDay(hourStart)
	if err != nil || start < l.RangeStart {
		start = l.RangeStart
	}
	if start > l.RangeEnd {
		start = l.RangeEnd
	}
	end, err := timeutil.MinutesOfDay(hourEnd)
	if err != nil || end > l.RangeEnd {
		end = l.RangeEnd
	}
	if end < l.RangeStart {
		end = l.RangeStart
	}
	return start, end
}

// DayRect maps a time span onto the day grid.
func (l Layout) DayRect(hourStart, hourEnd string) Rect {
	start, end := l.clampSpan(hourStart, hourEnd)
	width := float64(end-start) * l.DayPxPerMin
	if width <= 0 {
		width = minBlockWidth
	}
	return Rect{
		Left:   float64(start-l.RangeStart) * l.DayPxPerMin,
		Width:  width,
		Height: 100,
	}
}

// WeekRect maps a time span onto the week grid; weekday is the
// Monday-first column index.
func (l Layout) WeekRect(hourStart, hourEnd string, weekday int) Rect {
	start, end := l.clampSpan(hourStart, hourEnd)
	scale := l.weekPxPerMin()
	width := float64(end-start) * scale
	if width <= 0 {
		width = minBlockWidth
	}
	return Rect{
		Left:   float64(weekday)*l.WeekColumnWidth + float64(start-l.RangeStart)*scale,
		Width:  width,
		Height: 100,
	}
}

// MonthRect maps a time span onto the month grid, which stacks one row
// per monitor per week. The horizontal axis reuses the week geometry;
// weeksInMonth comes from the actual calendar so trailing partial weeks
// get their own row.
func (l Layout) MonthRect(hourStart, hourEnd, date string, monitorRow int) Rect {
	r := l.WeekRect(hourStart, hourEnd, timeutil.WeekdayIndex(date))
	weekIndex := timeutil.WeekIndexInMonth(date)
	weeks := timeutil.WeeksIn(date)
	r.Top = float64(weekIndex)*l.MonthRowHeight + float64(monitorRow)*float64(weeks)*l.MonthRowHeight
	r.Height = l.MonthRowHeight
	return r
}
