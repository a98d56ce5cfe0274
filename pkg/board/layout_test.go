package board

import "testing"

func testLayout() Layout {
	return NewLayout("08:00", "18:00", 2, 200, 24)
}

func TestDayRectClampsBeforeRangeStart(t *testing.T) {
	l := testLayout()

	// Starts before the visible range: truncated, never negative.
	r := l.DayRect("07:00", "09:00")
	if r.Left != 0 {
		t.Errorf("expected left = 0 for clamped task, got %f", r.Left)
	}
	if r.Width != 60*l.DayPxPerMin {
		t.Errorf("expected width for the visible 60 minutes, got %f", r.Width)
	}
}

func TestDayRectOffsets(t *testing.T) {
	l := testLayout()

	r := l.DayRect("09:30", "10:30")
	if r.Left != 90*l.DayPxPerMin {
		t.Errorf("expected left = %f, got %f", 90*l.DayPxPerMin, r.Left)
	}
	if r.Width != 60*l.DayPxPerMin {
		t.Errorf("expected width = %f, got %f", 60*l.DayPxPerMin, r.Width)
	}
}

func TestDayRectEndClamp(t *testing.T) {
	l := testLayout()

	r := l.DayRect("17:00", "19:00")
	if r.Width != 60*l.DayPxPerMin {
		t.Errorf("expected end clamped to 18:00, width %f, got %f", 60*l.DayPxPerMin, r.Width)
	}
}

func TestDayRectMinimalWidth(t *testing.T) {
	l := testLayout()

	// Entirely outside the range: clamps to a zero-minute span, which
	// still renders as a minimal-width block.
	r := l.DayRect("06:00", "07:00")
	if r.Width != minBlockWidth {
		t.Errorf("expected minimal width %f, got %f", minBlockWidth, r.Width)
	}
	if r.Left != 0 {
		t.Errorf("expected left = 0, got %f", r.Left)
	}
}

func TestWeekRectAddsColumnOffset(t *testing.T) {
	l := testLayout()

	mon := l.WeekRect("09:00", "10:00", 0)
	wed := l.WeekRect("09:00", "10:00", 2)

	if wed.Left-mon.Left != 2*l.WeekColumnWidth {
		t.Errorf("expected two column widths between Monday and Wednesday, got %f", wed.Left-mon.Left)
	}
	if mon.Width != 60*l.weekPxPerMin() {
		t.Errorf("expected week width %f, got %f", 60*l.weekPxPerMin(), mon.Width)
	}
}

func TestMonthRectStacksMonitorRows(t *testing.T) {
	l := testLayout()

	// 2024-03-04 is a Monday in row 1 of a five-row month.
	r0 := l.MonthRect("09:00", "10:00", "2024-03-04", 0)
	r1 := l.MonthRect("09:00", "10:00", "2024-03-04", 1)

	if r0.Top != 1*l.MonthRowHeight {
		t.Errorf("expected top %f for monitor row 0, got %f", l.MonthRowHeight, r0.Top)
	}
	if r1.Top != (1+5)*l.MonthRowHeight {
		t.Errorf("expected top %f for monitor row 1, got %f", 6*l.MonthRowHeight, r1.Top)
	}
	if r0.Height != l.MonthRowHeight {
		t.Errorf("expected month row height %f, got %f", l.MonthRowHeight, r0.Height)
	}

	// Horizontal axis reuses the week geometry.
	week := l.WeekRect("09:00", "10:00", 0)
	if r0.Left != week.Left || r0.Width != week.Width {
		t.Errorf("month rect should reuse week horizontal placement")
	}
}

func TestNewLayoutBadRangeFallsBack(t *testing.T) {
	l := NewLayout("bogus", "also bogus", 2, 200, 24)
	if l.RangeStart != 8*60 || l.RangeEnd != 18*60 {
		t.Errorf("expected 08:00-18:00 fallback, got %d-%d", l.RangeStart, l.RangeEnd)
	}
}
