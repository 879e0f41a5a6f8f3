package render

import (
	"testing"
	"time"
)

func TestDateTicks_YearSpan(t *testing.T) {
	t0 := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ticks := dateTicks(t0, t1, 5)
	if len(ticks) == 0 || len(ticks) > 5 {
		t.Fatalf("got %d ticks, want 1..5", len(ticks))
	}
	if ticks[0].Label != "2020" {
		t.Errorf("first label = %q, want 2020", ticks[0].Label)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].X <= ticks[i-1].X {
			t.Fatalf("ticks not increasing at %d", i)
		}
	}
}

func TestDateTicks_MonthSpan(t *testing.T) {
	t0 := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2023, 9, 15, 0, 0, 0, 0, time.UTC)
	ticks := dateTicks(t0, t1, 5)
	if len(ticks) == 0 || len(ticks) > 5 {
		t.Fatalf("got %d ticks, want 1..5", len(ticks))
	}
	if ticks[0].Label != "Feb 23" {
		t.Errorf("first label = %q, want Feb 23", ticks[0].Label)
	}
}

func TestDateTicks_DaySpan(t *testing.T) {
	t0 := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	t1 := time.Date(2023, 1, 20, 12, 0, 0, 0, time.UTC)
	ticks := dateTicks(t0, t1, 5)
	if len(ticks) == 0 || len(ticks) > 6 {
		t.Fatalf("got %d ticks, want a small handful", len(ticks))
	}
	if ticks[0].Label != "Jan 2" {
		t.Errorf("first label = %q, want Jan 2", ticks[0].Label)
	}
}

func TestDateTicks_DegenerateRange(t *testing.T) {
	now := time.Now()
	if ticks := dateTicks(now, now, 5); ticks != nil {
		t.Errorf("expected no ticks for empty range, got %d", len(ticks))
	}
	if ticks := dateTicks(now, now.Add(-time.Hour), 5); ticks != nil {
		t.Errorf("expected no ticks for inverted range, got %d", len(ticks))
	}
}
