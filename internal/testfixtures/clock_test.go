package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
	if clock.Now().Weekday() != time.Monday {
		t.Fatalf("expected reference time on a Monday, got %v", clock.Now().Weekday())
	}
	if ReferenceDate() != "2024-03-04" {
		t.Fatalf("unexpected reference date %q", ReferenceDate())
	}
}

func TestClockAdvanceDaysAndSet(t *testing.T) {
	clock := NewClock(time.Time{})

	updated := clock.AdvanceDays(4)
	if updated.Weekday() != time.Friday {
		t.Fatalf("expected Friday after four days, got %v", updated.Weekday())
	}

	start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock.Set(start)
	if got := clock.NowFunc()(); !got.Equal(start) {
		t.Fatalf("expected %v, got %v", start, got)
	}
}
