package timeclock

import (
	"testing"
	"time"
)

func ts(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", "2025-03-10 "+hhmm)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", hhmm, err)
	}
	return parsed
}

func TestElapsedHours(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"full day", "09:00", "18:00", 9},
		{"zero", "09:00", "09:00", 0},
		{"forty five minutes", "12:30", "13:15", 0.75},
		{"clock skew clamps to zero", "18:00", "09:00", 0},
	}
	for _, c := range cases {
		got := ElapsedHours(ts(t, c.start), ts(t, c.end))
		if got != c.want {
			t.Errorf("%s: ElapsedHours = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestElapsedHoursPtr_NilInputs(t *testing.T) {
	start := ts(t, "09:00")
	if got := ElapsedHoursPtr(nil, &start); got != nil {
		t.Errorf("ElapsedHoursPtr(nil, t) = %v, want nil", *got)
	}
	if got := ElapsedHoursPtr(&start, nil); got != nil {
		t.Errorf("ElapsedHoursPtr(t, nil) = %v, want nil", *got)
	}
	end := ts(t, "10:30")
	got := ElapsedHoursPtr(&start, &end)
	if got == nil || *got != 1.5 {
		t.Errorf("ElapsedHoursPtr = %v, want 1.5", got)
	}
}

func TestNetWorkedHours_CompletedLunch(t *testing.T) {
	lunchStart := ts(t, "12:00")
	lunchEnd := ts(t, "13:00")

	got := NetWorkedHours(ts(t, "09:00"), ts(t, "18:00"), &lunchStart, &lunchEnd)
	if got != 8.00 {
		t.Errorf("NetWorkedHours = %v, want 8.00", got)
	}
}

func TestNetWorkedHours_OpenLunchRunsToCheckout(t *testing.T) {
	// Break never ended: the open interval runs to checkout, so
	// 09:00-18:00 minus 12:00-18:00 leaves 3 worked hours.
	lunchStart := ts(t, "12:00")

	got := NetWorkedHours(ts(t, "09:00"), ts(t, "18:00"), &lunchStart, nil)
	if got != 3.00 {
		t.Errorf("NetWorkedHours = %v, want 3.00", got)
	}
}

func TestNetWorkedHours_NoLunch(t *testing.T) {
	got := NetWorkedHours(ts(t, "09:00"), ts(t, "17:30"), nil, nil)
	if got != 8.5 {
		t.Errorf("NetWorkedHours = %v, want 8.5", got)
	}
}

func TestNetWorkedHours_ClampsNegative(t *testing.T) {
	// Skewed checkout before checkin must yield 0, never negative.
	got := NetWorkedHours(ts(t, "18:00"), ts(t, "09:00"), nil, nil)
	if got != 0 {
		t.Errorf("NetWorkedHours = %v, want 0", got)
	}

	// Lunch longer than the whole cycle also clamps.
	lunchStart := ts(t, "09:30")
	lunchEnd := ts(t, "18:30")
	got = NetWorkedHours(ts(t, "09:00"), ts(t, "18:00"), &lunchStart, &lunchEnd)
	if got != 0 {
		t.Errorf("NetWorkedHours with oversized lunch = %v, want 0", got)
	}
}

func TestNetWorkedHours_ScenarioAlice(t *testing.T) {
	// Check in 09:00, lunch 12:30-13:15 (0.75h), out 17:30 -> 7.75h.
	lunchStart := ts(t, "12:30")
	lunchEnd := ts(t, "13:15")

	if d := BreakHours(&lunchStart, &lunchEnd); d == nil || *d != 0.75 {
		t.Fatalf("BreakHours = %v, want 0.75", d)
	}

	got := NetWorkedHours(ts(t, "09:00"), ts(t, "17:30"), &lunchStart, &lunchEnd)
	if got != 7.75 {
		t.Errorf("NetWorkedHours = %v, want 7.75", got)
	}
}

func TestRoundHours(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{8.0, 8.0},
		{7.754999, 7.75},
		{7.755001, 7.76},
		{0.333333, 0.33},
	}
	for _, c := range cases {
		if got := RoundHours(c.in); got != c.want {
			t.Errorf("RoundHours(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
