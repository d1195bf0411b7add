package trigger_test

import (
	"errors"
	"testing"
	"time"

	"dailyjobs/search-service/internal/model"
	"dailyjobs/search-service/internal/trigger"
)

// ref is a Wednesday, 2025-06-11 10:30 UTC.
var ref = time.Date(2025, time.June, 11, 10, 30, 0, 0, time.UTC)

// fireSequence collects the next n fire instants after start.
func fireSequence(t *testing.T, c model.Cadence, start time.Time, n int) []time.Time {
	t.Helper()
	sched, err := trigger.Compile(c, start)
	if err != nil {
		t.Fatalf("Compile(%+v) unexpected error: %v", c, err)
	}
	out := make([]time.Time, 0, n)
	cur := start
	for i := 0; i < n; i++ {
		cur = sched.Next(cur)
		out = append(out, cur)
	}
	return out
}

// ── Daily ──────────────────────────────────────────────────────────────────

func TestCompile_Daily(t *testing.T) {
	fires := fireSequence(t, model.Cadence{Kind: model.CadenceDaily, Time: "09:00"}, ref, 3)

	for i, f := range fires {
		if f.Hour() != 9 || f.Minute() != 0 {
			t.Errorf("fire %d at %v, want 09:00", i, f)
		}
	}
	// 10:30 is past 09:00, so the first fire is tomorrow.
	if want := ref.AddDate(0, 0, 1).Truncate(24 * time.Hour).Add(9 * time.Hour); !fires[0].Equal(want) {
		t.Errorf("first fire = %v, want %v", fires[0], want)
	}
	if d := fires[1].Sub(fires[0]); d != 24*time.Hour {
		t.Errorf("fires %s apart, want 24h", d)
	}
}

func TestCompile_Hourly(t *testing.T) {
	fires := fireSequence(t, model.Cadence{Kind: model.CadenceHourly, Time: "00:15"}, ref, 4)

	for i, f := range fires {
		if f.Minute() != 15 {
			t.Errorf("fire %d at minute %d, want 15", i, f.Minute())
		}
	}
	if d := fires[1].Sub(fires[0]); d != time.Hour {
		t.Errorf("fires %s apart, want 1h", d)
	}
}

// ── Every N hours ──────────────────────────────────────────────────────────

func TestCompile_EveryNHours_AnchorInFuture(t *testing.T) {
	// Anchor 14:00 is after the 10:30 reference: first fire is the anchor.
	fires := fireSequence(t, model.Cadence{Kind: model.CadenceEveryNHours, N: 2, Time: "14:00"}, ref, 3)

	anchor := time.Date(2025, time.June, 11, 14, 0, 0, 0, time.UTC)
	if !fires[0].Equal(anchor) {
		t.Errorf("first fire = %v, want anchor %v", fires[0], anchor)
	}
	if !fires[1].Equal(anchor.Add(2 * time.Hour)) {
		t.Errorf("second fire = %v, want anchor+2h", fires[1])
	}
}

func TestCompile_EveryNHours_AnchorInPast(t *testing.T) {
	// Anchor 09:00 already passed at 10:30: first fire is anchor+3h.
	fires := fireSequence(t, model.Cadence{Kind: model.CadenceEveryNHours, N: 3, Time: "09:00"}, ref, 2)

	want := time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)
	if !fires[0].Equal(want) {
		t.Errorf("first fire = %v, want %v", fires[0], want)
	}
	if !fires[1].Equal(want.Add(3 * time.Hour)) {
		t.Errorf("second fire = %v, want %v", fires[1], want.Add(3*time.Hour))
	}
}

func TestCompile_EveryNHours_Restartable(t *testing.T) {
	sched, err := trigger.Compile(model.Cadence{Kind: model.CadenceEveryNHours, N: 2, Time: "14:00"}, ref)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// Asking far in the future still lands on the anchor grid.
	next := sched.Next(ref.Add(50 * time.Hour))
	if got := next.Sub(time.Date(2025, time.June, 11, 14, 0, 0, 0, time.UTC)) % (2 * time.Hour); got != 0 {
		t.Errorf("fire %v is off the 2h anchor grid by %s", next, got)
	}
}

// ── Day-of-week kinds ──────────────────────────────────────────────────────

func TestCompile_Weekdays(t *testing.T) {
	fires := fireSequence(t, model.Cadence{Kind: model.CadenceWeekdays, Time: "08:45"}, ref, 10)

	for i, f := range fires {
		if wd := f.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("fire %d on %s, weekends must be skipped", i, wd)
		}
		if f.Hour() != 8 || f.Minute() != 45 {
			t.Errorf("fire %d at %v, want 08:45", i, f)
		}
	}
}

func TestCompile_Weekly_NeverFiresOffDay(t *testing.T) {
	fires := fireSequence(t, model.WeeklyCadence("09:00"), ref, 5)

	for i, f := range fires {
		if f.Weekday() != time.Monday {
			t.Errorf("fire %d on %s, want Monday", i, f.Weekday())
		}
	}
	if d := fires[1].Sub(fires[0]); d != 7*24*time.Hour {
		t.Errorf("weekly fires %s apart, want 168h", d)
	}
}

func TestCompile_TwiceWeekly(t *testing.T) {
	fires := fireSequence(t, model.TwiceWeeklyCadence("09:00"), ref, 6)

	for i, f := range fires {
		if wd := f.Weekday(); wd != time.Monday && wd != time.Thursday {
			t.Errorf("fire %d on %s, want Monday or Thursday", i, wd)
		}
	}
}

func TestCompile_CustomDays(t *testing.T) {
	c := model.Cadence{
		Kind: model.CadenceCustom,
		Time: "07:30",
		Days: []time.Weekday{time.Tuesday, time.Friday},
	}
	fires := fireSequence(t, c, ref, 6)

	for i, f := range fires {
		if wd := f.Weekday(); wd != time.Tuesday && wd != time.Friday {
			t.Errorf("fire %d on %s, want Tuesday or Friday", i, wd)
		}
	}
}

func TestCompile_CustomEmptyDaysDegradesToDaily(t *testing.T) {
	fires := fireSequence(t, model.Cadence{Kind: model.CadenceCustom, Time: "09:00"}, ref, 3)

	if d := fires[1].Sub(fires[0]); d != 24*time.Hour {
		t.Errorf("fires %s apart, want daily", d)
	}
}

func TestCompile_CustomIntervalWeeksIgnored(t *testing.T) {
	// intervalWeeks > 1 is accepted but the schedule still fires every week.
	c := model.Cadence{
		Kind:          model.CadenceCustom,
		Time:          "09:00",
		Days:          []time.Weekday{time.Monday},
		IntervalWeeks: 2,
	}
	fires := fireSequence(t, c, ref, 2)
	if d := fires[1].Sub(fires[0]); d != 7*24*time.Hour {
		t.Errorf("fires %s apart, want every matching week", d)
	}
}

// ── Ordering and errors ────────────────────────────────────────────────────

func TestCompile_SequencesStrictlyIncreasing(t *testing.T) {
	cadences := []model.Cadence{
		{Kind: model.CadenceDaily, Time: "09:00"},
		{Kind: model.CadenceHourly, Time: "00:05"},
		{Kind: model.CadenceEveryNHours, N: 2, Time: "11:00"},
		{Kind: model.CadenceWeekdays, Time: "18:00"},
		model.WeeklyCadence("09:00"),
		model.TwiceWeeklyCadence("09:00"),
		{Kind: model.CadenceCustom, Time: "09:00", Days: []time.Weekday{time.Wednesday}},
	}
	for _, c := range cadences {
		fires := fireSequence(t, c, ref, 8)
		for i := 1; i < len(fires); i++ {
			if !fires[i].After(fires[i-1]) {
				t.Errorf("%s: fire %d (%v) not after fire %d (%v)", c.Kind, i, fires[i], i-1, fires[i-1])
			}
		}
	}
}

func TestCompile_InvalidCadence(t *testing.T) {
	bad := []model.Cadence{
		{Kind: model.CadenceDaily, Time: "nine"},
		{Kind: model.CadenceDaily, Time: "9"},
		{Kind: model.CadenceDaily, Time: "25:00"},
		{Kind: model.CadenceDaily, Time: "09:75"},
		{Kind: model.CadenceDaily, Time: ""},
		{Kind: model.CadenceEveryNHours, Time: "09:00", N: 0},
		{Kind: "fortnightly", Time: "09:00"},
	}
	for _, c := range bad {
		if _, err := trigger.Compile(c, ref); !errors.Is(err, trigger.ErrInvalidCadence) {
			t.Errorf("Compile(%+v) = %v, want ErrInvalidCadence", c, err)
		}
	}
}
