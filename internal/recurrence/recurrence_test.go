package recurrence

import (
	"testing"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

func day(s string) time.Time {
	return utils.ParseDateLenient(s)
}

func strPtr(s string) *string { return &s }

func TestOccursOn_None(t *testing.T) {
	e := models.Event{Title: "Dentist", Date: "2024-06-10", StartTime: "09:00", Recurrence: models.RecurrenceNone}
	anchor := day("2024-06-10")

	for d := anchor.AddDate(0, 0, -40); d.Before(anchor.AddDate(0, 0, 40)); d = d.AddDate(0, 0, 1) {
		want := d.Equal(anchor)
		if got := OccursOn(e, d); got != want {
			t.Errorf("OccursOn(%s) = %v, want %v", utils.FormatDate(d), got, want)
		}
	}
}

func TestOccursOn_Weekly(t *testing.T) {
	// 2024-06-05 is a Wednesday
	e := models.Event{Title: "Gym", Date: "2024-06-05", StartTime: "18:00", Recurrence: models.RecurrenceWeekly}
	anchor := day("2024-06-05")

	for i := 0; i < 7*12; i++ {
		d := anchor.AddDate(0, 0, i)
		want := d.Weekday() == time.Wednesday
		if got := OccursOn(e, d); got != want {
			t.Errorf("OccursOn(%s %s) = %v, want %v", utils.FormatDate(d), d.Weekday(), got, want)
		}
	}

	if OccursOn(e, day("2024-05-29")) {
		t.Error("Expected no occurrence on the Wednesday before the anchor")
	}
}

func TestOccursOn_Daily(t *testing.T) {
	e := models.Event{Title: "Walk", Date: "2024-06-01", StartTime: "07:00", Recurrence: models.RecurrenceDaily}

	if !OccursOn(e, day("2024-06-01")) {
		t.Error("Expected occurrence on the anchor")
	}
	if !OccursOn(e, day("2025-01-17")) {
		t.Error("Expected open-ended daily event to occur far in the future")
	}
	if OccursOn(e, day("2024-05-31")) {
		t.Error("Expected no occurrence before the anchor")
	}
}

func TestOccursOn_MonthlySkipsShortMonths(t *testing.T) {
	e := models.Event{Title: "Rent", Date: "2024-01-31", StartTime: "10:00", Recurrence: models.RecurrenceMonthly}

	for _, d := range []string{"2024-02-28", "2024-02-29", "2024-03-01", "2024-04-30", "2024-05-01"} {
		if OccursOn(e, day(d)) {
			t.Errorf("Expected no occurrence on %s", d)
		}
	}
	for _, d := range []string{"2024-01-31", "2024-03-31", "2024-05-31", "2024-07-31", "2024-08-31"} {
		if !OccursOn(e, day(d)) {
			t.Errorf("Expected occurrence on %s", d)
		}
	}
}

func TestOccursOn_Yearly(t *testing.T) {
	e := models.Event{Title: "Birthday", Date: "2020-02-29", StartTime: "00:00", Recurrence: models.RecurrenceYearly}

	if !OccursOn(e, day("2024-02-29")) {
		t.Error("Expected occurrence on leap day 2024")
	}
	if OccursOn(e, day("2023-02-28")) || OccursOn(e, day("2023-03-01")) {
		t.Error("Expected no occurrence in a non-leap year")
	}
	if OccursOn(e, day("2024-03-29")) {
		t.Error("Expected no occurrence on the same day of another month")
	}
}

func TestOccursOn_Bounds(t *testing.T) {
	types := []models.RecurrenceType{
		models.RecurrenceNone,
		models.RecurrenceDaily,
		models.RecurrenceWeekly,
		models.RecurrenceMonthly,
		models.RecurrenceYearly,
	}
	for _, rt := range types {
		t.Run(string(rt), func(t *testing.T) {
			e := models.Event{
				Title:             "Bounded",
				Date:              "2024-03-15",
				StartTime:         "12:00",
				Recurrence:        rt,
				RecurrenceEndDate: strPtr("2025-03-15"),
			}
			anchor := day(e.Date)
			end := day(*e.RecurrenceEndDate)

			for d := anchor.AddDate(0, 0, -400); d.Before(anchor); d = d.AddDate(0, 0, 1) {
				if OccursOn(e, d) {
					t.Fatalf("occurrence before anchor on %s", utils.FormatDate(d))
				}
			}
			for d := end.AddDate(0, 0, 1); d.Before(end.AddDate(2, 0, 0)); d = d.AddDate(0, 0, 1) {
				if OccursOn(e, d) {
					t.Fatalf("occurrence after end date on %s", utils.FormatDate(d))
				}
			}
			if rt == models.RecurrenceYearly && !OccursOn(e, end) {
				t.Error("Expected the end date to be inclusive")
			}
		})
	}
}

func TestOccursOn_Lenient(t *testing.T) {
	tests := []struct {
		name   string
		event  models.Event
		target string
		want   bool
	}{
		{
			name:   "timestamp suffix on anchor",
			event:  models.Event{Date: "2024-06-01 08:00:00", Recurrence: models.RecurrenceNone},
			target: "2024-06-01",
			want:   true,
		},
		{
			name:   "unknown rule acts as one-off",
			event:  models.Event{Date: "2024-06-01", Recurrence: "HOURLY"},
			target: "2024-06-02",
			want:   false,
		},
		{
			name:   "lowercase rule",
			event:  models.Event{Date: "2024-06-01", Recurrence: "daily"},
			target: "2024-06-02",
			want:   true,
		},
		{
			name:   "empty end date means unbounded",
			event:  models.Event{Date: "2024-06-01", Recurrence: models.RecurrenceDaily, RecurrenceEndDate: strPtr("")},
			target: "2030-01-01",
			want:   true,
		},
		{
			name:   "overflowing day normalizes",
			event:  models.Event{Date: "2024-02-30", Recurrence: models.RecurrenceNone},
			target: "2024-03-01",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OccursOn(tt.event, day(tt.target)); got != tt.want {
				t.Errorf("OccursOn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOccursOn_IgnoresClockAndZone(t *testing.T) {
	e := models.Event{Date: "2024-06-01", Recurrence: models.RecurrenceNone}
	loc := time.FixedZone("UTC-7", -7*3600)
	if !OccursOn(e, time.Date(2024, time.June, 1, 22, 15, 0, 0, loc)) {
		t.Error("Expected late-evening local time to match its own calendar date")
	}
}

func TestOccurrencesForDate(t *testing.T) {
	events := []models.Event{
		{ID: 4, Title: "Lunch", Date: "2024-06-03", StartTime: "12:00", Recurrence: models.RecurrenceDaily},
		{ID: 3, Title: "Standup", Date: "2024-05-06", StartTime: "09:30", Recurrence: models.RecurrenceWeekly},
		{ID: 1, Title: "Review", Date: "2024-06-10", StartTime: "09:30", Recurrence: models.RecurrenceNone},
		{ID: 2, Title: "Elsewhere", Date: "2024-06-11", StartTime: "08:00", Recurrence: models.RecurrenceNone},
		{ID: 5, Title: "Broken", Date: "2024-06-10", StartTime: "??", Recurrence: models.RecurrenceNone},
	}

	// 2024-06-10 is a Monday, as is 2024-05-06
	got := OccurrencesForDate(events, day("2024-06-10"))

	wantIDs := []int64{5, 1, 3, 4}
	if len(got) != len(wantIDs) {
		t.Fatalf("OccurrencesForDate() returned %d events, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("position %d: got ID %d, want %d", i, got[i].ID, id)
		}
		if got[i].Date != "2024-06-10" {
			t.Errorf("ID %d carries date %q, want 2024-06-10", got[i].ID, got[i].Date)
		}
	}

	if events[1].Date != "2024-05-06" {
		t.Error("OccurrencesForDate() modified the base record")
	}
}

func TestOccurrencesForDate_StableOnEqualIDs(t *testing.T) {
	events := []models.Event{
		{Title: "first", Date: "2024-06-01", StartTime: "10:00"},
		{Title: "second", Date: "2024-06-01", StartTime: "10:00"},
	}
	got := OccurrencesForDate(events, day("2024-06-01"))
	if len(got) != 2 || got[0].Title != "first" || got[1].Title != "second" {
		t.Errorf("expected input order for equal keys, got %+v", got)
	}
}

func TestOccurrencesInRange(t *testing.T) {
	events := []models.Event{
		{ID: 1, Title: "Weekly", Date: "2024-06-03", StartTime: "09:00", Recurrence: models.RecurrenceWeekly},
	}
	got := OccurrencesInRange(events, day("2024-06-01"), day("2024-06-30"))

	if len(got) != 4 {
		t.Fatalf("expected 4 days with occurrences, got %d", len(got))
	}
	for _, d := range []string{"2024-06-03", "2024-06-10", "2024-06-17", "2024-06-24"} {
		if len(got[d]) != 1 {
			t.Errorf("expected one occurrence on %s", d)
		}
	}
}

// Expansion must agree with RFC 5545 for every rule the planner supports.
func TestOccursOn_MatchesRRule(t *testing.T) {
	events := []models.Event{
		{Date: "2024-01-31", Recurrence: models.RecurrenceMonthly},
		{Date: "2024-02-29", Recurrence: models.RecurrenceYearly},
		{Date: "2024-06-05", Recurrence: models.RecurrenceWeekly, RecurrenceEndDate: strPtr("2024-09-30")},
		{Date: "2024-06-05", Recurrence: models.RecurrenceDaily, RecurrenceEndDate: strPtr("2024-07-04")},
		{Date: "2024-12-15", Recurrence: models.RecurrenceMonthly},
	}

	from := day("2023-12-01")
	to := day("2032-12-31")

	for _, e := range events {
		t.Run(string(e.Recurrence)+"_"+e.Date, func(t *testing.T) {
			opt, ok := RuleOption(e)
			if !ok {
				t.Fatal("RuleOption() returned !ok for a recurring event")
			}
			r, err := rrule.NewRRule(opt)
			if err != nil {
				t.Fatalf("NewRRule() error: %v", err)
			}

			expected := make(map[string]bool)
			for _, occ := range r.Between(from, to, true) {
				expected[utils.FormatDate(occ)] = true
			}

			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				key := utils.FormatDate(d)
				if got := OccursOn(e, d); got != expected[key] {
					t.Fatalf("OccursOn(%s) = %v, rrule says %v", key, got, expected[key])
				}
			}
		})
	}
}

func TestRuleOption(t *testing.T) {
	if _, ok := RuleOption(models.Event{Date: "2024-06-01", Recurrence: models.RecurrenceNone}); ok {
		t.Error("Expected one-off event to have no rule")
	}

	opt, ok := RuleOption(models.Event{
		Date:              "2024-06-01",
		Recurrence:        models.RecurrenceWeekly,
		RecurrenceEndDate: strPtr("2024-08-01"),
	})
	if !ok {
		t.Fatal("Expected weekly rule")
	}
	if opt.Freq != rrule.WEEKLY {
		t.Errorf("Freq = %v, want WEEKLY", opt.Freq)
	}
	if !opt.Until.Equal(day("2024-08-01")) {
		t.Errorf("Until = %v", opt.Until)
	}
}

func TestRecurrenceFromOption(t *testing.T) {
	tests := []struct {
		rule   string
		want   models.RecurrenceType
		wantOK bool
	}{
		{"FREQ=DAILY", models.RecurrenceDaily, true},
		{"FREQ=WEEKLY;UNTIL=20241231T000000Z", models.RecurrenceWeekly, true},
		{"FREQ=MONTHLY;INTERVAL=1", models.RecurrenceMonthly, true},
		{"FREQ=YEARLY", models.RecurrenceYearly, true},
		{"FREQ=WEEKLY;INTERVAL=2", "", false},
		{"FREQ=WEEKLY;BYDAY=MO,WE", "", false},
		{"FREQ=DAILY;COUNT=5", "", false},
		{"FREQ=HOURLY", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			opt, err := rrule.StrToROption(tt.rule)
			if err != nil {
				t.Fatalf("StrToROption() error: %v", err)
			}
			got, ok := RecurrenceFromOption(*opt)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("RecurrenceFromOption() = (%s, %v), want (%s, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
