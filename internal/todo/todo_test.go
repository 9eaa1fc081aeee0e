package todo

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

func strPtr(s string) *string { return &s }

func dayOf(s string) Period {
	return DayPeriod(utils.ParseDateLenient(s))
}

func TestVisibleInPeriod_Day(t *testing.T) {
	tests := []struct {
		name   string
		todo   models.TodoItem
		period string
		want   bool
	}{
		{
			name:   "open on its anchor",
			todo:   models.TodoItem{Scope: models.TodoScopeDay, Date: "2024-06-01"},
			period: "2024-06-01",
			want:   true,
		},
		{
			name:   "open without carry-over on a later day",
			todo:   models.TodoItem{Scope: models.TodoScopeDay, Date: "2024-06-01"},
			period: "2024-06-02",
			want:   false,
		},
		{
			name:   "open with carry-over before its anchor",
			todo:   models.TodoItem{Scope: models.TodoScopeDay, Date: "2024-06-05", MoveToNext: true},
			period: "2024-06-04",
			want:   false,
		},
		{
			name: "completed on its anchor",
			todo: models.TodoItem{
				Scope: models.TodoScopeDay, Date: "2024-06-01",
				IsCompleted: true, CompletedDate: strPtr("2024-06-01"),
			},
			period: "2024-06-01",
			want:   true,
		},
		{
			name: "completed later is hidden on its anchor",
			todo: models.TodoItem{
				Scope: models.TodoScopeDay, Date: "2024-06-01", MoveToNext: true,
				IsCompleted: true, CompletedDate: strPtr("2024-06-04"),
			},
			period: "2024-06-01",
			want:   false,
		},
		{
			name:   "anchor with timestamp suffix",
			todo:   models.TodoItem{Scope: models.TodoScopeDay, Date: "2024-06-01 00:00:00"},
			period: "2024-06-01",
			want:   true,
		},
		{
			name:   "empty scope is a day todo",
			todo:   models.TodoItem{Date: "2024-06-01"},
			period: "2024-06-01",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleInPeriod(tt.todo, dayOf(tt.period)); got != tt.want {
				t.Errorf("VisibleInPeriod() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCarryForward(t *testing.T) {
	item := models.TodoItem{ID: 1, Title: "Call bank", Scope: models.TodoScopeDay, Date: "2024-06-01", MoveToNext: true}
	todos := []models.TodoItem{item}

	p := dayOf("2024-06-01")
	for i := 0; i < 30; i++ {
		if !VisibleInPeriod(item, p) {
			t.Fatalf("expected carried item on %s", p)
		}
		if got := CountIncomplete(todos, p); got != 1 {
			t.Fatalf("CountIncomplete(%s) = %d, want 1", p, got)
		}
		p = p.Next()
	}

	done := SetCompleted(item, true, dayOf("2024-06-10"))
	todos = []models.TodoItem{done}
	for p := dayOf("2024-06-01"); p.Anchor.Before(utils.ParseDateLenient("2024-07-01")); p = p.Next() {
		if got := CountIncomplete(todos, p); got != 0 {
			t.Errorf("CountIncomplete(%s) = %d after completion, want 0", p, got)
		}
		if HasAny(todos, p) {
			t.Errorf("HasAny(%s) = true after completion", p)
		}
	}
}

func TestCompletionAppearsOnce(t *testing.T) {
	item := models.TodoItem{ID: 1, Title: "Report", Scope: models.TodoScopeDay, Date: "2024-06-01", MoveToNext: true}
	completedOn := dayOf("2024-06-05")

	done := SetCompleted(item, true, completedOn)
	if done.CompletedDate == nil || *done.CompletedDate != "2024-06-05" {
		t.Fatalf("CompletedDate = %v, want 2024-06-05", done.CompletedDate)
	}

	seen := 0
	for p := dayOf("2024-05-25"); p.Anchor.Before(utils.ParseDateLenient("2024-06-30")); p = p.Next() {
		if VisibleInPeriod(done, p) {
			seen++
			if p.String() != completedOn.String() {
				t.Errorf("completed item visible on %s", p)
			}
		}
	}
	if seen != 1 {
		t.Errorf("completed item visible in %d periods, want 1", seen)
	}
	if VisibleInPeriod(done, completedOn.Next()) {
		t.Error("completed item must not carry into the next period")
	}
}

// A completed one-off item from the past is listed only in the period it was
// completed in, never on its own anchor or anywhere else.
func TestCompletedPastItemWithoutCarryOver(t *testing.T) {
	item := models.TodoItem{
		ID: 9, Title: "Old", Scope: models.TodoScopeDay, Date: "2024-03-01",
		IsCompleted: true, CompletedDate: strPtr("2024-06-20"),
	}

	if VisibleInPeriod(item, dayOf("2024-03-01")) {
		t.Error("expected item hidden on its anchor after late completion")
	}
	if !VisibleInPeriod(item, dayOf("2024-06-20")) {
		t.Error("expected item listed on its completion day")
	}
	if VisibleInPeriod(item, dayOf("2024-06-21")) {
		t.Error("expected item hidden after its completion day")
	}
}

func TestVisibleInPeriod_Week(t *testing.T) {
	week := WeekPeriod(utils.ParseDateLenient("2024-06-05"), time.Monday)
	if week.String() != "2024-06-03" {
		t.Fatalf("WeekPeriod() = %s, want 2024-06-03", week)
	}

	carried := models.TodoItem{Scope: models.TodoScopeWeek, Date: "2024-05-22", WeekStartDate: strPtr("2024-05-20"), MoveToNext: true}
	stuck := models.TodoItem{Scope: models.TodoScopeWeek, Date: "2024-05-22", WeekStartDate: strPtr("2024-05-20")}
	current := models.TodoItem{Scope: models.TodoScopeWeek, Date: "2024-06-04", WeekStartDate: strPtr("2024-06-03")}
	doneHere := models.TodoItem{
		Scope: models.TodoScopeWeek, Date: "2024-05-22", WeekStartDate: strPtr("2024-05-20"),
		IsCompleted: true, CompletedDate: strPtr("2024-06-03"),
	}

	if !VisibleInPeriod(carried, week) {
		t.Error("expected carried week item visible")
	}
	if VisibleInPeriod(stuck, week) {
		t.Error("expected non-carried past week item hidden")
	}
	if !VisibleInPeriod(current, week) {
		t.Error("expected current week item visible")
	}
	if !VisibleInPeriod(doneHere, week) {
		t.Error("expected item completed this week visible")
	}
	if VisibleInPeriod(doneHere, week.Next()) {
		t.Error("expected completed item hidden next week")
	}
}

func TestVisibleInPeriod_ScopeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on scope mismatch")
		}
	}()
	item := models.TodoItem{Scope: models.TodoScopeWeek, Date: "2024-06-01", WeekStartDate: strPtr("2024-05-27")}
	VisibleInPeriod(item, dayOf("2024-06-01"))
}

func TestForPeriod_Ordering(t *testing.T) {
	todos := []models.TodoItem{
		{ID: 1, Title: "done early", Scope: models.TodoScopeDay, Date: "2024-06-01", IsCompleted: true, CompletedDate: strPtr("2024-06-01"), CreatedAt: "2024-05-01 08:00:00"},
		{ID: 2, Title: "open late", Scope: models.TodoScopeDay, Date: "2024-06-01", CreatedAt: "2024-05-03 08:00:00"},
		{ID: 3, Title: "open early", Scope: models.TodoScopeDay, Date: "2024-05-20", MoveToNext: true, CreatedAt: "2024-05-02 08:00:00"},
		{ID: 4, Title: "other scope", Scope: models.TodoScopeWeek, Date: "2024-06-01", WeekStartDate: strPtr("2024-05-27")},
		{ID: 5, Title: "other day", Scope: models.TodoScopeDay, Date: "2024-06-02"},
		{ID: 6, Title: "open tie", Scope: models.TodoScopeDay, Date: "2024-06-01", CreatedAt: "2024-05-03 08:00:00"},
	}

	got := ForPeriod(todos, dayOf("2024-06-01"))

	var ids []int64
	for _, item := range got {
		ids = append(ids, item.ID)
	}
	want := []int64{3, 2, 6, 1}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ForPeriod() ids = %v, want %v", ids, want)
	}
}

func TestCountAndHasAny(t *testing.T) {
	p := dayOf("2024-06-01")
	todos := []models.TodoItem{
		{ID: 1, Scope: models.TodoScopeDay, Date: "2024-06-01"},
		{ID: 2, Scope: models.TodoScopeDay, Date: "2024-06-01", IsCompleted: true, CompletedDate: strPtr("2024-06-01")},
		{ID: 3, Scope: models.TodoScopeDay, Date: "2024-05-01", MoveToNext: true},
	}

	if got := CountIncomplete(todos, p); got != 2 {
		t.Errorf("CountIncomplete() = %d, want 2", got)
	}
	if !HasAny(todos, p) {
		t.Error("HasAny() = false, want true")
	}

	onlyDone := todos[1:2]
	if HasAny(onlyDone, p) {
		t.Error("HasAny() counts completed items")
	}
	if len(ForPeriod(onlyDone, p)) != 1 {
		t.Error("completed item should still be listed")
	}
	if HasAny(nil, p) || CountIncomplete(nil, p) != 0 {
		t.Error("empty list reported items")
	}
}

func TestSetCompleted_RoundTrip(t *testing.T) {
	orig := models.TodoItem{
		ID: 42, Title: "Water plants", Scope: models.TodoScopeWeek,
		Date: "2024-06-04", WeekStartDate: strPtr("2024-06-03"),
		MoveToNext: true, CreatedAt: "2024-06-01 10:00:00",
	}
	p := WeekPeriod(utils.ParseDateLenient("2024-06-12"), time.Monday)

	done := SetCompleted(orig, true, p)
	if !done.IsCompleted || done.CompletedDate == nil || *done.CompletedDate != "2024-06-10" {
		t.Fatalf("SetCompleted(true) = %+v", done)
	}
	if orig.IsCompleted || orig.CompletedDate != nil {
		t.Fatal("SetCompleted() modified its argument")
	}

	back := SetCompleted(done, false, p)
	if !reflect.DeepEqual(back, orig) {
		t.Errorf("round trip = %+v, want %+v", back, orig)
	}
}

func TestSetCompleted_NoTransition(t *testing.T) {
	p := dayOf("2024-06-02")
	done := models.TodoItem{
		Scope: models.TodoScopeDay, Date: "2024-06-01",
		IsCompleted: true, CompletedDate: strPtr("2024-06-01"),
	}

	again := SetCompleted(done, true, p)
	if *again.CompletedDate != "2024-06-01" {
		t.Errorf("re-completing moved the completion date to %s", *again.CompletedDate)
	}
	if again.CompletedDate == done.CompletedDate {
		t.Error("result shares the completion date with its argument")
	}

	open := models.TodoItem{Scope: models.TodoScopeDay, Date: "2024-06-01"}
	if got := SetCompleted(open, false, p); got.IsCompleted || got.CompletedDate != nil {
		t.Errorf("reopening an open item changed it: %+v", got)
	}
}

func TestPeriodNavigation(t *testing.T) {
	d := dayOf("2024-02-28")
	if d.Next().String() != "2024-02-29" || d.Prev().String() != "2024-02-27" {
		t.Errorf("day navigation: next %s prev %s", d.Next(), d.Prev())
	}

	w := WeekPeriod(utils.ParseDateLenient("2024-06-09"), time.Sunday)
	if w.String() != "2024-06-09" || w.Next().String() != "2024-06-16" {
		t.Errorf("week navigation: %s next %s", w, w.Next())
	}
	if !w.Contains(utils.ParseDateLenient("2024-06-15")) || w.Contains(utils.ParseDateLenient("2024-06-16")) {
		t.Error("Contains() has wrong bounds")
	}
}
