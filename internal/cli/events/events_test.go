package events

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/config"
	apperrors "github.com/julianstephens/planner/internal/errors"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/storage/sqlite"
)

func strPtr(s string) *string { return &s }

func setupTestEventsDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	var out bytes.Buffer
	ctx := cli.NewContext(store, config.DefaultConfig(), "")
	ctx.Out = &out
	return ctx, &out
}

func TestEventAddCmd(t *testing.T) {
	ctx, out := setupTestEventsDB(t)

	cmd := &EventAddCmd{Title: "Gym", Date: "2024-06-03", Start: "18:00", End: "19:00", Repeat: "weekly", Until: "2024-08-31"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("event add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added event: Gym (ID: 1)") {
		t.Errorf("output = %q", out.String())
	}

	e, err := ctx.Store.GetEvent(1)
	if err != nil {
		t.Fatalf("GetEvent() failed: %v", err)
	}
	if e.Recurrence != models.RecurrenceWeekly || e.RecurrenceEndDate == nil || *e.RecurrenceEndDate != "2024-08-31" {
		t.Errorf("stored event = %+v", e)
	}
}

func TestEventAddCmd_Invalid(t *testing.T) {
	ctx, _ := setupTestEventsDB(t)

	tests := []struct {
		name string
		cmd  EventAddCmd
	}{
		{"bad start", EventAddCmd{Title: "A", Date: "2024-06-03", Start: "9am", Repeat: "none"}},
		{"bad end", EventAddCmd{Title: "A", Date: "2024-06-03", Start: "09:00", End: "25:00", Repeat: "none"}},
		{"bad date", EventAddCmd{Title: "A", Date: "06/03/2024", Start: "09:00", Repeat: "none"}},
		{"bad repeat", EventAddCmd{Title: "A", Date: "2024-06-03", Start: "09:00", Repeat: "hourly"}},
		{"blank title", EventAddCmd{Title: "  ", Date: "2024-06-03", Start: "09:00", Repeat: "none"}},
		{"until before date", EventAddCmd{Title: "A", Date: "2024-06-03", Start: "09:00", Repeat: "daily", Until: "2024-06-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if !apperrors.IsInput(err) {
				t.Errorf("Run() error = %v, want input error", err)
			}
		})
	}

	all, _ := ctx.Store.GetAllEvents()
	if len(all) != 0 {
		t.Errorf("invalid events were stored: %+v", all)
	}
}

func TestEventEditCmd(t *testing.T) {
	ctx, _ := setupTestEventsDB(t)
	add := &EventAddCmd{Title: "Standup", Date: "2024-06-03", Start: "09:00", End: "09:15", Repeat: "daily", Until: "2024-06-30"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("event add failed: %v", err)
	}
	before, _ := ctx.Store.GetEvent(1)

	edit := &EventEditCmd{ID: 1, Start: strPtr("09:30"), End: strPtr(""), Until: strPtr("")}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("event edit failed: %v", err)
	}

	after, err := ctx.Store.GetEvent(1)
	if err != nil {
		t.Fatalf("GetEvent() failed: %v", err)
	}
	if after.StartTime != "09:30" || after.EndTime != "" {
		t.Errorf("times = %s-%s, want 09:30 with no end", after.StartTime, after.EndTime)
	}
	if after.RecurrenceEndDate != nil {
		t.Error("empty --until should clear the end date")
	}
	if after.Title != "Standup" || after.Recurrence != models.RecurrenceDaily {
		t.Errorf("untouched fields changed: %+v", after)
	}
	if after.CreatedAt != before.CreatedAt {
		t.Errorf("CreatedAt changed from %q to %q", before.CreatedAt, after.CreatedAt)
	}
}

func TestEventEditCmd_Errors(t *testing.T) {
	ctx, _ := setupTestEventsDB(t)

	if err := (&EventEditCmd{ID: 99, Title: strPtr("x")}).Run(ctx); !apperrors.IsInput(err) {
		t.Errorf("editing a missing event: error = %v, want input error", err)
	}

	add := &EventAddCmd{Title: "Review", Date: "2024-06-03", Start: "10:00", Repeat: "none"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("event add failed: %v", err)
	}
	if err := (&EventEditCmd{ID: 1, Repeat: strPtr("sometimes")}).Run(ctx); !apperrors.IsInput(err) {
		t.Errorf("bad repeat: error = %v, want input error", err)
	}
	if err := (&EventEditCmd{ID: 1, Title: strPtr("")}).Run(ctx); !apperrors.IsInput(err) {
		t.Errorf("blank title: error = %v, want input error", err)
	}
}

func TestEventDeleteCmd(t *testing.T) {
	ctx, out := setupTestEventsDB(t)
	add := &EventAddCmd{Title: "Lunch", Date: "2024-06-03", Start: "12:00", Repeat: "none"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("event add failed: %v", err)
	}

	if err := (&EventDeleteCmd{ID: 1}).Run(ctx); err != nil {
		t.Fatalf("event delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted event 1") {
		t.Errorf("output = %q", out.String())
	}
	if err := (&EventDeleteCmd{ID: 1}).Run(ctx); !apperrors.IsInput(err) {
		t.Errorf("second delete: error = %v, want input error", err)
	}
}

func TestEventListCmd(t *testing.T) {
	ctx, out := setupTestEventsDB(t)

	if err := (&EventListCmd{}).Run(ctx); err != nil {
		t.Fatalf("event list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No events found.") {
		t.Errorf("output = %q", out.String())
	}

	for _, cmd := range []*EventAddCmd{
		{Title: "Later", Date: "2024-06-04", Start: "08:00", Repeat: "none"},
		{Title: "Weekly sync", Date: "2024-06-03", Start: "15:00", Repeat: "weekly"},
		{Title: "Early", Date: "2024-06-03", Start: "07:00", Repeat: "none"},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("event add failed: %v", err)
		}
	}

	out.Reset()
	if err := (&EventListCmd{}).Run(ctx); err != nil {
		t.Fatalf("event list failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	for i, want := range []string{"Early", "Weekly sync (weekly)", "Later"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}

	out.Reset()
	if err := (&EventListCmd{Recurring: true}).Run(ctx); err != nil {
		t.Fatalf("event list failed: %v", err)
	}
	if strings.Count(out.String(), "\n") != 1 || !strings.Contains(out.String(), "Weekly sync") {
		t.Errorf("recurring output = %q", out.String())
	}
}
