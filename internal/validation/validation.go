// Package validation reports stored events and todos that the lenient
// readers would silently skip or misplace.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/planner/internal/layout"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidEvent      ConflictType = "invalid_event"
	ConflictInvertedRange     ConflictType = "inverted_range"
	ConflictDuplicateEvent    ConflictType = "duplicate_event"
	ConflictOverlappingEvents ConflictType = "overlapping_events"
	ConflictInvalidTodo       ConflictType = "invalid_todo"
	ConflictMisalignedWeek    ConflictType = "misaligned_week"
)

// Conflict represents one problem found in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string  // YYYY-MM-DD (if applicable)
	IDs         []int64 // records involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// Count returns how many conflicts have type t.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks stored records against the strict input rules
type Validator struct {
	weekStart time.Weekday
}

// New creates a Validator for weeks starting on weekStart
func New(weekStart time.Weekday) *Validator {
	return &Validator{weekStart: weekStart}
}

// ValidateEvents checks each event and reports exact duplicates.
func (v *Validator) ValidateEvents(events []models.Event) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string][]int64)
	var keys []string
	for _, e := range events {
		if err := e.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidEvent,
				Description: fmt.Sprintf("Event %d (%q): %v", e.ID, e.Title, err),
				Date:        e.Date,
				IDs:         []int64{e.ID},
			})
			continue
		}

		if e.EndTime != "" && e.EndTime < e.StartTime {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvertedRange,
				Description: fmt.Sprintf("Event %d (%q) ends at %s before it starts at %s", e.ID, e.Title, e.EndTime, e.StartTime),
				Date:        e.Date,
				IDs:         []int64{e.ID},
			})
		}

		key := strings.Join([]string{strings.ToLower(strings.TrimSpace(e.Title)), e.Date, e.StartTime, string(e.Recurrence)}, "|")
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
		seen[key] = append(seen[key], e.ID)
	}

	for _, key := range keys {
		ids := seen[key]
		if len(ids) < 2 {
			continue
		}
		parts := strings.SplitN(key, "|", 3)
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateEvent,
			Description: fmt.Sprintf("Duplicate event %q on %s (IDs: %v)", parts[0], parts[1], ids),
			Date:        parts[1],
			IDs:         ids,
		})
	}

	return result
}

// ValidateDay reports each group of occurrences on date that overlap in
// time. occurrences is what the agenda shows for that day.
func (v *Validator) ValidateDay(date time.Time, occurrences []models.Event) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	day := utils.FormatDate(date)

	placements := layout.Layout(occurrences)
	sort.SliceStable(placements, func(i, j int) bool { return placements[i].Start < placements[j].Start })

	var cluster []layout.Placement
	flush := func() {
		if len(cluster) > 1 {
			titles := make([]string, len(cluster))
			ids := make([]int64, len(cluster))
			for i, p := range cluster {
				titles[i] = p.Event.Title
				ids[i] = p.Event.ID
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOverlappingEvents,
				Description: fmt.Sprintf("Overlapping events on %s: %s", day, strings.Join(titles, ", ")),
				Date:        day,
				IDs:         ids,
			})
		}
		cluster = cluster[:0]
	}

	clusterEnd := -1
	for _, p := range placements {
		if len(cluster) > 0 && p.Start >= clusterEnd {
			flush()
		}
		if len(cluster) == 0 || p.End > clusterEnd {
			clusterEnd = p.End
		}
		cluster = append(cluster, p)
	}
	flush()

	return result
}

// ValidateTodos checks each todo and reports week todos whose week start
// is not a configured first weekday; those never become visible.
func (v *Validator) ValidateTodos(todos []models.TodoItem) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, t := range todos {
		if err := t.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTodo,
				Description: fmt.Sprintf("Todo %d (%q): %v", t.ID, t.Title, err),
				Date:        t.Anchor(),
				IDs:         []int64{t.ID},
			})
			continue
		}

		if t.Scope != models.TodoScopeWeek {
			continue
		}
		start := utils.ParseDateLenient(*t.WeekStartDate)
		if start.Weekday() != v.weekStart {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictMisalignedWeek,
				Description: fmt.Sprintf("Todo %d (%q) is attached to the week of %s, which is a %s; weeks start on %s",
					t.ID, t.Title, *t.WeekStartDate, start.Weekday(), v.weekStart),
				Date: *t.WeekStartDate,
				IDs:  []int64{t.ID},
			})
		}
	}

	return result
}
