// Package layout places same-day events side by side when their times
// overlap.
package layout

import (
	"github.com/julianstephens/planner/internal/constants"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

// Placement is the horizontal slot of one event. Columns counts the event
// itself plus every event overlapping it, so events in one cluster may
// report different values.
type Placement struct {
	Event   models.Event
	Column  int
	Columns int
	Start   int // minutes from midnight
	End     int // minutes from midnight, exclusive
}

// Width returns the share of total available to the event.
func (p Placement) Width(total int) int {
	return total / p.Columns
}

// Offset returns the horizontal start of the event within available.
func (p Placement) Offset(available int) int {
	return p.Column * (available / p.Columns)
}

// Span returns the [start, end) minutes of e. An unreadable start counts
// as midnight; a missing or unreadable end means one hour after the start.
// Inverted ranges are returned as-is.
func Span(e models.Event) (start, end int) {
	start, _ = utils.ClockMinutes(e.StartTime)
	end, ok := utils.ClockMinutes(e.EndTime)
	if !ok {
		end = start + constants.DefaultEventDurationMin
	}
	return start, end
}

// Overlaps reports whether the [start, end) intervals of a and b intersect.
func Overlaps(a, b models.Event) bool {
	s1, e1 := Span(a)
	s2, e2 := Span(b)
	return s1 < e2 && s2 < e1
}

// Layout returns one placement per event, in input order.
func Layout(events []models.Event) []Placement {
	placements := make([]Placement, len(events))
	for i, e := range events {
		start, end := Span(e)
		p := Placement{Event: e, Columns: 1, Start: start, End: end}
		for j, other := range events {
			if i == j || !Overlaps(e, other) {
				continue
			}
			p.Columns++
			if other.ID < e.ID {
				p.Column++
			}
		}
		placements[i] = p
	}
	return placements
}
