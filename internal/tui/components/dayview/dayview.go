package dayview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/planner/internal/layout"
	"github.com/julianstephens/planner/internal/scheduler"
	"github.com/julianstephens/planner/internal/utils"
)

const gutterWidth = 8 // "HH:MM │ "

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	blockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))

	continuationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("236"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport  viewport.Model
	day       *scheduler.Day
	startHour int
	endHour   int
	width     int
	height    int
}

func New(width, height, startHour, endHour int) Model {
	vp := viewport.New(width, height)
	return Model{
		viewport:  vp,
		startHour: startHour,
		endHour:   endHour,
		width:     width,
		height:    height,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.day == nil {
		return emptyStyle.Render("Loading…")
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetDay(day scheduler.Day) {
	m.day = &day
	m.Render()
}

func (m *Model) Render() {
	if m.day == nil {
		m.viewport.SetContent("")
		return
	}
	if len(m.day.Placements) == 0 {
		m.viewport.SetContent(emptyStyle.Render("No events"))
		return
	}
	m.viewport.SetContent(Timeline(m.day.Placements, m.width, m.startHour, m.endHour))
	m.viewport.GotoTop()
}

// Timeline renders one row per hour with each event drawn at its layout
// column. The hour range grows to include events outside [fromHour, toHour).
func Timeline(placements []layout.Placement, width, fromHour, toHour int) string {
	available := width - gutterWidth
	if available < 10 {
		available = 10
	}
	fromHour, toHour = hourBounds(placements, fromHour, toHour)

	var b strings.Builder
	for h := fromHour; h < toHour; h++ {
		b.WriteString(timeStyle.Render(fmt.Sprintf("%s │ ", utils.FormatMinutes(h*60))))
		b.WriteString(row(placements, h, available))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type segment struct {
	offset, width int
	text          string
	first         bool
}

func row(placements []layout.Placement, hour, available int) string {
	var segs []segment
	for _, p := range placements {
		startsHere := p.Start/60 == hour
		if !startsHere && !(p.Start < (hour+1)*60 && p.End > hour*60) {
			continue
		}
		text := "│"
		if startsHere {
			text = utils.FormatMinutes(p.Start) + " " + p.Event.Title
		}
		segs = append(segs, segment{
			offset: p.Offset(available),
			width:  p.Width(available),
			text:   text,
			first:  startsHere,
		})
	}
	sort.SliceStable(segs, func(i, j int) bool { return segs[i].offset < segs[j].offset })

	var b strings.Builder
	cursor := 0
	for _, s := range segs {
		start := s.offset
		if start < cursor {
			start = cursor
		}
		w := s.offset + s.width - start
		if w < 2 {
			continue
		}
		b.WriteString(strings.Repeat(" ", start-cursor))
		style := continuationStyle
		if s.first {
			style = blockStyle
		}
		b.WriteString(style.Width(w - 1).Render(truncate(s.text, w-1)))
		b.WriteByte(' ')
		cursor = start + w
	}
	return b.String()
}

func hourBounds(placements []layout.Placement, from, to int) (int, int) {
	for _, p := range placements {
		if h := p.Start / 60; h < from {
			from = h
		}
		end := p.End
		if end < p.Start {
			end = p.Start + 1
		}
		if h := (end + 59) / 60; h > to {
			to = h
		}
	}
	if from < 0 {
		from = 0
	}
	if to > 24 {
		to = 24
	}
	return from, to
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
