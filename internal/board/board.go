// Package board renders the collection as a themed terminal board: tasks,
// in-progress entries and notes, grouped under styled headings.
package board

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"noteboard/internal/store"
	"noteboard/internal/theme"
)

var greetings = []string{
	"Here's your board",
	"Remember...",
	"Let's get things done",
	"Focus",
}

func greeting() string {
	return greetings[rand.Intn(len(greetings))]
}

// styleFor maps one emphasis record onto a lipgloss style.
func styleFor(st theme.Style) lipgloss.Style {
	s := lipgloss.NewStyle()
	if st.Color != "" {
		s = s.Foreground(lipgloss.Color(st.Color))
	}
	if st.Bold {
		s = s.Bold(true)
	}
	if st.Italic {
		s = s.Italic(true)
	}
	if st.Underline {
		s = s.Underline(true)
	}
	if st.Dim {
		s = s.Faint(true)
	}
	if st.Strike {
		s = s.Strikethrough(true)
	}
	return s
}

// Render draws the grouped board. Entries arrive already ordered; grouping
// preserves that order inside each section. An empty collection renders
// nothing.
func Render(entries []store.Entry, th theme.Theme) string {
	if len(entries) == 0 {
		return ""
	}

	var todo, doing, notes []store.Entry
	taskCount, doneCount := 0, 0
	for _, e := range entries {
		if e.IsTask {
			taskCount++
			if e.IsDone {
				doneCount++
			}
		}
		if e.InProgress {
			doing = append(doing, e)
		} else if e.IsTask {
			todo = append(todo, e)
		}
		if !e.IsTask {
			notes = append(notes, e)
		}
	}

	var lines []string
	if !th.DisableTitle {
		lines = append(lines, renderHeading(greeting(), th.Title))
	}
	if len(todo) > 0 {
		lines = append(lines, renderHeading(fmt.Sprintf("to-do [%d/%d]", doneCount, taskCount), th.Todo))
		for _, e := range todo {
			lines = append(lines, renderRow(e, th.Todo, th.Tags))
		}
	}
	if len(doing) > 0 {
		lines = append(lines, renderHeading("in progress", th.InProgress))
		for _, e := range doing {
			lines = append(lines, renderRow(e, th.InProgress, th.Tags))
		}
	}
	if len(notes) > 0 {
		lines = append(lines, renderHeading("notes", th.Notes))
		for _, e := range notes {
			lines = append(lines, renderRow(e, th.Notes, th.Tags))
		}
	}

	block := strings.Join(lines, "\n")
	switch th.Borders {
	case "normal":
		return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Render(block)
	case "rounded":
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(block)
	default:
		return block
	}
}

func renderHeading(text string, sec theme.Section) string {
	return strings.Repeat(" ", sec.Indent) + styleFor(sec.Heading).Render(text)
}

func renderRow(e store.Entry, sec theme.Section, tags theme.Tags) string {
	label := fmt.Sprintf("%d. %s", e.ID, strings.TrimSpace(e.Name))
	icon := sec.Icon
	if e.IsDone {
		icon = sec.CompletedIcon
	}
	if sec.IconSuffix {
		label += icon
	} else {
		label = icon + label
	}

	st := theme.Style{
		Color:  entryColor(e, sec.Palette),
		Bold:   sec.Bold,
		Italic: sec.Italic,
	}
	if e.IsDone {
		st.Strike = true
		st.Dim = sec.DimCompleted
	}
	row := strings.Repeat(" ", sec.Indent+2) + styleFor(st).Render(label)

	if e.Tags != "" {
		tagText := e.Tags
		if tags.IconSuffix {
			tagText += tags.Icon
		} else {
			tagText = tags.Icon + tagText
		}
		row += " " + styleFor(tags.Style).Render(tagText)
	}
	return row
}

func entryColor(e store.Entry, p theme.Palette) string {
	if e.IsDone {
		return p.Completed
	}
	switch e.Priority {
	case store.PriorityLow:
		return p.Low
	case store.PriorityHigh:
		return p.High
	default:
		return p.Normal
	}
}
