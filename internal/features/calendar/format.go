package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/FlameInTheDark/alfred/internal/gcal"
)

const (
	dayLayout  = "Mon, Jan 02"
	timeLayout = "3:04 PM"
)

// timeRange renders "Mon, Feb 17 at 3:00 PM → 4:00 PM".
func timeRange(start, end time.Time) string {
	if sameDay(start, end) {
		return fmt.Sprintf("%s at %s → %s", start.Format(dayLayout), start.Format(timeLayout), end.Format(timeLayout))
	}
	return fmt.Sprintf("%s at %s → %s at %s",
		start.Format(dayLayout), start.Format(timeLayout), end.Format(dayLayout), end.Format(timeLayout))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func reminderText(r *gcal.Reminders) string {
	if r == nil || r.UseDefault || len(r.Overrides) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Overrides))
	for _, o := range r.Overrides {
		parts = append(parts, fmt.Sprintf("%dmin", o.Minutes))
	}
	return strings.Join(parts, ", ")
}

func formatCreated(events []gcal.Event) string {
	if len(events) == 1 {
		ev := events[0]
		var b strings.Builder
		fmt.Fprintf(&b, "✓ **%s**\n📅 %s", ev.Summary, timeRange(ev.Start, ev.End))
		if ev.Recurring() {
			b.WriteString("\n🔁 Recurring")
		}
		if ev.Description != "" {
			fmt.Fprintf(&b, "\n📝 Description: %s", ev.Description)
		}
		if ev.Location != "" {
			fmt.Fprintf(&b, "\n📍 Location: %s", ev.Location)
		}
		if r := reminderText(ev.Reminders); r != "" {
			fmt.Fprintf(&b, "\n🔔 Reminders: %s", r)
		}
		return b.String()
	}

	details := make([]string, 0, len(events))
	for _, ev := range events {
		d := fmt.Sprintf("• **%s**\n  📅 %s", ev.Summary, timeRange(ev.Start, ev.End))
		if ev.Recurring() {
			d += "\n  🔁 Recurring"
		}
		if ev.Location != "" {
			d += "\n  📍 " + ev.Location
		}
		details = append(details, d)
	}
	return fmt.Sprintf("✓ Created %d events:\n\n%s", len(events), strings.Join(details, "\n\n"))
}

func formatModified(names []string, recurring bool, u gcal.Update) string {
	var lines []string
	if u.Summary != nil {
		lines = append(lines, fmt.Sprintf("📝 Title: **%s**", *u.Summary))
	}
	if u.Description != nil {
		lines = append(lines, "📝 Description: "+*u.Description)
	}
	if u.Location != nil {
		lines = append(lines, "📍 Location: "+*u.Location)
	}
	if u.Start != nil {
		lines = append(lines, fmt.Sprintf("📅 Starts: %s at %s", u.Start.Format(dayLayout), u.Start.Format(timeLayout)))
	}
	if u.End != nil {
		lines = append(lines, fmt.Sprintf("📅 Ends: %s at %s", u.End.Format(dayLayout), u.End.Format(timeLayout)))
	}
	if u.Reminders != nil {
		if r := reminderText(u.Reminders); r != "" {
			lines = append(lines, "🔔 Reminder: "+r+" before")
		} else {
			lines = append(lines, "🔔 Reminder: default")
		}
	}

	var b strings.Builder
	if len(names) == 1 {
		fmt.Fprintf(&b, "✓ Modified **%s**", names[0])
	} else {
		fmt.Fprintf(&b, "✓ Modified %d events", len(names))
	}
	if recurring {
		b.WriteString("\n🔁 Recurring")
	}
	if len(lines) > 0 {
		b.WriteString("\n" + strings.Join(lines, "\n"))
	}
	return b.String()
}

// formatAgenda groups events by day.
func formatAgenda(events []gcal.Event, from, to time.Time) string {
	if len(events) == 0 {
		return fmt.Sprintf("📭 Nothing on your calendar %s.", rangeLabel(from, to))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🗓️ Your calendar %s:\n", rangeLabel(from, to))
	var day time.Time
	for _, ev := range events {
		if day.IsZero() || !sameDay(day, ev.Start) {
			day = ev.Start
			fmt.Fprintf(&b, "\n📅 **%s**\n", day.Format(dayLayout))
		}
		when := "All day"
		if !ev.AllDay {
			when = fmt.Sprintf("%s – %s", ev.Start.Format(timeLayout), ev.End.Format(timeLayout))
		}
		fmt.Fprintf(&b, "• %s **%s**", when, ev.Summary)
		if ev.Location != "" {
			fmt.Fprintf(&b, " 📍 %s", ev.Location)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func rangeLabel(from, to time.Time) string {
	last := to.AddDate(0, 0, -1)
	if sameDay(from, last) {
		return "for " + from.Format(dayLayout)
	}
	return fmt.Sprintf("from %s to %s", from.Format(dayLayout), last.Format(dayLayout))
}
