package gcal

import (
	"time"

	"google.golang.org/api/calendar/v3"
)

// Event is the subset of a Google Calendar event Alfred works with.
type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Recurrence  []string
	// SeriesID is set on instances of a recurring event.
	SeriesID    string
	Reminders   *Reminders
	Link        string
}

// Recurring reports whether the event (or its series) repeats.
func (e Event) Recurring() bool {
	return len(e.Recurrence) > 0 || e.SeriesID != ""
}

type Reminders struct {
	UseDefault bool       `json:"useDefault" mapstructure:"useDefault"`
	Overrides  []Reminder `json:"overrides" mapstructure:"overrides"`
}

type Reminder struct {
	Method  string `json:"method" mapstructure:"method"`
	Minutes int    `json:"minutes" mapstructure:"minutes"`
}

// Update lists the fields to change; nil fields are left untouched.
type Update struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
	Recurrence  *string
	Reminders   *Reminders
}

const dateLayout = "2006-01-02"

func toAPI(e Event, loc *time.Location) *calendar.Event {
	ev := &calendar.Event{
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Start:       toDateTime(e.Start, e.AllDay, loc),
		End:         toDateTime(e.End, e.AllDay, loc),
		Recurrence:  e.Recurrence,
		Reminders:   toReminders(e.Reminders),
	}
	return ev
}

func toDateTime(t time.Time, allDay bool, loc *time.Location) *calendar.EventDateTime {
	if allDay {
		return &calendar.EventDateTime{Date: t.Format(dateLayout)}
	}
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: loc.String(),
	}
}

func toReminders(r *Reminders) *calendar.EventReminders {
	if r == nil || r.UseDefault {
		return &calendar.EventReminders{UseDefault: true}
	}
	out := &calendar.EventReminders{
		UseDefault: false,
		// UseDefault=false must be sent explicitly, it is omitted when empty.
		ForceSendFields: []string{"UseDefault"},
	}
	for _, o := range r.Overrides {
		method := o.Method
		if method == "" {
			method = "popup"
		}
		out.Overrides = append(out.Overrides, &calendar.EventReminder{Method: method, Minutes: int64(o.Minutes)})
	}
	return out
}

func fromAPI(ev *calendar.Event, loc *time.Location) Event {
	out := Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Recurrence:  ev.Recurrence,
		SeriesID:    ev.RecurringEventId,
		Link:        ev.HtmlLink,
	}
	out.Start, out.AllDay = fromDateTime(ev.Start, loc)
	out.End, _ = fromDateTime(ev.End, loc)
	if ev.Reminders != nil {
		r := &Reminders{UseDefault: ev.Reminders.UseDefault}
		for _, o := range ev.Reminders.Overrides {
			r.Overrides = append(r.Overrides, Reminder{Method: o.Method, Minutes: int(o.Minutes)})
		}
		out.Reminders = r
	}
	return out
}

func fromDateTime(dt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err == nil {
			return t.In(loc), false
		}
	}
	if dt.Date != "" {
		t, err := time.ParseInLocation(dateLayout, dt.Date, loc)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func applyUpdate(ev *calendar.Event, u Update, loc *time.Location) {
	if u.Summary != nil {
		ev.Summary = *u.Summary
	}
	if u.Description != nil {
		ev.Description = *u.Description
	}
	if u.Location != nil {
		ev.Location = *u.Location
	}
	if u.Start != nil {
		ev.Start = toDateTime(*u.Start, false, loc)
	}
	if u.End != nil {
		ev.End = toDateTime(*u.End, false, loc)
	}
	if u.Recurrence != nil {
		ev.Recurrence = []string{*u.Recurrence}
	}
	if u.Reminders != nil {
		ev.Reminders = toReminders(u.Reminders)
	}
}
