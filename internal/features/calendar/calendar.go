package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/gcal"
	"github.com/FlameInTheDark/alfred/internal/history"
	"github.com/FlameInTheDark/alfred/internal/model"
	"github.com/FlameInTheDark/alfred/internal/persona"
)

const (
	Name = "Calendar"

	unparsedReply = "I couldn't understand your calendar request. Try something like: 'Meeting tomorrow at 3pm' or 'Rename office hours to tutor hours'"
)

var keywords = []string{
	"meeting", "appointment", "schedule", "calendar", "event",
	"lunch", "dinner", "call", "tomorrow", "today", "next week",
}

// Store is the calendar backend.
type Store interface {
	Create(ctx context.Context, ev gcal.Event) (gcal.Event, error)
	Search(ctx context.Context, query string, from, to time.Time) ([]gcal.Event, error)
	Update(ctx context.Context, id string, u gcal.Update) (gcal.Event, error)
}

type Feature struct {
	gen   model.Generator
	store Store
	loc   *time.Location
	tpl   *template.Template
	now   func() time.Time
}

// New creates the calendar feature. templatePath may be empty to use the
// built-in prompt.
func New(gen model.Generator, store Store, loc *time.Location, templatePath string) (*Feature, error) {
	tpl, err := model.LoadTemplate("calendar", templatePath, defaultPrompt)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	return &Feature{gen: gen, store: store, loc: loc, tpl: tpl, now: time.Now}, nil
}

func (f *Feature) Name() string        { return Name }
func (f *Feature) Description() string { return "Create, modify and view Google Calendar events" }

func (f *Feature) Capabilities() string {
	return `This feature can:
- Create calendar events from natural language (meetings, appointments, reminders, recurring events)
- Modify existing events (rename, change time, location or reminders)
- Show what is on the calendar for a day or a range of days

Examples:
- "Meeting tomorrow at 3pm"
- "Lunch with Sarah on Friday at noon for 2 hours"
- "Team standup every weekday at 9am"
- "Rename all 'office hours' events to 'tutor hours'"
- "Move tomorrow's lunch to 1pm"
- "What's on my calendar today?" / "What do I have this week?"

Keywords: meeting, appointment, schedule, calendar, event, book, reserve, remind (when time-based), rename, move`
}

func (f *Feature) CanHandle(text string) bool {
	return feature.ContainsAny(text, keywords...)
}

func (f *Feature) Handle(ctx context.Context, req *feature.Request) (string, error) {
	parsed, err := f.parse(ctx, req)
	if err != nil {
		slog.Warn("Unable to parse calendar request", slog.String("request", req.ID), slog.String("error", err.Error()))
		return unparsedReply, nil
	}
	slog.Info("Calendar request parsed", slog.String("request", req.ID), slog.String("action", parsed.Action))

	switch parsed.Action {
	case actionModify:
		return f.modify(ctx, parsed)
	case actionView:
		from, to := viewRange(parsed, f.now().In(f.loc))
		return f.view(ctx, from, to)
	default:
		return f.create(ctx, parsed.Events)
	}
}

func (f *Feature) parse(ctx context.Context, req *feature.Request) (request, error) {
	prompt, err := model.Execute(f.tpl, map[string]any{
		"Now":       f.now().In(f.loc).Format("2006-01-02 15:04:05 (Monday)"),
		"History":   history.Format(req.History, persona.Name),
		"Assistant": persona.Name,
		"Message":   req.Text,
	})
	if err != nil {
		return request{}, err
	}
	raw, err := f.gen.Generate(ctx, prompt, model.WithJSON())
	if err != nil {
		return request{}, err
	}
	return parseRequest(raw)
}

func (f *Feature) create(ctx context.Context, specs []eventSpec) (string, error) {
	events := toEvents(specs, f.loc)
	if len(events) == 0 {
		return "I couldn't parse the event details. Please try again.", nil
	}

	var created []gcal.Event
	var lastErr error
	for _, ev := range events {
		c, err := f.store.Create(ctx, ev)
		if err != nil {
			slog.Error("Unable to create event", slog.String("summary", ev.Summary), slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		created = append(created, c)
	}
	if len(created) == 0 {
		return "", fmt.Errorf("create events: %w", lastErr)
	}
	return formatCreated(created), nil
}

func (f *Feature) modify(ctx context.Context, req request) (string, error) {
	if req.SearchQuery == "" {
		return "I couldn't understand what events you want to modify. Please be more specific.", nil
	}
	if len(req.Updates) == 0 {
		return "I found no changes to apply. What would you like to update?", nil
	}
	u, err := toUpdate(req.Updates, f.loc)
	if err != nil {
		slog.Warn("Unable to read calendar updates", slog.String("error", err.Error()))
		return unparsedReply, nil
	}

	matches, err := f.store.Search(ctx, req.SearchQuery, f.now(), time.Time{})
	if err != nil {
		return "", fmt.Errorf("search events: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Sprintf("I couldn't find any events matching '%s'.", req.SearchQuery), nil
	}
	if u.Start != nil || u.End != nil {
		if len(matches) > 1 {
			return fmt.Sprintf("I found %d events matching '%s'. Which one should I move? Please include its date.",
				len(matches), req.SearchQuery), nil
		}
		u = reschedule(u, matches[0])
	}

	var names []string
	recurring := false
	for _, ev := range matches {
		updated, err := f.store.Update(ctx, ev.ID, u)
		if err != nil {
			slog.Error("Unable to modify event", slog.String("summary", ev.Summary), slog.String("error", err.Error()))
			continue
		}
		names = append(names, updated.Summary)
		recurring = recurring || ev.Recurring()
	}
	if len(names) == 0 {
		return "I found matching events but couldn't modify them. Please try again.", nil
	}
	return formatModified(names, recurring, u), nil
}

// reschedule fills in the missing end of a time change so the event keeps
// its duration.
func reschedule(u gcal.Update, ev gcal.Event) gcal.Update {
	dur := ev.End.Sub(ev.Start)
	if ev.AllDay || dur <= 0 {
		dur = time.Hour
	}
	start := ev.Start
	if u.Start != nil {
		start = *u.Start
	}
	end := start.Add(dur)
	if u.End != nil && u.End.After(start) {
		end = *u.End
	}
	u.Start, u.End = &start, &end
	return u
}

func (f *Feature) view(ctx context.Context, from, to time.Time) (string, error) {
	events, err := f.store.Search(ctx, "", from, to)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}
	return formatAgenda(events, from, to), nil
}

// Agenda renders the events of the day containing t.
func (f *Feature) Agenda(ctx context.Context, t time.Time) (string, error) {
	t = t.In(f.loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, f.loc)
	return f.view(ctx, from, from.AddDate(0, 0, 1))
}
