package calendar

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/FlameInTheDark/alfred/internal/gcal"
	"github.com/FlameInTheDark/alfred/internal/model"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
)

const (
	actionCreate = "create"
	actionModify = "modify"
	actionView   = "view"
)

var errUnknownAction = errors.New("unknown calendar action")

type request struct {
	Action      string         `mapstructure:"action"`
	Events      []eventSpec    `mapstructure:"events"`
	SearchQuery string         `mapstructure:"search_query"`
	Updates     map[string]any `mapstructure:"updates"`
	DateFrom    string         `mapstructure:"date_from"`
	DateTo      string         `mapstructure:"date_to"`
}

type eventSpec struct {
	Summary       string          `mapstructure:"summary"`
	Description   string          `mapstructure:"description"`
	StartDateTime string          `mapstructure:"start_datetime"`
	EndDateTime   string          `mapstructure:"end_datetime"`
	Location      string          `mapstructure:"location"`
	Recurrence    string          `mapstructure:"recurrence"`
	Reminders     *gcal.Reminders `mapstructure:"reminders"`
}

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// parseRequest decodes the model's JSON reply.
func parseRequest(raw string) (request, error) {
	res, err := model.ParseJSON(raw)
	if err != nil {
		return request{}, err
	}
	if !res.IsObject() {
		return request{}, fmt.Errorf("calendar reply is not an object")
	}
	var req request
	if err := decode(res.Value(), &req); err != nil {
		return request{}, fmt.Errorf("decode calendar reply: %w", err)
	}
	req.Action = strings.ToLower(strings.TrimSpace(req.Action))
	switch req.Action {
	case actionCreate, actionModify, actionView:
	case "":
		req.Action = actionCreate
	default:
		return request{}, fmt.Errorf("%w: %q", errUnknownAction, req.Action)
	}
	return req, nil
}

// toEvents converts specs into events, skipping the ones with unusable times.
func toEvents(specs []eventSpec, loc *time.Location) []gcal.Event {
	var events []gcal.Event
	for i, s := range specs {
		start, err := time.ParseInLocation(dateTimeLayout, strings.TrimSpace(s.StartDateTime), loc)
		if err != nil {
			slog.Warn("Skipping event with bad start", slog.Int("event", i), slog.String("error", err.Error()))
			continue
		}
		end, err := time.ParseInLocation(dateTimeLayout, strings.TrimSpace(s.EndDateTime), loc)
		if err != nil {
			slog.Warn("Skipping event with bad end", slog.Int("event", i), slog.String("error", err.Error()))
			continue
		}
		if !end.After(start) {
			end = start.Add(time.Hour)
		}
		ev := gcal.Event{
			Summary:     strings.TrimSpace(s.Summary),
			Description: strings.TrimSpace(s.Description),
			Location:    strings.TrimSpace(s.Location),
			Start:       start,
			End:         end,
			Reminders:   s.Reminders,
		}
		if ev.Summary == "" {
			ev.Summary = "Untitled Event"
		}
		if rule := normalizeRRule(s.Recurrence); rule != "" {
			ev.Recurrence = []string{rule}
		}
		events = append(events, ev)
	}
	return events
}

func normalizeRRule(rule string) string {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToUpper(rule), "RRULE:") {
		rule = "RRULE:" + rule
	}
	return rule
}

// toUpdate keeps only the keys present in the model's "updates" object.
func toUpdate(m map[string]any, loc *time.Location) (gcal.Update, error) {
	var u gcal.Update
	str := func(key string) *string {
		v, ok := m[key]
		if !ok || v == nil {
			return nil
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		return &s
	}
	u.Summary = str("summary")
	u.Description = str("description")
	u.Location = str("location")
	if s := str("recurrence"); s != nil {
		rule := normalizeRRule(*s)
		u.Recurrence = &rule
	}
	for key, dst := range map[string]**time.Time{"start_datetime": &u.Start, "end_datetime": &u.End} {
		s := str(key)
		if s == nil {
			continue
		}
		t, err := time.ParseInLocation(dateTimeLayout, *s, loc)
		if err != nil {
			return gcal.Update{}, fmt.Errorf("bad %s %q: %w", key, *s, err)
		}
		*dst = &t
	}
	if v, ok := m["reminders"]; ok && v != nil {
		var r gcal.Reminders
		if err := decode(v, &r); err != nil {
			return gcal.Update{}, fmt.Errorf("decode reminders: %w", err)
		}
		u.Reminders = &r
	}
	return u, nil
}

// viewRange resolves the [from, to) range of a view request, defaulting to today.
func viewRange(req request, now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	from, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.DateFrom), loc)
	if err != nil {
		from = today
	}
	last, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.DateTo), loc)
	if err != nil || last.Before(from) {
		last = from
	}
	return from, last.AddDate(0, 0, 1)
}
