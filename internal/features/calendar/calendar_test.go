package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/gcal"
	"github.com/FlameInTheDark/alfred/internal/model"
)

type fakeStore struct {
	created   []gcal.Event
	events    []gcal.Event
	updates   map[string]gcal.Update
	query     string
	from, to  time.Time
	createErr error
}

func (s *fakeStore) Create(_ context.Context, ev gcal.Event) (gcal.Event, error) {
	if s.createErr != nil {
		return gcal.Event{}, s.createErr
	}
	ev.ID = "id-" + ev.Summary
	s.created = append(s.created, ev)
	return ev, nil
}

func (s *fakeStore) Search(_ context.Context, query string, from, to time.Time) ([]gcal.Event, error) {
	s.query, s.from, s.to = query, from, to
	return s.events, nil
}

func (s *fakeStore) Update(_ context.Context, id string, u gcal.Update) (gcal.Event, error) {
	if s.updates == nil {
		s.updates = make(map[string]gcal.Update)
	}
	s.updates[id] = u
	for _, ev := range s.events {
		if ev.ID == id {
			if u.Summary != nil {
				ev.Summary = *u.Summary
			}
			return ev, nil
		}
	}
	return gcal.Event{}, errors.New("not found")
}

func newFeature(t *testing.T, reply string, store Store) *Feature {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	gen := model.GeneratorFunc(func(context.Context, string, ...model.Option) (string, error) {
		return reply, nil
	})
	f, err := New(gen, store, loc, "")
	require.NoError(t, err)
	f.now = func() time.Time { return time.Date(2026, 2, 17, 10, 0, 0, 0, loc) }
	return f
}

func handle(t *testing.T, f *Feature, text string) string {
	t.Helper()
	out, err := f.Handle(context.Background(), &feature.Request{Text: text})
	require.NoError(t, err)
	return out
}

func TestCreateSingleEvent(t *testing.T) {
	store := &fakeStore{}
	f := newFeature(t, `{"action": "create", "events": [{
		"summary": "Phone Purchase Meeting",
		"description": "Discuss buying a new phone",
		"start_datetime": "2026-02-18 13:00",
		"end_datetime": "2026-02-18 14:00",
		"reminders": {"useDefault": false, "overrides": [{"method": "popup", "minutes": 60}]}
	}]}`, store)

	out := handle(t, f, "meeting on wednesday from 1-2 about a new phone with 1 hour notification")

	require.Len(t, store.created, 1)
	ev := store.created[0]
	assert.Equal(t, 13, ev.Start.Hour())
	require.NotNil(t, ev.Reminders)
	assert.Equal(t, 60, ev.Reminders.Overrides[0].Minutes)
	assert.Equal(t, "✓ **Phone Purchase Meeting**\n📅 Wed, Feb 18 at 1:00 PM → 2:00 PM\n📝 Description: Discuss buying a new phone\n🔔 Reminders: 60min", out)
}

func TestCreateMultipleSkipsInvalid(t *testing.T) {
	store := &fakeStore{}
	f := newFeature(t, "```json\n"+`{"action": "create", "events": [
		{"summary": "Standup", "start_datetime": "2026-02-23 09:00", "end_datetime": "2026-02-23 09:30", "recurrence": "FREQ=WEEKLY;BYDAY=MO"},
		{"summary": "Broken", "start_datetime": "tomorrow-ish"},
		{"start_datetime": "2026-02-24 12:00", "end_datetime": "2026-02-24 11:00", "location": "Cafe"}
	]}`+"\n```", store)

	out := handle(t, f, "standup every monday and lunch tuesday")

	require.Len(t, store.created, 2)
	assert.Equal(t, []string{"RRULE:FREQ=WEEKLY;BYDAY=MO"}, store.created[0].Recurrence)
	assert.Equal(t, "Untitled Event", store.created[1].Summary)
	assert.Equal(t, time.Hour, store.created[1].End.Sub(store.created[1].Start))
	assert.True(t, strings.HasPrefix(out, "✓ Created 2 events:"))
	assert.Contains(t, out, "🔁 Recurring")
	assert.Contains(t, out, "📍 Cafe")
}

func TestCreateNoValidEvents(t *testing.T) {
	f := newFeature(t, `{"action": "create", "events": [{"summary": "x"}]}`, &fakeStore{})
	assert.Equal(t, "I couldn't parse the event details. Please try again.", handle(t, f, "meeting"))
}

func TestCreateStoreFailureIsError(t *testing.T) {
	store := &fakeStore{createErr: errors.New("quota")}
	f := newFeature(t, `{"action": "create", "events": [{"summary": "x", "start_datetime": "2026-02-18 13:00", "end_datetime": "2026-02-18 14:00"}]}`, store)
	_, err := f.Handle(context.Background(), &feature.Request{Text: "meeting"})
	assert.Error(t, err)
}

func TestModifyRenames(t *testing.T) {
	store := &fakeStore{events: []gcal.Event{
		{ID: "a", Summary: "Office Hours", Recurrence: []string{"RRULE:FREQ=WEEKLY"}},
		{ID: "b", Summary: "Office Hours"},
	}}
	f := newFeature(t, `{"action": "modify", "search_query": "office hours", "updates": {"summary": "Tutor Hours"}}`, store)

	out := handle(t, f, "rename office hours to tutor hours")

	assert.Equal(t, "office hours", store.query)
	require.Len(t, store.updates, 2)
	assert.Nil(t, store.updates["a"].Location)
	assert.Equal(t, "✓ Modified 2 events\n🔁 Recurring\n📝 Title: **Tutor Hours**", out)
}

func TestModifyReminder(t *testing.T) {
	store := &fakeStore{events: []gcal.Event{{ID: "a", Summary: "CSE 127 Makeup"}}}
	f := newFeature(t, `{"action": "modify", "search_query": "CSE 127", "updates": {"reminders": {"useDefault": false, "overrides": [{"method": "popup", "minutes": "30"}]}}}`, store)

	out := handle(t, f, "add a 30 min reminder to CSE 127")

	require.NotNil(t, store.updates["a"].Reminders)
	assert.Equal(t, 30, store.updates["a"].Reminders.Overrides[0].Minutes)
	assert.Equal(t, "✓ Modified **CSE 127 Makeup**\n🔔 Reminder: 30min before", out)
}

func TestModifyTimeNeedsSingleMatch(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")
	store := &fakeStore{}
	for i, id := range []string{"a", "b", "c"} {
		day := time.Date(2026, 2, 18+i, 12, 0, 0, 0, loc)
		store.events = append(store.events, gcal.Event{ID: id, Summary: "Lunch", Start: day, End: day.Add(time.Hour)})
	}
	f := newFeature(t, `{"action": "modify", "search_query": "lunch", "updates": {"start_datetime": "2026-02-18 13:00"}}`, store)

	out := handle(t, f, "move tomorrow's lunch to 1pm")

	assert.Empty(t, store.updates)
	assert.Equal(t, "I found 3 events matching 'lunch'. Which one should I move? Please include its date.", out)
}

func TestModifyMoveKeepsDuration(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")
	start := time.Date(2026, 2, 18, 12, 0, 0, 0, loc)
	store := &fakeStore{events: []gcal.Event{
		{ID: "a", Summary: "Lunch", Start: start, End: start.Add(90 * time.Minute), SeriesID: "series"},
	}}
	f := newFeature(t, `{"action": "modify", "search_query": "lunch on feb 18", "updates": {"start_datetime": "2026-02-18 13:00"}}`, store)

	out := handle(t, f, "move tomorrow's lunch to 1pm")

	u := store.updates["a"]
	require.NotNil(t, u.Start)
	require.NotNil(t, u.End)
	assert.True(t, time.Date(2026, 2, 18, 13, 0, 0, 0, loc).Equal(*u.Start))
	assert.True(t, time.Date(2026, 2, 18, 14, 30, 0, 0, loc).Equal(*u.End))
	assert.Equal(t, "✓ Modified **Lunch**\n🔁 Recurring\n📅 Starts: Wed, Feb 18 at 1:00 PM\n📅 Ends: Wed, Feb 18 at 2:30 PM", out)
}

func TestModifyEndBeforeStartKeepsDuration(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")
	start := time.Date(2026, 2, 18, 12, 0, 0, 0, loc)
	store := &fakeStore{events: []gcal.Event{{ID: "a", Summary: "Lunch", Start: start, End: start.Add(time.Hour)}}}
	f := newFeature(t, `{"action": "modify", "search_query": "lunch", "updates": {"start_datetime": "2026-02-18 15:00", "end_datetime": "2026-02-18 14:00"}}`, store)

	handle(t, f, "push lunch to 3pm")

	u := store.updates["a"]
	require.NotNil(t, u.End)
	assert.Equal(t, time.Hour, u.End.Sub(*u.Start))
}

func TestModifyNoMatches(t *testing.T) {
	f := newFeature(t, `{"action": "modify", "search_query": "dentist", "updates": {"location": "Downtown"}}`, &fakeStore{})
	assert.Equal(t, "I couldn't find any events matching 'dentist'.", handle(t, f, "move dentist downtown"))
}

func TestViewToday(t *testing.T) {
	loc, _ := time.LoadLocation("America/Los_Angeles")
	store := &fakeStore{events: []gcal.Event{
		{Summary: "Holiday", Start: time.Date(2026, 2, 17, 0, 0, 0, 0, loc), AllDay: true},
		{Summary: "Standup", Start: time.Date(2026, 2, 17, 9, 0, 0, 0, loc), End: time.Date(2026, 2, 17, 9, 30, 0, 0, loc), Location: "Zoom"},
	}}
	f := newFeature(t, `{"action": "view", "date_from": "2026-02-17", "date_to": "2026-02-17"}`, store)

	out := handle(t, f, "what's on my calendar today?")

	assert.Equal(t, "", store.query)
	assert.True(t, time.Date(2026, 2, 17, 0, 0, 0, 0, loc).Equal(store.from))
	assert.True(t, time.Date(2026, 2, 18, 0, 0, 0, 0, loc).Equal(store.to))
	assert.Equal(t, "🗓️ Your calendar for Tue, Feb 17:\n\n📅 **Tue, Feb 17**\n• All day **Holiday**\n• 9:00 AM – 9:30 AM **Standup** 📍 Zoom", out)
}

func TestViewEmptyWeek(t *testing.T) {
	f := newFeature(t, `{"action": "view", "date_from": "2026-02-16", "date_to": "2026-02-22"}`, &fakeStore{})
	assert.Equal(t, "📭 Nothing on your calendar from Mon, Feb 16 to Sun, Feb 22.", handle(t, f, "what do I have this week?"))
}

func TestUnparseableReply(t *testing.T) {
	for _, reply := range []string{"Sure! I'll add that.", `{"action": "delete"}`, `[1,2]`} {
		f := newFeature(t, reply, &fakeStore{})
		assert.Equal(t, unparsedReply, handle(t, f, "asdfghjkl calendar???"), reply)
	}
}

func TestCanHandle(t *testing.T) {
	f := newFeature(t, "", &fakeStore{})
	assert.True(t, f.CanHandle("Schedule a meeting tomorrow at 3pm"))
	assert.True(t, f.CanHandle("what's on my calendar today?"))
	assert.False(t, f.CanHandle("tell me a fun fact"))
}

func TestAgenda(t *testing.T) {
	store := &fakeStore{}
	f := newFeature(t, "", store)
	out, err := f.Agenda(context.Background(), f.now())
	require.NoError(t, err)
	assert.Equal(t, "📭 Nothing on your calendar for Tue, Feb 17.", out)
	assert.Equal(t, 24*time.Hour, store.to.Sub(store.from))
}
