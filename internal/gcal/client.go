package gcal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/FlameInTheDark/alfred/internal/config"
)

const maxSearchResults = 100

// Client talks to one Google calendar. The underlying service is created on
// first use so the bot can start before the OAuth flow has been completed.
type Client struct {
	cfg        config.Calendar
	loc        *time.Location
	mu         sync.Mutex
	svc        *calendar.Service
	newService func(ctx context.Context) (*calendar.Service, error)
}

func NewClient(cfg config.Calendar) *Client {
	c := &Client{cfg: cfg, loc: cfg.Location()}
	c.newService = c.dial
	return c
}

// NewClientWithService wraps an existing service, mostly for tests.
func NewClientWithService(cfg config.Calendar, svc *calendar.Service) *Client {
	return &Client{cfg: cfg, loc: cfg.Location(), svc: svc}
}

// Location is the timezone events are created in.
func (c *Client) Location() *time.Location {
	return c.loc
}

func (c *Client) dial(ctx context.Context) (*calendar.Service, error) {
	oc, err := OAuthConfig(c.cfg.Credentials)
	if err != nil {
		return nil, err
	}
	ts, err := TokenSource(context.Background(), oc, c.cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	return calendar.NewService(ctx, option.WithTokenSource(ts))
}

func (c *Client) service(ctx context.Context) (*calendar.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.svc != nil {
		return c.svc, nil
	}
	svc, err := c.newService(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	c.svc = svc
	return svc, nil
}

// Create inserts a new event.
func (c *Client) Create(ctx context.Context, ev Event) (Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return Event{}, err
	}
	created, err := svc.Events.Insert(c.cfg.CalendarID, toAPI(ev, c.loc)).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("insert event: %w", err)
	}
	slog.Info("Event created", slog.String("id", created.Id), slog.String("link", created.HtmlLink))
	return fromAPI(created, c.loc), nil
}

// Search returns single (expanded) events matching query between from and to.
// An empty query lists every event; a zero to leaves the range open.
func (c *Client) Search(ctx context.Context, query string, from, to time.Time) ([]Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	call := svc.Events.List(c.cfg.CalendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxSearchResults).
		TimeMin(from.Format(time.RFC3339)).
		Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	if !to.IsZero() {
		call = call.TimeMax(to.Format(time.RFC3339))
	}
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, fromAPI(item, c.loc))
	}
	slog.Info("Events found", slog.String("query", query), slog.Int("count", len(events)))
	return events, nil
}

// Update applies u to the event with the given id.
func (c *Client) Update(ctx context.Context, id string, u Update) (Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return Event{}, err
	}
	current, err := svc.Events.Get(c.cfg.CalendarID, id).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("get event %s: %w", id, err)
	}
	applyUpdate(current, u, c.loc)
	updated, err := svc.Events.Update(c.cfg.CalendarID, id, current).Context(ctx).Do()
	if err != nil {
		return Event{}, fmt.Errorf("update event %s: %w", id, err)
	}
	slog.Info("Event updated", slog.String("id", updated.Id), slog.String("link", updated.HtmlLink))
	return fromAPI(updated, c.loc), nil
}
