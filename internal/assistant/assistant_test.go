package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlameInTheDark/alfred/internal/config"
	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/gcal"
	"github.com/FlameInTheDark/alfred/internal/model"
	"github.com/FlameInTheDark/alfred/internal/persona"
)

type nopStore struct{}

func (nopStore) Create(_ context.Context, ev gcal.Event) (gcal.Event, error) { return ev, nil }
func (nopStore) Search(context.Context, string, time.Time, time.Time) ([]gcal.Event, error) {
	return nil, nil
}
func (nopStore) Update(context.Context, string, gcal.Update) (gcal.Event, error) {
	return gcal.Event{}, nil
}

func testConfig() config.Config {
	return config.Config{
		Router:   config.Router{Threshold: 0.6, Timeout: time.Second},
		History:  config.History{Size: 10, MaxAge: time.Hour},
		Calendar: config.Calendar{Timezone: "UTC"},
	}
}

// routeTo answers the routing prompt with the given index and delegates the
// rest to answer.
func routeTo(index int, answer func(prompt string) (string, error)) model.Generator {
	return model.GeneratorFunc(func(_ context.Context, prompt string, _ ...model.Option) (string, error) {
		if strings.Contains(prompt, "feature_index") {
			return `{"feature_index": ` + string(rune('0'+index)) + `, "confidence": 0.9, "reasoning": "test"}`, nil
		}
		return answer(prompt)
	})
}

func TestRegistryOrder(t *testing.T) {
	a, err := New(routeTo(0, nil), nopStore{}, testConfig())
	require.NoError(t, err)

	var names []string
	for _, f := range a.Registry.List() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"Calendar", "FunFact", "YouTube Downloader", "Search", "Conversation"}, names)
}

func TestAskRoutesByModel(t *testing.T) {
	a, err := New(routeTo(1, func(string) (string, error) {
		return "Bananas are berries.", nil
	}), nopStore{}, testConfig())
	require.NoError(t, err)

	out := a.Ask(context.Background(), &feature.Request{UserID: "u", Content: "  surprise me  "})
	assert.Equal(t, "💡 Bananas are berries.", out)

	recent := a.History.Recent("u")
	require.Len(t, recent, 2)
	assert.Equal(t, "surprise me", recent[0].Text)
}

func TestAskFallsBackToKeywords(t *testing.T) {
	gen := model.GeneratorFunc(func(context.Context, string, ...model.Option) (string, error) {
		return "", errors.New("unavailable")
	})
	a, err := New(gen, nopStore{}, testConfig())
	require.NoError(t, err)

	assert.Equal(t, persona.Greeting(), a.Ask(context.Background(), &feature.Request{UserID: "u", Content: "hello there"}))
	assert.Equal(t, persona.Intro(persona.DefaultCapabilities), a.Ask(context.Background(), &feature.Request{UserID: "u", Content: "qwerty"}))
}

func TestClose(t *testing.T) {
	cfg := testConfig()
	cfg.Search.SearxURL = "http://searx.local"
	a, err := New(routeTo(0, nil), nopStore{}, cfg)
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}

func TestRouterTemplateOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Router = "/does/not/exist.tmpl"
	_, err := New(routeTo(0, nil), nopStore{}, cfg)
	assert.Error(t, err)
}
