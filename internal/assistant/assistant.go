// Package assistant wires the features, router and dispatcher together.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/FlameInTheDark/alfred/internal/config"
	"github.com/FlameInTheDark/alfred/internal/dispatch"
	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/features/calendar"
	"github.com/FlameInTheDark/alfred/internal/features/conversation"
	"github.com/FlameInTheDark/alfred/internal/features/funfact"
	"github.com/FlameInTheDark/alfred/internal/features/search"
	"github.com/FlameInTheDark/alfred/internal/features/youtube"
	"github.com/FlameInTheDark/alfred/internal/gcal"
	"github.com/FlameInTheDark/alfred/internal/history"
	"github.com/FlameInTheDark/alfred/internal/model"
	"github.com/FlameInTheDark/alfred/internal/persona"
	"github.com/FlameInTheDark/alfred/internal/router"
)

type Assistant struct {
	Registry   *feature.Registry
	Router     *router.Router
	Dispatcher *dispatch.Dispatcher
	History    *history.Store
	Calendar   *calendar.Feature
}

// Build creates the Gemini model and the Google Calendar client from cfg.
func Build(ctx context.Context, cfg config.Config) (*Assistant, error) {
	m, err := model.NewModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}
	return New(m, gcal.NewClient(cfg.Calendar), cfg)
}

// New builds the assistant around an existing generator and calendar store.
// Features are registered in a fixed order, which is also the index order
// the router presents to the model.
func New(gen model.Generator, store calendar.Store, cfg config.Config) (*Assistant, error) {
	cal, err := calendar.New(gen, store, cfg.Calendar.Location(), cfg.Templates.Calendar)
	if err != nil {
		return nil, fmt.Errorf("calendar feature: %w", err)
	}
	fact, err := funfact.New(gen, cfg.Templates.FunFact)
	if err != nil {
		return nil, fmt.Errorf("fun fact feature: %w", err)
	}
	find, err := search.FromConfig(gen, cfg.Search, cfg.Templates.Search)
	if err != nil {
		return nil, fmt.Errorf("search feature: %w", err)
	}
	chat, err := conversation.New(gen, persona.DefaultCapabilities, cfg.Templates.Conversation)
	if err != nil {
		return nil, fmt.Errorf("conversation feature: %w", err)
	}

	registry, err := feature.NewRegistry(cal, fact, youtube.New(cfg.YouTube), find, chat)
	if err != nil {
		return nil, err
	}

	opts := []router.Option{
		router.WithAssistant(persona.Name),
		router.WithThreshold(cfg.Router.Threshold),
		router.WithTimeout(cfg.Router.Timeout),
	}
	if cfg.Templates.Router != "" {
		tpl, err := model.LoadTemplate("router", cfg.Templates.Router, router.DefaultTemplate())
		if err != nil {
			return nil, err
		}
		opts = append(opts, router.WithTemplate(tpl))
	}
	r := router.New(gen, registry, opts...)

	h := history.NewStore(cfg.History.Size, cfg.History.MaxAge)
	return &Assistant{
		Registry:   registry,
		Router:     r,
		Dispatcher: dispatch.New(r, h, persona.Intro(persona.DefaultCapabilities)),
		History:    h,
		Calendar:   cal,
	}, nil
}

// Close releases resources held by the features.
func (a *Assistant) Close() error {
	var errs []error
	for _, f := range a.Registry.List() {
		if c, ok := f.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// Ask dispatches a single message and returns the reply.
func (a *Assistant) Ask(ctx context.Context, req *feature.Request) string {
	return a.Dispatcher.Dispatch(ctx, req)
}
