package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/FlameInTheDark/alfred/internal/config"
	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/history"
	"github.com/FlameInTheDark/alfred/internal/model"
	"github.com/FlameInTheDark/alfred/internal/persona"
)

const Name = "Search"

var keywords = []string{
	"search", "look up", "google", "why", "how", "what is", "who is", "when did", "travel time",
}

// Backend returns web results for a query.
type Backend interface {
	Search(ctx context.Context, query string) ([]Row, error)
}

// Extractor returns the readable text of a page.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

type Feature struct {
	gen     model.Generator
	backend Backend
	article Extractor
	tpl     *template.Template
	now     func() time.Time
}

// New builds the search feature. backend and article may be nil, in which
// case questions are answered by the model alone.
func New(gen model.Generator, backend Backend, article Extractor, templatePath string) (*Feature, error) {
	tpl, err := loadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	return &Feature{gen: gen, backend: backend, article: article, tpl: tpl, now: time.Now}, nil
}

// FromConfig wires the SearXNG backend and article extractor from cfg.
func FromConfig(gen model.Generator, cfg config.Search, templatePath string) (*Feature, error) {
	var backend Backend
	var article Extractor
	if cfg.SearxURL != "" {
		backend = NewSearx(cfg.SearxURL, cfg.MaxResults, cfg.Timeout)
		if !cfg.NoArticle {
			article = NewArticles(cfg.Timeout)
		}
	}
	return New(gen, backend, article, templatePath)
}

func loadTemplate(path string) (*template.Template, error) {
	funcs := template.FuncMap{"inc": func(i int) int { return i + 1 }}
	if path != "" {
		tpl, err := template.New(filepath.Base(path)).Funcs(funcs).ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", path, err)
		}
		return tpl, nil
	}
	return template.New("search").Funcs(funcs).Parse(defaultPrompt)
}

// Close releases the HTTP clients of the backend and extractor.
func (f *Feature) Close() error {
	var errs []error
	for _, c := range []any{f.backend, f.article} {
		if closer, ok := c.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}

func (f *Feature) Name() string        { return Name }
func (f *Feature) Description() string { return "Look up facts and answer questions using web search" }

func (f *Feature) Capabilities() string {
	return `Answers factual questions, optionally by searching the web and summarising the results with sources.

Examples:
- "Search for the population of Tokyo"
- "Who is the CEO of Nvidia?"
- "Why is the sky blue?"
- "What is the travel time from San Diego to LA?"`
}

func (f *Feature) CanHandle(text string) bool {
	return feature.ContainsAny(text, keywords...)
}

func (f *Feature) Handle(ctx context.Context, req *feature.Request) (string, error) {
	query := cleanQuery(req.Text)
	var rows []Row
	var article string

	if f.backend != nil {
		var err error
		rows, err = f.backend.Search(ctx, query)
		if err != nil {
			slog.Warn("Web search failed", slog.String("request", req.ID), slog.String("error", err.Error()))
		}
		slog.Info("Web search done", slog.String("query", query), slog.Int("results", len(rows)))
	}
	if f.article != nil && len(rows) > 0 {
		text, err := f.article.Extract(ctx, rows[0].URL)
		if err != nil {
			slog.Warn("Unable to extract article", slog.String("url", rows[0].URL), slog.String("error", err.Error()))
		}
		article = text
	}

	prompt, err := model.Execute(f.tpl, map[string]any{
		"Assistant": persona.Name,
		"Now":       f.now().Format("Monday, January 2, 2006"),
		"History":   history.Format(req.History, persona.Name),
		"Question":  req.Text,
		"Results":   rows,
		"Article":   article,
	})
	if err != nil {
		return "", err
	}
	answer, err := f.gen.Generate(ctx, prompt, model.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	return answer + sources(rows), nil
}

// cleanQuery drops leading command words like "search for".
func cleanQuery(text string) string {
	q := strings.TrimSpace(text)
	lower := strings.ToLower(q)
	for _, prefix := range []string{"search the web for", "search for", "search", "look up", "google"} {
		if strings.HasPrefix(lower, prefix+" ") {
			return strings.TrimSpace(q[len(prefix):])
		}
	}
	return q
}

func sources(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nSources:")
	for i, r := range rows {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		fmt.Fprintf(&b, "\n[%d] %s <%s>", i+1, title, r.URL)
	}
	return b.String()
}
