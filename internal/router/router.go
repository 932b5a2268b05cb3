package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"text/template"
	"time"

	"github.com/tidwall/gjson"

	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/metrics"
	"github.com/FlameInTheDark/alfred/internal/model"
)

const (
	DefaultThreshold = 0.6
	DefaultTimeout   = 15 * time.Second
)

var errBadReply = errors.New("malformed routing reply")

// Method tells how a decision was reached.
type Method string

const (
	MethodAI      Method = "ai"
	MethodKeyword Method = "keyword"
	MethodNone    Method = "none"
)

// Decision is the outcome of routing one message.
type Decision struct {
	// Index is the position of Feature in the registry, -1 when nothing was selected.
	Index      int
	Feature    feature.Feature
	Confidence float64
	Reasoning  string
	Method     Method
	// Err is the classifier failure that forced a fallback, if any.
	Err error
}

// Selected reports whether a feature was chosen.
func (d Decision) Selected() bool {
	return d.Feature != nil
}

// FeatureName returns the chosen feature name or "none".
func (d Decision) FeatureName() string {
	if d.Feature == nil {
		return "none"
	}
	return d.Feature.Name()
}

// Router selects a feature for a message with one classification call and a
// keyword fallback.
type Router struct {
	gen       model.Generator
	registry  *feature.Registry
	threshold float64
	timeout   time.Duration
	assistant string
	tpl       *template.Template
}

type Option func(*Router)

func WithThreshold(t float64) Option {
	return func(r *Router) {
		if t > 0 {
			r.threshold = t
		}
	}
}

// WithTimeout bounds the classification call. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithAssistant(name string) Option {
	return func(r *Router) { r.assistant = name }
}

// WithTemplate overrides the routing prompt template.
func WithTemplate(tpl *template.Template) Option {
	return func(r *Router) {
		if tpl != nil {
			r.tpl = tpl
		}
	}
}

func New(gen model.Generator, registry *feature.Registry, opts ...Option) *Router {
	r := &Router{
		gen:       gen,
		registry:  registry,
		threshold: DefaultThreshold,
		timeout:   DefaultTimeout,
		assistant: "Alfred",
		tpl:       model.MustTemplate("router", "", defaultPrompt),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultTemplate returns the embedded routing prompt text.
func DefaultTemplate() string {
	return defaultPrompt
}

// Prompt renders the routing prompt for text.
func (r *Router) Prompt(text string) (string, error) {
	data := promptData{Assistant: r.assistant, Message: text}
	for i, f := range r.registry.List() {
		data.Features = append(data.Features, promptFeature{
			Index:        i,
			Name:         f.Name(),
			Description:  f.Description(),
			Capabilities: f.Capabilities(),
		})
	}
	return model.Execute(r.tpl, data)
}

// Route never fails: classifier errors degrade to keyword matching.
func (r *Router) Route(ctx context.Context, text string) Decision {
	d := Decision{Index: -1, Method: MethodNone}

	rep, err := r.classify(ctx, text)
	if err != nil {
		d.Err = err
		slog.Warn("Intent classification failed, using keyword fallback", slog.String("error", err.Error()))
	} else {
		d.Confidence = rep.confidence
		d.Reasoning = rep.reasoning
		if rep.hasIndex && rep.confidence > r.threshold {
			if f, ok := r.registry.At(rep.index); ok {
				d.Index = rep.index
				d.Feature = f
				d.Method = MethodAI
				return d
			}
			slog.Warn("Classifier returned unknown feature index", slog.Int("index", rep.index), slog.Int("features", r.registry.Len()))
		}
	}

	if i, f, ok := r.registry.Match(text); ok {
		d.Index = i
		d.Feature = f
		d.Method = MethodKeyword
	}
	return d
}

type reply struct {
	index      int
	hasIndex   bool
	confidence float64
	reasoning  string
}

func (r *Router) classify(ctx context.Context, text string) (reply, error) {
	if r.gen == nil {
		metrics.ClassifierFailures.WithLabelValues("unavailable").Inc()
		return reply{}, errors.New("no classifier configured")
	}
	prompt, err := r.Prompt(text)
	if err != nil {
		metrics.ClassifierFailures.WithLabelValues("prompt").Inc()
		return reply{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	raw, err := r.gen.Generate(ctx, prompt, model.WithJSON(), model.WithTemperature(0))
	metrics.ClassifierLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClassifierFailures.WithLabelValues("request").Inc()
		return reply{}, fmt.Errorf("classify: %w", err)
	}

	rep, err := parseReply(raw)
	if err != nil {
		metrics.ClassifierFailures.WithLabelValues("parse").Inc()
		return reply{}, err
	}
	return rep, nil
}

// parseReply reads {feature_index, confidence, reasoning}. A missing or
// non-numeric confidence makes the whole reply invalid; a null or non-integer
// index only means "no selection".
func parseReply(raw string) (reply, error) {
	res, err := model.ParseJSON(raw)
	if err != nil {
		return reply{}, fmt.Errorf("%w: %v", errBadReply, err)
	}
	if !res.IsObject() {
		return reply{}, fmt.Errorf("%w: expected an object", errBadReply)
	}

	conf := res.Get("confidence")
	if conf.Type != gjson.Number {
		return reply{}, fmt.Errorf("%w: confidence missing or not a number", errBadReply)
	}

	var rep reply
	rep.confidence = math.Max(0, math.Min(1, conf.Float()))
	rep.reasoning = res.Get("reasoning").String()

	idx := res.Get("feature_index")
	if idx.Type == gjson.Number && idx.Float() == math.Trunc(idx.Float()) {
		rep.index = int(idx.Int())
		rep.hasIndex = true
	}
	return rep, nil
}
