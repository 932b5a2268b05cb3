package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/history"
	"github.com/FlameInTheDark/alfred/internal/metrics"
	"github.com/FlameInTheDark/alfred/internal/router"
)

const (
	ErrorReply   = "Sorry, something went wrong while handling your request. Please try again."
	NoReplyReply = "I couldn't come up with a response to that. Try rephrasing?"
)

// Router is the part of the intent router the dispatcher needs.
type Router interface {
	Route(ctx context.Context, text string) router.Decision
}

// Dispatcher routes a request to a feature and turns any failure into a
// fixed user-facing reply.
type Dispatcher struct {
	router   Router
	history  *history.Store
	fallback string
}

// New creates a dispatcher. fallback is returned when no feature matches.
// history may be nil.
func New(r Router, h *history.Store, fallback string) *Dispatcher {
	return &Dispatcher{router: r, history: h, fallback: fallback}
}

// Dispatch handles one request and always returns a reply.
func (d *Dispatcher) Dispatch(ctx context.Context, req *feature.Request) string {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Text == "" {
		req.Text = strings.TrimSpace(req.Content)
	}
	if req.History == nil {
		req.History = d.history.Recent(req.UserID)
	}

	decision := d.router.Route(ctx, req.Text)
	metrics.MessagesRouted.WithLabelValues(decision.FeatureName(), string(decision.Method)).Inc()
	slog.Info("Message routed",
		slog.String("request", req.ID),
		slog.String("user", req.UserID),
		slog.String("feature", decision.FeatureName()),
		slog.String("method", string(decision.Method)),
		slog.Float64("confidence", decision.Confidence),
		slog.String("reasoning", decision.Reasoning),
	)

	var resp string
	if !decision.Selected() {
		resp = d.fallback
	} else {
		resp = d.invoke(ctx, decision.Feature, req)
	}

	d.history.Add(req.UserID, history.RoleUser, req.Text)
	d.history.Add(req.UserID, history.RoleAssistant, resp)
	return resp
}

func (d *Dispatcher) invoke(ctx context.Context, f feature.Feature, req *feature.Request) (resp string) {
	name := f.Name()
	start := time.Now()
	defer func() {
		metrics.HandlerDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if rec := recover(); rec != nil {
			metrics.HandlerFailures.WithLabelValues(name, "panic").Inc()
			slog.Error("Feature handler panicked",
				slog.String("request", req.ID),
				slog.String("feature", name),
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())),
			)
			resp = ErrorReply
		}
	}()

	out, err := f.Handle(ctx, req)
	if err != nil {
		metrics.HandlerFailures.WithLabelValues(name, "error").Inc()
		slog.Error("Feature handler failed",
			slog.String("request", req.ID),
			slog.String("feature", name),
			slog.String("error", err.Error()),
		)
		return ErrorReply
	}
	if strings.TrimSpace(out) == "" {
		return NoReplyReply
	}
	return out
}
