package conversation

import (
	"context"
	"log/slog"
	"text/template"

	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/history"
	"github.com/FlameInTheDark/alfred/internal/model"
	"github.com/FlameInTheDark/alfred/internal/persona"
)

const Name = "Conversation"

const defaultPrompt = `{{if .History}}{{.History}}
{{end}}User: {{.Message}}

Respond naturally as {{.Assistant}}. Keep it brief and friendly.`

var keywords = []string{"hello", "hi", "hey", "thanks", "thank you", "help", "what can you do"}

type Feature struct {
	gen    model.Generator
	tpl    *template.Template
	system string
}

// New creates the small talk feature. caps lists what the assistant can do
// and is embedded into the system prompt.
func New(gen model.Generator, caps []persona.Capability, templatePath string) (*Feature, error) {
	tpl, err := model.LoadTemplate("conversation", templatePath, defaultPrompt)
	if err != nil {
		return nil, err
	}
	return &Feature{gen: gen, tpl: tpl, system: persona.System(caps)}, nil
}

func (f *Feature) Name() string        { return Name }
func (f *Feature) Description() string { return "Greetings, small talk and questions about what Alfred can do" }

func (f *Feature) Capabilities() string {
	return `Handles greetings, thanks, small talk and questions about the assistant itself.

Examples:
- "Hello" / "Hi Alfred"
- "Thanks!"
- "What can you do?"
- "How are you?"`
}

func (f *Feature) CanHandle(text string) bool {
	return feature.ContainsAny(text, keywords...)
}

// Handle never fails: when the model is unavailable it answers with a canned greeting.
func (f *Feature) Handle(ctx context.Context, req *feature.Request) (string, error) {
	prompt, err := model.Execute(f.tpl, map[string]any{
		"History":   history.Format(req.History, persona.Name),
		"Message":   req.Text,
		"Assistant": persona.Name,
	})
	if err != nil {
		return "", err
	}
	out, err := f.gen.Generate(ctx, prompt, model.WithSystem(f.system), model.WithTemperature(0.7))
	if err != nil {
		slog.Warn("Conversation model failed", slog.String("request", req.ID), slog.String("error", err.Error()))
		return persona.Greeting(), nil
	}
	return out, nil
}
