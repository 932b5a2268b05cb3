package funfact

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/model"
)

const Name = "FunFact"

const defaultPrompt = `Share one fun, surprising and TRUE fact{{if .Topic}} about {{.Topic}}{{end}}.
Keep it to 1-3 sentences, start with "💡", and do not add any preamble.
{{- if .Avoid}}
Do not repeat these facts you already told:
{{.Avoid}}
{{- end}}`

var (
	keywords = []string{"fun fact", "interesting fact", "random fact", "did you know", "trivia"}
	topicRe  = regexp.MustCompile(`(?i)\b(?:about|on|regarding)\s+(.+?)[.!?]*$`)
)

type Feature struct {
	gen model.Generator
	tpl *template.Template
}

func New(gen model.Generator, templatePath string) (*Feature, error) {
	tpl, err := model.LoadTemplate("funfact", templatePath, defaultPrompt)
	if err != nil {
		return nil, err
	}
	return &Feature{gen: gen, tpl: tpl}, nil
}

func (f *Feature) Name() string        { return Name }
func (f *Feature) Description() string { return "Share a fun or interesting fact" }

func (f *Feature) Capabilities() string {
	return `Tells the user a short fun fact, optionally about a topic.

Examples:
- "Tell me a fun fact"
- "Give me an interesting fact"
- "Fun fact about space"
- "Did you know anything cool about octopuses?"`
}

func (f *Feature) CanHandle(text string) bool {
	return feature.ContainsAny(text, keywords...)
}

func (f *Feature) Handle(ctx context.Context, req *feature.Request) (string, error) {
	var avoid []string
	for _, h := range req.History {
		if strings.HasPrefix(h.Text, "💡") {
			avoid = append(avoid, "- "+h.Text)
		}
	}
	prompt, err := model.Execute(f.tpl, map[string]any{
		"Topic": topic(req.Text),
		"Avoid": strings.Join(avoid, "\n"),
	})
	if err != nil {
		return "", err
	}
	out, err := f.gen.Generate(ctx, prompt, model.WithTemperature(1))
	if err != nil {
		return "", fmt.Errorf("fun fact: %w", err)
	}
	if !strings.HasPrefix(out, "💡") {
		out = "💡 " + out
	}
	return out, nil
}

// topic extracts "space" from "fun fact about space".
func topic(text string) string {
	m := topicRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
