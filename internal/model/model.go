package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Generator produces text for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// Options tune a single generation call.
type Options struct {
	JSON        bool
	System      string
	Temperature *float32
}

type Option func(*Options)

// WithJSON asks the model to answer with application/json.
func WithJSON() Option {
	return func(o *Options) { o.JSON = true }
}

// WithSystem sets the system instruction.
func WithSystem(system string) Option {
	return func(o *Options) { o.System = system }
}

func WithTemperature(t float32) Option {
	return func(o *Options) { o.Temperature = &t }
}

// Model wraps a Gemini client bound to one model name.
type Model struct {
	name   string
	client *genai.Client
}

// NewModel creates a Gemini client for the given API key and model name.
func NewModel(ctx context.Context, apiKey, name string) (*Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if name == "" {
		name = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Model{name: name, client: client}, nil
}

// Name returns the model name.
func (m *Model) Name() string {
	return m.name
}

// Generate sends one prompt and returns the trimmed response text.
func (m *Model) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &genai.GenerateContentConfig{Temperature: o.Temperature}
	if o.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if o.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(o.System, genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
