package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, opts ...Option) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return f(ctx, prompt, opts...)
}

// StripCodeFence removes a surrounding ```json ... ``` block if the model added one.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. "json"
		if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "{[") {
			s = s[nl+1:]
		}
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// ParseJSON strips code fences and validates the reply as JSON.
func ParseJSON(reply string) (gjson.Result, error) {
	raw := StripCodeFence(reply)
	if raw == "" {
		return gjson.Result{}, ErrEmptyResponse
	}
	if !gjson.Valid(raw) {
		return gjson.Result{}, fmt.Errorf("invalid JSON in model reply: %q", crop(raw, 200))
	}
	return gjson.Parse(raw), nil
}

func crop(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
