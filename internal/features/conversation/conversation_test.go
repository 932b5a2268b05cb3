package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlameInTheDark/alfred/internal/feature"
	"github.com/FlameInTheDark/alfred/internal/history"
	"github.com/FlameInTheDark/alfred/internal/model"
	"github.com/FlameInTheDark/alfred/internal/persona"
)

func TestHandleUsesPersonaAndHistory(t *testing.T) {
	var prompt string
	var opts model.Options
	gen := model.GeneratorFunc(func(_ context.Context, p string, o ...model.Option) (string, error) {
		prompt = p
		for _, opt := range o {
			opt(&opts)
		}
		return "Good evening! How can I help?", nil
	})
	f, err := New(gen, persona.DefaultCapabilities, "")
	require.NoError(t, err)

	out, err := f.Handle(context.Background(), &feature.Request{
		Text:    "hey there",
		History: []history.Entry{{Role: history.RoleUser, Text: "hi"}, {Role: history.RoleAssistant, Text: "Hello!"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Good evening! How can I help?", out)
	assert.Contains(t, prompt, "User: hey there")
	assert.Contains(t, prompt, "Alfred: Hello!")
	assert.Contains(t, opts.System, "Download YouTube videos")
}

func TestHandleFallsBackToGreeting(t *testing.T) {
	gen := model.GeneratorFunc(func(context.Context, string, ...model.Option) (string, error) {
		return "", errors.New("unavailable")
	})
	f, err := New(gen, nil, "")
	require.NoError(t, err)

	out, err := f.Handle(context.Background(), &feature.Request{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, persona.Greeting(), out)
}

func TestCanHandle(t *testing.T) {
	f, err := New(nil, nil, "")
	require.NoError(t, err)
	assert.True(t, f.CanHandle("Hi Alfred"))
	assert.True(t, f.CanHandle("thank you so much"))
	assert.True(t, f.CanHandle("What can you do?"))
	assert.False(t, f.CanHandle("this is a theme"))
}
