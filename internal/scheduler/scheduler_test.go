package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agendaFunc func(ctx context.Context, t time.Time) (string, error)

func (f agendaFunc) Agenda(ctx context.Context, t time.Time) (string, error) { return f(ctx, t) }

type fakeSender struct {
	user, text string
}

func (s *fakeSender) SendDM(_ context.Context, userID, text string) error {
	s.user, s.text = userID, text
	return nil
}

func TestSend(t *testing.T) {
	var day time.Time
	sender := &fakeSender{}
	s, err := New("0 8 * * *", "42", time.UTC, agendaFunc(func(_ context.Context, t time.Time) (string, error) {
		day = t
		return "📭 Nothing on your calendar for Tue, Feb 17.", nil
	}), sender)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 2, 17, 8, 0, 0, 0, time.UTC) }

	require.NoError(t, s.Send(context.Background()))
	assert.Equal(t, "42", sender.user)
	assert.Equal(t, "Good morning! 📭 Nothing on your calendar for Tue, Feb 17.", sender.text)
	assert.Equal(t, 17, day.Day())
}

func TestSendAgendaError(t *testing.T) {
	sender := &fakeSender{}
	s, err := New("@daily", "42", nil, agendaFunc(func(context.Context, time.Time) (string, error) {
		return "", errors.New("no token")
	}), sender)
	require.NoError(t, err)

	assert.Error(t, s.Send(context.Background()))
	assert.Empty(t, sender.text)
}

func TestNewValidates(t *testing.T) {
	_, err := New("not a schedule", "42", time.UTC, nil, nil)
	assert.Error(t, err)

	_, err = New("0 8 * * *", "", time.UTC, nil, nil)
	assert.Error(t, err)
}

func TestRunStopsWithContext(t *testing.T) {
	s, err := New("0 8 * * *", "42", time.UTC, nil, &fakeSender{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
