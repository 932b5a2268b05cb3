// Package scheduler sends the daily calendar agenda as a direct message.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Agenda renders the events of the day containing t.
type Agenda interface {
	Agenda(ctx context.Context, t time.Time) (string, error)
}

// Sender delivers a direct message to a user.
type Sender interface {
	SendDM(ctx context.Context, userID, text string) error
}

type Scheduler struct {
	cron    *cron.Cron
	agenda  Agenda
	sender  Sender
	userID  string
	timeout time.Duration
	now     func() time.Time
}

// New schedules the daily agenda using a standard five field cron spec
// evaluated in loc.
func New(spec, userID string, loc *time.Location, agenda Agenda, sender Sender) (*Scheduler, error) {
	if userID == "" {
		return nil, fmt.Errorf("agenda user id is required")
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		agenda:  agenda,
		sender:  sender,
		userID:  userID,
		timeout: time.Minute,
		now:     func() time.Time { return time.Now().In(loc) },
	}
	if _, err := s.cron.AddFunc(spec, s.sendAgenda); err != nil {
		return nil, fmt.Errorf("invalid agenda schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the cron loop and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	slog.Info("Agenda scheduler started", slog.String("user", s.userID))
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) sendAgenda() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.Send(ctx); err != nil {
		slog.Error("Unable to send agenda", slog.String("user", s.userID), slog.String("error", err.Error()))
	}
}

// Send delivers today's agenda immediately.
func (s *Scheduler) Send(ctx context.Context) error {
	text, err := s.agenda.Agenda(ctx, s.now())
	if err != nil {
		return fmt.Errorf("build agenda: %w", err)
	}
	return s.sender.SendDM(ctx, s.userID, "Good morning! "+text)
}
