package history

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/mcplab/calcserver/pkg/logger"
)

// Sweeper periodically trims the history to a maximum number of rows. It
// implements system.Service so the application manager controls its
// lifecycle.
type Sweeper struct {
	service  *Service
	schedule string
	maxRows  int
	log      *logger.Logger
	cron     *cron.Cron
}

// NewSweeper constructs a retention sweeper. The schedule uses the
// standard cron format (descriptors like @hourly are accepted).
func NewSweeper(service *Service, schedule string, maxRows int, log *logger.Logger) (*Sweeper, error) {
	if log == nil {
		log = logger.NewDefault("history-retention")
	}
	if maxRows <= 0 {
		return nil, fmt.Errorf("maxRows must be positive")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse retention schedule %q: %w", schedule, err)
	}
	return &Sweeper{
		service:  service,
		schedule: schedule,
		maxRows:  maxRows,
		log:      log,
	}, nil
}

// Name implements system.Service.
func (s *Sweeper) Name() string { return "history-retention" }

// Start schedules the sweep job.
func (s *Sweeper) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.sweep(context.Background()) }); err != nil {
		return fmt.Errorf("schedule retention sweep: %w", err)
	}
	c.Start()
	s.cron = c
	s.log.WithField("schedule", s.schedule).
		WithField("max_rows", s.maxRows).
		Info("history retention sweeper started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.cron = nil
	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.service.Trim(ctx, s.maxRows); err != nil {
		s.log.WithError(err).Warn("history retention sweep failed")
	}
}
