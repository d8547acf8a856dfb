package monitoring

import (
	"context"
	"time"

	"github.com/isdelr/credential-api/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPruneSpec  = "@every 1h"
	DefaultHealthSpec = "@every 1m"
)

// Scheduler runs periodic maintenance: audit event retention and a
// database reachability check.
type Scheduler struct {
	cron      *cron.Cron
	eventSvc  services.EventServiceProvider
	ping      func(ctx context.Context) error
	retention time.Duration
	timeout   time.Duration
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(eventSvc services.EventServiceProvider, ping func(ctx context.Context) error, retention, timeout time.Duration) *Scheduler {
	logger := log.Logger.With().Str("component", "scheduler").Logger()
	cronLog := cron.PrintfLogger(&logger)

	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
		eventSvc:  eventSvc,
		ping:      ping,
		retention: retention,
		timeout:   timeout,
	}
}

// Register adds the maintenance jobs using the given cron specs.
func (s *Scheduler) Register(pruneSpec, healthSpec string) error {
	if _, err := s.cron.AddFunc(pruneSpec, s.pruneEvents); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(healthSpec, s.checkDatabase); err != nil {
		return err
	}
	return nil
}

// Run starts the scheduler in its own goroutine.
func (s *Scheduler) Run() {
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting background scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler")
}

func (s *Scheduler) pruneEvents() {
	if s.retention <= 0 {
		return
	}
	n, err := s.eventSvc.PruneEvents(context.Background(), s.retention)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to prune events")
		return
	}
	if n > 0 {
		log.Info().Int64("removed", n).Dur("retention", s.retention).Msg("Scheduler: pruned old events")
	}
}

func (s *Scheduler) checkDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Scheduler: database unreachable")
	}
}
