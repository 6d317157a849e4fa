// Package scheduler drives the background alert evaluation loop on a fixed
// wall-clock interval.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"finsight/services/alerts"
)

// Scheduler manages the recurring evaluation job.
type Scheduler struct {
	cron      *gocron.Scheduler
	evaluator *alerts.Evaluator
	interval  time.Duration
	log       zerolog.Logger
}

// NewScheduler creates a scheduler that runs one evaluation cycle every
// interval.
func NewScheduler(evaluator *alerts.Evaluator, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      gocron.NewScheduler(time.UTC),
		evaluator: evaluator,
		interval:  interval,
		log:       log,
	}
}

// Start starts the evaluation job. Singleton mode keeps cycles from
// overlapping when one pass outlasts the interval.
func (s *Scheduler) Start() {
	s.log.Info().Dur("interval", s.interval).Msg("Starting alert scheduler")

	s.cron.Every(s.interval).SingletonMode().Do(func() {
		s.evaluator.RunCycle(context.Background())
	})

	s.cron.StartAsync()
}

// Stop stops the scheduler, waiting for a running cycle to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("Alert scheduler stopped")
}
