package workers

import (
	"context"

	"coursehub/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler roda os Jobs no cron configurado em config.Jobs.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger zerolog.Logger
	config config.Configuration
}

func NewScheduler(jobs *Jobs, logger zerolog.Logger, cfg config.Configuration) *Scheduler {
	l := logger.With().Str("component", "scheduler").Logger()
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(&l))))

	return &Scheduler{
		cron:   c,
		jobs:   jobs,
		logger: l,
		config: cfg,
	}
}

// Start registers the jobs and starts the cron scheduler. A job with an empty
// or invalid schedule is skipped and logged.
func (s *Scheduler) Start() int {
	registered := 0
	for _, job := range []struct {
		name     string
		schedule string
		fn       func()
	}{
		{"purge_expired_tokens", s.config.Jobs.CleanupSchedule, s.jobs.PurgeExpiredTokens},
		{"backfill_customers", s.config.Jobs.BackfillSchedule, s.jobs.BackfillCustomers},
	} {
		if job.schedule == "" {
			continue
		}
		if _, err := s.cron.AddFunc(job.schedule, job.fn); err != nil {
			s.logger.Error().Err(err).Str("job", job.name).Msg("failed to schedule job")
			continue
		}
		s.logger.Info().Str("job", job.name).Str("schedule", job.schedule).Msg("scheduled job")
		registered++
	}

	s.cron.Start()
	return registered
}

// Stop para o cron; o contexto retornado termina quando os jobs em execução acabam.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
