package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/domain"
)

// ReportTrigger starts every report pipeline.
type ReportTrigger interface {
	StartAll(ctx context.Context) map[domain.ReportScope]domain.ProcessState
}

// Scheduler regenerates the reports on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewReportScheduler registers trigger.StartAll under schedule, e.g. "@every 1h"
// or "0 2 * * *". An empty schedule yields nil.
func NewReportScheduler(schedule string, trigger ReportTrigger, logger *zap.Logger) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		states := trigger.StartAll(context.Background())
		for scope, state := range states {
			logger.Info("scheduled report trigger", zap.String("scope", string(scope)), zap.String("status", string(state.Status)))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid REPORTS_SCHEDULE %q: %w", schedule, err)
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins firing the schedule.
func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("report scheduler started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop halts the schedule and returns a context done once running jobs return.
func (s *Scheduler) Stop() context.Context {
	if s == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.cron.Stop()
}
