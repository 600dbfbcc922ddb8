package scheduler

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/fairgroundhq/trellis/pkg/dedupe"
)

// Scheduler wraps robfig/cron and runs the recurring duplicate scan.
type Scheduler struct {
	cron   *cron.Cron
	logger ectologger.Logger
	dedupe *dedupe.Service
	spec   string
}

// New creates a Scheduler that scans for duplicates on the given cron spec.
func New(logger ectologger.Logger, svc *dedupe.Service, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		dedupe: svc,
		spec:   spec,
	}
}

// Start registers the scan job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runScan(ctx)
	})
	if err != nil {
		return errors.Wrap(err, "failed to register duplicate scan job")
	}

	s.cron.Start()
	s.logger.WithContext(ctx).WithField("spec", s.spec).Info("duplicate scan scheduler started")
	return nil
}

// Stop stops the scheduler. Running jobs are allowed to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.WithContext(ctx).Info("duplicate scan scheduler stopped")
}

func (s *Scheduler) runScan(ctx context.Context) {
	groups, scanned, err := s.dedupe.DetectAll(ctx)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("scheduled duplicate scan failed")
		return
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"scanned": scanned,
		"groups":  len(groups),
	}).Info("scheduled duplicate scan completed")
}
