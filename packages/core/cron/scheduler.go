package cron

import (
	"robotics-event-api/packages/core/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron           *cron.Cron
	autoEndService *services.AutoEndService
	autoEndSpec    string
	logger         *zap.Logger
}

// NewScheduler builds a seconds-precision cron. autoEndSpec is a six-field
// expression such as "*/10 * * * * *".
func NewScheduler(autoEndService *services.AutoEndService, autoEndSpec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := cron.VerbosePrintfLogger(zap.NewStdLog(logger.Named("cron")))
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:           c,
		autoEndService: autoEndService,
		autoEndSpec:    autoEndSpec,
		logger:         logger,
	}
}

// Start registers the jobs and starts the cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.autoEndSpec, s.runAutoEnd); err != nil {
		s.logger.Error("scheduling auto-end job failed", zap.String("spec", s.autoEndSpec), zap.Error(err))
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started", zap.String("auto_end_spec", s.autoEndSpec))
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("cron scheduler stopped")
}

// runAutoEnd completes ongoing matches that overran their duration.
func (s *Scheduler) runAutoEnd() {
	expiredCount, err := s.autoEndService.GetExpiredMatchesCount()
	if err != nil {
		s.logger.Error("checking expired matches failed", zap.Error(err))
		return
	}
	if expiredCount == 0 {
		return
	}

	s.logger.Info("ending expired matches", zap.Int64("count", expiredCount))

	ended, err := s.autoEndService.EndExpiredMatches()
	if err != nil {
		s.logger.Error("auto-end job failed", zap.Error(err))
		return
	}
	s.logger.Info("auto-end job completed", zap.Int("ended", ended))
}

// RunNow triggers the auto-end job synchronously.
func (s *Scheduler) RunNow() {
	s.runAutoEnd()
}
