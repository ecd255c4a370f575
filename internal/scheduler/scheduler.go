package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExportCleaner removes rendered exports whose download links have expired.
type ExportCleaner interface {
	Cleanup() ([]string, error)
}

// Scheduler runs the periodic maintenance jobs of the API.
type Scheduler struct {
	cron    *cron.Cron
	exports ExportCleaner
	logger  *zap.Logger
}

// New constructs a scheduler whose specs carry a leading seconds field.
func New(exports ExportCleaner, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		exports: exports,
		logger:  logger,
	}
}

// Register adds the export cleanup job on spec. An empty spec leaves the job disabled.
func (s *Scheduler) Register(spec string) error {
	if spec == "" || s.exports == nil {
		s.logger.Info("export cleanup disabled")
		return nil
	}
	_, err := s.cron.AddFunc(spec, s.cleanupExports)
	return err
}

// Start begins running registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) cleanupExports() {
	removed, err := s.exports.Cleanup()
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
}
