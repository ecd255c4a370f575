package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/pkg/jobs"
)

const jobTypeDeleteDocument = "delete_document"

type documentDeleter interface {
	Delete(ctx context.Context, path string) error
}

// FileCleanupService removes stored documents in the background once their owner is gone.
type FileCleanupService struct {
	queue   *jobs.Queue
	store   documentDeleter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewFileCleanupService wires a retrying job queue around store.Delete.
func NewFileCleanupService(store documentDeleter, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *FileCleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Logger = logger
	svc := &FileCleanupService{store: store, metrics: metrics, logger: logger}
	svc.queue = jobs.NewQueue("file-cleanup", svc.handle, cfg)
	return svc
}

// Start launches the workers.
func (s *FileCleanupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (s *FileCleanupService) Stop() {
	s.queue.Stop()
}

// Schedule queues every path for deletion. Paths that cannot be queued are logged and left behind.
func (s *FileCleanupService) Schedule(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		job := jobs.Job{ID: uuid.NewString(), Type: jobTypeDeleteDocument, Payload: path}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to queue document cleanup", zap.String("path", path), zap.Error(err))
		}
	}
}

func (s *FileCleanupService) handle(ctx context.Context, job jobs.Job) error {
	path, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	if err := s.store.Delete(ctx, path); err != nil {
		s.metrics.RecordCleanupJob(false)
		return err
	}
	s.metrics.RecordCleanupJob(true)
	s.logger.Debug("document removed", zap.String("path", path))
	return nil
}
