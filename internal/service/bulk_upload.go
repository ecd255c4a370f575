package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/models"
)

// UploadItemError classifies why one bulk item could not be applied.
type UploadItemError struct {
	Reason models.UploadFailureReason
	Err    error
}

func (e *UploadItemError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *UploadItemError) Unwrap() error {
	return e.Err
}

func itemError(reason models.UploadFailureReason, err error) error {
	return &UploadItemError{Reason: reason, Err: err}
}

var uploadReasonMessages = map[models.UploadFailureReason]string{
	models.UploadTargetNotFound:     "대상 입사생을 찾을 수 없습니다.",
	models.UploadMalformedInput:     "파일 또는 행의 형식이 올바르지 않습니다.",
	models.UploadStorageWriteFailed: "파일 저장에 실패했습니다.",
	models.UploadDuplicateTarget:    "대상이 중복되었습니다.",
	models.UploadPersistFailed:      "데이터 저장에 실패했습니다.",
}

// bulkItem is one element of a bulk request. Key identifies it in the failure report.
type bulkItem interface {
	Key() string
}

// BulkUploadProcessor applies an operation to every item of a batch independently.
type BulkUploadProcessor struct {
	metrics *MetricsService
	logger  *zap.Logger
}

// NewBulkUploadProcessor constructs a processor.
func NewBulkUploadProcessor(metrics *MetricsService, logger *zap.Logger) *BulkUploadProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkUploadProcessor{metrics: metrics, logger: logger}
}

// processBatch runs apply on every item in order. A failing item is recorded and skipped;
// the loop never stops early. Errors that are not *UploadItemError count as PERSIST_FAILED.
func processBatch[T bulkItem](ctx context.Context, p *BulkUploadProcessor, kind string, items []T, apply func(context.Context, T) error) models.UploadBatchResult {
	result := models.UploadBatchResult{Total: len(items), Failures: make([]models.UploadFailure, 0)}

	for i, item := range items {
		err := apply(ctx, item)
		if err == nil {
			result.SuccessCount++
			p.metrics.RecordUploadItem(kind, "")
			continue
		}

		reason := models.UploadPersistFailed
		var itemErr *UploadItemError
		if errors.As(err, &itemErr) {
			reason = itemErr.Reason
		}
		result.Failures = append(result.Failures, models.UploadFailure{
			Index:   i,
			Key:     item.Key(),
			Reason:  reason,
			Message: uploadReasonMessages[reason],
		})
		p.metrics.RecordUploadItem(kind, string(reason))
		p.logger.Warn("bulk item failed",
			zap.String("kind", kind),
			zap.Int("index", i),
			zap.String("key", item.Key()),
			zap.String("reason", string(reason)),
			zap.Error(err),
		)
	}

	p.logger.Info("bulk upload processed",
		zap.String("kind", kind),
		zap.Int("total", result.Total),
		zap.Int("success", result.SuccessCount),
	)
	return result
}
