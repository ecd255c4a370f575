package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/models"
)

type keyedItem string

func (k keyedItem) Key() string { return string(k) }

func TestProcessBatchContinuesPastFailures(t *testing.T) {
	metrics := NewMetricsService()
	p := NewBulkUploadProcessor(metrics, nil)
	items := []keyedItem{"a", "b", "c", "d", "e"}

	var applied []string
	result := processBatch(context.Background(), p, "test", items, func(ctx context.Context, item keyedItem) error {
		applied = append(applied, string(item))
		if item == "c" {
			return itemError(models.UploadTargetNotFound, errors.New("no such target"))
		}
		return nil
	})

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, applied)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 4, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].Index)
	assert.Equal(t, "c", result.Failures[0].Key)
	assert.Equal(t, models.UploadTargetNotFound, result.Failures[0].Reason)
	assert.NotEmpty(t, result.Failures[0].Message)
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.uploadItems.WithLabelValues("test", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.uploadItems.WithLabelValues("test", "TARGET_NOT_FOUND")))
}

func TestProcessBatchKeepsFailureOrder(t *testing.T) {
	p := NewBulkUploadProcessor(nil, nil)
	items := []keyedItem{"x0", "x1", "x2", "x3", "x4", "x5"}
	reasons := map[keyedItem]error{
		"x1": itemError(models.UploadMalformedInput, nil),
		"x3": errors.New("db down"),
		"x4": itemError(models.UploadDuplicateTarget, errors.New("twice")),
		"x5": itemError(models.UploadStorageWriteFailed, errors.New("disk full")),
	}

	result := processBatch(context.Background(), p, "test", items, func(ctx context.Context, item keyedItem) error {
		return reasons[item]
	})

	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Failures, 4)
	gotIdx := []int{}
	gotReasons := []models.UploadFailureReason{}
	for _, f := range result.Failures {
		gotIdx = append(gotIdx, f.Index)
		gotReasons = append(gotReasons, f.Reason)
	}
	assert.Equal(t, []int{1, 3, 4, 5}, gotIdx)
	assert.Equal(t, []models.UploadFailureReason{
		models.UploadMalformedInput,
		models.UploadPersistFailed,
		models.UploadDuplicateTarget,
		models.UploadStorageWriteFailed,
	}, gotReasons)
}

func TestProcessBatchEmpty(t *testing.T) {
	result := processBatch(context.Background(), NewBulkUploadProcessor(nil, nil), "test", []keyedItem{}, func(context.Context, keyedItem) error {
		t.Fatal("apply must not run")
		return nil
	})
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Failures)
	assert.Empty(t, result.Failures)
}

func TestUploadItemErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := itemError(models.UploadStorageWriteFailed, cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "STORAGE_WRITE_FAILED")
}
