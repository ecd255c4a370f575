package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/pkg/jobs"
)

type flakyDeleter struct {
	mu       sync.Mutex
	failures map[string]int
	deleted  []string
}

func (d *flakyDeleter) Delete(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failures[path] > 0 {
		d.failures[path]--
		return errors.New("temporarily unavailable")
	}
	d.deleted = append(d.deleted, path)
	return nil
}

func (d *flakyDeleter) snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.deleted...)
}

func TestFileCleanupServiceRetriesUntilDeleted(t *testing.T) {
	deleter := &flakyDeleter{failures: map[string]int{"ADMISSION/S2024_1/r1.pdf": 1}}
	metrics := NewMetricsService()
	svc := NewFileCleanupService(deleter, metrics, nil, jobs.QueueConfig{Workers: 2, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Schedule("ADMISSION/S2024_1/r1.pdf", "", "DEPARTURE/S2024_1/r1.pdf")

	require.Eventually(t, func() bool { return len(deleter.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"ADMISSION/S2024_1/r1.pdf", "DEPARTURE/S2024_1/r1.pdf"}, deleter.snapshot())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.cleanupJobs.WithLabelValues("deleted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cleanupJobs.WithLabelValues("failed")))
}

func TestFileCleanupServiceScheduleBeforeStartIsDropped(t *testing.T) {
	deleter := &flakyDeleter{failures: map[string]int{}}
	svc := NewFileCleanupService(deleter, nil, nil, jobs.QueueConfig{})

	svc.Schedule("ADMISSION/S2024_1/r1.pdf")
	assert.Empty(t, deleter.snapshot())
}
