package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/dominest-api/internal/service"
)

type pingerStub struct{ err error }

func (p pingerStub) PingContext(context.Context) error { return p.err }

func TestMetricsHandlerReady(t *testing.T) {
	h := NewMetricsHandler(nil, pingerStub{}, nil)
	c, w := newTestContext(http.MethodGet, "/ready", nil, nil)
	h.Ready(c)
	require.Equal(t, http.StatusOK, w.Code)

	core, logs := observer.New(zap.WarnLevel)
	h = NewMetricsHandler(nil, pingerStub{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, zap.New(core))
	c, w = newTestContext(http.MethodGet, "/ready", nil, nil)
	h.Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","database":"down"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "readiness ping failed", logs.All()[0].Message)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/metrics", nil, nil)
	NewMetricsHandler(nil, nil, nil).Prometheus(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	metrics := service.NewMetricsService()
	metrics.RecordUploadItem("resident_pdf", "")
	c, w = newTestContext(http.MethodGet, "/metrics", nil, nil)
	NewMetricsHandler(metrics, nil, nil).Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dominest_")
}
