package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "RetailMind/pkg/logger"
)

func TestLogDigestJobHandle(t *testing.T) {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	j := NewLogDigestJob(l, noopMetrics{})

	entries := []applogger.AggregatedLogEntry{
		{Level: "error", Message: "store failed", Caller: "sales_processor.go:51", Count: 7, FirstSeen: time.Now(), LastSeen: time.Now()},
	}
	require.NoError(t, j.Handle(context.Background(), entries))

	// queue delivery shape after a JSON round trip
	payload := []interface{}{
		map[string]interface{}{"level": "error", "message": "store failed", "count": float64(3)},
	}
	require.NoError(t, j.Handle(context.Background(), payload))

	assert.Equal(t, "error-log-digest", j.Name())
	assert.Equal(t, LogDigestJobType, j.Type())
}

func TestLogDigestJobRejectsBadPayload(t *testing.T) {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	j := NewLogDigestJob(l, noopMetrics{})

	assert.Error(t, j.Handle(context.Background(), 42))
}
