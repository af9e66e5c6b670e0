package usecase

import (
	"context"
	"fmt"

	domrepo "RetailMind/internal/domain/repository"
	applogger "RetailMind/pkg/logger"
	"RetailMind/pkg/queue"
)

// LogDigestJobType is the queue message type carrying aggregated error logs.
const LogDigestJobType = "error_log_digest"

// LogDigestJob drains the aggregated error-log batches the logger's
// collector publishes, emitting one summary line per distinct message and
// counting occurrences in metrics. Keeps noisy failure loops from flooding
// the log output.
type LogDigestJob struct {
	l       *applogger.Logger
	metrics domrepo.Metrics
}

func NewLogDigestJob(l *applogger.Logger, metrics domrepo.Metrics) *LogDigestJob {
	return &LogDigestJob{l: l, metrics: metrics}
}

func (j *LogDigestJob) Name() string { return "error-log-digest" }

func (j *LogDigestJob) Type() string { return LogDigestJobType }

func (j *LogDigestJob) Handle(ctx context.Context, payload interface{}) error {
	entries, err := queue.ParsePayload[[]applogger.AggregatedLogEntry](payload)
	if err != nil {
		return fmt.Errorf("log digest payload: %w", err)
	}
	for _, e := range *entries {
		j.metrics.RecordError("logged_" + e.Level)
		j.l.Warn("error digest",
			applogger.String("message", e.Message),
			applogger.String("caller", e.Caller),
			applogger.Int("count", e.Count),
		)
	}
	return nil
}

var _ queue.Job = (*LogDigestJob)(nil)
