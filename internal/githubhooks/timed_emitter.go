package githubhooks

import (
	"context"
	"time"

	"issuebridge/internal/metrics"
	"issuebridge/internal/models"
	"issuebridge/internal/normalizer"
)

// timedEmitter reports the latency of the emit call alone to metrics.
type timedEmitter struct {
	next normalizer.Emitter
}

func (t timedEmitter) EmitEventsV2(ctx context.Context, evts []models.NormalizedEvent) error {
	started := time.Now()
	err := t.next.EmitEventsV2(ctx, evts)
	metrics.ObserveEmit(started, err)
	return err
}
