package jobs

import (
	"context"
	"time"

	"github.com/verdana-labs/esgbridge/internal/oracle"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

// FreshnessSweep periodically scans the score ledger and reports entities
// whose record has aged past the configured window. Entities flagged here
// will fail mint gating until a provider submits a fresh score.
type FreshnessSweep struct {
	ledger   *oracle.Ledger
	maxAge   time.Duration
	schedule string
	logger   *logger.Logger
}

// NewFreshnessSweep creates the sweep job. A maxAge of zero makes the sweep
// a no-op, matching the ledger's own freshness semantics.
func NewFreshnessSweep(ledger *oracle.Ledger, maxAge time.Duration, schedule string, log *logger.Logger) *FreshnessSweep {
	return &FreshnessSweep{
		ledger:   ledger,
		maxAge:   maxAge,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name.
func (j *FreshnessSweep) Name() string {
	return "score-freshness"
}

// Schedule returns the cron schedule expression.
func (j *FreshnessSweep) Schedule() string {
	return j.schedule
}

// Run scans every ledger entity and logs the stale ones.
func (j *FreshnessSweep) Run(ctx context.Context) error {
	if j.maxAge == 0 {
		return nil
	}

	entities := j.ledger.Entities()
	stale := 0

	for _, entity := range entities {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !j.ledger.HasValidScore(entity, j.maxAge) {
			stale++
			rec, _ := j.ledger.GetScore(entity)
			j.logger.WithFields(map[string]interface{}{
				"entity":    entity,
				"timestamp": rec.Timestamp,
				"max_age":   j.maxAge,
			}).Warn("Ledger score is stale")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"entities": len(entities),
		"stale":    stale,
	}).Info("Freshness sweep completed")

	return nil
}
