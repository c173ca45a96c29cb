package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultPruneSchedule runs retention hourly
const DefaultPruneSchedule = "@every 1h"

// Retention prunes a store on a cron schedule
type Retention struct {
	store     Store
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
	cron      *cron.Cron
}

// NewRetention schedules pruning of exchanges older than retention
func NewRetention(store Store, schedule string, retention time.Duration, logger *zap.Logger) (*Retention, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if schedule == "" {
		schedule = DefaultPruneSchedule
	}

	r := &Retention{
		store:     store,
		retention: retention,
		now:       time.Now,
		logger:    logging.OrNop(logger).Named("retention"),
		cron:      cron.New(),
	}

	if _, err := r.cron.AddFunc(schedule, func() { r.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}

	return r, nil
}

// Start begins running the schedule in the background
func (r *Retention) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running prune to finish
func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

// Run prunes once and reports how many exchanges were removed
func (r *Retention) Run(ctx context.Context) int64 {
	cutoff := r.now().Add(-r.retention)

	removed, err := r.store.Prune(ctx, cutoff)
	if err != nil {
		r.logger.Error("failed to prune history", zap.Error(err))
		return 0
	}

	if removed > 0 {
		r.logger.Info("pruned history", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed
}
