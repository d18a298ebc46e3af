package refresh

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/refresh"
	"github.com/location-microservice/internal/worker"
)

// SchedulerWorker drives the periodic refresh trigger: once per tick it
// runs a single scheduled-refresh batch page over the active centers.
type SchedulerWorker struct {
	*worker.BaseWorker

	engine *refresh.Engine
	tick   time.Duration
}

// NewSchedulerWorker builds a worker that ticks every interval, running one
// RunScheduledRefresh batch per tick.
func NewSchedulerWorker(engine *refresh.Engine, interval time.Duration, logger *zap.Logger) *SchedulerWorker {
	return &SchedulerWorker{
		BaseWorker: worker.NewBaseWorker("refresh-scheduler", logger),
		engine:     engine,
		tick:       interval,
	}
}

// Start blocks, running a batch immediately and then on every tick, until
// ctx is cancelled or Stop is called.
func (w *SchedulerWorker) Start(ctx context.Context) error {
	w.runBatch(ctx)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.StopChan():
			return nil
		case <-ticker.C:
			w.runBatch(ctx)
		}
	}
}

func (w *SchedulerWorker) runBatch(ctx context.Context) {
	result, err := w.engine.RunScheduledRefresh(ctx)
	if err != nil {
		w.Logger().Error("scheduled refresh batch failed", zap.Error(err))
		return
	}

	w.Logger().Info("scheduled refresh batch completed",
		zap.Int("centers_processed", result.CentersProcessed),
		zap.Int("centers_failed", result.CentersFailed),
		zap.Bool("ok", result.OK))
}
