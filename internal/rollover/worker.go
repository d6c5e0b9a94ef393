package rollover

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/config"
	"github.com/tigfin/tigfin/internal/schedule"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WorkerParam struct {
	fx.In

	Lifecycle fx.Lifecycle
	Engine    *Engine
	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Cfg       config.Config
}

// Worker runs the rollover pass on a cron schedule, sweeping every owner
// with due records. Manual triggers through the API stay independent of it.
type Worker struct {
	engine *Engine
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	cfg    config.Config
	cron   *cron.Cron
}

func NewWorker(p WorkerParam) *Worker {
	w := &Worker{
		engine: p.Engine,
		db:     p.DB,
		log:    p.Log.Named("rollover.worker"),
		clock:  p.Clock,
		cfg:    p.Cfg,
		cron:   cron.New(),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := w.cron.AddFunc(w.cfg.RolloverCron, w.runOnce); err != nil {
				return err
			}
			w.cron.Start()
			w.log.Info("rollover worker started", zap.String("schedule", w.cfg.RolloverCron))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := w.cron.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return w
}

func (w *Worker) runOnce() {
	ctx := context.Background()
	today := schedule.DateOnly(w.clock.Now())

	owners, err := w.dueOwners(ctx, today)
	if err != nil {
		w.log.Error("list owners with due records", zap.Error(err))
		return
	}

	for _, userID := range owners {
		clientResult, err := w.engine.RolloverClientPayments(ctx, userID, today)
		if err != nil {
			w.log.Error("rollover client payments",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		recurringResult, err := w.engine.RolloverRecurringPayments(ctx, userID, today)
		if err != nil {
			w.log.Error("rollover recurring payments",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		if clientResult.UpdatedCount > 0 || recurringResult.UpdatedCount > 0 {
			w.log.Info("rollover pass completed",
				zap.String("user_id", userID.String()),
				zap.Int("client_payments", clientResult.UpdatedCount),
				zap.Int("recurring_payments", recurringResult.UpdatedCount))
		}
	}
}

func (w *Worker) dueOwners(ctx context.Context, today time.Time) ([]snowflake.ID, error) {
	var owners []snowflake.ID
	err := w.db.WithContext(ctx).Raw(
		`SELECT DISTINCT user_id FROM (
			SELECT user_id FROM client_payments
			WHERE status = ? AND auto_renew = ? AND next_due_date <= ?
			UNION
			SELECT user_id FROM recurring_payments
			WHERE status = ? AND next_date <= ?
		 ) AS due_owners
		 ORDER BY user_id
		 LIMIT ?`,
		"Active", true, today,
		"Active", today,
		w.cfg.RolloverBatchSize,
	).Scan(&owners).Error
	if err != nil {
		return nil, err
	}
	return owners, nil
}
