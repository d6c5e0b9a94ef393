package rollover

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/events"
	"github.com/tigfin/tigfin/internal/schedule"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordFailure reports one record that could not be advanced. The rest of
// the batch is unaffected.
type RecordFailure struct {
	ID     snowflake.ID `json:"id"`
	Reason string       `json:"reason"`
}

// Result summarizes one rollover pass for a single owner.
type Result struct {
	UpdatedCount int             `json:"updatedCount"`
	UpdatedIDs   []snowflake.ID  `json:"updatedIds"`
	Failed       []RecordFailure `json:"failed,omitempty"`
}

type EngineParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Outbox *events.Outbox
}

// Engine advances due dates on obligations that have come due. Every
// advancement is guarded on the observed due date, so a concurrent trigger
// that already moved a record simply skips it here.
type Engine struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	outbox *events.Outbox
}

func NewEngine(p EngineParam) *Engine {
	return &Engine{
		db:     p.DB,
		log:    p.Log.Named("rollover.engine"),
		clock:  p.Clock,
		outbox: p.Outbox,
	}
}

type dueRecord struct {
	ID        snowflake.ID
	UserID    snowflake.ID
	Frequency schedule.Frequency
	DueDate   time.Time
}

// RolloverClientPayments advances every Active, auto-renewing client payment
// owned by userID whose due date is on or before today.
func (e *Engine) RolloverClientPayments(ctx context.Context, userID snowflake.ID, today time.Time) (Result, error) {
	today = schedule.DateOnly(today)

	var due []dueRecord
	err := e.db.WithContext(ctx).Raw(
		`SELECT id, user_id, frequency, next_due_date AS due_date
		 FROM client_payments
		 WHERE user_id = ? AND status = ? AND auto_renew = ? AND next_due_date <= ?
		 ORDER BY next_due_date ASC, id ASC`,
		userID,
		"Active",
		true,
		today,
	).Scan(&due).Error
	if err != nil {
		return Result{}, err
	}

	return e.advance(ctx, due, "client_payment",
		`UPDATE client_payments
		 SET next_due_date = ?, updated_at = ?
		 WHERE id = ? AND next_due_date = ?`), nil
}

// RolloverRecurringPayments advances every Active recurring payment owned by
// userID whose next date is on or before today.
func (e *Engine) RolloverRecurringPayments(ctx context.Context, userID snowflake.ID, today time.Time) (Result, error) {
	today = schedule.DateOnly(today)

	var due []dueRecord
	err := e.db.WithContext(ctx).Raw(
		`SELECT id, user_id, frequency, next_date AS due_date
		 FROM recurring_payments
		 WHERE user_id = ? AND status = ? AND next_date <= ?
		 ORDER BY next_date ASC, id ASC`,
		userID,
		"Active",
		today,
	).Scan(&due).Error
	if err != nil {
		return Result{}, err
	}

	return e.advance(ctx, due, "recurring_payment",
		`UPDATE recurring_payments
		 SET next_date = ?, updated_at = ?
		 WHERE id = ? AND next_date = ?`), nil
}

// advance applies the guarded update per record. RowsAffected 0 means
// another trigger already moved the record past the observed date, which
// counts as neither updated nor failed.
func (e *Engine) advance(ctx context.Context, due []dueRecord, kind, updateSQL string) Result {
	result := Result{UpdatedIDs: []snowflake.ID{}}
	now := e.clock.Now()

	for _, record := range due {
		oldDate := schedule.DateOnly(record.DueDate)
		newDate := schedule.Next(oldDate, record.Frequency)

		update := e.db.WithContext(ctx).Exec(updateSQL, newDate, now, record.ID, record.DueDate)
		if update.Error != nil {
			e.log.Warn("advance due date",
				zap.String("kind", kind),
				zap.String("id", record.ID.String()),
				zap.Error(update.Error))
			result.Failed = append(result.Failed, RecordFailure{
				ID:     record.ID,
				Reason: update.Error.Error(),
			})
			continue
		}
		if update.RowsAffected == 0 {
			continue
		}

		result.UpdatedCount++
		result.UpdatedIDs = append(result.UpdatedIDs, record.ID)

		if e.outbox != nil {
			payload := events.DueDateAdvancedPayload{
				PaymentID:   record.ID.String(),
				PaymentKind: kind,
				Frequency:   string(record.Frequency),
				OldDueDate:  oldDate.Format(time.DateOnly),
				NewDueDate:  newDate.Format(time.DateOnly),
			}
			err := e.outbox.Publish(ctx, events.Event{
				UserID:    record.UserID,
				Type:      events.EventDueDateAdvanced,
				Payload:   payload.ToMap(),
				DedupeKey: record.ID.String() + ":" + payload.OldDueDate,
			})
			if err != nil {
				e.log.Warn("publish due date advanced event",
					zap.String("id", record.ID.String()), zap.Error(err))
			}
		}
	}
	return result
}
