package events

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPublishDedupesPerUser(t *testing.T) {
	outbox, db := newTestOutbox(t)
	ctx := context.Background()

	event := Event{
		UserID:    10,
		Type:      "due_date_advanced",
		Payload:   map[string]any{"record_id": "1", "new_due_date": "2023-08-15"},
		DedupeKey: "1:2023-07-15",
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("duplicate publish: %v", err)
	}

	if got := countEvents(t, db, 10); got != 1 {
		t.Fatalf("events for user 10 = %d, want 1", got)
	}

	// Same dedupe key under a different user is a distinct event.
	other := event
	other.UserID = 99
	if err := outbox.Publish(ctx, other); err != nil {
		t.Fatalf("publish other user: %v", err)
	}
	if got := countEvents(t, db, 99); got != 1 {
		t.Fatalf("events for user 99 = %d, want 1", got)
	}
}

func TestPublishWithoutDedupeKeyNeverDrops(t *testing.T) {
	outbox, db := newTestOutbox(t)
	ctx := context.Background()

	event := Event{UserID: 10, Type: "payment_recorded"}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	if got := countEvents(t, db, 10); got != 2 {
		t.Fatalf("events = %d, want 2", got)
	}
}

func TestPublishValidation(t *testing.T) {
	outbox, _ := newTestOutbox(t)
	ctx := context.Background()

	if err := outbox.Publish(ctx, Event{Type: "payment_recorded"}); err == nil {
		t.Fatal("expected error for missing user id")
	}
	if err := outbox.Publish(ctx, Event{UserID: 10, Type: "   "}); err == nil {
		t.Fatal("expected error for blank event type")
	}
	if err := outbox.PublishTx(ctx, nil, Event{UserID: 10, Type: "x"}); err == nil {
		t.Fatal("expected error for nil transaction")
	}
}

func countEvents(t *testing.T, db *gorm.DB, userID snowflake.ID) int64 {
	t.Helper()
	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM billing_events WHERE user_id = ?`, userID).Scan(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	return count
}

func newTestOutbox(t *testing.T) (*Outbox, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS billing_events (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT,
			dedupe_key TEXT,
			published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_billing_events_dedupe
			ON billing_events (user_id, dedupe_key)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewOutbox(db, node), db
}
