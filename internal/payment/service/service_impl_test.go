package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/tigfin/tigfin/internal/client/domain"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/events"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCreateRecurringValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  paymentdomain.CreateRecurringPaymentRequest
		want error
	}{
		{"blank name", paymentdomain.CreateRecurringPaymentRequest{Name: " ", Amount: "10", Frequency: "Monthly", NextDate: "2023-08-01"}, paymentdomain.ErrInvalidName},
		{"zero amount", paymentdomain.CreateRecurringPaymentRequest{Name: "Rent", Amount: "0", Frequency: "Monthly", NextDate: "2023-08-01"}, paymentdomain.ErrInvalidAmount},
		{"unknown frequency", paymentdomain.CreateRecurringPaymentRequest{Name: "Rent", Amount: "10", Frequency: "Daily", NextDate: "2023-08-01"}, paymentdomain.ErrInvalidFrequency},
		{"bad date", paymentdomain.CreateRecurringPaymentRequest{Name: "Rent", Amount: "10", Frequency: "Monthly", NextDate: "08/01/2023"}, paymentdomain.ErrInvalidDueDate},
		{"bad status", paymentdomain.CreateRecurringPaymentRequest{Name: "Rent", Amount: "10", Frequency: "Monthly", NextDate: "2023-08-01", Status: "Paused"}, paymentdomain.ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateRecurring(ctx, 10, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	created, err := svc.CreateRecurring(ctx, 10, paymentdomain.CreateRecurringPaymentRequest{
		Name: "Rent", Amount: "950", Frequency: "Monthly", NextDate: "2023-08-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != paymentdomain.PaymentStatusActive {
		t.Fatalf("default status = %q, want Active", created.Status)
	}
}

func TestListClientPaymentsJoinsClient(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := insertClient(t, db, 10, "Acme Design Co", "jordan@acmedesign.test")
	departed := insertClient(t, db, 10, "Departed LLC", "gone@departed.test")

	first, err := svc.CreateClientPayment(ctx, 10, paymentdomain.CreateClientPaymentRequest{
		ClientID: client.ID.String(), Amount: "1500", Frequency: "Monthly", NextDueDate: "2023-08-01",
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	orphan, err := svc.CreateClientPayment(ctx, 10, paymentdomain.CreateClientPaymentRequest{
		ClientID: departed.ID.String(), Amount: "500", Frequency: "Weekly", NextDueDate: "2023-07-25",
	})
	if err != nil {
		t.Fatalf("create orphan payment: %v", err)
	}
	// A deleted client leaves its payments behind with a placeholder name.
	if err := db.Exec(`DELETE FROM clients WHERE id = ?`, departed.ID).Error; err != nil {
		t.Fatalf("delete client: %v", err)
	}

	views, err := svc.ListClientPayments(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	// Ordered by next due date, soonest first.
	if views[0].ID != orphan.ID || views[1].ID != first.ID {
		t.Fatalf("order = %s, %s", views[0].ID, views[1].ID)
	}
	if views[0].ClientName != "Unknown Client" {
		t.Fatalf("orphan client name = %q", views[0].ClientName)
	}
	if views[1].ClientName != "Acme Design Co" || views[1].ClientEmail != "jordan@acmedesign.test" {
		t.Fatalf("joined client = %q / %q", views[1].ClientName, views[1].ClientEmail)
	}
}

func TestRecordPaymentAppendsHistory(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := insertClient(t, db, 10, "Acme Design Co", "jordan@acmedesign.test")
	payment, err := svc.CreateClientPayment(ctx, 10, paymentdomain.CreateClientPaymentRequest{
		ClientID: client.ID.String(), Amount: "1500", Frequency: "Monthly", NextDueDate: "2023-08-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, amount := range []string{"1500", "1600"} {
		updated, err := svc.RecordPayment(ctx, 10, paymentdomain.RecordPaymentRequest{
			PaymentID: payment.ID.String(),
			Amount:    amount,
			Notes:     fmt.Sprintf("installment %d", i+1),
		})
		if err != nil {
			t.Fatalf("record payment %d: %v", i+1, err)
		}
		if len(updated.History()) != i+1 {
			t.Fatalf("history len = %d, want %d", len(updated.History()), i+1)
		}
	}

	final, err := svc.GetClientPayment(ctx, 10, payment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	history := final.History()
	if len(history) != 2 {
		t.Fatalf("persisted history len = %d, want 2", len(history))
	}
	if history[0].Amount.String() != "1500" || history[1].Amount.String() != "1600" {
		t.Fatalf("history amounts = %s, %s", history[0].Amount, history[1].Amount)
	}
	if history[0].Notes != "installment 1" {
		t.Fatalf("first note = %q", history[0].Notes)
	}
	if final.LastPaymentDate == nil {
		t.Fatal("last payment date not stamped")
	}
}

func TestCreateClientPaymentRequiresOwnedClient(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	other := insertClient(t, db, 99, "Someone Else's Client", "other@example.test")
	if _, err := svc.CreateClientPayment(ctx, 10, paymentdomain.CreateClientPaymentRequest{
		ClientID: other.ID.String(), Amount: "100", Frequency: "Monthly", NextDueDate: "2023-08-01",
	}); !errors.Is(err, paymentdomain.ErrInvalidClient) {
		t.Fatalf("foreign client: %v", err)
	}
	if _, err := svc.CreateClientPayment(ctx, 10, paymentdomain.CreateClientPaymentRequest{
		ClientID: "not-a-number", Amount: "100", Frequency: "Monthly", NextDueDate: "2023-08-01",
	}); !errors.Is(err, paymentdomain.ErrInvalidClient) {
		t.Fatalf("malformed client id: %v", err)
	}
}

func TestUpdateClientPaymentRequiresOwnedClient(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	mine := insertClient(t, db, 10, "Acme Design Co", "jordan@acmedesign.test")
	foreign := insertClient(t, db, 99, "Rival Holdings", "ceo@rival.test")

	payment, err := svc.CreateClientPayment(ctx, 10, paymentdomain.CreateClientPaymentRequest{
		ClientID: mine.ID.String(), Amount: "1500", Frequency: "Monthly", NextDueDate: "2023-08-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	foreignID := foreign.ID.String()
	if _, err := svc.UpdateClientPayment(ctx, 10, payment.ID, paymentdomain.UpdateClientPaymentRequest{
		ClientID: &foreignID,
	}); !errors.Is(err, paymentdomain.ErrInvalidClient) {
		t.Fatalf("reassign to foreign client: %v", err)
	}

	reloaded, err := svc.GetClientPayment(ctx, 10, payment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ClientID != mine.ID {
		t.Fatalf("client id = %s, want %s", reloaded.ClientID, mine.ID)
	}
}

func TestRecordPaymentUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.RecordPayment(context.Background(), 10, paymentdomain.RecordPaymentRequest{
		PaymentID: "999999", Amount: "100",
	}); !errors.Is(err, paymentdomain.ErrPaymentNotFound) {
		t.Fatalf("unknown payment: %v", err)
	}
}

func TestClientPaymentOwnerScoping(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	client := insertClient(t, db, 10, "Acme Design Co", "jordan@acmedesign.test")
	payment, err := svc.CreateClientPayment(ctx, 10, paymentdomain.CreateClientPaymentRequest{
		ClientID: client.ID.String(), Amount: "1500", Frequency: "Monthly", NextDueDate: "2023-08-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetClientPayment(ctx, 99, payment.ID); !errors.Is(err, paymentdomain.ErrPaymentNotFound) {
		t.Fatalf("cross-owner get: %v", err)
	}
	if _, err := svc.RecordPayment(ctx, 99, paymentdomain.RecordPaymentRequest{
		PaymentID: payment.ID.String(), Amount: "100",
	}); !errors.Is(err, paymentdomain.ErrPaymentNotFound) {
		t.Fatalf("cross-owner record: %v", err)
	}
	if err := svc.DeleteClientPayment(ctx, 99, payment.ID); !errors.Is(err, paymentdomain.ErrPaymentNotFound) {
		t.Fatalf("cross-owner delete: %v", err)
	}
}

func insertClient(t *testing.T, db *gorm.DB, userID snowflake.ID, name, email string) clientdomain.Client {
	t.Helper()
	now := time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)
	record := clientdomain.Client{
		ID:        snowflake.ID(time.Now().UnixNano()),
		UserID:    userID,
		Name:      name,
		Email:     email,
		Status:    clientdomain.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("insert client: %v", err)
	}
	return record
}

func newTestService(t *testing.T) (paymentdomain.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			contact_name TEXT,
			email TEXT,
			phone TEXT,
			address TEXT,
			status TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS client_payments (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			client_id BIGINT NOT NULL,
			amount DECIMAL NOT NULL,
			frequency TEXT NOT NULL,
			next_due_date DATE NOT NULL,
			status TEXT NOT NULL,
			description TEXT,
			auto_renew BOOLEAN NOT NULL DEFAULT false,
			last_payment_date TIMESTAMP,
			payment_history TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recurring_payments (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			amount DECIMAL NOT NULL,
			frequency TEXT NOT NULL,
			next_date DATE NOT NULL,
			category TEXT,
			description TEXT,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
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
	svc := NewService(ServiceParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  clock.Fixed{At: time.Date(2023, 7, 20, 12, 0, 0, 0, time.UTC)},
		Outbox: events.NewOutbox(db, node),
	})
	return svc, db
}
