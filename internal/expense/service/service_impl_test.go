package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tigfin/tigfin/internal/clock"
	expensedomain "github.com/tigfin/tigfin/internal/expense/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCreateExpenseDefaultsToPending(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Create(context.Background(), 10, expensedomain.CreateExpenseRequest{
		Amount:   "42.50",
		Category: " Software ",
		Date:     "2023-07-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Status != expensedomain.ExpenseStatusPending {
		t.Fatalf("status = %q, want Pending", record.Status)
	}
	if record.Category != "Software" {
		t.Fatalf("category = %q", record.Category)
	}
	if record.Amount.String() != "42.5" {
		t.Fatalf("amount = %s", record.Amount)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  expensedomain.CreateExpenseRequest
		want error
	}{
		{"zero amount", expensedomain.CreateExpenseRequest{Amount: "0", Date: "2023-07-10"}, expensedomain.ErrInvalidAmount},
		{"negative amount", expensedomain.CreateExpenseRequest{Amount: "-5", Date: "2023-07-10"}, expensedomain.ErrInvalidAmount},
		{"garbage amount", expensedomain.CreateExpenseRequest{Amount: "ten", Date: "2023-07-10"}, expensedomain.ErrInvalidAmount},
		{"bad date", expensedomain.CreateExpenseRequest{Amount: "10", Date: "07/10/2023"}, expensedomain.ErrInvalidDate},
		{"bad status", expensedomain.CreateExpenseRequest{Amount: "10", Date: "2023-07-10", Status: "Refunded"}, expensedomain.ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 10, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestListExpensesDateRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, 10, "10", "Software", "2023-06-28", "")
	mustCreate(t, svc, 10, "20", "Software", "2023-07-05", "")
	mustCreate(t, svc, 10, "30", "Travel", "2023-07-15", "")
	mustCreate(t, svc, 99, "99", "Software", "2023-07-05", "")

	from := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 7, 10, 0, 0, 0, 0, time.UTC)
	records, err := svc.List(ctx, 10, expensedomain.ListExpensesRequest{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Amount.String() != "20" {
		t.Fatalf("amount = %s", records[0].Amount)
	}

	byCategory, err := svc.List(ctx, 10, expensedomain.ListExpensesRequest{Category: "Travel"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Category != "Travel" {
		t.Fatalf("category filter: %+v", byCategory)
	}
}

func TestUpdatePaidExpenseOnlyNotes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record := mustCreate(t, svc, 10, "100", "Software", "2023-07-05", "Paid")

	amount := "150"
	if _, err := svc.Update(ctx, 10, record.ID, expensedomain.UpdateExpenseRequest{Amount: &amount}); !errors.Is(err, expensedomain.ErrExpensePaid) {
		t.Fatalf("amount edit on paid expense: %v", err)
	}
	status := "Pending"
	if _, err := svc.Update(ctx, 10, record.ID, expensedomain.UpdateExpenseRequest{Status: &status}); !errors.Is(err, expensedomain.ErrExpensePaid) {
		t.Fatalf("status edit on paid expense: %v", err)
	}

	notes := "reimbursed by client"
	updated, err := svc.Update(ctx, 10, record.ID, expensedomain.UpdateExpenseRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("notes edit on paid expense: %v", err)
	}
	if updated.Notes != notes {
		t.Fatalf("notes = %q", updated.Notes)
	}
	if updated.Amount.String() != "100" {
		t.Fatalf("amount changed: %s", updated.Amount)
	}
}

func TestUpdatePendingExpense(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record := mustCreate(t, svc, 10, "100", "Software", "2023-07-05", "")

	amount := "125.75"
	status := "Paid"
	updated, err := svc.Update(ctx, 10, record.ID, expensedomain.UpdateExpenseRequest{Amount: &amount, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.String() != "125.75" {
		t.Fatalf("amount = %s", updated.Amount)
	}
	if updated.Status != expensedomain.ExpenseStatusPaid {
		t.Fatalf("status = %q", updated.Status)
	}
}

func TestExpenseOwnerScoping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record := mustCreate(t, svc, 10, "100", "Software", "2023-07-05", "")

	if _, err := svc.GetByID(ctx, 99, record.ID); !errors.Is(err, expensedomain.ErrExpenseNotFound) {
		t.Fatalf("cross-owner get: %v", err)
	}
	if err := svc.Delete(ctx, 99, record.ID); !errors.Is(err, expensedomain.ErrExpenseNotFound) {
		t.Fatalf("cross-owner delete: %v", err)
	}
	if err := svc.Delete(ctx, 10, record.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func mustCreate(t *testing.T, svc expensedomain.Service, userID snowflake.ID, amount, category, date, status string) expensedomain.Expense {
	t.Helper()
	record, err := svc.Create(context.Background(), userID, expensedomain.CreateExpenseRequest{
		Amount:   amount,
		Category: category,
		Date:     date,
		Status:   status,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return record
}

func newTestService(t *testing.T) expensedomain.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS expenses (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			amount DECIMAL NOT NULL,
			category TEXT,
			date TIMESTAMP NOT NULL,
			description TEXT,
			payment_method TEXT,
			status TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create expenses: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed{At: time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)},
	})
}
