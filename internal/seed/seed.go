package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	authdomain "github.com/tigfin/tigfin/internal/auth/domain"
	"github.com/tigfin/tigfin/internal/auth/password"
	clientdomain "github.com/tigfin/tigfin/internal/client/domain"
	expensedomain "github.com/tigfin/tigfin/internal/expense/domain"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
	"github.com/tigfin/tigfin/internal/schedule"
	taskdomain "github.com/tigfin/tigfin/internal/task/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@tigfin.test"
	demoPassword = "tigfin-demo"
	demoName     = "Demo Owner"
)

// EnsureDemoData seeds a demo account with a small book of business. It is
// idempotent: an existing demo user short-circuits the whole seed.
func EnsureDemoData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.User{}).Where("email = ?", demoEmail).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return seedDemoUser(tx, node)
	})
}

func seedDemoUser(tx *gorm.DB, node *snowflake.Node) error {
	now := time.Now().UTC()
	today := schedule.DateOnly(now)

	hash, err := password.Hash(demoPassword)
	if err != nil {
		return err
	}
	user := authdomain.User{
		ID:           node.Generate(),
		Email:        demoEmail,
		Name:         demoName,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := tx.Create(&user).Error; err != nil {
		return err
	}

	client := clientdomain.Client{
		ID:          node.Generate(),
		UserID:      user.ID,
		Name:        "Acme Design Co",
		ContactName: "Jordan Reyes",
		Email:       "jordan@acmedesign.test",
		Status:      clientdomain.ClientStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Create(&client).Error; err != nil {
		return err
	}

	retainer := paymentdomain.ClientPayment{
		ID:             node.Generate(),
		UserID:         user.ID,
		ClientID:       client.ID,
		Amount:         decimal.NewFromInt(1500),
		Frequency:      schedule.FrequencyMonthly,
		NextDueDate:    today.AddDate(0, 0, 5),
		Status:         paymentdomain.PaymentStatusActive,
		Description:    "Monthly design retainer",
		AutoRenew:      true,
		PaymentHistory: datatypes.NewJSONType([]paymentdomain.PaymentRecord{}),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.Create(&retainer).Error; err != nil {
		return err
	}

	rent := paymentdomain.RecurringPayment{
		ID:        node.Generate(),
		UserID:    user.ID,
		Name:      "Office Rent",
		Amount:    decimal.NewFromInt(950),
		Frequency: schedule.FrequencyMonthly,
		NextDate:  today.AddDate(0, 0, 10),
		Category:  "Rent",
		Status:    paymentdomain.PaymentStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&rent).Error; err != nil {
		return err
	}

	hosting := expensedomain.Expense{
		ID:        node.Generate(),
		UserID:    user.ID,
		Amount:    decimal.NewFromInt(40),
		Category:  "Software",
		Date:      today,
		Status:    expensedomain.ExpenseStatusPaid,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.Create(&hosting).Error; err != nil {
		return err
	}

	invoiceTask := taskdomain.Task{
		ID:        node.Generate(),
		UserID:    user.ID,
		Title:     "Send monthly invoice to Acme Design Co",
		Status:    taskdomain.TaskStatusTodo,
		Priority:  taskdomain.TaskPriorityHigh,
		Category:  "Billing",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.Create(&invoiceTask).Error
}
