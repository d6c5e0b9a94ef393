package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ExpenseStatus string

const (
	ExpenseStatusPending ExpenseStatus = "Pending"
	ExpenseStatusPaid    ExpenseStatus = "Paid"
)

// Expense is a one-off cost. Once paid, only the status transition
// Pending to Paid is allowed; amounts and dates stay fixed.
type Expense struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID    `gorm:"not null;index" json:"-"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Category      string          `json:"category"`
	Date          time.Time       `gorm:"type:date;not null" json:"date"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        ExpenseStatus   `gorm:"type:text;not null;default:'Pending'" json:"status"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }
