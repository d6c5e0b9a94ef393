package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tigfin/tigfin/internal/schedule"
	"gorm.io/datatypes"
)

// PaymentStatus gates rollover eligibility: only Active records advance.
type PaymentStatus string

const (
	PaymentStatusActive   PaymentStatus = "Active"
	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusInactive PaymentStatus = "Inactive"
)

// RecurringPayment is an outgoing obligation (rent, subscriptions) with a
// cadence. Active records roll over unconditionally once due.
type RecurringPayment struct {
	ID          snowflake.ID       `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID       `gorm:"not null;index" json:"-"`
	Name        string             `gorm:"not null" json:"name"`
	Amount      decimal.Decimal    `gorm:"type:numeric(14,2);not null" json:"amount"`
	Frequency   schedule.Frequency `gorm:"type:text;not null" json:"frequency"`
	NextDate    time.Time          `gorm:"column:next_date;type:date;not null" json:"nextDate"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Status      PaymentStatus      `gorm:"type:text;not null;default:'Active'" json:"status"`
	CreatedAt   time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (RecurringPayment) TableName() string { return "recurring_payments" }

// PaymentRecord is one append-only payment history entry. Entries are
// immutable once written.
type PaymentRecord struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

// ClientPayment is an incoming obligation owed by a client. Rollover only
// advances records with AutoRenew set.
type ClientPayment struct {
	ID              snowflake.ID                          `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID                          `gorm:"not null;index" json:"-"`
	ClientID        snowflake.ID                          `gorm:"not null;index" json:"clientId"`
	Amount          decimal.Decimal                       `gorm:"type:numeric(14,2);not null" json:"amount"`
	Frequency       schedule.Frequency                    `gorm:"type:text;not null" json:"frequency"`
	NextDueDate     time.Time                             `gorm:"column:next_due_date;type:date;not null" json:"nextDueDate"`
	Status          PaymentStatus                         `gorm:"type:text;not null;default:'Active'" json:"status"`
	Description     string                                `json:"description"`
	AutoRenew       bool                                  `gorm:"not null;default:false" json:"autoRenew"`
	LastPaymentDate *time.Time                            `json:"lastPaymentDate"`
	PaymentHistory  datatypes.JSONType[[]PaymentRecord]   `gorm:"column:payment_history" json:"paymentHistory"`
	CreatedAt       time.Time                             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt       time.Time                             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (ClientPayment) TableName() string { return "client_payments" }

// History returns the decoded payment history, oldest first.
func (p ClientPayment) History() []PaymentRecord {
	return p.PaymentHistory.Data()
}
