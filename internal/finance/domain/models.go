package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// FinancialReport is stored metadata for a generated report. Rendering the
// document itself is stubbed.
type FinancialReport struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID `gorm:"not null;index" json:"-"`
	Name          string       `gorm:"not null" json:"name"`
	Description   string       `json:"description"`
	Period        string       `gorm:"not null" json:"period"`
	ReportType    string       `gorm:"column:report_type;not null" json:"reportType"`
	Format        string       `gorm:"not null;default:'pdf'" json:"format"`
	IncludeCharts bool         `gorm:"not null;default:true" json:"includeCharts"`
	IncludeNotes  bool         `gorm:"not null;default:false" json:"includeNotes"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (FinancialReport) TableName() string { return "financial_reports" }

// MetricsSnapshot is the month's financial position. Expenses combine the
// month's recorded expenses with the monthly equivalent of every active
// recurring payment.
type MetricsSnapshot struct {
	Revenue           decimal.Decimal `json:"revenue"`
	Expenses          decimal.Decimal `json:"expenses"`
	MonthExpenses     decimal.Decimal `json:"monthExpenses"`
	RecurringExpenses decimal.Decimal `json:"recurringExpenses"`
	Profit            decimal.Decimal `json:"profit"`
	ProfitMargin      decimal.Decimal `json:"profitMargin"`
	Status            string          `json:"status"`
}

// CategoryAmount is one slice of a per-category breakdown.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// UpcomingPayment is an obligation due within the summary window.
type UpcomingPayment struct {
	ID      snowflake.ID    `json:"id"`
	Kind    string          `json:"kind"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

// Summary is the dashboard payload: category breakdowns plus payments
// coming due in the next seven days.
type Summary struct {
	ExpensesByCategory  []CategoryAmount  `json:"expensesByCategory"`
	RecurringByCategory []CategoryAmount  `json:"recurringByCategory"`
	MonthlyRecurring    decimal.Decimal   `json:"monthlyRecurring"`
	UpcomingPayments    []UpcomingPayment `json:"upcomingPayments"`
}
