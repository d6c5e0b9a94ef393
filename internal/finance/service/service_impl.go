package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/events"
	expensedomain "github.com/tigfin/tigfin/internal/expense/domain"
	financedomain "github.com/tigfin/tigfin/internal/finance/domain"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
	"github.com/tigfin/tigfin/internal/schedule"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Health status breakpoints on profit margin, in percent.
var (
	marginExcellent = decimal.NewFromInt(20)
	marginGood      = decimal.NewFromInt(10)
)

const (
	statusExcellent      = "Excellent"
	statusGood           = "Good"
	statusFair           = "Fair"
	statusNeedsAttention = "Needs Attention"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Outbox *events.Outbox
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	outbox *events.Outbox
}

func NewService(p ServiceParam) financedomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("finance.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		outbox: p.Outbox,
	}
}

func (s *Service) Metrics(ctx context.Context, userID snowflake.ID, asOf time.Time, revenue decimal.Decimal) (financedomain.MetricsSnapshot, error) {
	monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	expenses, err := s.monthExpenses(ctx, userID, monthStart, nextMonthStart)
	if err != nil {
		return financedomain.MetricsSnapshot{}, err
	}
	monthTotal := decimal.Zero
	for _, e := range expenses {
		monthTotal = monthTotal.Add(e.Amount)
	}

	recurring, err := s.activeRecurring(ctx, userID)
	if err != nil {
		return financedomain.MetricsSnapshot{}, err
	}
	recurringTotal := decimal.Zero
	for _, r := range recurring {
		recurringTotal = recurringTotal.Add(schedule.MonthlyEquivalent(r.Amount, r.Frequency))
	}

	total := monthTotal.Add(recurringTotal)
	profit := revenue.Sub(total)

	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Mul(decimal.NewFromInt(100)).Round(1)
	}

	return financedomain.MetricsSnapshot{
		Revenue:           revenue,
		Expenses:          total,
		MonthExpenses:     monthTotal,
		RecurringExpenses: recurringTotal,
		Profit:            profit,
		ProfitMargin:      margin,
		Status:            healthStatus(revenue, margin),
	}, nil
}

// healthStatus maps the profit margin to a label. Zero revenue always
// reads "Needs Attention" regardless of margin.
func healthStatus(revenue, margin decimal.Decimal) string {
	if revenue.IsZero() {
		return statusNeedsAttention
	}
	switch {
	case margin.GreaterThan(marginExcellent):
		return statusExcellent
	case margin.GreaterThan(marginGood):
		return statusGood
	case margin.GreaterThan(decimal.Zero):
		return statusFair
	default:
		return statusNeedsAttention
	}
}

func (s *Service) Summary(ctx context.Context, userID snowflake.ID) (financedomain.Summary, error) {
	now := s.clock.Now()
	today := schedule.DateOnly(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonthStart := monthStart.AddDate(0, 1, 0)
	windowEnd := today.AddDate(0, 0, 7)

	expenses, err := s.monthExpenses(ctx, userID, monthStart, nextMonthStart)
	if err != nil {
		return financedomain.Summary{}, err
	}
	expenseBuckets := map[string]decimal.Decimal{}
	for _, e := range expenses {
		key := categoryKey(e.Category)
		expenseBuckets[key] = expenseBuckets[key].Add(e.Amount)
	}

	recurring, err := s.activeRecurring(ctx, userID)
	if err != nil {
		return financedomain.Summary{}, err
	}
	recurringBuckets := map[string]decimal.Decimal{}
	monthlyRecurring := decimal.Zero
	for _, r := range recurring {
		monthly := schedule.MonthlyEquivalent(r.Amount, r.Frequency)
		key := categoryKey(r.Category)
		recurringBuckets[key] = recurringBuckets[key].Add(monthly)
		monthlyRecurring = monthlyRecurring.Add(monthly)
	}

	upcoming := []financedomain.UpcomingPayment{}
	for _, r := range recurring {
		due := schedule.DateOnly(r.NextDate)
		if !due.Before(today) && !due.After(windowEnd) {
			upcoming = append(upcoming, financedomain.UpcomingPayment{
				ID:      r.ID,
				Kind:    "recurring_payment",
				Name:    r.Name,
				Amount:  r.Amount,
				DueDate: due,
			})
		}
	}

	var clientPayments []paymentdomain.ClientPayment
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND next_due_date >= ? AND next_due_date <= ?",
			userID, paymentdomain.PaymentStatusActive, today, windowEnd).
		Order("next_due_date ASC").
		Find(&clientPayments).Error
	if err != nil {
		return financedomain.Summary{}, err
	}
	for _, p := range clientPayments {
		upcoming = append(upcoming, financedomain.UpcomingPayment{
			ID:      p.ID,
			Kind:    "client_payment",
			Name:    clientName(ctx, s.db, userID, p.ClientID),
			Amount:  p.Amount,
			DueDate: schedule.DateOnly(p.NextDueDate),
		})
	}
	sort.Slice(upcoming, func(i, j int) bool {
		if upcoming[i].DueDate.Equal(upcoming[j].DueDate) {
			return upcoming[i].ID < upcoming[j].ID
		}
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})

	return financedomain.Summary{
		ExpensesByCategory:  sortedBreakdown(expenseBuckets),
		RecurringByCategory: sortedBreakdown(recurringBuckets),
		MonthlyRecurring:    monthlyRecurring,
		UpcomingPayments:    upcoming,
	}, nil
}

func (s *Service) GenerateReport(ctx context.Context, userID snowflake.ID, req financedomain.GenerateReportRequest) (financedomain.FinancialReport, error) {
	period := strings.TrimSpace(req.Period)
	label, err := periodLabel(period, s.clock.Now())
	if err != nil {
		return financedomain.FinancialReport{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("Financial Report - %s", label)
	}
	reportType := strings.TrimSpace(req.ReportType)
	if reportType == "" {
		reportType = "profit-loss"
	}
	format := strings.TrimSpace(req.Format)
	if format == "" {
		format = "pdf"
	}

	report := financedomain.FinancialReport{
		ID:            s.genID.Generate(),
		UserID:        userID,
		Name:          name,
		Description:   req.Description,
		Period:        period,
		ReportType:    reportType,
		Format:        format,
		IncludeCharts: req.IncludeCharts,
		IncludeNotes:  req.IncludeNotes,
		CreatedAt:     s.clock.Now(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			UserID: userID,
			Type:   events.EventReportGenerated,
			Payload: events.ReportGeneratedPayload{
				ReportID:   report.ID.String(),
				Period:     report.Period,
				ReportType: report.ReportType,
			}.ToMap(),
		})
	})
	if err != nil {
		return financedomain.FinancialReport{}, err
	}
	return report, nil
}

func (s *Service) ListReports(ctx context.Context, userID snowflake.ID) ([]financedomain.FinancialReport, error) {
	var reports []financedomain.FinancialReport
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Service) GetReport(ctx context.Context, userID, id snowflake.ID) (financedomain.FinancialReport, error) {
	var report financedomain.FinancialReport
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return financedomain.FinancialReport{}, financedomain.ErrReportNotFound
		}
		return financedomain.FinancialReport{}, err
	}
	return report, nil
}

func (s *Service) DeleteReport(ctx context.Context, userID, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&financedomain.FinancialReport{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return financedomain.ErrReportNotFound
	}
	return nil
}

func (s *Service) monthExpenses(ctx context.Context, userID snowflake.ID, from, to time.Time) ([]expensedomain.Expense, error) {
	var expenses []expensedomain.Expense
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Service) activeRecurring(ctx context.Context, userID snowflake.ID) ([]paymentdomain.RecurringPayment, error) {
	var recurring []paymentdomain.RecurringPayment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, paymentdomain.PaymentStatusActive).
		Find(&recurring).Error
	if err != nil {
		return nil, err
	}
	return recurring, nil
}

// periodLabel renders the human label stamped into generated report names.
func periodLabel(period string, now time.Time) (string, error) {
	switch period {
	case financedomain.PeriodCurrentMonth:
		return now.Format("January 2006"), nil
	case financedomain.PeriodPreviousMonth:
		previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return previous.Format("January 2006"), nil
	case financedomain.PeriodCurrentQuarter:
		quarter := (int(now.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, now.Year()), nil
	case financedomain.PeriodYearToDate:
		return fmt.Sprintf("Year to Date %d", now.Year()), nil
	default:
		return "", financedomain.ErrInvalidPeriod
	}
}

func categoryKey(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "Uncategorized"
	}
	return category
}

func sortedBreakdown(buckets map[string]decimal.Decimal) []financedomain.CategoryAmount {
	breakdown := make([]financedomain.CategoryAmount, 0, len(buckets))
	for category, amount := range buckets {
		breakdown = append(breakdown, financedomain.CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount.Equal(breakdown[j].Amount) {
			return breakdown[i].Category < breakdown[j].Category
		}
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})
	return breakdown
}

// clientName resolves a client display name for the owner's summary. Names
// of clients belonging to other owners never leak through here.
func clientName(ctx context.Context, db *gorm.DB, userID, clientID snowflake.ID) string {
	var name string
	if err := db.WithContext(ctx).
		Table("clients").
		Select("name").
		Where("id = ? AND user_id = ?", clientID, userID).
		Scan(&name).Error; err != nil || name == "" {
		return "Unknown Client"
	}
	return name
}
