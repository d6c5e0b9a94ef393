package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/tigfin/tigfin/internal/clock"
	expensedomain "github.com/tigfin/tigfin/internal/expense/domain"
	"github.com/tigfin/tigfin/internal/schedule"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p ServiceParam) expensedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("expense.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req expensedomain.CreateExpenseRequest) (expensedomain.Expense, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return expensedomain.Expense{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return expensedomain.Expense{}, err
	}
	status, err := normalizeExpenseStatus(req.Status)
	if err != nil {
		return expensedomain.Expense{}, err
	}

	now := s.clock.Now()
	record := expensedomain.Expense{
		ID:            s.genID.Generate(),
		UserID:        userID,
		Amount:        amount,
		Category:      strings.TrimSpace(req.Category),
		Date:          date,
		Description:   req.Description,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        status,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return expensedomain.Expense{}, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID, req expensedomain.ListExpensesRequest) ([]expensedomain.Expense, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if category := strings.TrimSpace(req.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if req.From != nil {
		query = query.Where("date >= ?", schedule.DateOnly(*req.From))
	}
	if req.To != nil {
		query = query.Where("date < ?", schedule.DateOnly(*req.To))
	}

	var records []expensedomain.Expense
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id snowflake.ID) (expensedomain.Expense, error) {
	var record expensedomain.Expense
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return expensedomain.Expense{}, expensedomain.ErrExpenseNotFound
		}
		return expensedomain.Expense{}, err
	}
	return record, nil
}

func (s *Service) Update(ctx context.Context, userID, id snowflake.ID, req expensedomain.UpdateExpenseRequest) (expensedomain.Expense, error) {
	record, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return expensedomain.Expense{}, err
	}

	// Paid expenses are settled records; only notes may change.
	if record.Status == expensedomain.ExpenseStatusPaid {
		if req.Amount != nil || req.Date != nil || req.Status != nil {
			return expensedomain.Expense{}, expensedomain.ErrExpensePaid
		}
	}

	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return expensedomain.Expense{}, err
		}
		record.Amount = amount
	}
	if req.Category != nil {
		record.Category = strings.TrimSpace(*req.Category)
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return expensedomain.Expense{}, err
		}
		record.Date = date
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.PaymentMethod != nil {
		record.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.Status != nil {
		status, err := normalizeExpenseStatus(*req.Status)
		if err != nil {
			return expensedomain.Expense{}, err
		}
		record.Status = status
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.UpdatedAt = s.clock.Now()

	result := s.db.WithContext(ctx).
		Model(&expensedomain.Expense{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("amount", "category", "date", "description", "payment_method", "status", "notes", "updated_at").
		Updates(record)
	if result.Error != nil {
		return expensedomain.Expense{}, result.Error
	}
	if result.RowsAffected == 0 {
		return expensedomain.Expense{}, expensedomain.ErrExpenseNotFound
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&expensedomain.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return expensedomain.ErrExpenseNotFound
	}
	return nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || amount.Sign() <= 0 {
		return decimal.Decimal{}, expensedomain.ErrInvalidAmount
	}
	return amount, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, expensedomain.ErrInvalidDate
	}
	return date, nil
}

func normalizeExpenseStatus(value string) (expensedomain.ExpenseStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return expensedomain.ExpenseStatusPending, nil
	}
	switch expensedomain.ExpenseStatus(value) {
	case expensedomain.ExpenseStatusPending, expensedomain.ExpenseStatusPaid:
		return expensedomain.ExpenseStatus(value), nil
	default:
		return "", expensedomain.ErrInvalidStatus
	}
}
