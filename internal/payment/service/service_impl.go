package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	clientdomain "github.com/tigfin/tigfin/internal/client/domain"
	"github.com/tigfin/tigfin/internal/clock"
	"github.com/tigfin/tigfin/internal/events"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
	"github.com/tigfin/tigfin/internal/schedule"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
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

func NewService(p ServiceParam) paymentdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("payment.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		outbox: p.Outbox,
	}
}

func (s *Service) CreateRecurring(ctx context.Context, userID snowflake.ID, req paymentdomain.CreateRecurringPaymentRequest) (paymentdomain.RecurringPayment, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return paymentdomain.RecurringPayment{}, paymentdomain.ErrInvalidName
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return paymentdomain.RecurringPayment{}, err
	}
	frequency, err := parseFrequency(req.Frequency)
	if err != nil {
		return paymentdomain.RecurringPayment{}, err
	}
	nextDate, err := parseDate(req.NextDate)
	if err != nil {
		return paymentdomain.RecurringPayment{}, err
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return paymentdomain.RecurringPayment{}, err
	}

	now := s.clock.Now()
	record := paymentdomain.RecurringPayment{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Name:        name,
		Amount:      amount,
		Frequency:   frequency,
		NextDate:    nextDate,
		Category:    strings.TrimSpace(req.Category),
		Description: req.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return paymentdomain.RecurringPayment{}, err
	}
	return record, nil
}

func (s *Service) ListRecurring(ctx context.Context, userID snowflake.ID) ([]paymentdomain.RecurringPayment, error) {
	var records []paymentdomain.RecurringPayment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("next_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) GetRecurring(ctx context.Context, userID, id snowflake.ID) (paymentdomain.RecurringPayment, error) {
	var record paymentdomain.RecurringPayment
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return paymentdomain.RecurringPayment{}, paymentdomain.ErrPaymentNotFound
		}
		return paymentdomain.RecurringPayment{}, err
	}
	return record, nil
}

func (s *Service) UpdateRecurring(ctx context.Context, userID, id snowflake.ID, req paymentdomain.UpdateRecurringPaymentRequest) (paymentdomain.RecurringPayment, error) {
	record, err := s.GetRecurring(ctx, userID, id)
	if err != nil {
		return paymentdomain.RecurringPayment{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return paymentdomain.RecurringPayment{}, paymentdomain.ErrInvalidName
		}
		record.Name = name
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return paymentdomain.RecurringPayment{}, err
		}
		record.Amount = amount
	}
	if req.Frequency != nil {
		frequency, err := parseFrequency(*req.Frequency)
		if err != nil {
			return paymentdomain.RecurringPayment{}, err
		}
		record.Frequency = frequency
	}
	if req.NextDate != nil {
		nextDate, err := parseDate(*req.NextDate)
		if err != nil {
			return paymentdomain.RecurringPayment{}, err
		}
		record.NextDate = nextDate
	}
	if req.Category != nil {
		record.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Status != nil {
		status, err := normalizeStatus(*req.Status)
		if err != nil {
			return paymentdomain.RecurringPayment{}, err
		}
		record.Status = status
	}
	record.UpdatedAt = s.clock.Now()

	result := s.db.WithContext(ctx).
		Model(&paymentdomain.RecurringPayment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("name", "amount", "frequency", "next_date", "category", "description", "status", "updated_at").
		Updates(record)
	if result.Error != nil {
		return paymentdomain.RecurringPayment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return paymentdomain.RecurringPayment{}, paymentdomain.ErrPaymentNotFound
	}
	return record, nil
}

func (s *Service) DeleteRecurring(ctx context.Context, userID, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&paymentdomain.RecurringPayment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return paymentdomain.ErrPaymentNotFound
	}
	return nil
}

func (s *Service) CreateClientPayment(ctx context.Context, userID snowflake.ID, req paymentdomain.CreateClientPaymentRequest) (paymentdomain.ClientPayment, error) {
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return paymentdomain.ClientPayment{}, paymentdomain.ErrInvalidClient
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return paymentdomain.ClientPayment{}, err
	}
	frequency, err := parseFrequency(req.Frequency)
	if err != nil {
		return paymentdomain.ClientPayment{}, err
	}
	nextDueDate, err := parseDate(req.NextDueDate)
	if err != nil {
		return paymentdomain.ClientPayment{}, err
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return paymentdomain.ClientPayment{}, err
	}

	if err := s.assertClientOwned(ctx, userID, clientID); err != nil {
		return paymentdomain.ClientPayment{}, err
	}

	now := s.clock.Now()
	record := paymentdomain.ClientPayment{
		ID:             s.genID.Generate(),
		UserID:         userID,
		ClientID:       clientID,
		Amount:         amount,
		Frequency:      frequency,
		NextDueDate:    nextDueDate,
		Status:         status,
		Description:    req.Description,
		AutoRenew:      req.AutoRenew,
		PaymentHistory: datatypes.NewJSONType([]paymentdomain.PaymentRecord{}),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return paymentdomain.ClientPayment{}, err
	}
	return record, nil
}

func (s *Service) ListClientPayments(ctx context.Context, userID snowflake.ID) ([]paymentdomain.ClientPaymentView, error) {
	var records []paymentdomain.ClientPayment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("next_due_date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	type clientRow struct {
		ID    snowflake.ID
		Name  string
		Email string
	}
	var clients []clientRow
	if err := s.db.WithContext(ctx).
		Table("clients").
		Select("id", "name", "email").
		Where("user_id = ?", userID).
		Scan(&clients).Error; err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]clientRow, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	views := make([]paymentdomain.ClientPaymentView, 0, len(records))
	for _, record := range records {
		view := paymentdomain.ClientPaymentView{ClientPayment: record}
		if c, ok := byID[record.ClientID]; ok {
			view.ClientName = c.Name
			view.ClientEmail = c.Email
		} else {
			view.ClientName = "Unknown Client"
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) GetClientPayment(ctx context.Context, userID, id snowflake.ID) (paymentdomain.ClientPayment, error) {
	var record paymentdomain.ClientPayment
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return paymentdomain.ClientPayment{}, paymentdomain.ErrPaymentNotFound
		}
		return paymentdomain.ClientPayment{}, err
	}
	return record, nil
}

func (s *Service) UpdateClientPayment(ctx context.Context, userID, id snowflake.ID, req paymentdomain.UpdateClientPaymentRequest) (paymentdomain.ClientPayment, error) {
	record, err := s.GetClientPayment(ctx, userID, id)
	if err != nil {
		return paymentdomain.ClientPayment{}, err
	}

	if req.ClientID != nil {
		clientID, err := parseID(*req.ClientID)
		if err != nil {
			return paymentdomain.ClientPayment{}, paymentdomain.ErrInvalidClient
		}
		if err := s.assertClientOwned(ctx, userID, clientID); err != nil {
			return paymentdomain.ClientPayment{}, err
		}
		record.ClientID = clientID
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return paymentdomain.ClientPayment{}, err
		}
		record.Amount = amount
	}
	if req.Frequency != nil {
		frequency, err := parseFrequency(*req.Frequency)
		if err != nil {
			return paymentdomain.ClientPayment{}, err
		}
		record.Frequency = frequency
	}
	if req.NextDueDate != nil {
		nextDueDate, err := parseDate(*req.NextDueDate)
		if err != nil {
			return paymentdomain.ClientPayment{}, err
		}
		record.NextDueDate = nextDueDate
	}
	if req.Status != nil {
		status, err := normalizeStatus(*req.Status)
		if err != nil {
			return paymentdomain.ClientPayment{}, err
		}
		record.Status = status
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.AutoRenew != nil {
		record.AutoRenew = *req.AutoRenew
	}
	record.UpdatedAt = s.clock.Now()

	result := s.db.WithContext(ctx).
		Model(&paymentdomain.ClientPayment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("client_id", "amount", "frequency", "next_due_date", "status", "description", "auto_renew", "updated_at").
		Updates(record)
	if result.Error != nil {
		return paymentdomain.ClientPayment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return paymentdomain.ClientPayment{}, paymentdomain.ErrPaymentNotFound
	}
	return record, nil
}

// assertClientOwned verifies the client exists and belongs to the caller.
func (s *Service) assertClientOwned(ctx context.Context, userID, clientID snowflake.ID) error {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&clientdomain.Client{}).
		Where("id = ? AND user_id = ?", clientID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return paymentdomain.ErrInvalidClient
	}
	return nil
}

func (s *Service) DeleteClientPayment(ctx context.Context, userID, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&paymentdomain.ClientPayment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return paymentdomain.ErrPaymentNotFound
	}
	return nil
}

func (s *Service) RecordPayment(ctx context.Context, userID snowflake.ID, req paymentdomain.RecordPaymentRequest) (paymentdomain.ClientPayment, error) {
	paymentID, err := parseID(req.PaymentID)
	if err != nil {
		return paymentdomain.ClientPayment{}, paymentdomain.ErrPaymentNotFound
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return paymentdomain.ClientPayment{}, err
	}

	now := s.clock.Now()
	var updated paymentdomain.ClientPayment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record paymentdomain.ClientPayment
		if err := tx.Where("id = ? AND user_id = ?", paymentID, userID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return paymentdomain.ErrPaymentNotFound
			}
			return err
		}

		history := append(record.History(), paymentdomain.PaymentRecord{
			Date:   now,
			Amount: amount,
			Notes:  req.Notes,
		})
		record.PaymentHistory = datatypes.NewJSONType(history)
		record.LastPaymentDate = &now
		record.UpdatedAt = now

		if err := tx.Model(&paymentdomain.ClientPayment{}).
			Where("id = ? AND user_id = ?", paymentID, userID).
			Select("payment_history", "last_payment_date", "updated_at").
			Updates(record).Error; err != nil {
			return err
		}

		if s.outbox != nil {
			payload := events.PaymentRecordedPayload{
				PaymentID: record.ID.String(),
				Amount:    amount.String(),
			}
			if err := s.outbox.PublishTx(ctx, tx, events.Event{
				UserID:  userID,
				Type:    events.EventPaymentRecorded,
				Payload: payload.ToMap(),
			}); err != nil {
				s.log.Warn("publish payment recorded event",
					zap.String("payment_id", record.ID.String()), zap.Error(err))
			}
		}

		updated = record
		return nil
	})
	if err != nil {
		return paymentdomain.ClientPayment{}, err
	}
	return updated, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, errors.New("invalid_id")
	}
	return id, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || amount.Sign() <= 0 {
		return decimal.Decimal{}, paymentdomain.ErrInvalidAmount
	}
	return amount, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, paymentdomain.ErrInvalidDueDate
	}
	return date, nil
}

// parseFrequency accepts only the closed cadence set on writes. Reads
// tolerate legacy values; the calendar falls back to Monthly for those.
func parseFrequency(value string) (schedule.Frequency, error) {
	frequency := schedule.Frequency(strings.TrimSpace(value))
	if !schedule.Known(frequency) {
		return "", paymentdomain.ErrInvalidFrequency
	}
	return frequency, nil
}

func normalizeStatus(value string) (paymentdomain.PaymentStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return paymentdomain.PaymentStatusActive, nil
	}
	switch paymentdomain.PaymentStatus(value) {
	case paymentdomain.PaymentStatusActive, paymentdomain.PaymentStatusPending, paymentdomain.PaymentStatusInactive:
		return paymentdomain.PaymentStatus(value), nil
	default:
		return "", paymentdomain.ErrInvalidStatus
	}
}
