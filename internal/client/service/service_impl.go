package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/tigfin/tigfin/internal/client/domain"
	"github.com/tigfin/tigfin/internal/clock"
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

func NewService(p ServiceParam) clientdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req clientdomain.CreateClientRequest) (clientdomain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return clientdomain.Client{}, clientdomain.ErrInvalidName
	}
	status, err := normalizeStatus(req.Status)
	if err != nil {
		return clientdomain.Client{}, err
	}

	now := s.clock.Now()
	record := clientdomain.Client{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Name:        name,
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		Status:      status,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return clientdomain.Client{}, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID, req clientdomain.ListClientsRequest) ([]clientdomain.Client, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status := strings.TrimSpace(req.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR contact_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var records []clientdomain.Client
	if err := query.Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id snowflake.ID) (clientdomain.Client, error) {
	var record clientdomain.Client
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return clientdomain.Client{}, clientdomain.ErrClientNotFound
		}
		return clientdomain.Client{}, err
	}
	return record, nil
}

func (s *Service) Update(ctx context.Context, userID, id snowflake.ID, req clientdomain.UpdateClientRequest) (clientdomain.Client, error) {
	record, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return clientdomain.Client{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return clientdomain.Client{}, clientdomain.ErrInvalidName
		}
		record.Name = name
	}
	if req.ContactName != nil {
		record.ContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.Email != nil {
		record.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		record.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		record.Address = strings.TrimSpace(*req.Address)
	}
	if req.Status != nil {
		status, err := normalizeStatus(*req.Status)
		if err != nil {
			return clientdomain.Client{}, err
		}
		record.Status = status
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.UpdatedAt = s.clock.Now()

	result := s.db.WithContext(ctx).
		Model(&clientdomain.Client{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("name", "contact_name", "email", "phone", "address", "status", "notes", "updated_at").
		Updates(record)
	if result.Error != nil {
		return clientdomain.Client{}, result.Error
	}
	if result.RowsAffected == 0 {
		return clientdomain.Client{}, clientdomain.ErrClientNotFound
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&clientdomain.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return clientdomain.ErrClientNotFound
	}
	return nil
}

func normalizeStatus(value string) (clientdomain.ClientStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return clientdomain.ClientStatusActive, nil
	}
	switch clientdomain.ClientStatus(value) {
	case clientdomain.ClientStatusActive, clientdomain.ClientStatusInactive, clientdomain.ClientStatusLead:
		return clientdomain.ClientStatus(value), nil
	default:
		return "", clientdomain.ErrInvalidStatus
	}
}
