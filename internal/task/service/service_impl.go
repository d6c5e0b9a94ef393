package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tigfin/tigfin/internal/clock"
	taskdomain "github.com/tigfin/tigfin/internal/task/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sortColumns whitelists the sortBy query values.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"status":     "status",
	"title":      "title",
}

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

func NewService(p ServiceParam) taskdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("task.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req taskdomain.CreateTaskRequest) (taskdomain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return taskdomain.Task{}, taskdomain.ErrInvalidTitle
	}
	status, err := normalizeTaskStatus(req.Status)
	if err != nil {
		return taskdomain.Task{}, err
	}
	priority, err := normalizeTaskPriority(req.Priority)
	if err != nil {
		return taskdomain.Task{}, err
	}

	now := s.clock.Now()
	record := taskdomain.Task{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		Category:    strings.TrimSpace(req.Category),
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return taskdomain.Task{}, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID, req taskdomain.ListTasksRequest) ([]taskdomain.Task, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status := strings.TrimSpace(req.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := strings.TrimSpace(req.Priority); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	column, ok := sortColumns[strings.TrimSpace(req.SortBy)]
	if !ok {
		column = "created_at"
	}

	var records []taskdomain.Task
	if err := query.Order(column + " DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id snowflake.ID) (taskdomain.Task, error) {
	var record taskdomain.Task
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return taskdomain.Task{}, taskdomain.ErrTaskNotFound
		}
		return taskdomain.Task{}, err
	}
	return record, nil
}

func (s *Service) Update(ctx context.Context, userID, id snowflake.ID, req taskdomain.UpdateTaskRequest) (taskdomain.Task, error) {
	record, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return taskdomain.Task{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return taskdomain.Task{}, taskdomain.ErrInvalidTitle
		}
		record.Title = title
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Status != nil {
		status, err := normalizeTaskStatus(*req.Status)
		if err != nil {
			return taskdomain.Task{}, err
		}
		record.Status = status
	}
	if req.Priority != nil {
		priority, err := normalizeTaskPriority(*req.Priority)
		if err != nil {
			return taskdomain.Task{}, err
		}
		record.Priority = priority
	}
	if req.Category != nil {
		record.Category = strings.TrimSpace(*req.Category)
	}
	if req.DueDate != nil {
		record.DueDate = req.DueDate
	}
	record.UpdatedAt = s.clock.Now()

	result := s.db.WithContext(ctx).
		Model(&taskdomain.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select("title", "description", "status", "priority", "category", "due_date", "updated_at").
		Updates(record)
	if result.Error != nil {
		return taskdomain.Task{}, result.Error
	}
	if result.RowsAffected == 0 {
		return taskdomain.Task{}, taskdomain.ErrTaskNotFound
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&taskdomain.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskdomain.ErrTaskNotFound
	}
	return nil
}

func normalizeTaskStatus(value string) (taskdomain.TaskStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return taskdomain.TaskStatusTodo, nil
	}
	switch taskdomain.TaskStatus(value) {
	case taskdomain.TaskStatusTodo, taskdomain.TaskStatusInProgress, taskdomain.TaskStatusCompleted:
		return taskdomain.TaskStatus(value), nil
	default:
		return "", taskdomain.ErrInvalidStatus
	}
}

func normalizeTaskPriority(value string) (taskdomain.TaskPriority, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return taskdomain.TaskPriorityMedium, nil
	}
	switch taskdomain.TaskPriority(value) {
	case taskdomain.TaskPriorityLow, taskdomain.TaskPriorityMedium, taskdomain.TaskPriorityHigh:
		return taskdomain.TaskPriority(value), nil
	default:
		return "", taskdomain.ErrInvalidPriority
	}
}
