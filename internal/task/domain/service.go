package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	DueDate     *time.Time `json:"dueDate"`
}

// ListTasksRequest filters are conjunctive; empty values are ignored.
type ListTasksRequest struct {
	Status   string
	Priority string
	Category string
	SortBy   string
}

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateTaskRequest) (Task, error)
	List(ctx context.Context, userID snowflake.ID, req ListTasksRequest) ([]Task, error)
	GetByID(ctx context.Context, userID, id snowflake.ID) (Task, error)
	Update(ctx context.Context, userID, id snowflake.ID, req UpdateTaskRequest) (Task, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
}

var (
	ErrInvalidTitle    = errors.New("invalid_task_title")
	ErrInvalidStatus   = errors.New("invalid_task_status")
	ErrInvalidPriority = errors.New("invalid_task_priority")
	ErrTaskNotFound    = errors.New("task_not_found")
)
