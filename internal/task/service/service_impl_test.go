package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tigfin/tigfin/internal/clock"
	taskdomain "github.com/tigfin/tigfin/internal/task/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCreateTaskDefaults(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.Create(context.Background(), 10, taskdomain.CreateTaskRequest{
		Title: "  Send invoice  ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Title != "Send invoice" {
		t.Fatalf("title = %q", task.Title)
	}
	if task.Status != taskdomain.TaskStatusTodo {
		t.Fatalf("status = %q, want todo", task.Status)
	}
	if task.Priority != taskdomain.TaskPriorityMedium {
		t.Fatalf("priority = %q, want medium", task.Priority)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Create(context.Background(), 10, taskdomain.CreateTaskRequest{Title: "   "}); !errors.Is(err, taskdomain.ErrInvalidTitle) {
		t.Fatalf("blank title: %v", err)
	}
	if _, err := svc.Create(context.Background(), 10, taskdomain.CreateTaskRequest{Title: "x", Status: "archived"}); !errors.Is(err, taskdomain.ErrInvalidStatus) {
		t.Fatalf("bad status: %v", err)
	}
	if _, err := svc.Create(context.Background(), 10, taskdomain.CreateTaskRequest{Title: "x", Priority: "urgent"}); !errors.Is(err, taskdomain.ErrInvalidPriority) {
		t.Fatalf("bad priority: %v", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, 10, "Pay rent", "todo", "high", "Billing")
	mustCreate(t, svc, 10, "Call client", "in-progress", "low", "Sales")
	mustCreate(t, svc, 10, "File taxes", "todo", "high", "Billing")
	mustCreate(t, svc, 99, "Other owner", "todo", "high", "Billing")

	tasks, err := svc.List(ctx, 10, taskdomain.ListTasksRequest{Status: "todo", Category: "Billing"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("filtered tasks = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Status != taskdomain.TaskStatusTodo || task.Category != "Billing" {
			t.Fatalf("filter leaked: %+v", task)
		}
	}

	all, err := svc.List(ctx, 10, taskdomain.ListTasksRequest{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("owner tasks = %d, want 3", len(all))
	}
}

func TestListTasksSortWhitelist(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, 10, "Alpha", "todo", "low", "")
	mustCreate(t, svc, 10, "Zulu", "todo", "high", "")

	byTitle, err := svc.List(ctx, 10, taskdomain.ListTasksRequest{SortBy: "title"})
	if err != nil {
		t.Fatalf("list by title: %v", err)
	}
	if byTitle[0].Title != "Zulu" {
		t.Fatalf("title sort desc: first = %q", byTitle[0].Title)
	}

	// Unknown sort columns fall back to created_at instead of reaching SQL.
	if _, err := svc.List(ctx, 10, taskdomain.ListTasksRequest{SortBy: "title; DROP TABLE tasks"}); err != nil {
		t.Fatalf("list with hostile sortBy: %v", err)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, 10, "Pay rent", "todo", "high", "Billing")

	status := "completed"
	updated, err := svc.Update(ctx, 10, task.ID, taskdomain.UpdateTaskRequest{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != taskdomain.TaskStatusCompleted {
		t.Fatalf("status = %q", updated.Status)
	}
	if updated.Title != "Pay rent" || updated.Priority != taskdomain.TaskPriorityHigh {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestTaskOwnerScoping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task := mustCreate(t, svc, 10, "Pay rent", "todo", "high", "")

	if _, err := svc.GetByID(ctx, 99, task.ID); !errors.Is(err, taskdomain.ErrTaskNotFound) {
		t.Fatalf("cross-owner get: %v", err)
	}
	if err := svc.Delete(ctx, 99, task.ID); !errors.Is(err, taskdomain.ErrTaskNotFound) {
		t.Fatalf("cross-owner delete: %v", err)
	}
	if err := svc.Delete(ctx, 10, task.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func mustCreate(t *testing.T, svc taskdomain.Service, userID snowflake.ID, title, status, priority, category string) taskdomain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), userID, taskdomain.CreateTaskRequest{
		Title:    title,
		Status:   status,
		Priority: priority,
		Category: category,
	})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return task
}

func newTestService(t *testing.T) taskdomain.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS tasks (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			category TEXT,
			due_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create tasks: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed{At: time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)},
	})
}
