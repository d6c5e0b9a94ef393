package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateExpenseRequest struct {
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	PaymentMethod string `json:"paymentMethod"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

type UpdateExpenseRequest struct {
	Amount        *string `json:"amount"`
	Category      *string `json:"category"`
	Date          *string `json:"date"`
	Description   *string `json:"description"`
	PaymentMethod *string `json:"paymentMethod"`
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
}

type ListExpensesRequest struct {
	Category string
	Status   string
	From     *time.Time
	To       *time.Time
}

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateExpenseRequest) (Expense, error)
	List(ctx context.Context, userID snowflake.ID, req ListExpensesRequest) ([]Expense, error)
	GetByID(ctx context.Context, userID, id snowflake.ID) (Expense, error)
	Update(ctx context.Context, userID, id snowflake.ID, req UpdateExpenseRequest) (Expense, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
}

var (
	ErrInvalidAmount   = errors.New("invalid_expense_amount")
	ErrInvalidDate     = errors.New("invalid_expense_date")
	ErrInvalidStatus   = errors.New("invalid_expense_status")
	ErrExpenseNotFound = errors.New("expense_not_found")
	// ErrExpensePaid guards paid expenses against edits other than notes.
	ErrExpensePaid = errors.New("expense_already_paid")
)
