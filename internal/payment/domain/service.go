package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRecurringPaymentRequest struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Frequency   string `json:"frequency"`
	NextDate    string `json:"nextDate"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type UpdateRecurringPaymentRequest struct {
	Name        *string `json:"name"`
	Amount      *string `json:"amount"`
	Frequency   *string `json:"frequency"`
	NextDate    *string `json:"nextDate"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type CreateClientPaymentRequest struct {
	ClientID    string `json:"clientId"`
	Amount      string `json:"amount"`
	Frequency   string `json:"frequency"`
	NextDueDate string `json:"nextDueDate"`
	Status      string `json:"status"`
	Description string `json:"description"`
	AutoRenew   bool   `json:"autoRenew"`
}

type UpdateClientPaymentRequest struct {
	ClientID    *string `json:"clientId"`
	Amount      *string `json:"amount"`
	Frequency   *string `json:"frequency"`
	NextDueDate *string `json:"nextDueDate"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
	AutoRenew   *bool   `json:"autoRenew"`
}

type RecordPaymentRequest struct {
	PaymentID string `json:"paymentId"`
	Amount    string `json:"amount"`
	Notes     string `json:"notes"`
}

// ClientPaymentView joins the owning client's name and email for lists.
type ClientPaymentView struct {
	ClientPayment
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
}

// Service owns CRUD for both payment kinds plus manual payment recording.
// All operations are scoped to the calling user.
type Service interface {
	CreateRecurring(ctx context.Context, userID snowflake.ID, req CreateRecurringPaymentRequest) (RecurringPayment, error)
	ListRecurring(ctx context.Context, userID snowflake.ID) ([]RecurringPayment, error)
	GetRecurring(ctx context.Context, userID, id snowflake.ID) (RecurringPayment, error)
	UpdateRecurring(ctx context.Context, userID, id snowflake.ID, req UpdateRecurringPaymentRequest) (RecurringPayment, error)
	DeleteRecurring(ctx context.Context, userID, id snowflake.ID) error

	CreateClientPayment(ctx context.Context, userID snowflake.ID, req CreateClientPaymentRequest) (ClientPayment, error)
	ListClientPayments(ctx context.Context, userID snowflake.ID) ([]ClientPaymentView, error)
	GetClientPayment(ctx context.Context, userID, id snowflake.ID) (ClientPayment, error)
	UpdateClientPayment(ctx context.Context, userID, id snowflake.ID, req UpdateClientPaymentRequest) (ClientPayment, error)
	DeleteClientPayment(ctx context.Context, userID, id snowflake.ID) error

	// RecordPayment appends an immutable history entry and stamps the
	// last payment date. It never rewrites existing entries.
	RecordPayment(ctx context.Context, userID snowflake.ID, req RecordPaymentRequest) (ClientPayment, error)
}

var (
	ErrInvalidName      = errors.New("invalid_payment_name")
	ErrInvalidAmount    = errors.New("invalid_payment_amount")
	ErrInvalidFrequency = errors.New("invalid_payment_frequency")
	ErrInvalidDueDate   = errors.New("invalid_payment_due_date")
	ErrInvalidStatus    = errors.New("invalid_payment_status")
	ErrInvalidClient    = errors.New("invalid_client_id")
	ErrPaymentNotFound  = errors.New("payment_not_found")
)
