package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateClientRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// UpdateClientRequest uses pointers so absent fields are left untouched.
type UpdateClientRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contactName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

type ListClientsRequest struct {
	Status string
	Search string
}

// Service owns client CRUD, scoped to the calling user.
type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateClientRequest) (Client, error)
	List(ctx context.Context, userID snowflake.ID, req ListClientsRequest) ([]Client, error)
	GetByID(ctx context.Context, userID, id snowflake.ID) (Client, error)
	Update(ctx context.Context, userID, id snowflake.ID, req UpdateClientRequest) (Client, error)
	Delete(ctx context.Context, userID, id snowflake.ID) error
}

var (
	ErrInvalidName    = errors.New("invalid_client_name")
	ErrInvalidStatus  = errors.New("invalid_client_status")
	ErrClientNotFound = errors.New("client_not_found")
)
