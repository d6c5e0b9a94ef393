package domain

import (
	"context"
	"errors"
)

type SignUpRequest struct {
	Email    string
	Password string
	FullName string
}

type SignInRequest struct {
	Email    string
	Password string
}

// SignInResponse carries the session token to set as a cookie.
type SignInResponse struct {
	User  User
	Token string
}

// Service owns account registration and session lifecycle.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (SignInResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (SignInResponse, error)
	SignOut(ctx context.Context, token string) error
	// Resolve maps a session token to its user. Expired or unknown tokens
	// return ErrUnauthorized.
	Resolve(ctx context.Context, token string) (User, error)
}

var (
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
