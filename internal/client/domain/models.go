package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ClientStatus tracks whether a client relationship is live.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "Active"
	ClientStatusInactive ClientStatus = "Inactive"
	ClientStatusLead     ClientStatus = "Lead"
)

// Client is a customer of the account owner.
type Client struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"not null;index" json:"-"`
	Name        string       `gorm:"not null" json:"name"`
	ContactName string       `json:"contactName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Address     string       `json:"address"`
	Status      ClientStatus `gorm:"type:text;not null;default:'Active'" json:"status"`
	Notes       string       `json:"notes"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }
