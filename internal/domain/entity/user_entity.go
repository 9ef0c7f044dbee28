package entity

import (
	"time"
)

// User is owned by the identity service. This backend reads it for matching and
// display, and mutates only the donation ledger columns.
type User struct {
	ID             int64
	Name           string
	Email          string
	Phone          string
	Location       string
	BloodGroup     BloodGroup
	Role           Role
	TotalDonations int
	LastDonation   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Recipient is the slice of a user needed to address a notification.
type Recipient struct {
	UserID int64
	Name   string
	Email  string
}

// LedgerSnapshot is a user's donation record as stored on the users row.
type LedgerSnapshot struct {
	UserID         int64      `json:"user_id"`
	TotalDonations int        `json:"total_donations"`
	LastDonation   *time.Time `json:"last_donation,omitempty"`
}
