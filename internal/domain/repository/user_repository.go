package repository

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

// UserRepository is the read side of the identity service's users table.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	ListByBloodGroup(ctx context.Context, bg entity.BloodGroup) ([]entity.Recipient, error)
	Delete(ctx context.Context, id int64) error
}

// LedgerRepository owns total_donations and last_donation on users.
type LedgerRepository interface {
	// RecordDonation increments the counter by one and stamps today's date in a
	// single statement.
	RecordDonation(ctx context.Context, userID int64) error
	Snapshot(ctx context.Context, userID int64) (*entity.LedgerSnapshot, error)
}
