package repository

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

type DonorRepository interface {
	Create(ctx context.Context, d *entity.Donor) error
	GetByID(ctx context.Context, id int64) (*entity.DonorView, error)
	// LockOwner takes the user's row lock for the rest of the transaction so
	// concurrent registrations for the same user serialize on their counts.
	LockOwner(ctx context.Context, userID int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountByUserAndHospital(ctx context.Context, userID int64, hospital string) (int, error)
	UpdateStatus(ctx context.Context, id int64, status entity.DonorStatus) (*entity.DonorView, error)
	ListByStatus(ctx context.Context, status entity.DonorStatus) ([]entity.DonorView, error)
	ListAll(ctx context.Context) ([]entity.DonorView, error)
	FindLatestByUser(ctx context.Context, userID int64) (*entity.DonorView, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) ([]int64, error)
}
