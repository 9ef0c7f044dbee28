package repository

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

// DonorIndex is the donor search index. It is a secondary copy of
// donor_registered and may lag behind it.
type DonorIndex interface {
	Index(ctx context.Context, d *entity.DonorView) error
	Remove(ctx context.Context, donorID int64) error
	Search(ctx context.Context, q entity.DonorSearchQuery) ([]entity.DonorView, error)
}
