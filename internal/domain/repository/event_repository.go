package repository

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
}
