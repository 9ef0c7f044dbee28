package repository

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// CreateBatch writes all notifications in one statement; either every row
	// is stored or none is.
	CreateBatch(ctx context.Context, ns []*entity.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
