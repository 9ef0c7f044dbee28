package repository

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *entity.Application) error
	GetByID(ctx context.Context, id int64) (*entity.Application, error)
	// TransitionStatus moves an application from `from` to `to` only if it is
	// currently in `from`. applied is false when no row matched.
	TransitionStatus(ctx context.Context, id int64, from, to entity.ApplicationStatus) (a *entity.Application, applied bool, err error)
	ListByUser(ctx context.Context, userID int64) ([]entity.ApplicationHistoryItem, error)
	ListAll(ctx context.Context) ([]entity.ApplicationAdminView, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
