package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	repo "github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
	"github.com/oksasatya/blood-donation-service/pkg/helpers"
)

type AdminService struct {
	Tx            repo.TxManager
	Users         repo.UserRepository
	Donors        repo.DonorRepository
	Applications  repo.ApplicationRepository
	Notifications repo.NotificationRepository
	Index         repo.DonorIndex // nil disables search cleanup
	Logger        *logrus.Logger
}

func NewAdminService(tx repo.TxManager, users repo.UserRepository, donors repo.DonorRepository, apps repo.ApplicationRepository, notifications repo.NotificationRepository, index repo.DonorIndex, logger *logrus.Logger) *AdminService {
	return &AdminService{
		Tx:            tx,
		Users:         users,
		Donors:        donors,
		Applications:  apps,
		Notifications: notifications,
		Index:         index,
		Logger:        logger,
	}
}

// DeleteUser removes a user and everything that references it in one
// transaction. Any failure rolls the whole cascade back.
func (s *AdminService) DeleteUser(ctx context.Context, actor entity.Actor, userID int64) error {
	if !actor.IsAdmin() {
		return apperror.Forbidden("admin only")
	}
	if actor.UserID == userID {
		return apperror.SelfTarget("you cannot delete your own account")
	}

	var donorIDs []int64
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		if _, err := s.Notifications.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		ids, err := s.Donors.DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := s.Applications.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := s.Users.Delete(ctx, userID); err != nil {
			return err
		}
		donorIDs = ids
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range donorIDs {
		if s.Index == nil {
			break
		}
		if err := s.Index.Remove(ctx, id); err != nil {
			helpers.LogWarn(s.Logger, "es delete failed", err, logrus.Fields{"donor_id": id})
		}
	}
	helpers.LogInfo(s.Logger, "user deleted", logrus.Fields{"user_id": userID, "admin_id": actor.UserID, "donors": len(donorIDs)})
	return nil
}
