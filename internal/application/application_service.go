package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	repo "github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
	"github.com/oksasatya/blood-donation-service/pkg/metrics"
)

// ApplicationService runs the event application workflow. Approving a pending
// application records one donation on the applicant's ledger in the same
// transaction.
type ApplicationService struct {
	Tx           repo.TxManager
	Applications repo.ApplicationRepository
	Events       repo.EventRepository
	Ledger       repo.LedgerRepository
	Logger       *logrus.Logger
	Metrics      *metrics.Metrics
}

func NewApplicationService(tx repo.TxManager, apps repo.ApplicationRepository, events repo.EventRepository, ledger repo.LedgerRepository, logger *logrus.Logger, m *metrics.Metrics) *ApplicationService {
	return &ApplicationService{
		Tx:           tx,
		Applications: apps,
		Events:       events,
		Ledger:       ledger,
		Logger:       logger,
		Metrics:      m,
	}
}

// Apply creates a pending application for (userID, eventID).
func (s *ApplicationService) Apply(ctx context.Context, userID, eventID int64, applicationType string) (*entity.Application, error) {
	typ, ok := entity.ParseApplicationType(strings.ToLower(strings.TrimSpace(applicationType)))
	if !ok {
		return nil, apperror.WithDetails(apperror.KindValidation, "invalid application type",
			map[string]string{"application_type": "must be one of: donor, volunteer"})
	}
	if _, err := s.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	a := &entity.Application{
		UserID:  userID,
		EventID: eventID,
		Type:    typ,
		Status:  entity.ApplicationPending,
	}
	if err := s.Applications.Create(ctx, a); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return nil, apperror.Wrap(err, apperror.KindConflict, "already applied to this event")
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"application_id": a.ID, "user_id": userID, "event_id": eventID}).Info("application created")
	}
	return a, nil
}

// UpdateStatus moves an application to status. Only pending -> approved and
// pending -> rejected are applied; re-asserting the current status returns the
// application unchanged.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor entity.Actor, applicationID int64, status string) (*entity.Application, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins can change application status")
	}
	next, ok := entity.ParseApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return nil, apperror.WithDetails(apperror.KindValidation, "invalid application status",
			map[string]string{"status": "must be one of: pending, approved, rejected"})
	}

	var (
		result  *entity.Application
		applied bool
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.Applications.GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if current.Status == next {
			result = current
			return nil
		}
		if !current.Status.CanTransition(next) {
			return apperror.Newf(apperror.KindConflict, "cannot change application from %s to %s", current.Status, next)
		}

		updated, ok, err := s.Applications.TransitionStatus(ctx, applicationID, current.Status, next)
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race with another update; report what won.
			latest, err := s.Applications.GetByID(ctx, applicationID)
			if err != nil {
				return err
			}
			if latest.Status == next {
				result = latest
				return nil
			}
			return apperror.Newf(apperror.KindConflict, "cannot change application from %s to %s", latest.Status, next)
		}
		if next == entity.ApplicationApproved {
			if err := s.Ledger.RecordDonation(ctx, updated.UserID); err != nil {
				return err
			}
		}
		result, applied = updated, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied {
		s.Metrics.IncTransition(string(next))
		if next == entity.ApplicationApproved {
			s.Metrics.IncDonation()
		}
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{
				"application_id": applicationID,
				"user_id":        result.UserID,
				"status":         next,
				"admin_id":       actor.UserID,
			}).Info("application status changed")
		}
	}
	return result, nil
}

// GetHistory returns the user's applications with event details, newest first.
func (s *ApplicationService) GetHistory(ctx context.Context, userID int64) ([]entity.ApplicationHistoryItem, error) {
	items, err := s.Applications.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.ApplicationHistoryItem{}
	}
	return items, nil
}

// GetAll is the admin listing of every application, newest first.
func (s *ApplicationService) GetAll(ctx context.Context, actor entity.Actor) ([]entity.ApplicationAdminView, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("admin only")
	}
	views, err := s.Applications.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []entity.ApplicationAdminView{}
	}
	return views, nil
}

func (s *ApplicationService) Get(ctx context.Context, applicationID int64) (*entity.Application, error) {
	return s.Applications.GetByID(ctx, applicationID)
}
