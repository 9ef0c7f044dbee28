package application

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	repo "github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
	"github.com/oksasatya/blood-donation-service/pkg/helpers"
	"github.com/oksasatya/blood-donation-service/pkg/metrics"
	"github.com/oksasatya/blood-donation-service/pkg/validation"
)

// RegistrationPolicy limits how many donor registrations one user may hold.
type RegistrationPolicy string

const (
	PolicySingle      RegistrationPolicy = "single"
	PolicyPerHospital RegistrationPolicy = "per_hospital"
	PolicyUnlimited   RegistrationPolicy = "unlimited"
)

// ParseRegistrationPolicy falls back to PolicySingle for unknown values.
func ParseRegistrationPolicy(s string) RegistrationPolicy {
	switch p := RegistrationPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicySingle, PolicyPerHospital, PolicyUnlimited:
		return p
	default:
		return PolicySingle
	}
}

type RegisterDonorInput struct {
	Phone      string `json:"phone" validate:"required,donorphone"`
	City       string `json:"city" validate:"notblank"`
	Age        int    `json:"age" validate:"gte=18,lte=100"`
	BloodGroup string `json:"blood_group" validate:"required,bloodgroup"`
	Hospital   string `json:"hospital" validate:"notblank"`
}

func (in *RegisterDonorInput) normalize() {
	in.Phone = strings.TrimSpace(in.Phone)
	in.City = strings.TrimSpace(in.City)
	in.Hospital = strings.TrimSpace(in.Hospital)
	in.BloodGroup = strings.ToUpper(strings.TrimSpace(in.BloodGroup))
}

type DonorService struct {
	Tx       repo.TxManager
	Donors   repo.DonorRepository
	Index    repo.DonorIndex // nil disables search
	Validate *validator.Validate
	Policy   RegistrationPolicy
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics
}

func NewDonorService(tx repo.TxManager, donors repo.DonorRepository, index repo.DonorIndex, policy RegistrationPolicy, logger *logrus.Logger, m *metrics.Metrics) *DonorService {
	return &DonorService{
		Tx:       tx,
		Donors:   donors,
		Index:    index,
		Validate: validation.New(),
		Policy:   policy,
		Logger:   logger,
		Metrics:  m,
	}
}

// Register creates an available donor registration for userID.
func (s *DonorService) Register(ctx context.Context, userID int64, in RegisterDonorInput) (*entity.DonorView, error) {
	in.normalize()
	if err := s.Validate.Struct(in); err != nil {
		return nil, apperror.WithDetails(apperror.KindValidation, "invalid donor registration", validation.ToDetails(err))
	}

	var view *entity.DonorView
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if s.Policy != PolicyUnlimited {
			if err := s.Donors.LockOwner(ctx, userID); err != nil {
				return err
			}
		}
		if err := s.checkPolicy(ctx, userID, in.Hospital); err != nil {
			return err
		}
		d := &entity.Donor{
			UserID:     userID,
			Phone:      in.Phone,
			City:       in.City,
			Age:        in.Age,
			BloodGroup: entity.BloodGroup(in.BloodGroup),
			Hospital:   in.Hospital,
			Status:     entity.DonorStatusAvailable,
		}
		if err := s.Donors.Create(ctx, d); err != nil {
			return err
		}
		v, err := s.Donors.GetByID(ctx, d.ID)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncDonorRegistration()
	s.index(ctx, view)
	return view, nil
}

func (s *DonorService) checkPolicy(ctx context.Context, userID int64, hospital string) error {
	switch s.Policy {
	case PolicyUnlimited:
		return nil
	case PolicyPerHospital:
		n, err := s.Donors.CountByUserAndHospital(ctx, userID, hospital)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("already registered as a donor at this hospital")
		}
		return nil
	case PolicySingle:
		n, err := s.Donors.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("already registered as a donor")
		}
		return nil
	default:
		return apperror.Newf(apperror.KindValidation, "unknown registration policy %q", s.Policy)
	}
}

// SetStatus is the admin availability toggle.
func (s *DonorService) SetStatus(ctx context.Context, actor entity.Actor, donorID int64, status string) (*entity.DonorView, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("only admins can change donor status")
	}
	st, ok := entity.ParseDonorStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return nil, apperror.WithDetails(apperror.KindValidation, "invalid donor status",
			map[string]string{"status": "must be one of: available, unavailable, requested"})
	}
	v, err := s.Donors.UpdateStatus(ctx, donorID, st)
	if err != nil {
		return nil, err
	}
	s.index(ctx, v)
	return v, nil
}

// ListAvailable returns only donors whose status is available, newest first.
func (s *DonorService) ListAvailable(ctx context.Context) ([]entity.DonorView, error) {
	return nonNil(s.Donors.ListByStatus(ctx, entity.DonorStatusAvailable))
}

func (s *DonorService) ListAll(ctx context.Context) ([]entity.DonorView, error) {
	return nonNil(s.Donors.ListAll(ctx))
}

// FindByUser returns the user's most recent registration.
func (s *DonorService) FindByUser(ctx context.Context, userID int64) (*entity.DonorView, error) {
	return s.Donors.FindLatestByUser(ctx, userID)
}

// Delete removes a registration. Owners may delete their own; admins any.
func (s *DonorService) Delete(ctx context.Context, actor entity.Actor, donorID int64) error {
	v, err := s.Donors.GetByID(ctx, donorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && v.UserID != actor.UserID {
		return apperror.Forbidden("cannot delete another user's donor registration")
	}
	if err := s.Donors.Delete(ctx, donorID); err != nil {
		return err
	}
	s.unindex(ctx, donorID)
	return nil
}

// Search queries the donor index. It returns an empty list when search is not
// configured.
func (s *DonorService) Search(ctx context.Context, q entity.DonorSearchQuery) ([]entity.DonorView, error) {
	details := map[string]string{}
	if q.BloodGroup != "" {
		bg, ok := entity.ParseBloodGroup(string(q.BloodGroup))
		if !ok {
			details["blood_group"] = "must be one of: " + validation.BloodGroupParam
		}
		q.BloodGroup = bg
	}
	if q.Status != "" {
		if _, ok := entity.ParseDonorStatus(string(q.Status)); !ok {
			details["status"] = "must be one of: available, unavailable, requested"
		}
	}
	if len(details) > 0 {
		return nil, apperror.WithDetails(apperror.KindValidation, "invalid search filter", details)
	}
	if s.Index == nil {
		return []entity.DonorView{}, nil
	}
	out, err := s.Index.Search(ctx, q)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "donor search failed")
	}
	return out, nil
}

func (s *DonorService) index(ctx context.Context, v *entity.DonorView) {
	if s.Index == nil || v == nil {
		return
	}
	if err := s.Index.Index(ctx, v); err != nil {
		s.Metrics.IncSearchIndexFailure()
		helpers.LogWarn(s.Logger, "es index failed", err, logrus.Fields{"donor_id": v.ID})
	}
}

func (s *DonorService) unindex(ctx context.Context, donorID int64) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Remove(ctx, donorID); err != nil {
		s.Metrics.IncSearchIndexFailure()
		helpers.LogWarn(s.Logger, "es delete failed", err, logrus.Fields{"donor_id": donorID})
	}
}

func nonNil(vs []entity.DonorView, err error) ([]entity.DonorView, error) {
	if err != nil {
		return nil, err
	}
	if vs == nil {
		vs = []entity.DonorView{}
	}
	return vs, nil
}
