package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	repo "github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
	"github.com/oksasatya/blood-donation-service/pkg/helpers"
	"github.com/oksasatya/blood-donation-service/pkg/mailer"
	mailtpl "github.com/oksasatya/blood-donation-service/pkg/mailer/templates"
	"github.com/oksasatya/blood-donation-service/pkg/metrics"
	"github.com/oksasatya/blood-donation-service/pkg/validation"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	unreadCacheTTL = 30 * time.Second
)

func unreadKey(userID int64) string {
	return "notifications:unread:" + strconv.FormatInt(userID, 10)
}

type BloodRequestInput struct {
	BloodGroup string `json:"blood_group" binding:"required"`
	Location   string `json:"location" binding:"required"`
	Message    string `json:"message" binding:"max=500"`
}

// NotificationService fans blood requests out to matching users and serves the
// per-user notification inbox.
type NotificationService struct {
	Tx            repo.TxManager
	Users         repo.UserRepository
	Notifications repo.NotificationRepository
	Mail          MailPublisher // nil disables email
	Redis         *redis.Client // nil disables the unread count cache
	Brand         mailtpl.Brand
	ListLimit     int
	Logger        *logrus.Logger
	Metrics       *metrics.Metrics
}

func NewNotificationService(tx repo.TxManager, users repo.UserRepository, notifications repo.NotificationRepository, mail MailPublisher, rdb *redis.Client, brand mailtpl.Brand, listLimit int, logger *logrus.Logger, m *metrics.Metrics) *NotificationService {
	return &NotificationService{
		Tx:            tx,
		Users:         users,
		Notifications: notifications,
		Mail:          mail,
		Redis:         rdb,
		Brand:         brand,
		ListLimit:     listLimit,
		Logger:        logger,
		Metrics:       m,
	}
}

const defaultBloodRequestNote = "Please consider donating!"

// BloodRequestMessage is the text every recipient of a fan-out sees. A blank
// message falls back to a generic appeal.
func BloodRequestMessage(bg entity.BloodGroup, location, message string) string {
	extra := strings.TrimSpace(message)
	if extra == "" {
		extra = defaultBloodRequestNote
	}
	return fmt.Sprintf("Urgent: %s blood needed at %s. %s", bg, strings.TrimSpace(location), extra)
}

// DonorRequestMessage is the text a targeted donor sees. An empty location is
// left out.
func DonorRequestMessage(requesterName string, bg entity.BloodGroup, location string) string {
	name := strings.TrimSpace(requesterName)
	if name == "" {
		name = "Someone"
	}
	if loc := strings.TrimSpace(location); loc != "" {
		return fmt.Sprintf("%s in %s urgently needs %s blood. Can you help?", name, loc, bg)
	}
	return fmt.Sprintf("%s urgently needs %s blood. Can you help?", name, bg)
}

// RequestBlood notifies every user with bloodGroup except the requester and
// returns how many were notified. All notifications are written by one
// statement; email jobs are published after commit and may fail silently.
func (s *NotificationService) RequestBlood(ctx context.Context, requesterID int64, in BloodRequestInput) (int, error) {
	bg, ok := entity.ParseBloodGroup(in.BloodGroup)
	details := map[string]string{}
	if !ok {
		details["blood_group"] = "must be one of: " + strings.Join(strings.Fields(validation.BloodGroupParam), ", ")
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		details["location"] = "must not be blank"
	}
	if len(details) > 0 {
		return 0, apperror.WithDetails(apperror.KindValidation, "invalid blood request", details)
	}

	matches, err := s.Users.ListByBloodGroup(ctx, bg)
	if err != nil {
		return 0, err
	}
	text := BloodRequestMessage(bg, location, in.Message)
	recipients := make([]entity.Recipient, 0, len(matches))
	ns := make([]*entity.Notification, 0, len(matches))
	for _, r := range matches {
		if r.UserID == requesterID {
			continue
		}
		recipients = append(recipients, r)
		ns = append(ns, &entity.Notification{UserID: r.UserID, Message: text, Type: entity.NotificationBloodRequest})
	}
	if len(ns) == 0 {
		return 0, nil
	}

	if err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.Notifications.CreateBatch(ctx, ns)
	}); err != nil {
		return 0, err
	}

	s.Metrics.AddNotifications(string(entity.NotificationBloodRequest), len(ns))
	ids := make([]int64, len(recipients))
	for i, r := range recipients {
		ids[i] = r.UserID
	}
	s.invalidateUnread(ctx, ids...)

	now := time.Now()
	for i, r := range recipients {
		if r.Email == "" {
			continue
		}
		data := mailtpl.NewBloodRequestData(s.Brand, r.Name, r.Email, string(bg), location, text,
			mailtpl.WithMessage(in.Message), mailtpl.WithTime(now))
		s.publish(ctx, mailer.EmailJob{To: r.Email, Template: mailtpl.BloodRequest, Data: data, NotificationID: ns[i].ID})
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"requester_id": requesterID,
			"blood_group":  bg,
			"notified":     len(ns),
		}).Info("blood request sent")
	}
	return len(ns), nil
}

// NotifySpecificDonor writes one notification to donorUserID. The location in
// the message is always the requester's stored location.
func (s *NotificationService) NotifySpecificDonor(ctx context.Context, requesterID, donorUserID int64, bloodGroup string) (*entity.Notification, error) {
	if requesterID == donorUserID {
		return nil, apperror.SelfTarget("you cannot notify yourself")
	}
	bg, ok := entity.ParseBloodGroup(bloodGroup)
	if !ok {
		return nil, apperror.WithDetails(apperror.KindValidation, "invalid blood group",
			map[string]string{"blood_group": "must be one of: " + strings.Join(strings.Fields(validation.BloodGroupParam), ", ")})
	}
	requester, err := s.Users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	donor, err := s.Users.GetByID(ctx, donorUserID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Wrap(err, apperror.KindNotFound, "donor not found")
		}
		return nil, err
	}

	text := DonorRequestMessage(requester.Name, bg, requester.Location)
	n := &entity.Notification{UserID: donor.ID, Message: text, Type: entity.NotificationDonorRequest}
	if err := s.Notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	s.Metrics.AddNotifications(string(entity.NotificationDonorRequest), 1)
	s.invalidateUnread(ctx, donor.ID)

	if donor.Email != "" {
		data := mailtpl.NewDonorRequestData(s.Brand, donor.Name, donor.Email, string(bg), requester.Location, text,
			mailtpl.WithRequester(requester.Name), mailtpl.WithTime(time.Now()))
		s.publish(ctx, mailer.EmailJob{To: donor.Email, Template: mailtpl.DonorRequest, Data: data, NotificationID: n.ID})
	}
	return n, nil
}

// ListMine returns the latest notifications for userID, newest first. limit is
// clamped to [1, MaxListLimit]; non-positive values use the configured default.
func (s *NotificationService) ListMine(ctx context.Context, userID int64, limit int) ([]entity.Notification, error) {
	ns, err := s.Notifications.ListByUser(ctx, userID, s.clampLimit(limit))
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []entity.Notification{}
	}
	return ns, nil
}

func (s *NotificationService) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.ListLimit
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.invalidateUnread(ctx, userID)
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	if err := s.Notifications.MarkRead(ctx, notificationID, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// CountUnread is served from Redis when cached. A fill is dropped when the
// user's count was invalidated while it was being read from the database.
func (s *NotificationService) CountUnread(ctx context.Context, userID int64) (int64, error) {
	key := unreadKey(userID)
	version, cacheable := "", false
	if s.Redis != nil {
		var cached int64
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && ok {
			return cached, nil
		} else if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Debug("redis get failed")
		}
		v, err := helpers.RedisVersion(ctx, s.Redis, key)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Debug("redis version read failed")
		}
		version, cacheable = v, err == nil
	}
	n, err := s.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if cacheable {
		if _, err := helpers.RedisSetJSONIfVersion(ctx, s.Redis, key, version, n, unreadCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Debug("redis set failed")
		}
	}
	return n, nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userIDs ...int64) {
	if s.Redis == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = unreadKey(id)
	}
	if err := helpers.RedisInvalidate(ctx, s.Redis, keys...); err != nil {
		helpers.LogWarn(s.Logger, "redis unread cache invalidation failed", err, nil)
	}
}

func (s *NotificationService) publish(ctx context.Context, job mailer.EmailJob) {
	if s.Mail == nil {
		return
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Metrics.IncMailPublishFailure()
		helpers.LogWarn(s.Logger, "publish email job failed", err, job.LogFields())
	}
}
