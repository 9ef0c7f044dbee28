package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
)

type NotificationRepository struct {
	pool Pool
}

func NewNotificationRepository(pool Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO notifications (user_id, message, type)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`, n.UserID, n.Message, string(n.Type)).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
	return translate(err, "recipient not found")
}

// CreateBatch inserts ns with a single INSERT ... SELECT FROM unnest statement and
// fills in ID and CreatedAt. RETURNING carries no ordering guarantee, so rows
// are matched back to ns by user_id.
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []*entity.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	userIDs := make([]int64, len(ns))
	messages := make([]string, len(ns))
	types := make([]string, len(ns))
	pending := make(map[int64][]*entity.Notification, len(ns))
	for i, n := range ns {
		userIDs[i] = n.UserID
		messages[i] = n.Message
		types[i] = string(n.Type)
		pending[n.UserID] = append(pending[n.UserID], n)
	}

	rows, err := conn(ctx, r.pool).Query(ctx, `
		INSERT INTO notifications (user_id, message, type)
		SELECT * FROM unnest($1::bigint[], $2::text[], $3::text[])
		RETURNING id, user_id, created_at
	`, userIDs, messages, types)
	if err != nil {
		return translate(err, "recipient not found")
	}
	defer rows.Close()

	matched := 0
	for rows.Next() {
		var (
			id, userID int64
			createdAt  time.Time
		)
		if err := rows.Scan(&id, &userID, &createdAt); err != nil {
			return translate(err, "recipient not found")
		}
		queue := pending[userID]
		if len(queue) == 0 {
			return apperror.Persistence(fmt.Errorf("bulk insert returned unexpected recipient %d", userID))
		}
		n := queue[0]
		pending[userID] = queue[1:]
		n.ID = id
		n.CreatedAt = createdAt
		n.IsRead = false
		matched++
	}
	if err := rows.Err(); err != nil {
		return translate(err, "recipient not found")
	}
	if matched != len(ns) {
		return apperror.Persistence(fmt.Errorf("bulk insert returned %d of %d notifications", matched, len(ns)))
	}
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.Notification, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, user_id, message, is_read, type, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, translate(err, "notification not found")
	}
	defer rows.Close()

	var out []entity.Notification
	for rows.Next() {
		var (
			n   entity.Notification
			typ string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &typ, &n.CreatedAt); err != nil {
			return nil, translate(err, "notification not found")
		}
		n.Type = entity.NotificationType(typ)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "notification not found")
	}
	return out, nil
}

// MarkRead only touches notifications owned by userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err, "notification not found")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "notification not found")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return 0, translate(err, "notification not found")
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID).Scan(&n)
	if err != nil {
		return 0, translate(err, "notification not found")
	}
	return n, nil
}

func (r *NotificationRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, translate(err, "notification not found")
	}
	return tag.RowsAffected(), nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
