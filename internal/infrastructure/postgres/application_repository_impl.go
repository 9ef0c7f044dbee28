package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
)

const applicationColumns = `id, user_id, event_id, application_type, status, created_at, updated_at`

type ApplicationRepository struct {
	pool Pool
}

func NewApplicationRepository(pool Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner, extra ...any) (*entity.Application, error) {
	var (
		a           entity.Application
		appType, st string
	)
	dest := append([]any{&a.ID, &a.UserID, &a.EventID, &appType, &st, &a.CreatedAt, &a.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	a.Type = entity.ApplicationType(appType)
	a.Status = entity.ApplicationStatus(st)
	return &a, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO event_applications (user_id, event_id, application_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, a.UserID, a.EventID, string(a.Type), string(a.Status)).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err, "user or event not found")
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*entity.Application, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+applicationColumns+` FROM event_applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		return nil, translate(err, "application not found")
	}
	return a, nil
}

// TransitionStatus is a compare-and-set on status. Concurrent callers racing the
// same transition see exactly one applied=true.
func (r *ApplicationRepository) TransitionStatus(ctx context.Context, id int64, from, to entity.ApplicationStatus) (*entity.Application, bool, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE event_applications
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+applicationColumns, id, string(from), string(to))
	a, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, translate(err, "application not found")
	}
	return a, true, nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]entity.ApplicationHistoryItem, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT a.id, a.user_id, a.event_id, a.application_type, a.status, a.created_at, a.updated_at,
		       e.name, e.date, COALESCE(e.location, '')
		FROM event_applications a
		JOIN events e ON e.id = a.event_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`, userID)
	if err != nil {
		return nil, translate(err, "application not found")
	}
	defer rows.Close()

	var out []entity.ApplicationHistoryItem
	for rows.Next() {
		var item entity.ApplicationHistoryItem
		a, err := scanApplication(rows, &item.EventName, &item.EventDate, &item.EventLocation)
		if err != nil {
			return nil, translate(err, "application not found")
		}
		item.Application = *a
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "application not found")
	}
	return out, nil
}

func (r *ApplicationRepository) ListAll(ctx context.Context) ([]entity.ApplicationAdminView, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT a.id, a.user_id, a.event_id, a.application_type, a.status, a.created_at, a.updated_at,
		       COALESCE(u.name, ''), u.email, e.name
		FROM event_applications a
		JOIN users u ON u.id = a.user_id
		JOIN events e ON e.id = a.event_id
		ORDER BY a.created_at DESC, a.id DESC
	`)
	if err != nil {
		return nil, translate(err, "application not found")
	}
	defer rows.Close()

	var out []entity.ApplicationAdminView
	for rows.Next() {
		var v entity.ApplicationAdminView
		a, err := scanApplication(rows, &v.UserName, &v.UserEmail, &v.EventName)
		if err != nil {
			return nil, translate(err, "application not found")
		}
		v.Application = *a
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "application not found")
	}
	return out, nil
}

func (r *ApplicationRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM event_applications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, translate(err, "user not found")
	}
	return tag.RowsAffected(), nil
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
