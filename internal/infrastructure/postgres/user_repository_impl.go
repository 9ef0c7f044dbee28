package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
)

type UserRepository struct {
	pool Pool
}

func NewUserRepository(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var (
		u          entity.User
		bloodGroup string
		role       string
		last       pgtype.Date
	)
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, COALESCE(name, ''), email, COALESCE(phone, ''), COALESCE(location, ''),
		       COALESCE(blood_group, ''), role, total_donations, last_donation, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Location,
		&bloodGroup, &role, &u.TotalDonations, &last, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err, "user not found")
	}
	u.BloodGroup = entity.BloodGroup(bloodGroup)
	u.Role = entity.Role(role)
	u.LastDonation = dateOrNil(last)
	return &u, nil
}

// ListByBloodGroup returns every user registered with bg, ordered by id.
func (r *UserRepository) ListByBloodGroup(ctx context.Context, bg entity.BloodGroup) ([]entity.Recipient, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, COALESCE(name, ''), email
		FROM users
		WHERE blood_group = $1
		ORDER BY id
	`, string(bg))
	if err != nil {
		return nil, translate(err, "user not found")
	}
	defer rows.Close()

	var out []entity.Recipient
	for rows.Next() {
		var rc entity.Recipient
		if err := rows.Scan(&rc.UserID, &rc.Name, &rc.Email); err != nil {
			return nil, translate(err, "user not found")
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "user not found")
	}
	return out, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err, "user not found")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "user not found")
	}
	return nil
}

func dateOrNil(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

var _ repository.UserRepository = (*UserRepository)(nil)
