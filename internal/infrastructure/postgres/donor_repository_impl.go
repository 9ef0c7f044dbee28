package postgres

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
)

const donorViewSelect = `
	SELECT d.id, d.user_id, d.phone, d.city, d.age, d.blood_group, d.hospital, d.status, d.created_at,
	       COALESCE(u.name, '')
	FROM donor_registered d
	JOIN users u ON u.id = d.user_id
`

type DonorRepository struct {
	pool Pool
}

func NewDonorRepository(pool Pool) *DonorRepository {
	return &DonorRepository{pool: pool}
}

func scanDonorView(row rowScanner) (*entity.DonorView, error) {
	var (
		v              entity.DonorView
		bloodGroup, st string
	)
	err := row.Scan(&v.ID, &v.UserID, &v.Phone, &v.City, &v.Age, &bloodGroup, &v.Hospital, &st, &v.CreatedAt, &v.UserName)
	if err != nil {
		return nil, err
	}
	v.BloodGroup = entity.BloodGroup(bloodGroup)
	v.Status = entity.DonorStatus(st)
	return &v, nil
}

func (r *DonorRepository) Create(ctx context.Context, d *entity.Donor) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO donor_registered (user_id, phone, city, age, blood_group, hospital, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, d.UserID, d.Phone, d.City, d.Age, string(d.BloodGroup), d.Hospital, string(d.Status)).Scan(&d.ID, &d.CreatedAt)
	return translate(err, "user not found")
}

func (r *DonorRepository) GetByID(ctx context.Context, id int64) (*entity.DonorView, error) {
	v, err := scanDonorView(conn(ctx, r.pool).QueryRow(ctx, donorViewSelect+`WHERE d.id = $1`, id))
	if err != nil {
		return nil, translate(err, "donor not found")
	}
	return v, nil
}

func (r *DonorRepository) LockOwner(ctx context.Context, userID int64) error {
	var one int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&one)
	return translate(err, "user not found")
}

func (r *DonorRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM donor_registered WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, translate(err, "user not found")
	}
	return n, nil
}

// CountByUserAndHospital compares hospital names case-insensitively.
func (r *DonorRepository) CountByUserAndHospital(ctx context.Context, userID int64, hospital string) (int, error) {
	var n int
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COUNT(*) FROM donor_registered
		WHERE user_id = $1 AND lower(hospital) = lower($2)
	`, userID, hospital).Scan(&n)
	if err != nil {
		return 0, translate(err, "user not found")
	}
	return n, nil
}

func (r *DonorRepository) UpdateStatus(ctx context.Context, id int64, status entity.DonorStatus) (*entity.DonorView, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		WITH d AS (
			UPDATE donor_registered SET status = $2 WHERE id = $1
			RETURNING id, user_id, phone, city, age, blood_group, hospital, status, created_at
		)
		SELECT d.id, d.user_id, d.phone, d.city, d.age, d.blood_group, d.hospital, d.status, d.created_at,
		       COALESCE(u.name, '')
		FROM d
		JOIN users u ON u.id = d.user_id
	`, id, string(status))
	v, err := scanDonorView(row)
	if err != nil {
		return nil, translate(err, "donor not found")
	}
	return v, nil
}

func (r *DonorRepository) ListByStatus(ctx context.Context, status entity.DonorStatus) ([]entity.DonorView, error) {
	return r.list(ctx, donorViewSelect+`WHERE d.status = $1 ORDER BY d.created_at DESC, d.id DESC`, string(status))
}

func (r *DonorRepository) ListAll(ctx context.Context) ([]entity.DonorView, error) {
	return r.list(ctx, donorViewSelect+`ORDER BY d.created_at DESC, d.id DESC`)
}

func (r *DonorRepository) list(ctx context.Context, query string, args ...any) ([]entity.DonorView, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "donor not found")
	}
	defer rows.Close()

	var out []entity.DonorView
	for rows.Next() {
		v, err := scanDonorView(rows)
		if err != nil {
			return nil, translate(err, "donor not found")
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "donor not found")
	}
	return out, nil
}

func (r *DonorRepository) FindLatestByUser(ctx context.Context, userID int64) (*entity.DonorView, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, donorViewSelect+`WHERE d.user_id = $1 ORDER BY d.created_at DESC, d.id DESC LIMIT 1`, userID)
	v, err := scanDonorView(row)
	if err != nil {
		return nil, translate(err, "donor registration not found")
	}
	return v, nil
}

func (r *DonorRepository) Delete(ctx context.Context, id int64) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM donor_registered WHERE id = $1`, id)
	if err != nil {
		return translate(err, "donor not found")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "donor not found")
	}
	return nil
}

// DeleteByUser returns the removed donor ids so callers can clean up the search index.
func (r *DonorRepository) DeleteByUser(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `DELETE FROM donor_registered WHERE user_id = $1 RETURNING id`, userID)
	if err != nil {
		return nil, translate(err, "user not found")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, translate(err, "user not found")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "user not found")
	}
	return ids, nil
}

var _ repository.DonorRepository = (*DonorRepository)(nil)
