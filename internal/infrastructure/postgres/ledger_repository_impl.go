package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
)

// LedgerRepository keeps the donation counter on the users row. The counter is
// the only source of truth for donation stats.
type LedgerRepository struct {
	pool Pool
}

func NewLedgerRepository(pool Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) RecordDonation(ctx context.Context, userID int64) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE users
		SET total_donations = total_donations + 1,
		    last_donation = CURRENT_DATE,
		    updated_at = now()
		WHERE id = $1
	`, userID)
	if err != nil {
		return translate(err, "user not found")
	}
	if tag.RowsAffected() == 0 {
		return translate(errNoRows, "user not found")
	}
	return nil
}

func (r *LedgerRepository) Snapshot(ctx context.Context, userID int64) (*entity.LedgerSnapshot, error) {
	var (
		s    entity.LedgerSnapshot
		last pgtype.Date
	)
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, total_donations, last_donation
		FROM users
		WHERE id = $1
	`, userID).Scan(&s.UserID, &s.TotalDonations, &last)
	if err != nil {
		return nil, translate(err, "user not found")
	}
	s.LastDonation = dateOrNil(last)
	return &s, nil
}

var _ repository.LedgerRepository = (*LedgerRepository)(nil)
