package application

import (
	"context"

	"github.com/oksasatya/blood-donation-service/internal/domain/entity"
	repo "github.com/oksasatya/blood-donation-service/internal/domain/repository"
)

// LedgerService exposes a user's donation count and last donation date.
// The counter is only written through ApplicationService approvals.
type LedgerService struct {
	Ledger repo.LedgerRepository
}

func NewLedgerService(ledger repo.LedgerRepository) *LedgerService {
	return &LedgerService{Ledger: ledger}
}

func (s *LedgerService) Snapshot(ctx context.Context, userID int64) (*entity.LedgerSnapshot, error) {
	return s.Ledger.Snapshot(ctx, userID)
}
