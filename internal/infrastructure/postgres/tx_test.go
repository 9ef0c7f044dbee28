package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/blood-donation-service/pkg/apperror"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestTxManager_CommitsOnSuccess(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET total_donations").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	tm := NewTxManager(mock, logrus.New())
	ledger := NewLedgerRepository(mock)
	err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
		return ledger.RecordDonation(ctx, 1)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	tm := NewTxManager(mock, logrus.New())
	err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_JoinsEnclosingTx(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	tm := NewTxManager(mock, logrus.New())
	calls := 0
	err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
		return tm.WithinTx(ctx, func(ctx context.Context) error {
			calls++
			_, ok := txFrom(ctx)
			assert.True(t, ok)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_BeginFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	tm := NewTxManager(mock, logrus.New())
	err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.True(t, apperror.Is(err, apperror.KindPersistence))
	assert.NoError(t, mock.ExpectationsWereMet())
}
