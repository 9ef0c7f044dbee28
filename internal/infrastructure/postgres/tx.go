package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blood-donation-service/internal/domain/repository"
	"github.com/oksasatya/blood-donation-service/pkg/apperror"
)

type txKey struct{}

// withTx stores tx in ctx for downstream repositories.
func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// conn returns the transaction carried by ctx, or the pool.
func conn(ctx context.Context, pool Pool) DBTX {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return pool
}

type TxManager struct {
	pool   Pool
	logger *logrus.Logger
}

func NewTxManager(pool Pool, logger *logrus.Logger) *TxManager {
	return &TxManager{pool: pool, logger: logger}
}

// WithinTx joins an enclosing transaction when ctx already carries one.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return apperror.Wrap(err, apperror.KindPersistence, "begin transaction")
	}
	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && m.logger != nil {
			m.logger.WithError(rbErr).Warn("rollback failed")
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Wrap(fmt.Errorf("commit: %w", err), apperror.KindPersistence, "commit transaction")
	}
	return nil
}

var _ repository.TxManager = (*TxManager)(nil)
