package repository

import (
	"context"

	domainRepo "github.com/agms/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over the shared gorm handle
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// WithinTransaction runs fn inside one database transaction. The transaction
// handle is stored in the context so repository methods share it; any error
// from fn rolls the whole transaction back.
func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext resolves the active transaction handle if one is present,
// falling back to the shared handle otherwise. Every repository method goes
// through this so the same code works inside and outside a transaction.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
