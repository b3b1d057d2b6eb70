package service

import (
	"context"

	"github.com/snnyvrz/libmanage/internal/repository"
	"gorm.io/gorm"
)

// repos groups the repositories bound to one connection or transaction.
type repos struct {
	books   repository.BookRepository
	records repository.BorrowRecordRepository
	users   repository.UserRepository
	audit   repository.AuditRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		books:   repository.NewGormBookRepository(db),
		records: repository.NewGormBorrowRecordRepository(db),
		users:   repository.NewGormUserRepository(db),
		audit:   repository.NewGormAuditRepository(db),
	}
}

// inTx runs fn in a single transaction and retries the whole transaction on
// transient serialization failures.
func inTx(ctx context.Context, db *gorm.DB, fn func(r repos) error) error {
	return retryOnConflict(ctx, func(ctx context.Context) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(newRepos(tx))
		})
	})
}
