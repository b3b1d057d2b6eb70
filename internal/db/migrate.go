package db

import (
	"fmt"

	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/gorm"
)

const openLoanIndex = "ux_borrow_records_open_book"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.BorrowRecord{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	// MySQL has no partial indexes; there the conditional update in the
	// circulation service is the only guard.
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		stmt := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON borrow_records (book_id) WHERE returned = false",
			openLoanIndex,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", openLoanIndex, err)
		}
	}

	return nil
}
