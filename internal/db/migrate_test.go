package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:migratedb_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig("test"))
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestMigrate_OpenLoanIndexRejectsSecondOpenRecord(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := model.User{Username: "reader", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	book := model.Book{Title: "SICP", Author: "Abelson", ISBN: "9780262510875", Category: model.CategoryComputer, Status: model.StatusAvailable}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}

	now := time.Now().UTC()
	first := model.BorrowRecord{UserID: user.ID, BookID: book.ID, BorrowDate: now, DueDate: now}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("first open record: %v", err)
	}

	second := model.BorrowRecord{UserID: user.ID, BookID: book.ID, BorrowDate: now, DueDate: now}
	if err := db.Create(&second).Error; err == nil {
		t.Fatalf("expected second open record for the same book to be rejected")
	}

	if err := db.Model(&first).Update("returned", true).Error; err != nil {
		t.Fatalf("close first record: %v", err)
	}

	third := model.BorrowRecord{UserID: user.ID, BookID: book.ID, BorrowDate: now, DueDate: now}
	if err := db.Create(&third).Error; err != nil {
		t.Fatalf("expected open record after return to succeed: %v", err)
	}
}
