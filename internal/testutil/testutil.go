package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/snnyvrz/libmanage/internal/db"
	"github.com/snnyvrz/libmanage/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated, private in-memory SQLite database that is
// closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared&_foreign_keys=1"

	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig("test"))
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return gdb
}

// NewErrorDB opens a database without any schema so every query fails.
func NewErrorDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:errdb_" + uuid.New().String() + "?mode=memory&cache=shared"

	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig("test"))
	if err != nil {
		t.Fatalf("failed to connect to error test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return gdb
}

func SeedUser(t *testing.T, gdb *gorm.DB, username, password string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password for %q: %v", username, err)
	}

	user := model.User{
		Username: username,
		Password: string(hash),
	}

	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %q: %v", username, err)
	}

	return user
}

func SeedBook(t *testing.T, gdb *gorm.DB, title, isbn string, status model.Status) model.Book {
	t.Helper()

	book := model.Book{
		Title:    title,
		Author:   "Author of " + title,
		ISBN:     isbn,
		Category: model.CategoryOther,
		Status:   status,
	}

	if err := gdb.Create(&book).Error; err != nil {
		t.Fatalf("failed to seed book %q: %v", title, err)
	}

	return book
}

// SeedLoan writes an open borrow record directly and marks the book borrowed,
// bypassing the circulation rules.
func SeedLoan(t *testing.T, gdb *gorm.DB, user model.User, book model.Book, borrowed time.Time, days int) model.BorrowRecord {
	t.Helper()

	borrowDate := model.DateOf(borrowed)
	record := model.BorrowRecord{
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, days),
	}

	if err := gdb.Omit("User", "Book").Create(&record).Error; err != nil {
		t.Fatalf("failed to seed loan of %q: %v", book.Title, err)
	}
	if err := gdb.Model(&model.Book{}).Where("id = ?", book.ID).Update("is_borrowed", true).Error; err != nil {
		t.Fatalf("failed to mark %q borrowed: %v", book.Title, err)
	}

	return record
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
