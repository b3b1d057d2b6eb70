package repository

import (
	"context"
	"time"

	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/gorm"
)

type BorrowRecordRepository interface {
	Create(ctx context.Context, record *model.BorrowRecord) error
	FindByID(ctx context.Context, id uint) (*model.BorrowRecord, error)
	HasOpen(ctx context.Context, userID, bookID uint) (bool, error)
	LatestOpen(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error)
	MarkReturned(ctx context.Context, id uint, on time.Time) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]model.BorrowRecord, error)
}

type GormBorrowRecordRepository struct {
	db *gorm.DB
}

func NewGormBorrowRecordRepository(db *gorm.DB) *GormBorrowRecordRepository {
	return &GormBorrowRecordRepository{db: db}
}

func (r *GormBorrowRecordRepository) Create(ctx context.Context, record *model.BorrowRecord) error {
	return r.db.WithContext(ctx).Omit("User", "Book").Create(record).Error
}

func (r *GormBorrowRecordRepository) FindByID(ctx context.Context, id uint) (*model.BorrowRecord, error) {
	var record model.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		First(&record, "id = ?", id).Error; err != nil {

		return nil, err
	}
	return &record, nil
}

func (r *GormBorrowRecordRepository) HasOpen(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.BorrowRecord{}).
		Where("user_id = ? AND book_id = ? AND returned = ?", userID, bookID, false).
		Count(&count).Error; err != nil {

		return false, err
	}
	return count > 0, nil
}

// LatestOpen returns the most recently borrowed unreturned record for the
// pair. Records from the same day are ordered by id.
func (r *GormBorrowRecordRepository) LatestOpen(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error) {
	var record model.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("book_id = ? AND user_id = ? AND returned = ?", bookID, userID, false).
		Order("borrow_date DESC").
		Order("id DESC").
		First(&record).Error; err != nil {

		return nil, err
	}
	return &record, nil
}

// MarkReturned closes the record if it is still open and reports whether
// this call was the one that closed it.
func (r *GormBorrowRecordRepository) MarkReturned(ctx context.Context, id uint, on time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.BorrowRecord{}).
		Where("id = ? AND returned = ?", id, false).
		Updates(map[string]any{
			"returned":    true,
			"return_date": on,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormBorrowRecordRepository) ListByUser(ctx context.Context, userID uint) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Order("id DESC").
		Find(&records).Error; err != nil {

		return nil, err
	}
	return records, nil
}
