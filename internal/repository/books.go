package repository

import (
	"context"

	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
	ISBNTaken(ctx context.Context, isbn string, excludeID uint) (bool, error)
	List(ctx context.Context) ([]model.Book, error)
	Update(ctx context.Context, book *model.Book) (bool, error)
	SetStatus(ctx context.Context, id uint, status model.Status) (bool, error)
	MarkBorrowed(ctx context.Context, id uint) (bool, error)
	MarkReturned(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type GormBookRepository struct {
	db *gorm.DB
}

func NewGormBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

func (r *GormBookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *GormBookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *GormBookRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).First(&book, "isbn = ?", isbn).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// ISBNTaken reports whether a book other than excludeID already uses isbn.
// Pass 0 to check against the whole catalog.
func (r *GormBookRepository) ISBNTaken(ctx context.Context, isbn string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Book{}).Where("isbn = ?", isbn)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormBookRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&books).Error; err != nil {

		return nil, err
	}
	return books, nil
}

// Update replaces the editable fields. A borrowed book is never moved to
// UNDER_REPAIR; in that case no row matches and false is returned.
func (r *GormBookRepository) Update(ctx context.Context, book *model.Book) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", book.ID)
	if book.Status == model.StatusUnderRepair {
		q = q.Where("is_borrowed = ?", false)
	}

	result := q.Updates(map[string]any{
		"title":    book.Title,
		"author":   book.Author,
		"isbn":     book.ISBN,
		"category": book.Category,
		"status":   book.Status,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormBookRepository) SetStatus(ctx context.Context, id uint, status model.Status) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", id)
	if status == model.StatusUnderRepair {
		q = q.Where("is_borrowed = ?", false)
	}

	result := q.Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkBorrowed flips is_borrowed only if the book is still lendable. It is the
// serialization point for concurrent borrows of the same book: exactly one
// caller observes true.
func (r *GormBookRepository) MarkBorrowed(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ? AND is_borrowed = ? AND status = ?", id, false, model.StatusAvailable).
		Update("is_borrowed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkReturned clears is_borrowed and resets the status to AVAILABLE unless
// the book was flagged DAMAGED or LOST meanwhile.
func (r *GormBookRepository) MarkReturned(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_borrowed": false,
			"status": gorm.Expr(
				"CASE WHEN status IN (?, ?) THEN status ELSE ? END",
				model.StatusDamaged, model.StatusLost, model.StatusAvailable,
			),
		}).Error
}

// Delete removes the book only while it is not borrowed and in a deletable
// status. It reports whether a row was removed.
func (r *GormBookRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("is_borrowed = ? AND status IN ?", false, []model.Status{
			model.StatusAvailable, model.StatusDamaged, model.StatusLost,
		}).
		Delete(&model.Book{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
