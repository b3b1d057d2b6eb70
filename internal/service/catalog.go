package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/gorm"
)

const (
	msgBookNotFound     = "book not found"
	msgISBNExists       = "a book with this ISBN already exists"
	msgISBNInUse        = "this ISBN is already used by another book"
	msgRepairWhileLent  = "a borrowed book cannot be put under repair"
	msgDeleteBorrowed   = "this book is borrowed and cannot be deleted"
	msgBookFieldsNeeded = "title, author and isbn are required"
)

// BookInput carries the editable fields of a book. Empty Category and Status
// fall back to OTHER and AVAILABLE on create only.
type BookInput struct {
	Title    string
	Author   string
	ISBN     string
	Category model.Category
	Status   model.Status
}

func (in *BookInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
}

func (in BookInput) validate() error {
	if in.Title == "" || in.Author == "" || in.ISBN == "" {
		return invalidInput(msgBookFieldsNeeded)
	}
	if tooLong(in.Title, model.MaxTitleLen) {
		return invalidInput(fmt.Sprintf("title must be at most %d characters", model.MaxTitleLen))
	}
	if tooLong(in.Author, model.MaxAuthorLen) {
		return invalidInput(fmt.Sprintf("author must be at most %d characters", model.MaxAuthorLen))
	}
	if tooLong(in.ISBN, model.MaxISBNLen) {
		return invalidInput(fmt.Sprintf("isbn must be at most %d characters", model.MaxISBNLen))
	}
	if !in.Category.Valid() {
		return invalidInput("invalid book category")
	}
	if !in.Status.Valid() {
		return invalidInput("invalid book status")
	}
	return nil
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (s *Catalog) CreateBook(ctx context.Context, in BookInput) (*model.Book, error) {
	in.normalize()
	if in.Category == "" {
		in.Category = model.CategoryOther
	}
	if in.Status == "" {
		in.Status = model.StatusAvailable
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var book model.Book
	err := inTx(ctx, s.db, func(r repos) error {
		taken, err := r.books.ISBNTaken(ctx, in.ISBN, 0)
		if err != nil {
			return internal("failed to check isbn", err)
		}
		if taken {
			return conflict(msgISBNExists)
		}

		book = model.Book{
			Title:    in.Title,
			Author:   in.Author,
			ISBN:     in.ISBN,
			Category: in.Category,
			Status:   in.Status,
		}
		if err := r.books.Create(ctx, &book); err != nil {
			if isDuplicate(err) {
				return conflict(msgISBNExists)
			}
			return internal("failed to create book", err)
		}

		return r.audit.Record(ctx, model.BookEntity, "create", book.ID, bookPayload(book))
	})
	if err != nil {
		return nil, passthrough("failed to create book", err)
	}
	return &book, nil
}

// UpdateBook replaces every editable field of the book.
func (s *Catalog) UpdateBook(ctx context.Context, id uint, in BookInput) (*model.Book, error) {
	in.normalize()
	if in.Category == "" || in.Status == "" {
		return nil, invalidInput("title, author, isbn, category and status are required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var book *model.Book
	err := inTx(ctx, s.db, func(r repos) error {
		var err error
		book, err = findBook(ctx, r, id)
		if err != nil {
			return err
		}

		taken, err := r.books.ISBNTaken(ctx, in.ISBN, id)
		if err != nil {
			return internal("failed to check isbn", err)
		}
		if taken {
			return conflict(msgISBNInUse)
		}
		if in.Status == model.StatusUnderRepair && book.IsBorrowed {
			return conflict(msgRepairWhileLent)
		}

		book.Title = in.Title
		book.Author = in.Author
		book.ISBN = in.ISBN
		book.Category = in.Category
		book.Status = in.Status

		ok, err := r.books.Update(ctx, book)
		if err != nil {
			if isDuplicate(err) {
				return conflict(msgISBNInUse)
			}
			return internal("failed to update book", err)
		}
		if !ok {
			return conflict(msgRepairWhileLent)
		}

		return r.audit.Record(ctx, model.BookEntity, "update", book.ID, bookPayload(*book))
	})
	if err != nil {
		return nil, passthrough("failed to update book", err)
	}
	return book, nil
}

func (s *Catalog) UpdateBookStatus(ctx context.Context, id uint, status model.Status) (*model.Book, error) {
	if status == "" {
		return nil, invalidInput("status is required")
	}
	if !status.Valid() {
		return nil, invalidInput("invalid book status")
	}

	var book *model.Book
	err := inTx(ctx, s.db, func(r repos) error {
		var err error
		book, err = findBook(ctx, r, id)
		if err != nil {
			return err
		}
		if status == model.StatusUnderRepair && book.IsBorrowed {
			return conflict(msgRepairWhileLent)
		}

		ok, err := r.books.SetStatus(ctx, id, status)
		if err != nil {
			return internal("failed to update book status", err)
		}
		if !ok {
			return conflict(msgRepairWhileLent)
		}
		book.Status = status

		return r.audit.Record(ctx, model.BookEntity, "status", id, map[string]any{"status": status})
	})
	if err != nil {
		return nil, passthrough("failed to update book status", err)
	}
	return book, nil
}

// DeleteBook removes a book that is neither borrowed nor under repair.
func (s *Catalog) DeleteBook(ctx context.Context, id uint) error {
	err := inTx(ctx, s.db, func(r repos) error {
		book, err := findBook(ctx, r, id)
		if err != nil {
			return err
		}
		if book.IsBorrowed {
			return conflict(msgDeleteBorrowed)
		}
		if !book.Status.Deletable() {
			return conflict("a book with status " + string(book.Status) + " cannot be deleted")
		}

		removed, err := r.books.Delete(ctx, id)
		if err != nil {
			return internal("failed to delete book", err)
		}
		if !removed {
			return conflict(msgDeleteBorrowed)
		}

		return r.audit.Record(ctx, model.BookEntity, "delete", id, bookPayload(*book))
	})
	return passthrough("failed to delete book", err)
}

// LookupBook resolves identifier as a numeric id first and as an ISBN
// otherwise, including when no book has that id.
func (s *Catalog) LookupBook(ctx context.Context, identifier string) (*model.Book, error) {
	identifier = strings.TrimSpace(identifier)
	r := newRepos(s.db)

	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		book, err := r.books.FindByID(ctx, uint(id))
		if err == nil {
			return book, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal("failed to fetch book", err)
		}
	}

	return s.GetBookByISBN(ctx, identifier)
}

func (s *Catalog) GetBookByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, notFound(msgBookNotFound)
	}

	book, err := newRepos(s.db).books.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(msgBookNotFound)
		}
		return nil, internal("failed to fetch book", err)
	}
	return book, nil
}

func (s *Catalog) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := newRepos(s.db).books.List(ctx)
	if err != nil {
		return nil, internal("failed to fetch books", err)
	}
	return books, nil
}

func findBook(ctx context.Context, r repos, id uint) (*model.Book, error) {
	book, err := r.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(msgBookNotFound)
		}
		return nil, internal("failed to fetch book", err)
	}
	return book, nil
}

func bookPayload(b model.Book) map[string]any {
	return map[string]any{
		"title":    b.Title,
		"author":   b.Author,
		"isbn":     b.ISBN,
		"category": b.Category,
		"status":   b.Status,
	}
}
