package handler

import (
	"context"
	"time"

	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/report"
	"github.com/snnyvrz/libmanage/internal/service"
)

type CatalogService interface {
	CreateBook(ctx context.Context, in service.BookInput) (*model.Book, error)
	UpdateBook(ctx context.Context, id uint, in service.BookInput) (*model.Book, error)
	UpdateBookStatus(ctx context.Context, id uint, status model.Status) (*model.Book, error)
	DeleteBook(ctx context.Context, id uint) error
	LookupBook(ctx context.Context, identifier string) (*model.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
}

type CirculationService interface {
	Borrow(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error)
	Return(ctx context.Context, recordID uint) (*model.BorrowRecord, error)
	ReturnByBookAndUser(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error)
	Dashboard(ctx context.Context, userID uint) (*service.Dashboard, error)
}

type AccountService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
	UpdatePassword(ctx context.Context, userID uint, newPassword string) error
}

type ReportService interface {
	OverdueLoans(ctx context.Context, asOf time.Time) ([]report.OverdueLoan, error)
	Summary(ctx context.Context) (*report.Summary, error)
}
