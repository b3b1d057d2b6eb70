package handler

import (
	"context"
	"time"

	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/report"
	"github.com/snnyvrz/libmanage/internal/service"
)

type fakeCatalog struct {
	CreateBookFn       func(ctx context.Context, in service.BookInput) (*model.Book, error)
	UpdateBookFn       func(ctx context.Context, id uint, in service.BookInput) (*model.Book, error)
	UpdateBookStatusFn func(ctx context.Context, id uint, status model.Status) (*model.Book, error)
	DeleteBookFn       func(ctx context.Context, id uint) error
	LookupBookFn       func(ctx context.Context, identifier string) (*model.Book, error)
	GetBookByISBNFn    func(ctx context.Context, isbn string) (*model.Book, error)
	ListBooksFn        func(ctx context.Context) ([]model.Book, error)
}

func (f *fakeCatalog) CreateBook(ctx context.Context, in service.BookInput) (*model.Book, error) {
	if f.CreateBookFn != nil {
		return f.CreateBookFn(ctx, in)
	}
	return &model.Book{ID: 1}, nil
}

func (f *fakeCatalog) UpdateBook(ctx context.Context, id uint, in service.BookInput) (*model.Book, error) {
	if f.UpdateBookFn != nil {
		return f.UpdateBookFn(ctx, id, in)
	}
	return &model.Book{ID: id}, nil
}

func (f *fakeCatalog) UpdateBookStatus(ctx context.Context, id uint, status model.Status) (*model.Book, error) {
	if f.UpdateBookStatusFn != nil {
		return f.UpdateBookStatusFn(ctx, id, status)
	}
	return &model.Book{ID: id, Status: status}, nil
}

func (f *fakeCatalog) DeleteBook(ctx context.Context, id uint) error {
	if f.DeleteBookFn != nil {
		return f.DeleteBookFn(ctx, id)
	}
	return nil
}

func (f *fakeCatalog) LookupBook(ctx context.Context, identifier string) (*model.Book, error) {
	if f.LookupBookFn != nil {
		return f.LookupBookFn(ctx, identifier)
	}
	return &model.Book{}, nil
}

func (f *fakeCatalog) GetBookByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	if f.GetBookByISBNFn != nil {
		return f.GetBookByISBNFn(ctx, isbn)
	}
	return &model.Book{ISBN: isbn}, nil
}

func (f *fakeCatalog) ListBooks(ctx context.Context) ([]model.Book, error) {
	if f.ListBooksFn != nil {
		return f.ListBooksFn(ctx)
	}
	return nil, nil
}

type fakeCirculation struct {
	BorrowFn              func(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error)
	ReturnFn              func(ctx context.Context, recordID uint) (*model.BorrowRecord, error)
	ReturnByBookAndUserFn func(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error)
	DashboardFn           func(ctx context.Context, userID uint) (*service.Dashboard, error)
}

func (f *fakeCirculation) Borrow(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error) {
	if f.BorrowFn != nil {
		return f.BorrowFn(ctx, bookID, userID)
	}
	return &model.BorrowRecord{}, nil
}

func (f *fakeCirculation) Return(ctx context.Context, recordID uint) (*model.BorrowRecord, error) {
	if f.ReturnFn != nil {
		return f.ReturnFn(ctx, recordID)
	}
	return &model.BorrowRecord{}, nil
}

func (f *fakeCirculation) ReturnByBookAndUser(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error) {
	if f.ReturnByBookAndUserFn != nil {
		return f.ReturnByBookAndUserFn(ctx, bookID, userID)
	}
	return &model.BorrowRecord{}, nil
}

func (f *fakeCirculation) Dashboard(ctx context.Context, userID uint) (*service.Dashboard, error) {
	if f.DashboardFn != nil {
		return f.DashboardFn(ctx, userID)
	}
	return &service.Dashboard{}, nil
}

type fakeAccounts struct {
	RegisterFn       func(ctx context.Context, username, password string) (*model.User, error)
	LoginFn          func(ctx context.Context, username, password string) (*model.User, error)
	UpdatePasswordFn func(ctx context.Context, userID uint, newPassword string) error
}

func (f *fakeAccounts) Register(ctx context.Context, username, password string) (*model.User, error) {
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, username, password)
	}
	return &model.User{ID: 1, Username: username}, nil
}

func (f *fakeAccounts) Login(ctx context.Context, username, password string) (*model.User, error) {
	if f.LoginFn != nil {
		return f.LoginFn(ctx, username, password)
	}
	return &model.User{ID: 1, Username: username}, nil
}

func (f *fakeAccounts) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	if f.UpdatePasswordFn != nil {
		return f.UpdatePasswordFn(ctx, userID, newPassword)
	}
	return nil
}

type fakeReports struct {
	OverdueLoansFn func(ctx context.Context, asOf time.Time) ([]report.OverdueLoan, error)
	SummaryFn      func(ctx context.Context) (*report.Summary, error)
}

func (f *fakeReports) OverdueLoans(ctx context.Context, asOf time.Time) ([]report.OverdueLoan, error) {
	if f.OverdueLoansFn != nil {
		return f.OverdueLoansFn(ctx, asOf)
	}
	return nil, nil
}

func (f *fakeReports) Summary(ctx context.Context) (*report.Summary, error) {
	if f.SummaryFn != nil {
		return f.SummaryFn(ctx)
	}
	return &report.Summary{}, nil
}
