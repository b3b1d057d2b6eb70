package service

import (
	"context"
	"errors"
	"time"

	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/gorm"
)

const DefaultLoanDays = 60

const (
	msgUserNotFound   = "user not found"
	msgRecordNotFound = "borrow record not found"
	msgAlreadyLent    = "this book is already borrowed"
	msgAlreadyBack    = "this book has already been returned"
)

type Circulation struct {
	db       *gorm.DB
	loanDays int
	now      func() time.Time
}

type CirculationOption func(*Circulation)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) CirculationOption {
	return func(s *Circulation) {
		s.now = now
	}
}

func NewCirculation(db *gorm.DB, loanDays int, opts ...CirculationOption) *Circulation {
	if loanDays <= 0 {
		loanDays = DefaultLoanDays
	}

	s := &Circulation{
		db:       db,
		loanDays: loanDays,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Circulation) today() time.Time {
	return model.DateOf(s.now())
}

// Borrow lends bookID to userID and returns the new open record with its
// Book populated.
func (s *Circulation) Borrow(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error) {
	var record model.BorrowRecord

	err := inTx(ctx, s.db, func(r repos) error {
		if _, err := r.users.FindByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return unauthorized(msgUserNotFound)
			}
			return internal("failed to fetch user", err)
		}

		book, err := findBook(ctx, r, bookID)
		if err != nil {
			return err
		}
		if book.IsBorrowed {
			return conflict(msgAlreadyLent)
		}
		if book.Status != model.StatusAvailable {
			return conflict("a book with status " + string(book.Status) + " cannot be borrowed")
		}

		open, err := r.records.HasOpen(ctx, userID, bookID)
		if err != nil {
			return internal("failed to check borrow records", err)
		}
		if open {
			return conflict("you have already borrowed this book")
		}

		ok, err := r.books.MarkBorrowed(ctx, bookID)
		if err != nil {
			return internal("failed to borrow book", err)
		}
		if !ok {
			return conflict(msgAlreadyLent)
		}

		today := s.today()
		record = model.BorrowRecord{
			UserID:     userID,
			BookID:     bookID,
			BorrowDate: today,
			DueDate:    today.AddDate(0, 0, s.loanDays),
		}
		if err := r.records.Create(ctx, &record); err != nil {
			if isDuplicate(err) {
				return conflict(msgAlreadyLent)
			}
			return internal("failed to create borrow record", err)
		}

		book.IsBorrowed = true
		record.Book = *book

		return r.audit.Record(ctx, model.BorrowRecordEntity, "borrow", record.ID, map[string]any{
			"user_id":  userID,
			"book_id":  bookID,
			"due_date": model.NewDate(record.DueDate).String(),
		})
	})
	if err != nil {
		return nil, passthrough("failed to borrow book", err)
	}
	return &record, nil
}

// Return closes the record and frees its book.
func (s *Circulation) Return(ctx context.Context, recordID uint) (*model.BorrowRecord, error) {
	var record *model.BorrowRecord

	err := inTx(ctx, s.db, func(r repos) error {
		var err error
		record, err = r.records.FindByID(ctx, recordID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(msgRecordNotFound)
			}
			return internal("failed to fetch borrow record", err)
		}
		if record.Returned {
			return conflict(msgAlreadyBack)
		}
		return s.closeLoan(ctx, r, record)
	})
	if err != nil {
		return nil, passthrough("failed to return book", err)
	}
	return record, nil
}

// ReturnByBookAndUser closes the most recent open record for the pair.
func (s *Circulation) ReturnByBookAndUser(ctx context.Context, bookID, userID uint) (*model.BorrowRecord, error) {
	var record *model.BorrowRecord

	err := inTx(ctx, s.db, func(r repos) error {
		var err error
		record, err = r.records.LatestOpen(ctx, bookID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("no open borrow record for this book and user")
			}
			return internal("failed to fetch borrow record", err)
		}
		return s.closeLoan(ctx, r, record)
	})
	if err != nil {
		return nil, passthrough("failed to return book", err)
	}
	return record, nil
}

func (s *Circulation) closeLoan(ctx context.Context, r repos, record *model.BorrowRecord) error {
	today := s.today()

	ok, err := r.records.MarkReturned(ctx, record.ID, today)
	if err != nil {
		return internal("failed to close borrow record", err)
	}
	if !ok {
		return conflict(msgAlreadyBack)
	}

	if err := r.books.MarkReturned(ctx, record.BookID); err != nil {
		return internal("failed to release book", err)
	}

	record.Returned = true
	record.ReturnDate = &today
	record.Book.IsBorrowed = false
	if !record.Book.Status.KeptOnReturn() {
		record.Book.Status = model.StatusAvailable
	}

	return r.audit.Record(ctx, model.BorrowRecordEntity, "return", record.ID, map[string]any{
		"user_id":     record.UserID,
		"book_id":     record.BookID,
		"return_date": model.NewDate(today).String(),
	})
}

type Loan struct {
	model.BorrowRecord
	Overdue bool
}

type Dashboard struct {
	User    model.User
	Open    []Loan
	History []Loan
	Now     time.Time
}

// Dashboard returns the user's open loans and full history, newest first.
func (s *Circulation) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	r := newRepos(s.db)

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, internal("failed to fetch user", err)
	}

	records, err := r.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("failed to fetch borrow records", err)
	}

	now := s.now()
	today := model.DateOf(now)

	d := &Dashboard{
		User:    *user,
		Open:    make([]Loan, 0),
		History: make([]Loan, 0, len(records)),
		Now:     now,
	}
	for _, rec := range records {
		loan := Loan{BorrowRecord: rec, Overdue: rec.IsOverdue(today)}
		d.History = append(d.History, loan)
		if !rec.Returned {
			d.Open = append(d.Open, loan)
		}
	}
	return d, nil
}
