package handler

import (
	"time"

	"github.com/snnyvrz/libmanage/internal/model"
)

// BorrowRequest leaves user_id unchecked by the binder: a missing user is
// answered with 401, not a validation error.
type BorrowRequest struct {
	UserID FlexID `json:"user_id" swaggertype:"integer" example:"1"`
}

type BorrowResponse struct {
	Message  string     `json:"message"`
	RecordID uint       `json:"record_id"`
	DueDate  model.Date `json:"due_date" swaggertype:"string" example:"2024-03-01"`
}

type ReturnByBookAndUserRequest struct {
	BookID FlexID `json:"book_id" binding:"required" swaggertype:"integer" example:"1"`
	UserID FlexID `json:"user_id" binding:"required" swaggertype:"integer" example:"1"`
}

type OpenLoan struct {
	ID         uint       `json:"id"`
	BookID     uint       `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	BorrowDate model.Date `json:"borrow_date" swaggertype:"string" example:"2024-01-01"`
	DueDate    model.Date `json:"due_date" swaggertype:"string" example:"2024-03-01"`
	IsOverdue  bool       `json:"is_overdue"`
}

type LoanRecord struct {
	ID         uint        `json:"id"`
	BookID     uint        `json:"book_id"`
	BookTitle  string      `json:"book_title"`
	BorrowDate model.Date  `json:"borrow_date" swaggertype:"string" example:"2024-01-01"`
	DueDate    model.Date  `json:"due_date" swaggertype:"string" example:"2024-03-01"`
	ReturnDate *model.Date `json:"return_date" swaggertype:"string" example:"2024-02-10"`
	Returned   bool        `json:"returned"`
	IsOverdue  bool        `json:"is_overdue"`
}

type UserHomeResponse struct {
	Username      string       `json:"username"`
	BorrowedBooks []OpenLoan   `json:"borrowed_books"`
	AllRecords    []LoanRecord `json:"all_records"`
	Now           time.Time    `json:"now"`
}
