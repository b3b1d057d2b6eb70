package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/service"
)

// parseUintParam reads a numeric path parameter. Non-numeric values are
// reported as not found, like any other unknown id.
func parseUintParam(c *gin.Context, key string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func toBook(b model.Book) Book {
	return Book{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		ISBN:       b.ISBN,
		IsBorrowed: b.IsBorrowed,
		Category:   b.Category,
		Status:     b.Status,
	}
}

func toBookResponse(b model.Book) BookResponse {
	return BookResponse{Book: toBook(b)}
}

func toListBooksResponse(books []model.Book) ListBooksResponse {
	data := make([]Book, 0, len(books))
	for _, b := range books {
		data = append(data, toBook(b))
	}
	return ListBooksResponse{Books: data}
}

func toUserHomeResponse(d *service.Dashboard) UserHomeResponse {
	resp := UserHomeResponse{
		Username:      d.User.Username,
		BorrowedBooks: make([]OpenLoan, 0, len(d.Open)),
		AllRecords:    make([]LoanRecord, 0, len(d.History)),
		Now:           d.Now,
	}

	for _, l := range d.Open {
		resp.BorrowedBooks = append(resp.BorrowedBooks, OpenLoan{
			ID:         l.ID,
			BookID:     l.BookID,
			BookTitle:  l.Book.Title,
			BorrowDate: model.NewDate(l.BorrowDate),
			DueDate:    model.NewDate(l.DueDate),
			IsOverdue:  l.Overdue,
		})
	}

	for _, l := range d.History {
		var returnDate *model.Date
		if l.ReturnDate != nil {
			d := model.NewDate(*l.ReturnDate)
			returnDate = &d
		}

		resp.AllRecords = append(resp.AllRecords, LoanRecord{
			ID:         l.ID,
			BookID:     l.BookID,
			BookTitle:  l.Book.Title,
			BorrowDate: model.NewDate(l.BorrowDate),
			DueDate:    model.NewDate(l.DueDate),
			ReturnDate: returnDate,
			Returned:   l.Returned,
			IsOverdue:  l.Overdue,
		})
	}

	return resp
}
