package model

import "time"

type BorrowRecord struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index:ix_borrow_records_user_book,priority:1"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BookID     uint      `gorm:"not null;index:ix_borrow_records_user_book,priority:2;index"`
	Book       Book      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BorrowDate time.Time `gorm:"not null;index"`
	DueDate    time.Time `gorm:"not null"`
	ReturnDate *time.Time
	Returned   bool `gorm:"not null;default:false;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOverdue compares calendar days only. An open record is overdue once its
// due date has passed; a closed one when it came back after the due date.
func (r BorrowRecord) IsOverdue(today time.Time) bool {
	due := DateOf(r.DueDate)
	if r.Returned {
		return r.ReturnDate != nil && DateOf(*r.ReturnDate).After(due)
	}
	return due.Before(DateOf(today))
}
