package model

import (
	"time"
)

type Category string

const (
	CategoryScience     Category = "SCIENCE"
	CategoryLanguage    Category = "LANGUAGE"
	CategoryHistory     Category = "HISTORY"
	CategoryFiction     Category = "FICTION"
	CategoryEngineering Category = "ENGINEERING"
	CategoryArt         Category = "ART"
	CategoryComputer    Category = "COMPUTER"
	CategoryOther       Category = "OTHER"
)

var Categories = []Category{
	CategoryScience,
	CategoryLanguage,
	CategoryHistory,
	CategoryFiction,
	CategoryEngineering,
	CategoryArt,
	CategoryComputer,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusDamaged     Status = "DAMAGED"
	StatusUnderRepair Status = "UNDER_REPAIR"
	StatusLost        Status = "LOST"
)

var Statuses = []Status{
	StatusAvailable,
	StatusDamaged,
	StatusUnderRepair,
	StatusLost,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Deletable reports whether a book in this status may be removed from the
// catalog. Borrowed books are never deletable regardless of status.
func (s Status) Deletable() bool {
	return s == StatusAvailable || s == StatusDamaged || s == StatusLost
}

// KeptOnReturn reports whether the status survives a return unchanged.
func (s Status) KeptOnReturn() bool {
	return s == StatusDamaged || s == StatusLost
}

// Column widths of the books table, counted in characters.
const (
	MaxTitleLen  = 100
	MaxAuthorLen = 50
	MaxISBNLen   = 17
)

type Book struct {
	ID         uint     `gorm:"primaryKey"`
	Title      string   `gorm:"size:100;not null"`
	Author     string   `gorm:"size:50;not null"`
	ISBN       string   `gorm:"column:isbn;size:17;not null;uniqueIndex:ux_books_isbn"`
	Category   Category `gorm:"size:50;not null;default:OTHER"`
	IsBorrowed bool     `gorm:"not null;default:false"`
	Status     Status   `gorm:"size:20;not null;default:AVAILABLE;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
