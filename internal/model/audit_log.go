package model

import "time"

const (
	BookEntity         = "book"
	BorrowRecordEntity = "borrow_record"
	UserEntity         = "user"
)

type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	Entity    string `gorm:"size:32;not null;index"`
	Action    string `gorm:"size:32;not null"`
	EntityID  uint   `gorm:"not null"`
	Payload   string `gorm:"type:text"`
	CreatedAt time.Time
}
