package handler

import (
	"github.com/snnyvrz/libmanage/internal/model"
)

type CreateBookRequest struct {
	Title    string         `json:"title" binding:"required,max=100"`
	Author   string         `json:"author" binding:"required,max=50"`
	ISBN     string         `json:"isbn" binding:"required,max=17"`
	Category model.Category `json:"category" binding:"omitempty,book_category" swaggertype:"string" example:"COMPUTER"`
	Status   model.Status   `json:"status" binding:"omitempty,book_status" swaggertype:"string" example:"AVAILABLE"`
}

type UpdateBookRequest struct {
	Title    string         `json:"title" binding:"required,max=100"`
	Author   string         `json:"author" binding:"required,max=50"`
	ISBN     string         `json:"isbn" binding:"required,max=17"`
	Category model.Category `json:"category" binding:"required,book_category" swaggertype:"string" example:"COMPUTER"`
	Status   model.Status   `json:"status" binding:"required,book_status" swaggertype:"string" example:"AVAILABLE"`
}

type UpdateBookStatusRequest struct {
	Status model.Status `json:"status" binding:"required,book_status" swaggertype:"string" example:"DAMAGED"`
}

type Book struct {
	ID         uint           `json:"id"`
	Title      string         `json:"title"`
	Author     string         `json:"author"`
	ISBN       string         `json:"isbn"`
	IsBorrowed bool           `json:"is_borrowed"`
	Category   model.Category `json:"category" swaggertype:"string" example:"COMPUTER"`
	Status     model.Status   `json:"status" swaggertype:"string" example:"AVAILABLE"`
}

type BookResponse struct {
	Book Book `json:"book"`
}

type ListBooksResponse struct {
	Books []Book `json:"books"`
}

type CreateBookResponse struct {
	Message string `json:"message"`
	BookID  uint   `json:"book_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
