package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/service"
	"github.com/snnyvrz/libmanage/internal/validation"
)

type BookHandler struct {
	catalog CatalogService
}

func NewBookHandler(catalog CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.GET("/", h.ListBooks)
		books.POST("/create/", h.CreateBook)
		books.PUT("/update/:id/", h.UpdateBook)
		books.POST("/update/:id/", h.UpdateBook)
		books.PUT("/update_status/:id/", h.UpdateBookStatus)
		books.DELETE("/delete/:id/", h.DeleteBook)
		books.GET("/isbn/:isbn/", h.GetBookByISBN)
		books.GET("/:identifier/", h.GetBook)
	}
}

// ListBooks godoc
// @Summary      List books
// @Description  Get every book in the catalog ordered by id
// @Tags         books
// @Produce      json
// @Success      200  {object}  ListBooksResponse
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/ [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.catalog.ListBooks(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListBooksResponse(books))
}

// CreateBook godoc
// @Summary      Create a book
// @Description  Add a book to the catalog. Category defaults to OTHER and status to AVAILABLE
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateBookRequest          true  "Book to create"
// @Success      201      {object}  CreateBookResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      409      {object}  validation.ErrorResponse   "ISBN already exists"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/create/ [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	book, err := h.catalog.CreateBook(c.Request.Context(), service.BookInput{
		Title:    req.Title,
		Author:   req.Author,
		ISBN:     req.ISBN,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateBookResponse{
		Message: "book created",
		BookID:  book.ID,
	})
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Replace every editable field of a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Book ID"
// @Param        payload  body      UpdateBookRequest   true  "New field values"
// @Success      200      {object}  MessageResponse
// @Failure      400      {object}  validation.ErrorResponse   "Validation error"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      409      {object}  validation.ErrorResponse   "ISBN used by another book, or book is borrowed"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/update/{id}/ [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "book not found")
		return
	}

	var req UpdateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	book, err := h.catalog.UpdateBook(c.Request.Context(), id, service.BookInput{
		Title:    req.Title,
		Author:   req.Author,
		ISBN:     req.ISBN,
		Category: req.Category,
		Status:   req.Status,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("book %q updated", book.Title),
	})
}

// UpdateBookStatus godoc
// @Summary      Update a book's status
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Book ID"
// @Param        payload  body      UpdateBookStatusRequest   true  "New status"
// @Success      200      {object}  MessageResponse
// @Failure      400      {object}  validation.ErrorResponse   "Missing or invalid status"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      409      {object}  validation.ErrorResponse   "Borrowed book cannot go under repair"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/update_status/{id}/ [put]
func (h *BookHandler) UpdateBookStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "book not found")
		return
	}

	var req UpdateBookStatusRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	book, err := h.catalog.UpdateBookStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("book %q status set to %s", book.Title, book.Status),
	})
}

// DeleteBook godoc
// @Summary      Delete a book
// @Description  Remove a book that is neither borrowed nor under repair
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  validation.ErrorResponse   "Book not found"
// @Failure      409  {object}  validation.ErrorResponse   "Book is borrowed or under repair"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/delete/{id}/ [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "book not found")
		return
	}

	if err := h.catalog.DeleteBook(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "book deleted"})
}

// GetBook godoc
// @Summary      Get a book by id or ISBN
// @Description  A numeric identifier is tried as an id first and then as an ISBN
// @Tags         books
// @Produce      json
// @Param        identifier  path      string  true  "Book ID or ISBN"
// @Success      200         {object}  BookResponse
// @Failure      404         {object}  validation.ErrorResponse   "Book not found"
// @Failure      500         {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/{identifier}/ [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	book, err := h.catalog.LookupBook(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}

// GetBookByISBN godoc
// @Summary      Get a book by ISBN
// @Tags         books
// @Produce      json
// @Param        isbn  path      string  true  "ISBN"
// @Success      200   {object}  BookResponse
// @Failure      404   {object}  validation.ErrorResponse   "Book not found"
// @Failure      500   {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/isbn/{isbn}/ [get]
func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	book, err := h.catalog.GetBookByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}
