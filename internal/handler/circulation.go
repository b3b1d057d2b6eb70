package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/validation"
)

const msgUserIDRequired = "user_id is required"

type CirculationHandler struct {
	circulation CirculationService
}

func NewCirculationHandler(circulation CirculationService) *CirculationHandler {
	return &CirculationHandler{circulation: circulation}
}

func (h *CirculationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/user_home/", h.UserHome)

	books := r.Group("/books")
	{
		books.POST("/borrow/:book_id/", h.Borrow)
		books.POST("/return/:record_id/", h.Return)
		books.POST("/return_by_book_and_user/", h.ReturnByBookAndUser)
	}
}

// Borrow godoc
// @Summary      Borrow a book
// @Description  Lend an available book to a user for the loan period
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Param        book_id  path      int            true  "Book ID"
// @Param        payload  body      BorrowRequest  true  "Borrowing user"
// @Success      200      {object}  BorrowResponse
// @Failure      400      {object}  validation.ErrorResponse   "Invalid body"
// @Failure      401      {object}  validation.ErrorResponse   "Missing or unknown user"
// @Failure      404      {object}  validation.ErrorResponse   "Book not found"
// @Failure      409      {object}  validation.ErrorResponse   "Book not available"
// @Router       /books/borrow/{book_id}/ [post]
func (h *CirculationHandler) Borrow(c *gin.Context) {
	bookID, ok := parseUintParam(c, "book_id")
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "book not found")
		return
	}

	var req BorrowRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}
	if req.UserID == 0 {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", msgUserIDRequired)
		return
	}

	record, err := h.circulation.Borrow(c.Request.Context(), bookID, uint(req.UserID))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	due := model.NewDate(record.DueDate)
	c.JSON(http.StatusOK, BorrowResponse{
		Message:  fmt.Sprintf("%s borrowed, due %s", record.Book.Title, due),
		RecordID: record.ID,
		DueDate:  due,
	})
}

// Return godoc
// @Summary      Return a borrowed book
// @Tags         circulation
// @Produce      json
// @Param        record_id  path      int  true  "Borrow record ID"
// @Success      200        {object}  MessageResponse
// @Failure      404        {object}  validation.ErrorResponse   "Borrow record not found"
// @Failure      409        {object}  validation.ErrorResponse   "Already returned"
// @Failure      500        {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/return/{record_id}/ [post]
func (h *CirculationHandler) Return(c *gin.Context) {
	recordID, ok := parseUintParam(c, "record_id")
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "borrow record not found")
		return
	}

	record, err := h.circulation.Return(c.Request.Context(), recordID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s returned", record.Book.Title),
	})
}

// ReturnByBookAndUser godoc
// @Summary      Return a book by book and user
// @Description  Close the most recent open borrow record of the pair
// @Tags         circulation
// @Accept       json
// @Produce      json
// @Param        payload  body      ReturnByBookAndUserRequest  true  "Book and user"
// @Success      200      {object}  MessageResponse
// @Failure      400      {object}  validation.ErrorResponse   "Missing book_id or user_id"
// @Failure      404      {object}  validation.ErrorResponse   "No open borrow record"
// @Failure      500      {object}  validation.ErrorResponse   "Internal server error"
// @Router       /books/return_by_book_and_user/ [post]
func (h *CirculationHandler) ReturnByBookAndUser(c *gin.Context) {
	var req ReturnByBookAndUserRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.circulation.ReturnByBookAndUser(c.Request.Context(), uint(req.BookID), uint(req.UserID))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s returned", record.Book.Title),
	})
}

// UserHome godoc
// @Summary      User dashboard
// @Description  Open loans and full borrowing history of a user, newest first
// @Tags         circulation
// @Produce      json
// @Param        user_id  query     int  true  "User ID"
// @Success      200      {object}  UserHomeResponse
// @Failure      401      {object}  validation.ErrorResponse   "Missing user_id"
// @Failure      404      {object}  validation.ErrorResponse   "User not found"
// @Router       /user_home/ [get]
func (h *CirculationHandler) UserHome(c *gin.Context) {
	raw := c.Query("user_id")
	if raw == "" {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", msgUserIDRequired)
		return
	}

	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}

	d, err := h.circulation.Dashboard(c.Request.Context(), uint(userID))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserHomeResponse(d))
}
