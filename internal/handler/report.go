package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/report"
)

type ReportHandler struct {
	reports ReportService
}

func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type OverdueReportResponse struct {
	Records []OverdueLoan `json:"records"`
}

type OverdueLoan struct {
	report.OverdueLoan
	BorrowDate string `json:"borrow_date" example:"2024-01-01"`
	DueDate    string `json:"due_date" example:"2024-03-01"`
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/overdue/", h.Overdue)
		reports.GET("/summary/", h.Summary)
	}
}

// Overdue godoc
// @Summary      Overdue loans
// @Description  Open loans past their due date, oldest due date first
// @Tags         reports
// @Produce      json
// @Param        as_of  query     string  false  "Report day (YYYY-MM-DD), defaults to today"
// @Success      200  {object}  OverdueReportResponse
// @Failure      400  {object}  validation.ErrorResponse   "Invalid as_of date"
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /reports/overdue/ [get]
func (h *ReportHandler) Overdue(c *gin.Context) {
	asOf, err := model.ParseDate(c.Query("as_of"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_QUERY", "as_of must be a date like 2024-01-31")
		return
	}

	loans, err := h.reports.OverdueLoans(c.Request.Context(), asOf.Time)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "REPORT_FAILED", "failed to build overdue report")
		return
	}

	records := make([]OverdueLoan, 0, len(loans))
	for _, l := range loans {
		records = append(records, OverdueLoan{
			OverdueLoan: l,
			BorrowDate:  model.NewDate(l.BorrowDate).String(),
			DueDate:     model.NewDate(l.DueDate).String(),
		})
	}

	c.JSON(http.StatusOK, OverdueReportResponse{Records: records})
}

// Summary godoc
// @Summary      Circulation summary
// @Description  Book, user and loan counts, with books grouped by status and category
// @Tags         reports
// @Produce      json
// @Success      200  {object}  report.Summary
// @Failure      500  {object}  validation.ErrorResponse   "Internal server error"
// @Router       /reports/summary/ [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "REPORT_FAILED", "failed to build summary report")
		return
	}

	c.JSON(http.StatusOK, summary)
}
