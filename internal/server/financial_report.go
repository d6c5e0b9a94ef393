package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	financedomain "github.com/tigfin/tigfin/internal/finance/domain"
)

// @Summary      List Financial Reports
// @Description  Current-month metrics plus generated report metadata
// @Tags         financial-reports
// @Produce      json
// @Param        revenue  query  string  false  "Revenue override"
// @Success      200  {object}  map[string]any
// @Router       /financial-reports [get]
func (s *Server) ListFinancialReports(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	revenue, err := s.revenueInput(c.Query("revenue"))
	if err != nil {
		AbortWithError(c, newValidationError("revenue", "invalid_revenue", "invalid revenue"))
		return
	}

	metrics, err := s.financeSvc.Metrics(c.Request.Context(), userID, s.clock.Now(), revenue)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reports, err := s.financeSvc.ListReports(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": metrics,
		"reports": reports,
	})
}

// @Summary      Generate Financial Report
// @Tags         financial-reports
// @Accept       json
// @Produce      json
// @Param        request body financedomain.GenerateReportRequest true "Generate Report Request"
// @Success      200  {object}  financedomain.FinancialReport
// @Router       /financial-reports/generate [post]
func (s *Server) GenerateFinancialReport(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req financedomain.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.financeSvc.GenerateReport(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Financial Summary
// @Description  Category breakdowns and payments due within seven days
// @Tags         financial-reports
// @Produce      json
// @Success      200  {object}  financedomain.Summary
// @Router       /financial-reports/summary [get]
func (s *Server) FinancialSummary(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	resp, err := s.financeSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Financial Report
// @Tags         financial-reports
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  financedomain.FinancialReport
// @Router       /financial-reports/{id} [get]
func (s *Server) GetFinancialReportByID(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.financeSvc.GetReport(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Financial Report
// @Tags         financial-reports
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  map[string]string
// @Router       /financial-reports/{id} [delete]
func (s *Server) DeleteFinancialReport(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.financeSvc.DeleteReport(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Download Financial Report
// @Description  Document rendering is not implemented; returns the report metadata
// @Tags         financial-reports
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  map[string]any
// @Router       /financial-reports/download/{id} [get]
func (s *Server) DownloadFinancialReport(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	report, err := s.financeSvc.GetReport(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    report,
		"message": "report rendering is not available",
	})
}

// revenueInput parses the revenue override, falling back to the configured
// placeholder when absent.
func (s *Server) revenueInput(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = s.cfg.PlaceholderRevenue
	}
	revenue, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if revenue.Sign() < 0 {
		return decimal.Decimal{}, errors.New("negative_revenue")
	}
	return revenue, nil
}
