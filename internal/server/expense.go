package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/tigfin/tigfin/internal/expense/domain"
)

// @Summary      Create Expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body expensedomain.CreateExpenseRequest true "Create Expense Request"
// @Success      200  {object}  expensedomain.Expense
// @Router       /expenses [post]
func (s *Server) CreateExpense(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req expensedomain.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Expenses
// @Description  List expenses with optional category, status and date filters
// @Tags         expenses
// @Produce      json
// @Param        category  query  string  false  "Category"
// @Param        status    query  string  false  "Status"
// @Param        from      query  string  false  "From date (YYYY-MM-DD)"
// @Param        to        query  string  false  "To date (YYYY-MM-DD, exclusive)"
// @Success      200  {object}  []expensedomain.Expense
// @Router       /expenses [get]
func (s *Server) ListExpenses(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from date"))
		return
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to date"))
		return
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), userID, expensedomain.ListExpensesRequest{
		Category: strings.TrimSpace(c.Query("category")),
		Status:   strings.TrimSpace(c.Query("status")),
		From:     from,
		To:       to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  expensedomain.Expense
// @Router       /expenses/{id} [get]
func (s *Server) GetExpenseByID(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.expenseSvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id       path  string                              true  "Expense ID"
// @Param        request  body  expensedomain.UpdateExpenseRequest  true  "Update Expense Request"
// @Success      200  {object}  expensedomain.Expense
// @Router       /expenses/{id} [patch]
func (s *Server) UpdateExpense(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req expensedomain.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.expenseSvc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Expense
// @Tags         expenses
// @Produce      json
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  map[string]string
// @Router       /expenses/{id} [delete]
func (s *Server) DeleteExpense(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.expenseSvc.Delete(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(time.DateOnly, value, time.UTC)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
