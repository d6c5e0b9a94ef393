package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
)

// @Summary      Create Recurring Payment
// @Tags         recurring-payments
// @Accept       json
// @Produce      json
// @Param        request body paymentdomain.CreateRecurringPaymentRequest true "Create Recurring Payment Request"
// @Success      200  {object}  paymentdomain.RecurringPayment
// @Router       /recurring-payments [post]
func (s *Server) CreateRecurringPayment(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req paymentdomain.CreateRecurringPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.CreateRecurring(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Recurring Payments
// @Description  List recurring payments ordered by next date
// @Tags         recurring-payments
// @Produce      json
// @Success      200  {object}  []paymentdomain.RecurringPayment
// @Router       /recurring-payments [get]
func (s *Server) ListRecurringPayments(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	resp, err := s.paymentSvc.ListRecurring(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Recurring Payment
// @Tags         recurring-payments
// @Produce      json
// @Param        id   path      string  true  "Recurring Payment ID"
// @Success      200  {object}  paymentdomain.RecurringPayment
// @Router       /recurring-payments/{id} [get]
func (s *Server) GetRecurringPaymentByID(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.paymentSvc.GetRecurring(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Recurring Payment
// @Tags         recurring-payments
// @Accept       json
// @Produce      json
// @Param        id       path  string                                       true  "Recurring Payment ID"
// @Param        request  body  paymentdomain.UpdateRecurringPaymentRequest  true  "Update Recurring Payment Request"
// @Success      200  {object}  paymentdomain.RecurringPayment
// @Router       /recurring-payments/{id} [patch]
func (s *Server) UpdateRecurringPayment(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req paymentdomain.UpdateRecurringPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.UpdateRecurring(c.Request.Context(), userID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Recurring Payment
// @Tags         recurring-payments
// @Produce      json
// @Param        id   path      string  true  "Recurring Payment ID"
// @Success      200  {object}  map[string]string
// @Router       /recurring-payments/{id} [delete]
func (s *Server) DeleteRecurringPayment(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.paymentSvc.DeleteRecurring(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Advance Recurring Due Dates
// @Description  Roll every due, active recurring payment forward one cadence step
// @Tags         recurring-payments
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /recurring-payments/update-due-dates [post]
func (s *Server) UpdateRecurringDueDates(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	today := s.clock.Now()
	result, err := s.rollover.RolloverRecurringPayments(c.Request.Context(), userID, today)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	updated := make([]paymentdomain.RecurringPayment, 0, len(result.UpdatedIDs))
	for _, id := range result.UpdatedIDs {
		record, err := s.paymentSvc.GetRecurring(c.Request.Context(), userID, id)
		if err != nil {
			continue
		}
		updated = append(updated, record)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         fmt.Sprintf("Updated %d payments", result.UpdatedCount),
		"updatedPayments": updated,
		"failed":          result.Failed,
	})
}
