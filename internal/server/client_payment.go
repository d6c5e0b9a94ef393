package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/tigfin/tigfin/internal/payment/domain"
)

// @Summary      Create Client Payment
// @Tags         client-payments
// @Accept       json
// @Produce      json
// @Param        request body paymentdomain.CreateClientPaymentRequest true "Create Client Payment Request"
// @Success      200  {object}  paymentdomain.ClientPayment
// @Router       /client-payments [post]
func (s *Server) CreateClientPayment(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req paymentdomain.CreateClientPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.CreateClientPayment(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Client Payments
// @Description  List client payments with client name and email, ordered by due date
// @Tags         client-payments
// @Produce      json
// @Success      200  {object}  []paymentdomain.ClientPaymentView
// @Router       /client-payments [get]
func (s *Server) ListClientPayments(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	resp, err := s.paymentSvc.ListClientPayments(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Client Payment
// @Tags         client-payments
// @Produce      json
// @Param        id   path      string  true  "Client Payment ID"
// @Success      200  {object}  paymentdomain.ClientPayment
// @Router       /client-payments/{id} [get]
func (s *Server) GetClientPaymentByID(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := s.paymentSvc.GetClientPayment(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Client Payment
// @Tags         client-payments
// @Accept       json
// @Produce      json
// @Param        id       path  string                                    true  "Client Payment ID"
// @Param        request  body  paymentdomain.UpdateClientPaymentRequest  true  "Update Client Payment Request"
// @Success      200  {object}  paymentdomain.ClientPayment
// @Router       /client-payments/{id} [patch]
func (s *Server) UpdateClientPayment(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req paymentdomain.UpdateClientPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.UpdateClientPayment(c.Request.Context(), userID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Client Payment
// @Tags         client-payments
// @Produce      json
// @Param        id   path      string  true  "Client Payment ID"
// @Success      200  {object}  map[string]string
// @Router       /client-payments/{id} [delete]
func (s *Server) DeleteClientPayment(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.paymentSvc.DeleteClientPayment(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Record Client Payment
// @Description  Append a payment history entry and stamp the last payment date
// @Tags         client-payments
// @Accept       json
// @Produce      json
// @Param        request body paymentdomain.RecordPaymentRequest true "Record Payment Request"
// @Success      200  {object}  paymentdomain.ClientPayment
// @Router       /client-payments/record-payment [post]
func (s *Server) RecordClientPayment(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req paymentdomain.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.RecordPayment(c.Request.Context(), userID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Advance Client Payment Due Dates
// @Description  Roll every due, auto-renewing client payment forward one cadence step
// @Tags         client-payments
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /client-payments/update-due-dates [post]
func (s *Server) UpdateClientPaymentDueDates(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	today := s.clock.Now()
	result, err := s.rollover.RolloverClientPayments(c.Request.Context(), userID, today)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	updated := make([]paymentdomain.ClientPayment, 0, len(result.UpdatedIDs))
	for _, id := range result.UpdatedIDs {
		record, err := s.paymentSvc.GetClientPayment(c.Request.Context(), userID, id)
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
