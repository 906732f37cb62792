package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/staffsort/staffsort/internal/payment/domain"
)

type initializePaymentRequest struct {
	Email       string `json:"email"`
	AmountMinor int64  `json:"amount_minor"`
	CallbackURL string `json:"callback_url"`
}

func (s *Server) InitializePayment(c *gin.Context) {
	var req initializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.paymentSvc.Initiate(c.Request.Context(), paymentdomain.InitiateRequest{
		Slug:        c.Param("slug"),
		Email:       strings.TrimSpace(req.Email),
		AmountMinor: req.AmountMinor,
		CallbackURL: strings.TrimSpace(req.CallbackURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) VerifyPayment(c *gin.Context) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		AbortWithError(c, paymentdomain.ErrInvalidReference)
		return
	}

	resp, err := s.paymentSvc.Verify(c.Request.Context(), c.Param("slug"), reference)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
