package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/staffsort/staffsort/internal/client/domain"
)

type startOnboardingRequest struct {
	CompanyName  string `json:"company_name"`
	ReplyToEmail string `json:"reply_to_email"`
}

func (s *Server) StartOnboarding(c *gin.Context) {
	var req startOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	client, err := s.clientSvc.CreateAccount(c.Request.Context(), clientdomain.CreateAccountRequest{
		CompanyName:  strings.TrimSpace(req.CompanyName),
		ReplyToEmail: strings.TrimSpace(req.ReplyToEmail),
		ProductType:  clientdomain.ProductHiring,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client_id":      client.ID.String(),
		"client_slug":    client.Slug,
		"company_name":   client.CompanyName,
		"payment_status": client.PaymentStatus,
	})
}
