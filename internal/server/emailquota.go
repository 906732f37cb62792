package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) CheckEmailAllowance(c *gin.Context) {
	client, err := s.clientSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	allowance, err := s.quotaSvc.CanSend(c.Request.Context(), client.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": allowance})
}

func (s *Server) RecordEmailSend(c *gin.Context) {
	client, err := s.clientSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.quotaSvc.RecordSend(c.Request.Context(), client.ID.String()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
