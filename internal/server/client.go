package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/staffsort/staffsort/internal/client/domain"
)

func (s *Server) ListClients(c *gin.Context) {
	resp, err := s.clientSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClient(c *gin.Context) {
	resp, err := s.clientSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSettingsRequest struct {
	CompanyName       *string `json:"company_name"`
	ReplyToEmail      *string `json:"reply_to_email"`
	LogoURL           *string `json:"logo_url"`
	EmailEnabled      *bool   `json:"email_enabled"`
	MonthlyEmailQuota *int    `json:"monthly_email_quota"`
}

func (s *Server) UpdateClientSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.clientSvc.UpdateSettings(c.Request.Context(), c.Param("slug"), clientdomain.UpdateSettingsRequest{
		CompanyName:       req.CompanyName,
		ReplyToEmail:      req.ReplyToEmail,
		LogoURL:           req.LogoURL,
		EmailEnabled:      req.EmailEnabled,
		MonthlyEmailQuota: req.MonthlyEmailQuota,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) SetClientStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	status := clientdomain.Status(strings.ToUpper(strings.TrimSpace(req.Status)))
	resp, err := s.clientSvc.SetStatus(c.Request.Context(), c.Param("slug"), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RotateWebhookSecret(c *gin.Context) {
	resp, err := s.clientSvc.RotateWebhookSecret(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type integrationConnectionRequest struct {
	WorkspaceID    string         `json:"workspace_id"`
	BotID          string         `json:"bot_id"`
	AccessTokenEnc string         `json:"access_token_enc"`
	TokenMeta      map[string]any `json:"token_meta"`
}

func (s *Server) RecordIntegrationConnection(c *gin.Context) {
	var req integrationConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	client, err := s.clientSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clientSvc.RecordIntegrationConnection(c.Request.Context(), client.ID.String(), clientdomain.IntegrationConnection{
		WorkspaceID:    req.WorkspaceID,
		BotID:          req.BotID,
		AccessTokenEnc: req.AccessTokenEnc,
		TokenMeta:      req.TokenMeta,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type resourceSelectionRequest struct {
	CandidatesID string `json:"candidates_id"`
	RolesID      string `json:"roles_id"`
	StagesID     string `json:"stages_id"`
}

func (s *Server) RecordResourceSelection(c *gin.Context) {
	var req resourceSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	client, err := s.clientSvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clientSvc.RecordResourceSelection(c.Request.Context(), client.ID.String(), clientdomain.ResourceSelection{
		CandidatesID: req.CandidatesID,
		RolesID:      req.RolesID,
		StagesID:     req.StagesID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
