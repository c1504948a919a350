package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	webhookdomain "github.com/smallbiznis/autoscale/internal/webhook/domain"
)

type createWebhookRequest struct {
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata"`
}

// CreateWebhook mints a capability webhook for a policy. The raw
// capability key appears in this response only; afterwards the store
// holds just its hash.
func (s *Server) CreateWebhook(c *gin.Context) {
	var req createWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.webhookSvc.Create(c.Request.Context(), webhookdomain.CreateRequest{
		GroupID:  strings.TrimSpace(c.Param("groupId")),
		PolicyID: strings.TrimSpace(c.Param("policyId")),
		Name:     strings.TrimSpace(req.Name),
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetWebhook(c *gin.Context) {
	resp, err := s.webhookSvc.Get(c.Request.Context(),
		strings.TrimSpace(c.Param("groupId")),
		strings.TrimSpace(c.Param("policyId")),
		strings.TrimSpace(c.Param("webhookId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteWebhook(c *gin.Context) {
	err := s.webhookSvc.MarkDeleted(c.Request.Context(),
		strings.TrimSpace(c.Param("groupId")),
		strings.TrimSpace(c.Param("policyId")),
		strings.TrimSpace(c.Param("webhookId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListWebhooks(c *gin.Context) {
	resp, err := s.webhookSvc.ListByPolicy(c.Request.Context(),
		strings.TrimSpace(c.Param("groupId")),
		strings.TrimSpace(c.Param("policyId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
