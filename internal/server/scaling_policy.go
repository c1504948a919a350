package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	policydomain "github.com/smallbiznis/autoscale/internal/scalingpolicy/domain"
)

type policyRequest struct {
	Data json.RawMessage `json:"data"`
}

func (s *Server) CreatePolicy(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Data) == 0 {
		AbortWithError(c, newValidationError("data", "invalid_data", "data is required"))
		return
	}

	resp, err := s.policySvc.Create(c.Request.Context(), policydomain.CreateRequest{
		GroupID: strings.TrimSpace(c.Param("groupId")),
		Data:    string(req.Data),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetPolicy(c *gin.Context) {
	resp, err := s.policySvc.Get(c.Request.Context(),
		strings.TrimSpace(c.Param("groupId")),
		strings.TrimSpace(c.Param("policyId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePolicy(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Data) == 0 {
		AbortWithError(c, newValidationError("data", "invalid_data", "data is required"))
		return
	}

	resp, err := s.policySvc.Update(c.Request.Context(), policydomain.UpdateRequest{
		GroupID:  strings.TrimSpace(c.Param("groupId")),
		PolicyID: strings.TrimSpace(c.Param("policyId")),
		Data:     string(req.Data),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePolicy(c *gin.Context) {
	err := s.policySvc.MarkDeleted(c.Request.Context(),
		strings.TrimSpace(c.Param("groupId")),
		strings.TrimSpace(c.Param("policyId")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListPolicies(c *gin.Context) {
	resp, err := s.policySvc.ListByGroup(c.Request.Context(), strings.TrimSpace(c.Param("groupId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
