package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	configdomain "github.com/smallbiznis/autoscale/internal/scalingconfig/domain"
)

type putGroupConfigRequest struct {
	Data json.RawMessage `json:"data"`
}

// PutGroupConfig creates or overwrites the configuration of a scaling
// group. The payload is stored verbatim and a previously deleted group
// comes back live.
func (s *Server) PutGroupConfig(c *gin.Context) {
	var req putGroupConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Data) == 0 {
		AbortWithError(c, newValidationError("data", "invalid_data", "data is required"))
		return
	}

	resp, err := s.configSvc.Put(c.Request.Context(), configdomain.PutRequest{
		GroupID: strings.TrimSpace(c.Param("groupId")),
		Data:    string(req.Data),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetGroupConfig(c *gin.Context) {
	resp, err := s.configSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("groupId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteGroupConfig(c *gin.Context) {
	if err := s.configSvc.MarkDeleted(c.Request.Context(), strings.TrimSpace(c.Param("groupId"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListGroupConfigs(c *gin.Context) {
	resp, err := s.configSvc.ListByTenant(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListConfigsByDeletedFlag serves the maintenance view over every
// tenant, filtered on the soft delete flag.
func (s *Server) ListConfigsByDeletedFlag(c *gin.Context) {
	var query struct {
		Deleted string `form:"deleted"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	deleted, err := parseOptionalBool(query.Deleted)
	if err != nil {
		AbortWithError(c, newValidationError("deleted", "invalid_deleted", "invalid deleted"))
		return
	}

	flag := true
	if deleted != nil {
		flag = *deleted
	}

	resp, err := s.configSvc.ListByDeletedFlag(c.Request.Context(), flag)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
