package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/autoscale/pkg/log/ctxlogger"
	"go.uber.org/zap"
)

// ExecuteWebhook handles anonymous capability key execution. It always
// answers 202 so a caller probing keys cannot tell a live key from a
// dead one; the real outcome goes to logs and metrics only.
func (s *Server) ExecuteWebhook(c *gin.Context) {
	version := strings.TrimSpace(c.Param("version"))
	rawKey := strings.TrimSpace(c.Param("key"))

	ctx := c.Request.Context()
	logger := ctxlogger.FromContext(ctx)

	resp, err := s.webhookSvc.ResolveByKey(ctx, version, rawKey)
	if err != nil {
		webhookExecutions.WithLabelValues("rejected").Inc()
		logger.Info("webhook execution rejected", zap.String("capability_version", version))
	} else {
		webhookExecutions.WithLabelValues("accepted").Inc()
		logger.Info("webhook execution accepted",
			zap.String("tenant_id", resp.TenantID),
			zap.String("group_id", resp.GroupID),
			zap.String("policy_id", resp.PolicyID),
			zap.String("webhook_id", resp.ID),
		)
	}

	c.Status(http.StatusAccepted)
}
