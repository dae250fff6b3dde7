package handler

import (
	"context"
	"net/http"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/database/client"
	"imagen-gateway/internal/pkg/response"
	"imagen-gateway/internal/service"

	"github.com/gin-gonic/gin"
)

const redisPingTimeout = 2 * time.Second

type HealthHandler struct {
	healthStatus *service.HealthService
	config       *config.Configuration
	redis        *client.RedisClient
}

func NewHealthHandler(status *service.HealthService, config *config.Configuration, redis *client.RedisClient) *HealthHandler {
	return &HealthHandler{healthStatus: status, config: config, redis: redis}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthStatus.IsLive() {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
		return
	}
	c.Status(http.StatusServiceUnavailable)
}

// Readiness 由 cron 憑證檢查更新；有啟用 Redis 時一併 ping
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.healthStatus.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": h.healthStatus.Reason()})
		return
	}
	if h.redis.Enabled() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), redisPingTimeout)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "reason": "redis: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, response.Envelope("service is alive", "ok"))
	c.Abort()
}
