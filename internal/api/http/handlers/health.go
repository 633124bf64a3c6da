package handlers

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/weisyn/bookshelf/internal/api/http/types"
	"github.com/weisyn/bookshelf/internal/app/version"
)

// HealthHandler 健康检查端点处理器
//
// 提供三层健康检查端点：
// - /health: 完整健康报告
// - /health/live: 存活检查
// - /health/ready: 就绪检查，合约未绑定时返回 503
type HealthHandler struct {
	startTime time.Time
	service   LibraryService
	contract  common.Address
	endpoint  string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(service LibraryService, contract common.Address, endpoint string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		service:   service,
		contract:  contract,
		endpoint:  endpoint,
	}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	health := r.Group("/health")
	{
		health.GET("", h.GetHealth)
		health.GET("/live", h.GetLiveness)
		health.GET("/ready", h.GetReadiness)
	}
}

// GetHealth 获取完整健康状态
//
// 合约未就绪时整体状态为 degraded，仍返回 200。
func (h *HealthHandler) GetHealth(c *gin.Context) {
	view := h.service.View()

	signer := map[string]interface{}{"status": "disconnected"}
	if addr, ok := h.service.Signer(); ok {
		signer = map[string]interface{}{"status": "connected", "address": addr.Hex()}
	}

	contract := map[string]interface{}{
		"address": h.contract.Hex(),
		"ready":   view.Ready,
		"busy":    view.Loading,
	}
	if view.Error != nil {
		contract["last_error"] = *view.Error
	}

	status, readiness := "healthy", "ready"
	if !view.Ready {
		status, readiness = "degraded", "not_ready"
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    status,
		Liveness:  "ok",
		Readiness: readiness,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
		Components: map[string]interface{}{
			"node":     map[string]interface{}{"endpoint": h.endpoint},
			"signer":   signer,
			"contract": contract,
			"version":  version.GetBuildInfo(),
		},
	})
}

// GetLiveness 存活检查，总是返回 200
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetReadiness 就绪检查
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	if !h.service.View().Ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
