package handler

import (
	"os"
	"time"

	"imagen-gateway/config"
	"imagen-gateway/internal/pkg/envreport"
	"imagen-gateway/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type DebugHandler struct {
	config *config.Configuration
	now    func() time.Time
}

func NewDebugHandler(config *config.Configuration) *DebugHandler {
	return &DebugHandler{config: config, now: time.Now}
}

// Env 只回報環境變數是否設定、長度或前綴，不回傳完整內容
// @Summary 檢查部署環境變數
// @Tags Debug
// @Produce json
// @Success 200 {object} envreport.Report
// @Router /api/debug/env [get]
func (h *DebugHandler) Env(c *gin.Context) {
	response.Raw(c, envreport.Build(h.config, os.LookupEnv, h.now()))
}
