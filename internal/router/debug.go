package router

import (
	"imagen-gateway/config"
	"imagen-gateway/internal/handler"

	"github.com/gin-gonic/gin"
)

type DebugRouter struct {
	config       *config.Configuration
	debugHandler *handler.DebugHandler
}

func NewDebugRouter(config *config.Configuration, debugHandler *handler.DebugHandler) *DebugRouter {
	return &DebugRouter{config: config, debugHandler: debugHandler}
}

// RegisterRoutes 未開啟 APP.DEBUG_ENABLED 時不註冊
func (debugRouter *DebugRouter) RegisterRoutes(engine *gin.Engine) {
	if !debugRouter.config.App.DebugEnabled {
		return
	}
	engine.GET("/api/debug/env", debugRouter.debugHandler.Env)
}
