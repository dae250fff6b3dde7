package router

import (
	"imagen-gateway/internal/handler"
	"imagen-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ImagenRouter struct {
	imagenHandler       *handler.ImagenHandler
	sessionMiddleware   *middleware.Session
	ratelimitMiddleware *middleware.RateLimit
}

func NewImagenRouter(
	imagenHandler *handler.ImagenHandler,
	sessionMiddleware *middleware.Session,
	ratelimitMiddleware *middleware.RateLimit,
) *ImagenRouter {
	return &ImagenRouter{
		imagenHandler:       imagenHandler,
		sessionMiddleware:   sessionMiddleware,
		ratelimitMiddleware: ratelimitMiddleware,
	}
}

func (imagenRouter *ImagenRouter) RegisterRoutes(engine *gin.Engine) {
	router := engine.Group("/api/ai/imagen")
	router.Use(imagenRouter.sessionMiddleware.Handler())

	// 只有生成路由計入限流
	generate := router.Group("")
	generate.Use(imagenRouter.ratelimitMiddleware.Guard())
	{
		generate.POST("/generate", imagenRouter.imagenHandler.Generate)
		generate.POST("/image-to-image", imagenRouter.imagenHandler.ImageToImage)
	}

	router.GET("/test", imagenRouter.imagenHandler.TestModels)
	router.GET("/test-auth", imagenRouter.imagenHandler.TestAuth)
}
