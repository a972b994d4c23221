package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"registrar/cmd/middleware"
	"registrar/internal/service"
)

type Routers struct {
	Service      service.Service
	Log          *zerolog.Logger
	AllowOrigins []string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(gin.Recovery())
	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(corsMiddleware(r.AllowOrigins))

	apiGroup := app.Group("/v1")
	apiGroup.POST("/registrations", r.Service.Submit)

	app.GET("/health", r.Service.Health)

	return app
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	for _, o := range origins {
		if o == "*" {
			return cors.Default()
		}
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
	})
}
