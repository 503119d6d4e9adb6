// Package http ragbridge API
//
//	@title			ragbridge API
//	@version		1.0
//	@description	Documentation-RAG service bootstrap: autoloaded routes, action rules and scrape target management
//
// @host		localhost:3000
// @BasePath	/
package http

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ragbridge/docs"
	"ragbridge/internal/autoroute"
	"ragbridge/internal/bootstrap"
	"ragbridge/internal/transport/http/handler"
	"ragbridge/internal/transport/http/middleware"
)

// NewRouter wires the application in one pass. Installation order matters:
// CORS first, then error normalization and decoration so every route
// registered afterwards is covered, then the documented and autoloaded
// routes.
func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.ErrorHandler(app.Log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Decorate(app.DB, app.Log, app.Config))
	router.Use(middleware.Metrics())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if app.Config.Actions.Enabled {
		router.GET("/actions.json", handler.Actions(app.Config.App.BasePath))
	}

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	api := router.Group("/api")
	if app.Config.RateLimit.Enabled {
		api.Use(middleware.RateLimit(app.Redis, app.Config.RateLimit))
	}

	ragHandler := handler.NewRAGHandler(app)
	v1 := api.Group("/v1")
	ragGroup := v1.Group("/rag")
	ragGroup.GET("/targets", ragHandler.ListTargets)
	ragGroup.GET("/targets/:name", ragHandler.GetTarget)
	ragGroup.POST("/refresh", ragHandler.Refresh)

	if err := autoroute.Register(router, app.Config.Routes.Dir, autoroute.Options{
		JWTSecret: app.Config.Auth.JWTSecret,
	}); err != nil {
		return nil, fmt.Errorf("autoload routes failed: %w", err)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router, nil
}
