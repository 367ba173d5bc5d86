package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/server/http/handlers"
	"github.com/polkiloo/dispatch/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DispatchFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	managerHandler := handlers.NewManagerHandler(facade)
	riderHandler := handlers.NewRiderHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	manager := api.Group("/manager")
	manager.Use(middleware.AuthRequired(facade), middleware.RequireRole(model.RoleManager))
	manager.GET("/dashboard", managerHandler.Dashboard)
	manager.GET("/orders", managerHandler.ListOrders)
	manager.POST("/orders", managerHandler.CreateOrder)
	manager.GET("/orders/:id", managerHandler.GetOrder)
	manager.DELETE("/orders/:id", managerHandler.DeleteOrder)
	manager.POST("/orders/:id/assign", managerHandler.Assign)
	manager.POST("/orders/:id/cancel", managerHandler.Cancel)
	manager.GET("/waitlist", managerHandler.Waitlist)
	manager.GET("/riders", managerHandler.ListRiders)
	manager.GET("/riders/available", managerHandler.AvailableRiders)
	manager.POST("/riders", managerHandler.AddRider)
	manager.DELETE("/riders/:id", managerHandler.RemoveRider)

	rider := api.Group("/rider")
	rider.Use(middleware.AuthRequired(facade), middleware.RequireRole(model.RoleRider))
	rider.GET("/dashboard", riderHandler.Dashboard)
	rider.GET("/orders", riderHandler.Orders)
	rider.POST("/orders/:id/start", riderHandler.Start)
	rider.POST("/orders/:id/complete", riderHandler.Complete)
	rider.PUT("/status", riderHandler.SetStatus)
	rider.PUT("/location", riderHandler.UpdateLocation)

	return engine
}
