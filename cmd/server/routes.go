package main

import (
	"github.com/gin-gonic/gin"
	"github.com/mlazarev/tracknest/internal/middleware"
	"github.com/mlazarev/tracknest/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public auth endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	r.GET("/health", svc.healthHandler.CheckHealth)

	api := r.Group("/api")
	api.Use(middleware.Audit())
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Account
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.PATCH("/auth/me", svc.authHandler.UpdateMe)
			protected.DELETE("/auth/me", svc.authHandler.DeleteMe)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects/:projectId", svc.projectHandler.GetByID)
			protected.PATCH("/projects/:projectId", svc.projectHandler.Update)
			protected.DELETE("/projects/:projectId", svc.projectHandler.Delete)

			// Issues (nested under their project)
			protected.GET("/projects/:projectId/issues", svc.issueHandler.List)
			protected.POST("/projects/:projectId/issues", svc.issueHandler.Create)
			protected.GET("/projects/:projectId/issues/:id", svc.issueHandler.GetByID)
			protected.PATCH("/projects/:projectId/issues/:id", svc.issueHandler.Update)
			protected.DELETE("/projects/:projectId/issues/:id", svc.issueHandler.Delete)

			// Search
			protected.GET("/search", svc.searchHandler.Search)

			// Activity
			protected.GET("/activity", svc.activityHandler.List)
		}
	}
}
