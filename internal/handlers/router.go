package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/archivus/archive-service/internal/authz"
	"github.com/archivus/archive-service/internal/services"
	"github.com/archivus/archive-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	documentHandler  *DocumentHandler
	dashboardHandler *DashboardHandler
	lookupHandler    *LookupHandler
	aboutHandler     *AboutHandler
	authMiddleware   *AuthMiddleware

	serviceManager services.ServiceManager
	logger         utils.Logger
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		documentHandler:  NewDocumentHandler(serviceManager.Document(), serviceManager.Export(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), serviceManager.Points(), logger),
		lookupHandler:    NewLookupHandler(serviceManager.Lookup(), logger),
		aboutHandler:     NewAboutHandler(serviceManager.About(), logger),
		authMiddleware:   NewAuthMiddleware(serviceManager.Token(), logger),
		serviceManager:   serviceManager,
		logger:           logger,
	}
}

// SetupRoutes registers the full API surface.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")

	// Public surface.
	auth := v1.Group("/auth")
	{
		auth.POST("/register/", hm.authHandler.Register)
		auth.POST("/login/", hm.authHandler.Login)
		auth.POST("/oauth/", hm.authHandler.OAuthLogin)
		auth.POST("/refresh/", hm.authHandler.Refresh)
	}

	lookups := v1.Group("/lookups")
	{
		lookups.GET("/degree-levels/", hm.lookupHandler.DegreeLevels)
		lookups.GET("/programs/", hm.lookupHandler.Programs)
		lookups.GET("/programs/:program_id/courses/", hm.lookupHandler.Courses)
		lookups.GET("/academic-years/", hm.lookupHandler.AcademicYears)
		lookups.GET("/semesters/", hm.lookupHandler.Semesters)
	}

	v1.GET("/about-us/", hm.aboutHandler.GetAboutUs)

	// Authenticated surface.
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.Authenticate())
	{
		authed.POST("/auth/logout/", hm.authHandler.Logout)
		authed.GET("/dashboard/", hm.dashboardHandler.GetDashboard)
		authed.GET("/points/history/", hm.dashboardHandler.GetPointsHistory)

		documents := authed.Group("/documents")
		{
			documents.POST("/upload/", hm.documentHandler.Upload)
			documents.GET("/", hm.documentHandler.List)
			documents.GET("/export/",
				hm.authMiddleware.Require(authz.AdminOnly, authz.ActionExportDocs),
				hm.documentHandler.Export)
			documents.GET("/:id/", hm.documentHandler.Get)
			documents.PUT("/:id/", hm.documentHandler.Update)
			documents.PATCH("/:id/", hm.documentHandler.Update)
			documents.DELETE("/:id/", hm.documentHandler.Delete)
			documents.GET("/:id/history/", hm.documentHandler.History)
			documents.PATCH("/:id/status/",
				hm.authMiddleware.Require(authz.AdminOrStaff, authz.ActionReviewDocument),
				hm.documentHandler.ChangeStatus)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "archive-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
