package main

import (
	"github.com/gin-gonic/gin"

	"github.com/careerhub/careerhub/backend/internal/handlers"
	"github.com/careerhub/careerhub/backend/internal/middleware"
	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for unauthenticated auth endpoints
	authLimiter := middleware.NewRateLimiter(10, 20)

	db := models.GetDB()

	// Handlers
	membershipHandler := handlers.NewMembershipHandler(svc.membershipService)
	companyHandler := handlers.NewCompanyHandler(db, svc.membershipService, svc.notifier)
	positionHandler := handlers.NewPositionHandler(db, svc.membershipService)
	applicationHandler := handlers.NewApplicationHandler(svc.applicationService)
	notificationHandler := handlers.NewNotificationHandler(svc.notifier)
	dashboardHandler := handlers.NewDashboardHandler(db, svc.membershipService, svc.applicationService)
	userHandler := handlers.NewUserHandler(db)
	systemLogHandler := handlers.NewSystemLogHandler(db)
	sseHandler := handlers.NewSSEHandler(services.GetPresenceHub())
	healthHandler := handlers.NewHealthHandler()

	// Health check
	r.GET("/health", healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Public browse routes
		api.GET("/companies", companyHandler.List)
		api.GET("/companies/:id", companyHandler.Get)
		api.GET("/positions", positionHandler.List)
		api.GET("/positions/:id", positionHandler.Get)

		// SSE stream (public route with internal token validation, because
		// EventSource cannot send an Authorization header)
		api.GET("/notifications/stream", sseHandler.StreamNotifications)

		// Protected routes (writes are recorded to system_logs)
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Profile
			protected.PUT("/users/me", userHandler.UpdateProfile)

			// Companies
			protected.POST("/companies", companyHandler.Create)
			protected.PUT("/companies/:id", companyHandler.Update)
			protected.DELETE("/companies/:id", companyHandler.Delete)
			protected.GET("/companies/mine", companyHandler.ListOwned)
			protected.POST("/companies/:id/transfer", companyHandler.TransferOwnership)

			// Membership
			protected.POST("/companies/:id/join", membershipHandler.RequestToJoin)
			protected.POST("/companies/:id/invite", membershipHandler.Invite)
			protected.POST("/companies/:id/respond", membershipHandler.Respond)
			protected.POST("/companies/:id/leave", membershipHandler.Leave)
			protected.GET("/companies/:id/members", membershipHandler.ListMembers)
			protected.DELETE("/companies/:id/members/:userId", membershipHandler.Remove)
			protected.GET("/companies/:id/requests", membershipHandler.ListRequests)
			protected.GET("/companies/:id/my-role", membershipHandler.GetMyRole)
			protected.GET("/memberships", membershipHandler.ListMyMemberships)

			// Positions
			protected.POST("/positions", positionHandler.Create)
			protected.PUT("/positions/:id", positionHandler.Update)
			protected.DELETE("/positions/:id", positionHandler.Delete)
			protected.POST("/positions/:id/save", positionHandler.Save)
			protected.DELETE("/positions/:id/save", positionHandler.Unsave)
			protected.GET("/positions/saved", positionHandler.ListSaved)

			// Applications
			protected.POST("/positions/:id/apply", applicationHandler.Apply)
			protected.GET("/applications", applicationHandler.List)
			protected.GET("/applications/statistics", applicationHandler.Statistics)
			protected.GET("/applications/:id", applicationHandler.Get)
			protected.PUT("/applications/:id/status", applicationHandler.UpdateStatus)
			protected.GET("/applications/:id/available-statuses", applicationHandler.GetAvailableStatuses)
			protected.GET("/applications/:id/history", applicationHandler.GetHistory)
			protected.POST("/applications/:id/withdraw", applicationHandler.Withdraw)
			protected.DELETE("/applications/:id", applicationHandler.Delete)
			protected.POST("/applications/:id/notes", applicationHandler.AddNote)
			protected.GET("/applications/:id/notes", applicationHandler.ListNotes)
			protected.DELETE("/applications/notes/:noteId", applicationHandler.DeleteNote)

			// Notifications
			protected.GET("/notifications", notificationHandler.List)
			protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
			protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

			// Dashboards
			protected.GET("/dashboard/candidate", dashboardHandler.Candidate)
			protected.GET("/dashboard/company/:id", dashboardHandler.Company)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			admin.GET("/dashboard", dashboardHandler.Admin)

			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id/role", userHandler.UpdateRole)
			admin.PUT("/users/:id/active", userHandler.SetActive)
			admin.PUT("/users/:id/password", userHandler.ResetPassword)
			admin.DELETE("/users/:id", userHandler.Delete)

			admin.GET("/logs", systemLogHandler.List)
			admin.GET("/logs/modules", systemLogHandler.GetModules)
			admin.GET("/logs/retention", systemLogHandler.GetRetentionDays)
			admin.PUT("/logs/retention", systemLogHandler.SetRetentionDays)
			admin.POST("/logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
