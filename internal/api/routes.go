package api

import (
	"net/http"

	"coachpack/internal/domain"
	"coachpack/internal/service"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every service the HTTP surface needs. Billing may be
// nil when no payment processor is configured; its routes then respond
// 503 through the service error.
type Handlers struct {
	Auth     service.AuthService
	Goals    service.GoalService
	Calendar service.CalendarService
	Wheel    service.WheelService
	Values   service.ValuesService
	Vision   service.VisionService
	Billing  service.BillingService
	Admin    service.AdminService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, h Handlers) {
	authHandler := NewAuthHandler(h.Auth)
	goalHandler := NewGoalHandler(h.Goals)
	calendarHandler := NewCalendarHandler(h.Calendar)
	wheelHandler := NewWheelHandler(h.Wheel)
	valuesHandler := NewValuesHandler(h.Values)
	visionHandler := NewVisionHandler(h.Vision)
	billingHandler := NewBillingHandler(h.Billing, h.Auth)
	adminHandler := NewAdminHandler(h.Admin)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		// --- Goal Routes ---
		goalGroup := protected.Group("/goals")
		{
			goalGroup.GET("", goalHandler.GetGoals)
			goalGroup.GET("/:category", goalHandler.GetGoal)
			goalGroup.PUT("/:category", goalHandler.SetGoal)
			goalGroup.POST("/:category/milestones/:milestoneId/toggle", goalHandler.ToggleMilestone)
		}

		// --- Calendar Routes ---
		calendarGroup := protected.Group("/calendar")
		{
			calendarGroup.GET("/events", calendarHandler.ListEvents)
			calendarGroup.POST("/events", calendarHandler.CreateEvent)
			calendarGroup.DELETE("/events/:eventId", calendarHandler.DeleteEvent)
			calendarGroup.PATCH("/events/:eventId/date", calendarHandler.UpdateEventDate)
			calendarGroup.PATCH("/events/:eventId/time", calendarHandler.UpdateEventTime)
			// :eventId also accepts projected milestone ids ("milestone-" prefix)
			calendarGroup.POST("/events/:eventId/toggle", calendarHandler.ToggleCompleted)

			calendarGroup.GET("/pool", calendarHandler.GetPool)
			calendarGroup.POST("/drop", calendarHandler.Drop)
			calendarGroup.GET("/view", calendarHandler.GetView)
		}

		// --- Wheel of Life Routes ---
		wheelGroup := protected.Group("/wheel")
		{
			wheelGroup.GET("", wheelHandler.GetWheel)
			wheelGroup.PUT("", wheelHandler.SaveWheel)
			wheelGroup.POST("/import", wheelHandler.ImportWheel)
			wheelGroup.GET("/export", wheelHandler.ExportWheel)
		}

		// --- Values Routes ---
		valuesGroup := protected.Group("/values")
		{
			valuesGroup.GET("", valuesHandler.GetValues)
			valuesGroup.PUT("", valuesHandler.SaveValues)
		}

		// --- Vision Board Routes ---
		visionGroup := protected.Group("/vision")
		{
			visionGroup.GET("", visionHandler.GetBoard)
			visionGroup.PUT("", visionHandler.SaveBoard)
			visionGroup.POST("/items/:itemId/upload-url", visionHandler.ItemUploadURL)
			visionGroup.GET("/items/:itemId/image-url", visionHandler.ItemImageURL)
		}

		// --- Billing Routes ---
		billingGroup := protected.Group("/billing")
		{
			billingGroup.POST("/checkout", billingHandler.CreateCheckout)
			billingGroup.POST("/confirm", billingHandler.ConfirmCheckout)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/users/export", adminHandler.ExportUsers)
		}
	}
}
