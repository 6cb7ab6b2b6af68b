package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"homecare-scheduler-server/internal/config"
	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/handlers"
	"homecare-scheduler-server/internal/middleware"
	"homecare-scheduler-server/internal/models"
	"homecare-scheduler-server/internal/scheduler"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	registry := fields.NewRegistry(db)
	sched := scheduler.NewScheduler(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	patientHandler := handlers.NewPatientHandler(db, registry)
	staffHandler := handlers.NewStaffHandler(db, registry)
	visitHandler := handlers.NewVisitHandler(sched, registry)
	fieldHandler := handlers.NewFieldHandler(registry)
	analyticsHandler := handlers.NewAnalyticsHandler(db, sched)
	exportHandler := handlers.NewExportHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutes := private.Group("/auth")
		{
			authRoutes.GET("/profile", authHandler.GetProfile)
			authRoutes.POST("/change-password", authHandler.ChangePassword)
		}

		// User management (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.DELETE("/:username", userHandler.DeleteUser)
			userRoutes.POST("/:username/reset-password", userHandler.ResetPassword)
		}

		// Patient records
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.POST("", patientHandler.CreatePatient)
			patientRoutes.GET("", patientHandler.GetPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.PUT("/:id", patientHandler.UpdatePatient)       // admin/creator check in handler
			patientRoutes.DELETE("/:id", patientHandler.DeletePatient)    // admin/creator check in handler
			patientRoutes.GET("/:id/emergency-contact", patientHandler.GetEmergencyContact)
		}

		// Staff records
		staffRoutes := private.Group("/staff")
		{
			staffRoutes.POST("", staffHandler.CreateStaff)
			staffRoutes.GET("", staffHandler.GetStaff)
			staffRoutes.GET("/:id", staffHandler.GetStaffByID)
			staffRoutes.PUT("/:id", staffHandler.UpdateStaff)    // admin/creator check in handler
			staffRoutes.DELETE("/:id", staffHandler.DeleteStaff) // admin/creator check in handler
		}

		// Visit scheduling
		visitRoutes := private.Group("/visits")
		{
			visitRoutes.POST("", visitHandler.CreateVisit)
			visitRoutes.GET("", visitHandler.GetVisits)
			visitRoutes.GET("/:id", visitHandler.GetVisitByID)
			visitRoutes.DELETE("/:id", visitHandler.DeleteVisit) // admin/creator check in handler
		}

		// Custom field management (admin only) plus the layout endpoint the
		// form renderer needs (all authenticated users).
		private.GET("/fields/:entity/layout", fieldHandler.GetLayout)
		fieldRoutes := private.Group("/fields")
		fieldRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			fieldRoutes.POST("", fieldHandler.AddField)
			fieldRoutes.GET("/:entity", fieldHandler.ListFields)
			fieldRoutes.PUT("/:entity/reorder", fieldHandler.ReorderFields)
			fieldRoutes.DELETE("/:id", fieldHandler.RemoveField)
		}

		// Dashboard and analytics projections
		private.GET("/dashboard", analyticsHandler.GetDashboard)
		analyticsRoutes := private.Group("/analytics")
		{
			analyticsRoutes.GET("/age-groups", analyticsHandler.GetAgeGroups)
			analyticsRoutes.GET("/staff-workload", analyticsHandler.GetStaffWorkload)
			analyticsRoutes.GET("/visit-types", analyticsHandler.GetVisitTypes)
		}

		// Export sink
		exportRoutes := private.Group("/export")
		{
			exportRoutes.GET("/:table/csv", exportHandler.ExportCSV)
			exportRoutes.GET("/excel", exportHandler.ExportExcel)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
