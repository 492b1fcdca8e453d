package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhijeet-rane/SamaySetu/internal/app/controllers"
	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	staffController *controllers.StaffController,
	adminController *controllers.AdminController,
	departmentController *controllers.DepartmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Every request passes through the authentication middleware; it only
	// annotates the context, the route guards below do the rejecting.
	router.Use(authMiddleware.Authenticate())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.GET("/verify-email", authController.VerifyEmail)
		auth.POST("/resend-verification", authController.ResendVerification)
		auth.POST("/login", authController.Login)
		auth.POST("/change-first-password", authController.ChangeFirstPassword)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.GET("/reset-password", authController.ResetPasswordRedirect)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Staff routes (authenticated TEACHER accounts) ---
	api := router.Group("/api")
	api.Use(authMiddleware.AuthRequired())
	{
		staff := api.Group("/staff")
		staff.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
		{
			staff.GET("/profile", staffController.GetProfile)
			staff.PUT("/profile", staffController.UpdateProfile)
			staff.POST("/change-password", staffController.ChangePassword)
		}

		departments := api.Group("/departments")
		{
			departments.GET("", departmentController.GetAllDepartments)
			departments.GET("/:id", departmentController.GetDepartmentByID)
		}
	}

	// --- Admin routes ---
	admin := router.Group("/admin")
	admin.Use(authMiddleware.AuthRequired(), authMiddleware.RoleRequired(string(models.RoleAdmin)))
	{
		admin.GET("/staff", adminController.ListStaff)
		admin.GET("/staff/pending", adminController.ListPendingStaff)
		admin.POST("/create-staff", adminController.CreateStaff)
		admin.POST("/upload-staff", adminController.UploadStaff)
		admin.GET("/download-staff-template", adminController.DownloadStaffTemplate)
		admin.PUT("/update-staff/:id", adminController.UpdateStaff)
		admin.POST("/staff/:id/approve", adminController.ApproveStaff)
		admin.POST("/staff/:id/reject", adminController.RejectStaff)
	}
}
