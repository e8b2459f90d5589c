package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/codetrack/internal/app/controllers"
	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/middleware"
	"github.com/yigit/codetrack/internal/pkg/websocket"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth       *controllers.AuthController
	Department *controllers.DepartmentController
	Staff      *controllers.StaffController
	Platform   *controllers.PlatformController
	Snapshot   *controllers.SnapshotController
	Analytics  *controllers.AnalyticsController
	ReviewFeed *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/me", c.Auth.Me)
	authenticated.GET("/ws/reviews", c.ReviewFeed.HandleConnection)

	departments := authenticated.Group("/departments")
	{
		departments.GET("", c.Department.GetAllDepartments)
		departments.POST("", c.Department.CreateDepartment)
		departments.GET("/:id", c.Department.GetDepartmentByID)
		departments.DELETE("/:id", c.Department.DeleteDepartment)
		departments.GET("/:id/leaderboard", c.Department.GetLeaderboard)
	}

	authenticated.PUT("/students/:id/department", c.Staff.AssignStudentDepartment)

	staff := authenticated.Group("/staff")
	{
		staff.POST("", c.Staff.CreateStaff)
		staff.GET("/team", c.Staff.ListTeam)
		staff.POST("/advisors/:id/students", c.Staff.AssignAdvisorStudents)
		staff.POST("/counsellors/:id/students", c.Staff.AssignCounsellorStudents)
	}

	platforms := authenticated.Group("/platforms")
	{
		platforms.POST("", c.Platform.Link)
		platforms.GET("", c.Platform.ListMine)
		platforms.DELETE("/:id", c.Platform.Unlink)
	}

	snapshots := authenticated.Group("/snapshots")
	{
		snapshots.POST("", c.Snapshot.Submit)
		snapshots.GET("/account/:accountId", c.Snapshot.ListByAccount)
		snapshots.GET("/account/:accountId/latest", c.Snapshot.Latest)
	}

	reviews := authenticated.Group("/reviews")
	{
		reviews.GET("/pending", c.Snapshot.Pending)
		reviews.PUT("/:id/approve", c.Snapshot.Approve)
		reviews.PUT("/:id/reject", c.Snapshot.Reject)
	}

	analytics := authenticated.Group("/analytics")
	{
		analytics.GET("/me", c.Analytics.MySummary())
		analytics.GET("/accounts/:accountId/growth", c.Analytics.AccountGrowth)

		advisor := analytics.Group("/advisor")
		{
			advisor.GET("/students", c.Analytics.AdvisorStudents())
			advisor.GET("/students/:id", c.Analytics.AdvisorStudentDetail)
		}

		counsellor := analytics.Group("/counsellor")
		{
			counsellor.GET("/summary", c.Analytics.CounsellorSummary())
			counsellor.GET("/students", c.Analytics.CounsellorStudents())
			counsellor.GET("/at-risk", c.Analytics.CounsellorAtRisk())
		}

		// Role-protected institution views
		institution := analytics.Group("/institution")
		institution.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			institution.GET("/summary", c.Analytics.InstitutionSummary())
			institution.GET("/departments", c.Analytics.DepartmentPerformance())
			institution.GET("/top-performers", c.Analytics.TopPerformers)
			institution.GET("/at-risk", c.Analytics.InstitutionAtRisk())
		}
	}
}
