package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/handler"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Attendance *handler.AttendanceHandler
	Student    *handler.StudentHandler
	Class      *handler.ClassHandler
	Grade      *handler.GradeHandler
	Points     *handler.PointsHandler
	Reason     *handler.ReasonHandler
	Reward     *handler.RewardHandler
	User       *handler.UserHandler
	Report     *handler.ReportHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.Authenticator,
	handlers *Handlers,
	loginLimiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID before logging so every log line can carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	// Workbooks are already zip-compressed.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Skipper: func(c *gin.Context) bool {
			return strings.HasSuffix(c.Request.URL.Path, ".xlsx")
		},
	}))

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authAPI := router.Group("/api/v1/auth")
	authAPI.Use(middleware.NoStore())
	{
		authAPI.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)

		authAPI.POST("/logout", middleware.RequireAuth(auth), handlers.Auth.Logout)
		authAPI.GET("/me", middleware.RequireAuth(auth), handlers.Auth.Me)
	}

	// ─── 2. Staff API (JWT + capabilities) ─────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.NoStore(), middleware.RequireAuth(auth))
	{
		// Attendance
		api.GET("/attendance/today",
			middleware.RequireCapability(model.CapAttendanceMark),
			handlers.Attendance.Today,
		)
		api.POST("/attendance/mark",
			middleware.RequireCapability(model.CapAttendanceMark),
			handlers.Attendance.Mark,
		)
		api.PUT("/attendance/today/status",
			middleware.RequireCapability(model.CapSessionsManage),
			handlers.Attendance.SetStatus,
		)

		// Students
		api.GET("/students",
			middleware.RequireCapability(model.CapStudentsRead),
			handlers.Student.ListStudents,
		)
		api.POST("/students",
			middleware.RequireCapability(model.CapStudentsWrite),
			handlers.Student.CreateStudent,
		)
		api.GET("/students/:id",
			middleware.RequireCapability(model.CapStudentsRead),
			handlers.Student.GetStudent,
		)
		api.PUT("/students/:id",
			middleware.RequireCapability(model.CapStudentsWrite),
			handlers.Student.UpdateStudent,
		)
		api.DELETE("/students/:id",
			middleware.RequireCapability(model.CapStudentsWrite),
			handlers.Student.DeleteStudent,
		)
		api.GET("/students/:id/balance",
			middleware.RequireCapability(model.CapStudentsRead),
			handlers.Student.GetBalance,
		)
		api.GET("/students/:id/transactions",
			middleware.RequireCapability(model.CapStudentsRead),
			handlers.Student.ListTransactions,
		)

		// Classes and grades
		api.GET("/classes",
			middleware.RequireCapability(model.CapStudentsRead),
			handlers.Class.ListClasses,
		)
		api.POST("/classes",
			middleware.RequireCapability(model.CapEnrollmentWrite),
			handlers.Class.CreateClass,
		)
		api.PUT("/classes/:id",
			middleware.RequireCapability(model.CapEnrollmentWrite),
			handlers.Class.UpdateClass,
		)
		api.DELETE("/classes/:id",
			middleware.RequireCapability(model.CapEnrollmentWrite),
			handlers.Class.DeleteClass,
		)
		api.GET("/grades",
			middleware.RequireCapability(model.CapStudentsRead),
			handlers.Grade.ListGrades,
		)
		api.POST("/grades",
			middleware.RequireCapability(model.CapEnrollmentWrite),
			handlers.Grade.CreateGrade,
		)
		api.PUT("/grades/:id",
			middleware.RequireCapability(model.CapEnrollmentWrite),
			handlers.Grade.UpdateGrade,
		)
		api.DELETE("/grades/:id",
			middleware.RequireCapability(model.CapEnrollmentWrite),
			handlers.Grade.DeleteGrade,
		)

		// Points. Manual grants are refused per role by the service so the
		// response carries MANUAL_POINTS_FORBIDDEN.
		api.POST("/points/grant",
			middleware.RequireCapability(model.CapPointsGrant),
			handlers.Points.GrantByReason,
		)
		api.POST("/points/manual",
			middleware.RequireCapability(model.CapPointsGrant),
			handlers.Points.GrantManual,
		)

		// Reason catalog
		api.GET("/reasons",
			middleware.RequireCapability(model.CapReasonsRead),
			handlers.Reason.ListReasons,
		)
		api.GET("/reasons/usable",
			middleware.RequireCapability(model.CapReasonsRead),
			handlers.Reason.UsableReasons,
		)
		api.POST("/reasons",
			middleware.RequireCapability(model.CapReasonsManage),
			handlers.Reason.CreateReason,
		)
		api.PUT("/reasons/:id",
			middleware.RequireCapability(model.CapReasonsManage),
			handlers.Reason.UpdateReason,
		)
		api.DELETE("/reasons/:id",
			middleware.RequireCapability(model.CapReasonsManage),
			handlers.Reason.DisableReason,
		)

		// Rewards and purchases
		api.GET("/rewards",
			middleware.RequireCapability(model.CapRewardsRead),
			handlers.Reward.ListRewards,
		)
		api.POST("/rewards",
			middleware.RequireCapability(model.CapRewardsManage),
			handlers.Reward.CreateReward,
		)
		api.PUT("/rewards/:id",
			middleware.RequireCapability(model.CapRewardsManage),
			handlers.Reward.UpdateReward,
		)
		api.DELETE("/rewards/:id",
			middleware.RequireCapability(model.CapRewardsManage),
			handlers.Reward.DisableReward,
		)
		api.POST("/purchases",
			middleware.RequireCapability(model.CapPurchasesCreate),
			handlers.Reward.Purchase,
		)

		// Staff accounts and class assignments
		api.GET("/assignments",
			middleware.RequireCapability(model.CapAssignmentsManage),
			handlers.User.ListAssignments,
		)
		api.POST("/assignments",
			middleware.RequireCapability(model.CapAssignmentsManage),
			handlers.User.AddAssignment,
		)
		api.DELETE("/assignments",
			middleware.RequireCapability(model.CapAssignmentsManage),
			handlers.User.RemoveAssignment,
		)
		api.GET("/users",
			middleware.RequireCapability(model.CapUsersManage),
			handlers.User.ListUsers,
		)
		api.POST("/users",
			middleware.RequireCapability(model.CapUsersManage),
			handlers.User.CreateUser,
		)
		api.PUT("/users/:id",
			middleware.RequireCapability(model.CapUsersManage),
			handlers.User.UpdateUser,
		)
		api.DELETE("/users/:id",
			middleware.RequireCapability(model.CapUsersManage),
			handlers.User.DisableUser,
		)

		// Audit and reports
		api.GET("/logs",
			middleware.RequireCapability(model.CapAuditRead),
			handlers.Report.ListLogs,
		)
		api.GET("/reports/balances.xlsx",
			middleware.RequireCapability(model.CapReportsExport),
			handlers.Report.BalancesXLSX,
		)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAuth(auth))
	{
		ws.GET("/attendance/feed",
			middleware.RequireCapability(model.CapAttendanceMark),
			handlers.WS.AttendanceFeed,
		)
	}

	return router
}
